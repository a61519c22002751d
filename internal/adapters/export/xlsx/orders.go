package xlsx

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/phenrril/medwear/internal/domain"
)

const (
	SheetOrders = "Orders"
	SheetItems  = "Items"
)

var (
	orderHeader = []any{"Order", "Date", "Status", "Items", "Subtotal", "Shipping", "Tax", "Discount", "Total", "Tracking", "Estimated delivery"}
	itemHeader  = []any{"Order", "Product", "Name", "Size", "Color", "Quantity", "Unit price", "Line total"}
)

// WriteOrders writes the order history as a workbook with one sheet of
// orders and one of their line items.
func WriteOrders(w io.Writer, orders []domain.Order) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetOrders); err != nil {
		return errors.Wrap(err, "rename sheet")
	}
	if _, err := f.NewSheet(SheetItems); err != nil {
		return errors.Wrap(err, "create items sheet")
	}
	if err := setRow(f, SheetOrders, 1, orderHeader); err != nil {
		return err
	}
	if err := setRow(f, SheetItems, 1, itemHeader); err != nil {
		return err
	}

	itemRow := 2
	for i, o := range orders {
		count := 0
		for _, it := range o.Items {
			count += it.Quantity
			row := []any{
				o.OrderNumber, it.ProductID, it.Name, it.Size, it.Color, it.Quantity,
				domain.RoundMoney(it.Price), domain.RoundMoney(it.Price * float64(it.Quantity)),
			}
			if err := setRow(f, SheetItems, itemRow, row); err != nil {
				return err
			}
			itemRow++
		}

		eta := ""
		if o.EstimatedDelivery != nil {
			eta = o.EstimatedDelivery.Format("2006-01-02")
		}
		row := []any{
			o.OrderNumber, o.Date.Format("2006-01-02"), string(o.Status), count,
			domain.RoundMoney(o.Subtotal), domain.RoundMoney(o.Shipping), domain.RoundMoney(o.Tax),
			domain.RoundMoney(o.Discount), domain.RoundMoney(o.Total), o.TrackingNumber, eta,
		}
		if err := setRow(f, SheetOrders, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Wrapf(err, "cell for row %d", row)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return errors.Wrapf(err, "%s row %d", sheet, row)
	}
	return nil
}
