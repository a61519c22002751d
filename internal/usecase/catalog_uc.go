package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/phenrril/medwear/internal/domain"
)

const SliceCatalog = "products"

const DefaultPageSize = 12

type Pagination struct {
	CurrentPage int
	TotalPages  int
	PageSize    int
}

type CatalogRequests struct {
	Products domain.Request
	Product  domain.Request
	Featured domain.Request
	Search   domain.Request
}

type CatalogState struct {
	Items       []domain.Product
	Filtered    []domain.Product
	Featured    []domain.Product
	Current     *domain.Product
	Filters     domain.FilterState
	SearchQuery string
	Loading     bool
	Error       string
	Pagination  Pagination
	Requests    CatalogRequests
}

// CatalogUC holds the product catalog: the full fetched collection, the
// filtered view and the active filters.
type CatalogUC struct {
	api domain.APIClient
	s   store[CatalogState]
}

func NewCatalogUC(api domain.APIClient, pageSize int, notify Notifier) *CatalogUC {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &CatalogUC{
		api: api,
		s: store[CatalogState]{
			name:   SliceCatalog,
			notify: notify,
			state: CatalogState{
				Items:      []domain.Product{},
				Filtered:   []domain.Product{},
				Featured:   []domain.Product{},
				Filters:    domain.DefaultFilters(),
				Pagination: Pagination{CurrentPage: 1, TotalPages: 1, PageSize: pageSize},
			},
		},
	}
}

func (uc *CatalogUC) Snapshot() CatalogState {
	var out CatalogState
	uc.s.read(func(st *CatalogState) {
		out = *st
		out.Items = domain.CloneAll(st.Items)
		out.Filtered = domain.CloneAll(st.Filtered)
		out.Featured = domain.CloneAll(st.Featured)
		out.Filters = st.Filters.Clone()
		out.Current = domain.ClonePtr(st.Current)
	})
	return out
}

func startLoading(st *CatalogState) {
	st.Loading = true
	st.Error = ""
}

func failLoading(st *CatalogState, msg string) {
	st.Loading = false
	st.Error = msg
}

// FetchProducts loads one page of the list endpoint with the given filters.
// The results replace both the full and the filtered collection.
func (uc *CatalogUC) FetchProducts(ctx context.Context, page int, filters domain.FilterState) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	var size int
	uc.s.read(func(st *CatalogState) { size = st.Pagination.PageSize })
	params := filters.Params()
	params.Set("page", strconv.Itoa(page))
	params.Set("page_size", strconv.Itoa(size))

	type listed struct {
		items []domain.Product
		count int
	}
	res, err := dispatch(&uc.s, lifecycle[CatalogState, listed]{
		op:       "fetchProducts",
		fallback: "Failed to fetch products",
		pending: func(st *CatalogState) {
			startLoading(st)
			st.Requests.Products = domain.Pending()
		},
		fulfilled: func(st *CatalogState, v listed) {
			st.Loading = false
			st.Items = domain.CloneAll(v.items)
			st.Filtered = domain.CloneAll(v.items)
			if v.count > 0 {
				st.Pagination.TotalPages = (v.count + st.Pagination.PageSize - 1) / st.Pagination.PageSize
			}
			st.Requests.Products = domain.Fulfilled()
		},
		rejected: func(st *CatalogState, msg string) {
			failLoading(st, msg)
			st.Requests.Products = domain.Rejected(msg)
		},
	}, func() (listed, error) {
		resp, err := uc.api.Get(ctx, "/products/", params)
		if err != nil {
			return listed{}, err
		}
		items, count, err := domain.DecodeList[domain.Product](resp.Data)
		return listed{items: items, count: count}, err
	})
	return res.items, err
}

func (uc *CatalogUC) FetchProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	return dispatch(&uc.s, lifecycle[CatalogState, *domain.Product]{
		op:       "fetchProductById",
		fallback: "Failed to fetch product",
		pending: func(st *CatalogState) {
			startLoading(st)
			st.Requests.Product = domain.Pending()
		},
		fulfilled: func(st *CatalogState, p *domain.Product) {
			st.Loading = false
			st.Current = domain.ClonePtr(p)
			st.Requests.Product = domain.Fulfilled()
		},
		rejected: func(st *CatalogState, msg string) {
			failLoading(st, msg)
			st.Requests.Product = domain.Rejected(msg)
		},
	}, func() (*domain.Product, error) {
		return decodeOne[domain.Product](uc.api.Get(ctx, fmt.Sprintf("/products/%d/", id), nil))
	})
}

func (uc *CatalogUC) FetchFeaturedProducts(ctx context.Context) ([]domain.Product, error) {
	return dispatch(&uc.s, lifecycle[CatalogState, []domain.Product]{
		op:       "fetchFeaturedProducts",
		fallback: "Failed to fetch featured products",
		pending: func(st *CatalogState) {
			startLoading(st)
			st.Requests.Featured = domain.Pending()
		},
		fulfilled: func(st *CatalogState, items []domain.Product) {
			st.Loading = false
			st.Featured = domain.CloneAll(items)
			st.Requests.Featured = domain.Fulfilled()
		},
		rejected: func(st *CatalogState, msg string) {
			failLoading(st, msg)
			st.Requests.Featured = domain.Rejected(msg)
		},
	}, func() ([]domain.Product, error) {
		resp, err := uc.api.Get(ctx, "/products/featured/", nil)
		if err != nil {
			return nil, err
		}
		items, _, err := domain.DecodeList[domain.Product](resp.Data)
		return items, err
	})
}

// SearchProducts replaces the filtered view with the search results. The
// full collection is left alone.
func (uc *CatalogUC) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	return dispatch(&uc.s, lifecycle[CatalogState, []domain.Product]{
		op:       "searchProducts",
		fallback: "Failed to search products",
		pending: func(st *CatalogState) {
			startLoading(st)
			st.Requests.Search = domain.Pending()
		},
		fulfilled: func(st *CatalogState, items []domain.Product) {
			st.Loading = false
			st.Filtered = domain.CloneAll(items)
			st.Requests.Search = domain.Fulfilled()
		},
		rejected: func(st *CatalogState, msg string) {
			failLoading(st, msg)
			st.Requests.Search = domain.Rejected(msg)
		},
	}, func() ([]domain.Product, error) {
		resp, err := uc.api.Get(ctx, "/products/search/", url.Values{"q": {query}})
		if err != nil {
			return nil, err
		}
		items, _, err := domain.DecodeList[domain.Product](resp.Data)
		return items, err
	})
}

// SetFilters merges the patch into the active filters and moves back to the
// first page. The filtered view is only recomputed by ApplyFilters.
func (uc *CatalogUC) SetFilters(p domain.FilterPatch) {
	uc.s.update(func(st *CatalogState) {
		st.Filters = st.Filters.Merge(p)
		st.Pagination.CurrentPage = 1
	})
}

// ClearFilters resets the filters and shows the full collection at once.
func (uc *CatalogUC) ClearFilters() {
	uc.s.update(func(st *CatalogState) {
		st.Filters = domain.DefaultFilters()
		st.Filtered = domain.CloneAll(st.Items)
	})
}

func (uc *CatalogUC) ApplyFilters() {
	uc.s.update(func(st *CatalogState) {
		st.Filtered = st.Filters.Apply(st.Items)
	})
}

func (uc *CatalogUC) SetSearchQuery(q string) {
	uc.s.update(func(st *CatalogState) { st.SearchQuery = q })
}

func (uc *CatalogUC) ClearSearchQuery() {
	uc.s.update(func(st *CatalogState) { st.SearchQuery = "" })
}

func (uc *CatalogUC) SetCurrentPage(page int) {
	uc.s.update(func(st *CatalogState) { st.Pagination.CurrentPage = page })
}

// View is the rendered product grid: the filtered view in the given order.
func (uc *CatalogUC) View(key domain.SortKey) []domain.Product {
	var out []domain.Product
	uc.s.read(func(st *CatalogState) { out = domain.SortProducts(domain.CloneAll(st.Filtered), key) })
	return out
}

// LocalPage pages the sorted filtered view on the client, for collections
// the server returns whole.
func (uc *CatalogUC) LocalPage(key domain.SortKey) ([]domain.Product, int) {
	var (
		sorted   []domain.Product
		page     int
		pageSize int
	)
	uc.s.read(func(st *CatalogState) {
		sorted = domain.SortProducts(domain.CloneAll(st.Filtered), key)
		page, pageSize = st.Pagination.CurrentPage, st.Pagination.PageSize
	})
	return domain.Paginate(sorted, page, pageSize)
}
