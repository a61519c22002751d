package domain

type Category string

const (
	CategoryScrubs       Category = "Scrubs"
	CategoryLabCoats     Category = "Lab Coats"
	CategoryMedicalShoes Category = "Medical Shoes"
	CategoryAccessories  Category = "Accessories"
)

// Categories lists the catalog categories in display order.
var Categories = []Category{CategoryScrubs, CategoryLabCoats, CategoryMedicalShoes, CategoryAccessories}

// Product is immutable once fetched; a re-fetch replaces it wholesale.
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    Category `json:"category"`
	Profession  []string `json:"profession"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
	Images      []string `json:"images"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
	InStock     bool     `json:"inStock"`
	Featured    bool     `json:"featured"`
}

// PrimaryImage returns the first image reference or an empty string.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// ProductPage is the paginated list payload of GET /products/.
type ProductPage struct {
	Results  []Product `json:"results"`
	Count    int       `json:"count"`
	Next     *int      `json:"next"`
	Previous *int      `json:"previous"`
}
