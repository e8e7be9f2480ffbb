package domain

// Product mirrors the catalog document served by the backend. Field names on
// the wire are camelCase, matching the /api/products payloads.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Category      string   `json:"category"`
	Fragrance     string   `json:"fragrance,omitempty"`
	Size          string   `json:"size"`
	Weight        string   `json:"weight"`
	BurnTime      string   `json:"burnTime"`
	Stock         int      `json:"stock"`
	Images        []string `json:"images"`
	Description   string   `json:"description"`
	Rating        float64  `json:"rating"`
	Reviews       int      `json:"reviews"`
	SKU           string   `json:"sku"`
	Featured      bool     `json:"featured"`
	DateAdded     string   `json:"dateAdded"`
}

// FirstImage returns the primary product image, or "" when none exist.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// ProductDraft is the admin create/update payload. Rating, reviews, SKU and
// dateAdded are assigned by the backend.
type ProductDraft struct {
	Name          string   `json:"name" validate:"required"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Category      string   `json:"category" validate:"required"`
	Fragrance     string   `json:"fragrance,omitempty"`
	Size          string   `json:"size" validate:"required"`
	Weight        string   `json:"weight" validate:"required"`
	BurnTime      string   `json:"burnTime" validate:"required"`
	Stock         int      `json:"stock" validate:"gte=0"`
	Images        []string `json:"images" validate:"required,min=1"`
	Description   string   `json:"description" validate:"required"`
	Featured      bool     `json:"featured"`
}
