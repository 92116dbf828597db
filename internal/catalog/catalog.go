// Package catalog is the read-only product collaborator. The UI core resolves
// product ids against it but never mutates it.
package catalog

import (
	"errors"
	"strconv"

	"allyshop/internal/config"
)

// ErrProductNotFound is returned for ids the catalog does not know.
var ErrProductNotFound = errors.New("product not found")

// Product is immutable reference data for one catalog entry.
type Product struct {
	ID            int
	Name          string
	Price         int
	OriginalPrice int // 0 means no strike-through price
	Description   string
	Category      string
	Stock         int
	Rating        float64
	ReviewCount   int
}

// Catalog maps product ids to products, preserving configured order.
type Catalog struct {
	products map[int]Product
	order    []int
}

// New builds a catalog from configuration.
func New(products []config.ProductConfig) *Catalog {
	c := &Catalog{products: make(map[int]Product, len(products))}
	for _, p := range products {
		c.products[p.ID] = Product{
			ID:            p.ID,
			Name:          p.Name,
			Price:         p.Price,
			OriginalPrice: p.OriginalPrice,
			Description:   p.Description,
			Category:      p.Category,
			Stock:         p.Stock,
			Rating:        p.Rating,
			ReviewCount:   p.ReviewCount,
		}
		c.order = append(c.order, p.ID)
	}
	return c
}

// Get returns the product with the given id.
func (c *Catalog) Get(id int) (Product, error) {
	p, ok := c.products[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return p, nil
}

// Has reports whether the catalog knows the id.
func (c *Catalog) Has(id int) bool {
	_, ok := c.products[id]
	return ok
}

// All returns every product in configured order.
func (c *Catalog) All() []Product {
	out := make([]Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.products[id])
	}
	return out
}

// Count returns the number of products.
func (c *Catalog) Count() int {
	return len(c.products)
}

// FormatPrice renders a won amount with thousands separators, e.g. 1350000
// becomes "1,350,000".
func FormatPrice(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i, d := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
