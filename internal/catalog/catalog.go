package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

type Category string

const (
	CategoryChleby Category = "chleby"
	CategoryPecivo Category = "pecivo"
	CategorySladke Category = "sladke"
	CategorySlane  Category = "slane"
)

func validCategory(c Category) bool {
	switch c {
	case CategoryChleby, CategoryPecivo, CategorySladke, CategorySlane:
		return true
	}
	return false
}

// AllergenNames is the EU food-allergen legend (numbers 1-14) shown
// next to products.
var AllergenNames = map[int]string{
	1:  "Obiloviny obsahující lepek",
	2:  "Korýši",
	3:  "Vejce",
	4:  "Ryby",
	5:  "Arašídy",
	6:  "Sója",
	7:  "Mléko",
	8:  "Skořápkové plody",
	9:  "Celer",
	10: "Hořčice",
	11: "Sezam",
	12: "Oxid siřičitý a siřičitany",
	13: "Vlčí bob",
	14: "Měkkýši",
}

type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int      `json:"price"` // CZK
	Weight      string   `json:"weight"`
	Image       string   `json:"image"`
	Category    Category `json:"category"`
	Allergens   []int    `json:"allergens"`
	Available   bool     `json:"available"`
}

var ErrBadProduct = errors.New("invalid product")

// Catalog is the read-only product listing, loaded once at startup.
type Catalog struct {
	products []Product
	byID     map[string]Product
}

func New(products []Product) (*Catalog, error) {
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("%w: missing id or name", ErrBadProduct)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrBadProduct, p.ID)
		}
		if p.Price <= 0 {
			return nil, fmt.Errorf("%w: %s has price %d", ErrBadProduct, p.ID, p.Price)
		}
		if !validCategory(p.Category) {
			return nil, fmt.Errorf("%w: %s has category %q", ErrBadProduct, p.ID, p.Category)
		}
		for _, a := range p.Allergens {
			if _, ok := AllergenNames[a]; !ok {
				return nil, fmt.Errorf("%w: %s lists unknown allergen %d", ErrBadProduct, p.ID, a)
			}
		}
		byID[p.ID] = p
	}
	return &Catalog{products: products, byID: byID}, nil
}

// Load reads products from a JSON file. A missing file falls back to
// the built-in assortment so a fresh checkout works out of the box.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(defaultProducts)
		}
		return nil, err
	}
	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("products file %s: %w", path, err)
	}
	return New(products)
}

func (c *Catalog) All() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Get(id string) (Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

func (c *Catalog) ByCategory(category Category) []Product {
	var out []Product
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

func (c *Catalog) Available() []Product {
	var out []Product
	for _, p := range c.products {
		if p.Available {
			out = append(out, p)
		}
	}
	return out
}
