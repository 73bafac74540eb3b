package domain

import "strings"

type Category string

const (
	CategoryStock  Category = "stock"
	CategoryOption Category = "option"
	CategoryBond   Category = "bond"
	CategoryETF    Category = "etf"
	CategoryComic  Category = "comic"
)

// Categories lists every category in a stable order.
var Categories = []Category{
	CategoryStock,
	CategoryOption,
	CategoryBond,
	CategoryETF,
	CategoryComic,
}

// ParseCategory normalizes free text into a Category. An empty string maps
// to CategoryStock, which is what the asset importers assume by default.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CategoryStock, nil
	}
	c := Category(s)
	if !c.IsValid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
