package domain

import "fmt"

// Category identifies a product family. Values match the catalogue's
// category ids.
type Category int

const (
	CategorySpareParts    Category = 1
	CategoryRefrigeration Category = 2
	CategoryPhotovoltaic  Category = 3
)

var categoryNames = map[Category]string{
	CategorySpareParts:    "spare_parts",
	CategoryRefrigeration: "refrigeration",
	CategoryPhotovoltaic:  "photovoltaic",
}

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	_, ok := categoryNames[c]
	return ok
}

// String returns the category's catalogue name.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}
