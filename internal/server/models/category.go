package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/expensekeeper/internal/common"
)

// Category is the closed set of expense categories. The zero value is not a
// valid category.
type Category uint8

const (
	CategoryFood Category = iota + 1
	CategoryTransport
	CategoryEntertainment
	CategoryUtilities
	CategoryShopping
	CategoryHealth
	CategoryOther
)

var categoryNames = [...]string{
	CategoryFood:          "food",
	CategoryTransport:     "transport",
	CategoryEntertainment: "entertainment",
	CategoryUtilities:     "utilities",
	CategoryShopping:      "shopping",
	CategoryHealth:        "health",
	CategoryOther:         "other",
}

// Categories lists every category in enumeration order.
func Categories() []Category {
	return []Category{
		CategoryFood, CategoryTransport, CategoryEntertainment, CategoryUtilities,
		CategoryShopping, CategoryHealth, CategoryOther,
	}
}

// ParseCategory maps the wire name of a category to its value. Matching is
// exact after trimming spaces; anything else is a validation error.
func ParseCategory(s string) (Category, error) {
	name := strings.TrimSpace(s)
	for _, c := range Categories() {
		if categoryNames[c] == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown category %q", common.ErrorValidation, s)
}

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	return c >= CategoryFood && c <= CategoryOther
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
	return categoryNames[c]
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: invalid category %d", common.ErrorValidation, uint8(c))
	}
	return []byte(categoryNames[c]), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
