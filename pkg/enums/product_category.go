package enums

import (
	"fmt"
	"strings"
)

// ProductCategory groups catalog items on the storefront.
type ProductCategory string

const (
	ProductCategoryRings     ProductCategory = "rings"
	ProductCategoryNecklaces ProductCategory = "necklaces"
	ProductCategoryEarrings  ProductCategory = "earrings"
	ProductCategoryBracelets ProductCategory = "bracelets"
	ProductCategoryPendants  ProductCategory = "pendants"
	ProductCategoryAnklets   ProductCategory = "anklets"
	ProductCategorySets      ProductCategory = "sets"
	ProductCategoryOther     ProductCategory = "other"
)

var validProductCategories = []ProductCategory{
	ProductCategoryRings,
	ProductCategoryNecklaces,
	ProductCategoryEarrings,
	ProductCategoryBracelets,
	ProductCategoryPendants,
	ProductCategoryAnklets,
	ProductCategorySets,
	ProductCategoryOther,
}

func (c ProductCategory) String() string {
	return string(c)
}

func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

func ParseProductCategory(value string) (ProductCategory, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validProductCategories {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
