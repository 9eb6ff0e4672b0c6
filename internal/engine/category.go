package engine

import "strings"

// Category groups listings for browsing.
type Category string

const (
	CategoryVegetable Category = "vegetable"
	CategoryFruit     Category = "fruit"
	CategoryGrain     Category = "grain"
	CategoryOther     Category = "other"
)

// Categories lists every category in classification priority order, Other last.
var Categories = []Category{CategoryVegetable, CategoryFruit, CategoryGrain, CategoryOther}

var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryVegetable, []string{"tomato", "potato", "onion", "carrot", "cabbage", "spinach", "brinjal", "cauliflower", "beans", "peas"}},
	{CategoryFruit, []string{"mango", "banana", "apple", "orange", "grape", "papaya", "guava", "pomegranate", "watermelon"}},
	{CategoryGrain, []string{"rice", "wheat", "maize", "corn", "millet", "barley", "oats", "sorghum"}},
}

// Classify places a crop name in a category by case-insensitive substring
// match. Vegetables win over fruits, fruits over grains.
func Classify(cropName string) Category {
	name := strings.ToLower(cropName)
	for _, set := range categoryKeywords {
		for _, kw := range set.keywords {
			if strings.Contains(name, kw) {
				return set.category
			}
		}
	}
	return CategoryOther
}

// ParseCategory accepts singular or plural category names ("fruit", "Fruits").
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s")
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}
