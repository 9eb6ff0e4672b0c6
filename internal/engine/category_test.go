package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := map[string]Category{
		"Red Tomato":      CategoryVegetable,
		"Green Peas":      CategoryVegetable,
		"Alphonso MANGO":  CategoryFruit,
		"basmati rice":    CategoryGrain,
		"Sweet Corn":      CategoryGrain,
		"Sweet potato":    CategoryVegetable,
		"Turmeric":        CategoryOther,
		"":                CategoryOther,
		"Pineapple chunk": CategoryFruit,
	}
	for name, want := range tests {
		assert.Equal(t, want, Classify(name), name)
	}
}

func TestClassify_VegetableBeatsGrain(t *testing.T) {
	// "potato" and "oats" both appear; vegetables are checked first.
	assert.Equal(t, CategoryVegetable, Classify("potato oats mix"))
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("Fruits")
	assert.True(t, ok)
	assert.Equal(t, CategoryFruit, c)

	c, ok = ParseCategory(" grain ")
	assert.True(t, ok)
	assert.Equal(t, CategoryGrain, c)

	_, ok = ParseCategory("spices")
	assert.False(t, ok)
}
