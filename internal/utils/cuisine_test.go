package utils

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveCuisines(t *testing.T) {
	tests := []struct {
		name     string
		types    []string
		expected []string
	}{
		{
			name:     "specific tag suppresses generic tags",
			types:    []string{"restaurant", "italian_restaurant", "food"},
			expected: []string{"Italian Restaurant"},
		},
		{
			name:     "generic only falls back to Restaurant",
			types:    []string{"restaurant", "food", "establishment"},
			expected: []string{"Restaurant"},
		},
		{
			name:     "multiple specific tags keep input order",
			types:    []string{"point_of_interest", "sushi_restaurant", "bar", "japanese_restaurant"},
			expected: []string{"Sushi Restaurant", "Bar", "Japanese Restaurant"},
		},
		{
			name:     "duplicates collapse",
			types:    []string{"cafe", "cafe", "coffee_shop"},
			expected: []string{"Cafe", "Coffee Shop"},
		},
		{
			name:     "meal takeaway is generic",
			types:    []string{"meal_takeaway", "establishment"},
			expected: []string{"Restaurant"},
		},
		{
			name:     "no food tags",
			types:    []string{"establishment", "point_of_interest"},
			expected: []string{},
		},
		{
			name:     "empty input",
			types:    nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveCuisines(tt.types))
		})
	}
}

func TestDeriveCuisines_Deterministic(t *testing.T) {
	input := []string{"thai_restaurant", "restaurant", "vegan_restaurant"}
	first := DeriveCuisines(input)
	for range 10 {
		assert.Equal(t, first, DeriveCuisines(input))
	}
}

func TestCuisineLabel(t *testing.T) {
	assert.Equal(t, "Steak House", CuisineLabel("steak_house"))
	assert.Equal(t, "Middle Eastern Restaurant", CuisineLabel("middle_eastern_restaurant"))
}

func TestMatchingCuisines(t *testing.T) {
	cuisines := []string{"Italian Restaurant", "Pizza Restaurant", "Bar"}

	assert.Equal(t, []string{"Italian Restaurant"}, MatchingCuisines(cuisines, []string{"italian"}))
	assert.Equal(t, []string{"Italian Restaurant", "Pizza Restaurant"},
		MatchingCuisines(cuisines, []string{"RESTAURANT"}))
	assert.Nil(t, MatchingCuisines(cuisines, []string{"Thai"}))
	assert.Nil(t, MatchingCuisines(cuisines, []string{""}))

	assert.True(t, MatchesAnyCuisine(cuisines, []string{"thai", "bar"}))
	assert.False(t, MatchesAnyCuisine(cuisines, nil))
}

func TestKnownCuisineLabels(t *testing.T) {
	labels := KnownCuisineLabels()

	assert.True(t, slices.IsSorted(labels))
	assert.Contains(t, labels, "Italian Restaurant")
	assert.Contains(t, labels, "Steak House")
	assert.Contains(t, labels, GenericCuisineLabel)
	assert.NotContains(t, labels, "Meal Takeaway")
}
