package types

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecommendationKind(t *testing.T) {
	tests := []struct {
		input       string
		expected    RecommendationKind
		expectError bool
	}{
		{input: "highly_rated", expected: HighlyRated},
		{input: "good", expected: HighlyRated},
		{input: "Highly-Rated", expected: HighlyRated},
		{input: "budget", expected: Budget},
		{input: "cheap", expected: Budget},
		{input: "cuisine_match", expected: CuisineMatch},
		{input: "cuisine", expected: CuisineMatch},
		{input: "fancy", expectError: true},
		{input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			kind, err := ParseRecommendationKind(tt.input)
			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalidKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, kind)
		})
	}
}

func TestRecommendationKind_JSON(t *testing.T) {
	data, err := json.Marshal(Recommendation{PlaceID: "p1", Kind: CuisineMatch})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"recommendationType":"cuisine_match"`)

	var kind RecommendationKind
	require.NoError(t, json.Unmarshal([]byte(`"cheap"`), &kind))
	assert.Equal(t, Budget, kind)

	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &kind))

	_, err = json.Marshal(RecommendationKind(9))
	assert.Error(t, err)
}

func TestRecommendation_RatingOrZero(t *testing.T) {
	rating := 4.5
	assert.Equal(t, 4.5, Recommendation{Rating: &rating}.RatingOrZero())
	assert.Equal(t, 0.0, Recommendation{}.RatingOrZero())
}

func TestRecommendationBundle_Set(t *testing.T) {
	var bundle RecommendationBundle
	list := []Recommendation{{PlaceID: "a"}}

	bundle.Set(Budget, list)

	assert.Equal(t, list, bundle.Budget)
	assert.Nil(t, bundle.HighlyRated)
	assert.Nil(t, bundle.CuisineMatch)
}
