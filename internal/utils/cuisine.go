package utils

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GenericCuisineLabel is used when a place only carries generic food tags.
const GenericCuisineLabel = "Restaurant"

// foodPlaceTypes is the place-type vocabulary treated as food related.
var foodPlaceTypes = map[string]struct{}{
	"acai_shop":                 {},
	"afghani_restaurant":        {},
	"african_restaurant":        {},
	"american_restaurant":       {},
	"asian_restaurant":          {},
	"bagel_shop":                {},
	"bakery":                    {},
	"bar":                       {},
	"bar_and_grill":             {},
	"barbecue_restaurant":       {},
	"brazilian_restaurant":      {},
	"breakfast_restaurant":      {},
	"brunch_restaurant":         {},
	"buffet_restaurant":         {},
	"cafe":                      {},
	"cafeteria":                 {},
	"candy_store":               {},
	"cat_cafe":                  {},
	"chinese_restaurant":        {},
	"chocolate_factory":         {},
	"chocolate_shop":            {},
	"coffee_shop":               {},
	"confectionery":             {},
	"deli":                      {},
	"dessert_restaurant":        {},
	"dessert_shop":              {},
	"diner":                     {},
	"dog_cafe":                  {},
	"donut_shop":                {},
	"fast_food_restaurant":      {},
	"fine_dining_restaurant":    {},
	"food_court":                {},
	"french_restaurant":         {},
	"greek_restaurant":          {},
	"hamburger_restaurant":      {},
	"ice_cream_shop":            {},
	"indian_restaurant":         {},
	"indonesian_restaurant":     {},
	"italian_restaurant":        {},
	"japanese_restaurant":       {},
	"juice_shop":                {},
	"korean_restaurant":         {},
	"lebanese_restaurant":       {},
	"meal_delivery":             {},
	"meal_takeaway":             {},
	"mediterranean_restaurant":  {},
	"mexican_restaurant":        {},
	"middle_eastern_restaurant": {},
	"pizza_restaurant":          {},
	"pub":                       {},
	"ramen_restaurant":          {},
	"restaurant":                {},
	"sandwich_shop":             {},
	"seafood_restaurant":        {},
	"spanish_restaurant":        {},
	"steak_house":               {},
	"sushi_restaurant":          {},
	"tea_house":                 {},
	"thai_restaurant":           {},
	"turkish_restaurant":        {},
	"vegan_restaurant":          {},
	"vegetarian_restaurant":     {},
	"vietnamese_restaurant":     {},
	"wine_bar":                  {},
}

// genericPlaceTypes never produce a label of their own.
var genericPlaceTypes = map[string]struct{}{
	"restaurant":    {},
	"meal_delivery": {},
	"meal_takeaway": {},
	"food":          {},
}

// DeriveCuisines maps raw place types to human readable cuisine labels.
// Specific food types are labelled in input order without duplicates. When
// none are present a generic food type yields GenericCuisineLabel, and a list
// with no food types at all yields an empty slice.
func DeriveCuisines(placeTypes []string) []string {
	cuisines := []string{}
	seen := make(map[string]struct{}, len(placeTypes))
	hasGeneric := false

	for _, placeType := range placeTypes {
		placeType = strings.ToLower(strings.TrimSpace(placeType))
		if _, ok := genericPlaceTypes[placeType]; ok {
			hasGeneric = true
			continue
		}
		if _, ok := foodPlaceTypes[placeType]; !ok {
			continue
		}

		label := CuisineLabel(placeType)
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		cuisines = append(cuisines, label)
	}

	if len(cuisines) == 0 && hasGeneric {
		cuisines = append(cuisines, GenericCuisineLabel)
	}

	return cuisines
}

// CuisineLabel turns a place type like "steak_house" into "Steak House".
func CuisineLabel(placeType string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(placeType, "_", " "))
}

// KnownCuisineLabels lists the label of every specific food place type plus
// the generic label, sorted.
func KnownCuisineLabels() []string {
	labels := []string{GenericCuisineLabel}
	for placeType := range foodPlaceTypes {
		if _, generic := genericPlaceTypes[placeType]; generic {
			continue
		}
		labels = append(labels, CuisineLabel(placeType))
	}
	slices.Sort(labels)
	return slices.Compact(labels)
}

// MatchingCuisines returns the cuisines containing any preferred cuisine as a
// case-insensitive substring, in cuisines order.
func MatchingCuisines(cuisines []string, preferred []string) []string {
	var matched []string
	for _, cuisine := range cuisines {
		if containsAnyFold(cuisine, preferred) {
			matched = append(matched, cuisine)
		}
	}
	return matched
}

// MatchesAnyCuisine reports whether at least one cuisine matches a preferred cuisine.
func MatchesAnyCuisine(cuisines []string, preferred []string) bool {
	for _, cuisine := range cuisines {
		if containsAnyFold(cuisine, preferred) {
			return true
		}
	}
	return false
}

func containsAnyFold(value string, needles []string) bool {
	lowered := strings.ToLower(value)
	for _, needle := range needles {
		if needle == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(needle)) {
			return true
		}
	}
	return false
}
