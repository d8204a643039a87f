package itinerary

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/S-yujin/Gildam/internal/types"
)

var hhmmRe = regexp.MustCompile(`^\d{2}:\d{2}$`)

var requiredPlaceFields = []string{
	"name", "address", "latitude", "longitude",
	"start_time", "end_time", "category", "duration", "reason",
}

// ValidateResponse structurally checks the parsed model output against the
// contract: an itinerary of exactly dayCount days, each with a non-empty
// place list whose entries carry every required field, zero-padded HH:MM
// times and numeric coordinates. Coordinates given as numeric strings are
// coerced in place so the strict decode that follows sees numbers.
func ValidateResponse(raw map[string]any, dayCount int) error {
	rawItinerary, ok := raw["itinerary"]
	if !ok {
		return fmt.Errorf("%w: missing 'itinerary' key", types.ErrValidation)
	}
	days, ok := rawItinerary.([]any)
	if !ok {
		return fmt.Errorf("%w: 'itinerary' is not a list", types.ErrValidation)
	}
	if len(days) != dayCount {
		return fmt.Errorf("%w: got %d days, want %d", types.ErrValidation, len(days), dayCount)
	}

	for i, rawDay := range days {
		day, ok := rawDay.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: day %d is not an object", types.ErrValidation, i+1)
		}
		places, ok := day["places"].([]any)
		if !ok || len(places) == 0 {
			return fmt.Errorf("%w: day %d has no places", types.ErrValidation, i+1)
		}

		for j, rawPlace := range places {
			place, ok := rawPlace.(map[string]any)
			if !ok {
				return fmt.Errorf("%w: day %d place %d is not an object", types.ErrValidation, i+1, j+1)
			}
			if err := validatePlace(place); err != nil {
				return fmt.Errorf("%w (day %d place %d)", err, i+1, j+1)
			}
		}
	}
	return nil
}

func validatePlace(place map[string]any) error {
	for _, field := range requiredPlaceFields {
		if _, ok := place[field]; !ok {
			return fmt.Errorf("%w: missing field %q", types.ErrValidation, field)
		}
	}

	for _, field := range []string{"start_time", "end_time"} {
		s, ok := place[field].(string)
		if !ok || !hhmmRe.MatchString(s) {
			return fmt.Errorf("%w: %s %q is not zero-padded HH:MM", types.ErrValidation, field, place[field])
		}
	}

	for _, field := range []string{"latitude", "longitude"} {
		v, err := asFloat(place[field])
		if err != nil {
			return fmt.Errorf("%w: %s is not numeric: %v", types.ErrValidation, field, place[field])
		}
		place[field] = v
	}

	return nil
}

// asFloat accepts JSON numbers and numeric strings.
func asFloat(v any) (float64, error) {
	switch n := v.(type) {
	case json.Number:
		return n.Float64()
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(n, 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
