package types

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Category is the canonical place category. Values are the Korean labels the
// catalog and the model exchange on the wire.
type Category string

const (
	CategorySightseeing Category = "관광지"
	CategoryRestaurant  Category = "식당"
	CategoryCafe        Category = "카페"
	CategoryExperience  Category = "체험"
	CategoryShopping    Category = "쇼핑"
)

// ParseCategory maps free text onto a known category, defaulting to sightseeing.
func ParseCategory(s string) Category {
	switch Category(strings.TrimSpace(s)) {
	case CategoryRestaurant:
		return CategoryRestaurant
	case CategoryCafe:
		return CategoryCafe
	case CategoryExperience:
		return CategoryExperience
	case CategoryShopping:
		return CategoryShopping
	default:
		return CategorySightseeing
	}
}

// IsMealSlot reports whether visits of this category are time-anchored and
// excluded from geographic reordering.
func (c Category) IsMealSlot() bool {
	return c == CategoryRestaurant || c == CategoryCafe
}

// Place is one catalog row after ingestion. Immutable once loaded.
type Place struct {
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Category  Category `json:"category"`
	Keywords  string   `json:"keywords"`
	District  string   `json:"district"`
}

// TripRequest carries the user preferences for one generation request.
type TripRequest struct {
	Start    string   `json:"start"`
	End      string   `json:"end"`
	Days     int      `json:"days"`
	Purpose  string   `json:"purpose"`
	Emotions []string `json:"emotions"`
	Themes   []string `json:"themes"`
}

// Validate checks the required request fields and returns an
// InputValidationError naming every missing one.
func (r TripRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.Start) == "" {
		missing = append(missing, "start")
	}
	if strings.TrimSpace(r.End) == "" {
		missing = append(missing, "end")
	}
	if r.Days < 1 {
		missing = append(missing, "days")
	}
	if strings.TrimSpace(r.Purpose) == "" {
		missing = append(missing, "purpose")
	}
	if len(r.Emotions) == 0 {
		missing = append(missing, "emotions")
	}
	if len(r.Themes) == 0 {
		missing = append(missing, "themes")
	}
	if len(missing) > 0 {
		return &InputValidationError{Missing: missing}
	}
	return nil
}

// ScheduledPlace is a Place placed into a day's timeline by the model (or the
// fallback builder). Travel annotations are attached by the route optimizer
// and are absent on the last stop of a day.
type ScheduledPlace struct {
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Duration  int      `json:"duration"`
	Category  Category `json:"category"`
	Reason    string   `json:"reason"`
	Tips      string   `json:"tips,omitempty"`

	TravelToNextMinutes *int     `json:"travel_to_next,omitempty"`
	TravelDistanceKm    *float64 `json:"travel_distance,omitempty"`
}

// DayPlan is one day of the itinerary. Day numbers are 1-based and contiguous.
type DayPlan struct {
	Day    int              `json:"day"`
	Date   string           `json:"date"`
	Title  string           `json:"title"`
	Places []ScheduledPlace `json:"places"`
}

// Itinerary is the full generation result returned to the caller.
type Itinerary struct {
	ID        uuid.UUID `json:"id,omitempty"`
	Summary   string    `json:"summary"`
	Itinerary []DayPlan `json:"itinerary"`
}

// InputValidationError reports missing required TripRequest fields.
type InputValidationError struct {
	Missing []string
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}
