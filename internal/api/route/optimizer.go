// Package route reorders a day's visits. Meal slots (restaurants and cafes)
// are time-anchored; everything else is chained by nearest-neighbor distance
// and interleaved back around the meals by start time.
package route

import (
	"math"
	"sort"

	"github.com/S-yujin/Gildam/internal/api/geo"
	"github.com/S-yujin/Gildam/internal/types"
)

// OptimizeDay reorders one day's places: fixed meal slots stay sorted by
// start time, flexible places are rearranged by a greedy nearest-neighbor
// walk and emitted before the first meal that starts after them.
//
// The caller must have validated start times ("HH:MM") beforehand; malformed
// times sort as earliest rather than panicking.
func OptimizeDay(places []types.ScheduledPlace) []types.ScheduledPlace {
	if len(places) <= 2 {
		return places
	}

	var fixed, flexible []types.ScheduledPlace
	for _, p := range places {
		if p.Category.IsMealSlot() {
			fixed = append(fixed, p)
		} else {
			flexible = append(flexible, p)
		}
	}

	sort.SliceStable(fixed, func(i, j int) bool {
		return minutesOf(fixed[i].StartTime) < minutesOf(fixed[j].StartTime)
	})

	flexible = nearestNeighborOrder(flexible)

	// Merge: emit flexible places that start strictly before each meal,
	// preserving their nearest-neighbor order, then the meal itself.
	result := make([]types.ScheduledPlace, 0, len(places))
	flexIdx := 0
	for _, meal := range fixed {
		mealStart := minutesOf(meal.StartTime)
		for flexIdx < len(flexible) && minutesOf(flexible[flexIdx].StartTime) < mealStart {
			result = append(result, flexible[flexIdx])
			flexIdx++
		}
		result = append(result, meal)
	}
	result = append(result, flexible[flexIdx:]...)

	return result
}

// nearestNeighborOrder chains places greedily: start from the first entry in
// original order, then repeatedly take the closest unvisited one. Exact
// distance ties go to the lowest original index, keeping the walk stable.
func nearestNeighborOrder(places []types.ScheduledPlace) []types.ScheduledPlace {
	if len(places) <= 1 {
		return places
	}

	ordered := make([]types.ScheduledPlace, 0, len(places))
	ordered = append(ordered, places[0])
	remaining := append([]types.ScheduledPlace(nil), places[1:]...)

	for len(remaining) > 0 {
		last := ordered[len(ordered)-1]
		nearest := 0
		nearestDist := math.MaxFloat64
		for i, p := range remaining {
			d := geo.Distance(last.Latitude, last.Longitude, p.Latitude, p.Longitude)
			if d < nearestDist {
				nearest = i
				nearestDist = d
			}
		}
		ordered = append(ordered, remaining[nearest])
		remaining = append(remaining[:nearest], remaining[nearest+1:]...)
	}

	return ordered
}

// AnnotateTravel attaches travel time and distance to every place except the
// last, computed against the next stop in the given order.
func AnnotateTravel(places []types.ScheduledPlace) []types.ScheduledPlace {
	for i := 0; i < len(places)-1; i++ {
		cur, next := places[i], places[i+1]

		minutes := geo.TravelTimeMinutes(cur.Latitude, cur.Longitude, next.Latitude, next.Longitude)
		distance := math.Round(geo.Distance(cur.Latitude, cur.Longitude, next.Latitude, next.Longitude)*100) / 100

		places[i].TravelToNextMinutes = &minutes
		places[i].TravelDistanceKm = &distance
	}
	return places
}

// minutesOf converts "HH:MM" to minutes since midnight. Malformed input
// yields -1 so it sorts first instead of corrupting the merge.
func minutesOf(hhmm string) int {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return -1
	}
	h := int(hhmm[0]-'0')*10 + int(hhmm[1]-'0')
	m := int(hhmm[3]-'0')*10 + int(hhmm[4]-'0')
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return -1
	}
	return h*60 + m
}
