package itinerary

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/S-yujin/Gildam/internal/types"
)

const (
	fallbackDayStart        = 9 * 60 // 09:00
	fallbackGapMinutes      = 30
	fallbackMealDuration    = 90
	fallbackDefaultDuration = 60
)

// buildFallback deterministically slices the candidate set into a day-by-day
// plan with sequential time slots. Served when the completion service is
// unreachable or keeps returning invalid output, so the caller always gets a
// structurally valid itinerary. When candidates run short the slicing wraps
// around so every day keeps at least one place.
func buildFallback(req types.TripRequest, candidates []types.Place, logger *slog.Logger) *types.Itinerary {
	startDate, err := time.Parse("2006-01-02", req.Start)
	if err != nil {
		logger.Warn("fallback: unparseable start date, using today", slog.String("start", req.Start))
		startDate = time.Now()
	}

	perDay := len(candidates) / req.Days
	if perDay < 1 {
		perDay = 1
	}
	if perDay > 6 {
		perDay = 6
	}

	days := make([]types.DayPlan, 0, req.Days)
	for dayNum := 0; dayNum < req.Days; dayNum++ {
		var places []types.ScheduledPlace
		current := fallbackDayStart

		for i := 0; i < perDay; i++ {
			place := candidates[(dayNum*perDay+i)%len(candidates)]

			duration := fallbackDefaultDuration
			if place.Category == types.CategoryRestaurant {
				duration = fallbackMealDuration
			}

			places = append(places, types.ScheduledPlace{
				Name:      place.Name,
				Address:   place.Address,
				Latitude:  place.Latitude,
				Longitude: place.Longitude,
				StartTime: formatMinutes(current),
				EndTime:   formatMinutes(current + duration),
				Duration:  duration,
				Category:  place.Category,
				Reason:    fmt.Sprintf("%s 추천 장소입니다.", place.Category),
			})
			current += duration + fallbackGapMinutes
		}

		days = append(days, types.DayPlan{
			Day:    dayNum + 1,
			Date:   startDate.AddDate(0, 0, dayNum).Format("2006-01-02"),
			Title:  fmt.Sprintf("%d일차 일정", dayNum+1),
			Places: places,
		})
	}

	mood := "여유로운"
	if len(req.Emotions) > 0 {
		mood = req.Emotions[0]
	}

	return &types.Itinerary{
		Summary:   fmt.Sprintf("%s 부산 여행 일정입니다.", mood),
		Itinerary: days,
	}
}

// formatMinutes renders minutes since midnight as zero-padded "HH:MM",
// wrapping past midnight so late slots stay valid.
func formatMinutes(m int) string {
	m = m % (24 * 60)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
