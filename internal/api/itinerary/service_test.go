package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/S-yujin/Gildam/app/observability/metrics"
	"github.com/S-yujin/Gildam/internal/api/candidate"
	"github.com/S-yujin/Gildam/internal/api/catalog"
	"github.com/S-yujin/Gildam/internal/types"
)

func TestMain(m *testing.M) {
	metrics.InitAppMetrics()
	os.Exit(m.Run())
}

// --- Mocks ---

type MockAIClient struct {
	mock.Mock
}

func (m *MockAIClient) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	args := m.Called(ctx, prompt, config)
	return args.String(0), args.Error(1)
}

// --- Fixtures ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testCatalog builds a mixed-category Busan catalog large enough for a
// two-day trip.
func testCatalog(n int) []types.Place {
	categories := []types.Category{
		types.CategorySightseeing, types.CategorySightseeing,
		types.CategoryRestaurant, types.CategoryCafe,
		types.CategoryExperience, types.CategoryShopping,
	}
	places := make([]types.Place, 0, n)
	for i := 0; i < n; i++ {
		places = append(places, types.Place{
			Name:      fmt.Sprintf("장소-%d", i),
			Address:   fmt.Sprintf("부산 어딘가 %d", i),
			Latitude:  35.05 + float64(i)*0.01,
			Longitude: 128.95 + float64(i)*0.01,
			Category:  categories[i%len(categories)],
			Keywords:  "자연 숲길 조용한 산책",
			District:  "기장군",
		})
	}
	return places
}

func testRequest(days int) types.TripRequest {
	return types.TripRequest{
		Start:    "2025-07-12",
		End:      "2025-07-13",
		Days:     days,
		Purpose:  "재충전",
		Emotions: []string{"힐링"},
		Themes:   []string{"자연"},
	}
}

func newTestService(ai *MockAIClient, places []types.Place) (*ServiceImpl, *int) {
	repo := catalog.NewRepositoryFromPlaces(places)
	selector := candidate.NewSelector(testLogger(), 300*time.Second)

	opts := DefaultOptions()
	svc := NewService(repo, selector, ai, testLogger(), opts)

	sleeps := 0
	svc.sleep = func(time.Duration) { sleeps++ }
	return svc, &sleeps
}

// modelResponse renders a valid model reply for the request, using catalog
// places so names and coordinates line up.
func modelResponse(places []types.Place, days, perDay int) string {
	itinerary := make([]map[string]any, 0, days)
	idx := 0
	for d := 1; d <= days; d++ {
		dayPlaces := make([]map[string]any, 0, perDay)
		hour := 9
		for i := 0; i < perDay; i++ {
			p := places[idx%len(places)]
			idx++
			dayPlaces = append(dayPlaces, map[string]any{
				"name":       p.Name,
				"address":    p.Address,
				"latitude":   p.Latitude,
				"longitude":  p.Longitude,
				"start_time": fmt.Sprintf("%02d:00", hour),
				"end_time":   fmt.Sprintf("%02d:00", hour+1),
				"duration":   60,
				"category":   string(p.Category),
				"reason":     "테마와 잘 어울리는 장소",
			})
			hour += 2
		}
		itinerary = append(itinerary, map[string]any{
			"day": d, "date": "2025-07-12", "title": fmt.Sprintf("%d일차", d),
			"places": dayPlaces,
		})
	}
	buf, _ := json.Marshal(map[string]any{
		"summary":   "여유롭고 편안한 부산 여행",
		"itinerary": itinerary,
	})
	return "```json\n" + string(buf) + "\n```"
}

// --- Tests ---

func TestGenerate_SucceedsFirstAttempt(t *testing.T) {
	places := testCatalog(30)
	ai := new(MockAIClient)
	ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(modelResponse(places, 2, 5), nil).Once()

	svc, sleeps := newTestService(ai, places)
	got, err := svc.Generate(context.Background(), testRequest(2))

	require.NoError(t, err)
	require.Len(t, got.Itinerary, 2)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, 0, *sleeps)
	ai.AssertExpectations(t)

	// Travel annotations on every stop but the last of each day.
	for _, day := range got.Itinerary {
		require.NotEmpty(t, day.Places)
		for i, p := range day.Places {
			if i < len(day.Places)-1 {
				require.NotNil(t, p.TravelToNextMinutes)
				assert.GreaterOrEqual(t, *p.TravelToNextMinutes, 0)
			} else {
				assert.Nil(t, p.TravelToNextMinutes)
			}
		}
	}
}

func TestGenerate_RetriesAfterInvalidOutput(t *testing.T) {
	places := testCatalog(30)
	ai := new(MockAIClient)
	ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("여기 일정입니다만 JSON은 아닙니다.", nil).Once()
	ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(modelResponse(places, 2, 5), nil).Once()

	svc, sleeps := newTestService(ai, places)
	got, err := svc.Generate(context.Background(), testRequest(2))

	require.NoError(t, err)
	assert.Len(t, got.Itinerary, 2)
	assert.Equal(t, 1, *sleeps)
	ai.AssertExpectations(t)
}

func TestGenerate_RateLimitBacksOffThenFallsBack(t *testing.T) {
	places := testCatalog(30)
	ai := new(MockAIClient)
	ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("", fmt.Errorf("%w: 429", types.ErrRateLimited)).Times(3)

	svc, sleeps := newTestService(ai, places)
	got, err := svc.Generate(context.Background(), testRequest(2))

	require.NoError(t, err)
	require.Len(t, got.Itinerary, 2)
	assert.Equal(t, 2, *sleeps)
	ai.AssertExpectations(t)
}

func TestGenerate_FallbackWhenAllAttemptsUnparseable(t *testing.T) {
	places := testCatalog(30)
	ai := new(MockAIClient)
	ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("완전히 망가진 출력", nil).Times(3)

	svc, _ := newTestService(ai, places)
	got, err := svc.Generate(context.Background(), testRequest(2))

	require.NoError(t, err)
	require.Len(t, got.Itinerary, 2)
	for _, day := range got.Itinerary {
		assert.NotEmpty(t, day.Places)
		assert.NotEmpty(t, day.Date)
	}
	assert.NotEmpty(t, got.Summary)
}

func TestGenerate_NoCandidatesIsAnError(t *testing.T) {
	ai := new(MockAIClient)
	svc, _ := newTestService(ai, nil)

	got, err := svc.Generate(context.Background(), testRequest(2))

	assert.Nil(t, got)
	assert.ErrorIs(t, err, types.ErrNoCandidates)
	ai.AssertNotCalled(t, "GenerateContent")
}

func TestGenerate_EndToEndScenario(t *testing.T) {
	places := testCatalog(24)
	ai := new(MockAIClient)
	ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(modelResponse(places, 2, 6), nil).Once()

	svc, _ := newTestService(ai, places)
	got, err := svc.Generate(context.Background(), types.TripRequest{
		Start: "2025-07-12", End: "2025-07-13", Days: 2,
		Purpose: "재충전", Emotions: []string{"힐링"}, Themes: []string{"자연"},
	})

	require.NoError(t, err)
	require.Len(t, got.Itinerary, 2)
	for _, day := range got.Itinerary {
		assert.GreaterOrEqual(t, len(day.Places), 5)
		assert.LessOrEqual(t, len(day.Places), 6)
		for i, p := range day.Places {
			assert.Less(t, p.StartTime, p.EndTime, "day %d place %d", day.Day, i)
			if i < len(day.Places)-1 {
				require.NotNil(t, p.TravelToNextMinutes)
				assert.GreaterOrEqual(t, *p.TravelToNextMinutes, 0)
			}
		}
	}
}
