package itinerary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/S-yujin/Gildam/internal/types"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Generate(ctx context.Context, req types.TripRequest) (*types.Itinerary, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Itinerary), args.Error(1)
}

func postGenerate(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/itinerary/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Generate(rr, req)
	return rr
}

func TestHandlerGenerate_OK(t *testing.T) {
	svc := new(MockService)
	svc.On("Generate", mock.Anything, mock.Anything).Return(&types.Itinerary{
		Summary: "테스트 일정",
		Itinerary: []types.DayPlan{
			{Day: 1, Date: "2025-07-12", Title: "1일차", Places: []types.ScheduledPlace{{Name: "어딘가"}}},
		},
	}, nil)

	body := `{"start":"2025-07-12","end":"2025-07-12","days":1,"purpose":"재충전","emotions":["힐링"],"themes":["자연"]}`
	rr := postGenerate(t, NewHandler(svc, testLogger()), body)

	require.Equal(t, http.StatusOK, rr.Code)
	var got types.Itinerary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "테스트 일정", got.Summary)
	require.Len(t, got.Itinerary, 1)
	svc.AssertExpectations(t)
}

func TestHandlerGenerate_MissingFieldsNamed(t *testing.T) {
	svc := new(MockService)
	rr := postGenerate(t, NewHandler(svc, testLogger()), `{"start":"2025-07-12"}`)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	msg, _ := resp["error"].(string)
	for _, field := range []string{"end", "days", "purpose", "emotions", "themes"} {
		assert.Contains(t, msg, field)
	}
	assert.NotContains(t, msg, "start")
	svc.AssertNotCalled(t, "Generate")
}

func TestHandlerGenerate_BadJSON(t *testing.T) {
	svc := new(MockService)
	rr := postGenerate(t, NewHandler(svc, testLogger()), `{not json`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Generate")
}

func TestHandlerGenerate_ServiceFailure(t *testing.T) {
	svc := new(MockService)
	svc.On("Generate", mock.Anything, mock.Anything).Return(nil, types.ErrNoCandidates)

	body := `{"start":"2025-07-12","end":"2025-07-12","days":1,"purpose":"재충전","emotions":["힐링"],"themes":["자연"]}`
	rr := postGenerate(t, NewHandler(svc, testLogger()), body)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
