package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/S-yujin/Gildam/internal/types"
)

const minimalDayJSON = `{
  "summary": "테스트 일정",
  "itinerary": [
    {
      "day": 1,
      "date": "2025-07-12",
      "title": "첫날",
      "places": [
        {
          "name": "어느 골목",
          "address": "부산 어딘가",
          "latitude": 35.1,
          "longitude": 129.0,
          "start_time": "09:00",
          "end_time": "10:00",
          "duration": 60,
          "category": "관광지",
          "reason": "조용한 산책로"
        }
      ]
    }
  ]
}`

func TestParseResponse_BareJSON(t *testing.T) {
	raw, err := ParseResponse(minimalDayJSON)
	require.NoError(t, err)
	assert.Contains(t, raw, "itinerary")
}

func TestParseResponse_FencedJSON(t *testing.T) {
	for _, text := range []string{
		"```json\n" + minimalDayJSON + "\n```",
		"```\n" + minimalDayJSON + "\n```",
	} {
		raw, err := ParseResponse(text)
		require.NoError(t, err)
		assert.Contains(t, raw, "summary")
	}
}

func TestParseResponse_ProseWrappedJSON(t *testing.T) {
	text := "요청하신 일정입니다.\n" + minimalDayJSON + "\n즐거운 여행 되세요!"
	raw, err := ParseResponse(text)
	require.NoError(t, err)
	assert.Contains(t, raw, "itinerary")
}

func TestParseResponse_Garbage(t *testing.T) {
	for _, text := range []string{"", "   ", "죄송합니다, 일정을 만들 수 없습니다.", "{broken"} {
		_, err := ParseResponse(text)
		assert.ErrorIs(t, err, types.ErrParse, "input %q", text)
	}
}

func TestDecodeItinerary(t *testing.T) {
	raw, err := ParseResponse(minimalDayJSON)
	require.NoError(t, err)
	require.NoError(t, ValidateResponse(raw, 1))

	it, err := DecodeItinerary(raw)
	require.NoError(t, err)

	require.Len(t, it.Itinerary, 1)
	day := it.Itinerary[0]
	assert.Equal(t, 1, day.Day)
	require.Len(t, day.Places, 1)
	p := day.Places[0]
	assert.Equal(t, "어느 골목", p.Name)
	assert.Equal(t, types.CategorySightseeing, p.Category)
	assert.Equal(t, 60, p.Duration)
	assert.Equal(t, 35.1, p.Latitude)
}
