package catalog

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/S-yujin/Gildam/internal/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParse_ColumnAliases(t *testing.T) {
	csvData := strings.Join([]string{
		"콘텐츠명,구군,위도,경도,주소,유형,상세내용",
		"숨은바다정원,기장군,35.3000,129.2500,기장군 일광면,관광,조용한 해안 산책로",
	}, "\n")

	places, err := Parse(strings.NewReader(csvData), discardLogger())
	require.NoError(t, err)
	require.Len(t, places, 1)

	p := places[0]
	assert.Equal(t, "숨은바다정원", p.Name)
	assert.Equal(t, "기장군", p.District)
	assert.Equal(t, 35.30, p.Latitude)
	assert.Equal(t, "기장군 일광면", p.Address)
	assert.Equal(t, types.CategorySightseeing, p.Category)
	assert.Contains(t, p.Keywords, "해안 산책로")
}

func TestParse_EnglishAliases(t *testing.T) {
	csvData := strings.Join([]string{
		"name,gu,lat,lon,address,type,detail",
		"Quiet Garden,Gijang,35.30,129.25,Ilgwang-myeon,tour,seaside walk",
	}, "\n")

	places, err := Parse(strings.NewReader(csvData), discardLogger())
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "Quiet Garden", places[0].Name)
}

func TestParse_DropsBadCoordinates(t *testing.T) {
	csvData := strings.Join([]string{
		"name,lat,lon",
		"no coords,,",
		"out of box,37.5,127.0",
		"not numbers,abc,def",
		"fine,35.1,129.0",
	}, "\n")

	places, err := Parse(strings.NewReader(csvData), discardLogger())
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "fine", places[0].Name)
}

func TestParse_DropsBannedNames(t *testing.T) {
	csvData := strings.Join([]string{
		"name,lat,lon",
		"해운대 해수욕장,35.16,129.16",
		"자갈치시장,35.10,129.03",
		"비프광장 BIFF,35.10,129.02",
		"동네 골목길,35.12,129.05",
	}, "\n")

	places, err := Parse(strings.NewReader(csvData), discardLogger())
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "동네 골목길", places[0].Name)
}

func TestParse_CategoryInference(t *testing.T) {
	csvData := strings.Join([]string{
		"name,lat,lon,유형,상세내용,대표메뉴",
		"바닷가 카페,35.1,129.0,,오션뷰,",
		"할매국밥,35.1,129.0,,,돼지국밥",
		"도자기 공방,35.1,129.0,,도예 체험,",
		"골목 마켓,35.1,129.0,,빈티지 쇼핑,",
		"전망대,35.1,129.0,,야경 명소,",
	}, "\n")

	places, err := Parse(strings.NewReader(csvData), discardLogger())
	require.NoError(t, err)
	require.Len(t, places, 5)

	byName := make(map[string]types.Category)
	for _, p := range places {
		byName[p.Name] = p.Category
	}
	assert.Equal(t, types.CategoryCafe, byName["바닷가 카페"])
	assert.Equal(t, types.CategoryRestaurant, byName["할매국밥"])
	assert.Equal(t, types.CategoryExperience, byName["도자기 공방"])
	assert.Equal(t, types.CategoryShopping, byName["골목 마켓"])
	assert.Equal(t, types.CategorySightseeing, byName["전망대"])
}

func TestParse_NullTokensScrubbed(t *testing.T) {
	csvData := strings.Join([]string{
		"name,lat,lon,address",
		"어딘가,35.1,129.0,null",
	}, "\n")

	places, err := Parse(strings.NewReader(csvData), discardLogger())
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Empty(t, places[0].Address)
}

func TestRepository_SnapshotIsImmutable(t *testing.T) {
	repo := NewRepositoryFromPlaces([]types.Place{{Name: "a"}, {Name: "b"}})

	got := repo.Places()
	got[0].Name = "mutated"

	assert.Equal(t, "a", repo.Places()[0].Name)
}
