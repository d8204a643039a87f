// Package catalog ingests the raw place CSV into the cleaned Place schema:
// column aliases resolved, rows outside the regional bounding box dropped,
// over-popular spots removed, categories inferred from text.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/S-yujin/Gildam/internal/types"
)

// Busan-area coordinate bounds. Rows outside are treated as bad data.
const (
	minLatitude  = 34.8
	maxLatitude  = 36.2
	minLongitude = 128.5
	maxLongitude = 130.0
)

// Over-popular spots are excluded so the planner leans toward lesser-known
// places. Matched case-insensitively against the place name.
var bannedNameSubstrings = []string{
	"해운대", "광안리", "감천문화마을", "자갈치", "국제시장", "BIFF",
}

// Column aliases accepted for each Place field, in preference order.
var (
	nameAliases     = []string{"콘텐츠명", "제목", "name", "장소명"}
	districtAliases = []string{"구군", "gu", "구", "district"}
	latAliases      = []string{"위도", "latitude", "lat"}
	lngAliases      = []string{"경도", "longitude", "lng", "lon"}
	addressAliases  = []string{"주소", "주소 기타", "장소", "address"}
	typeAliases     = []string{"유형", "여행지", "type", "타입"}
	detailAliases   = []string{"상세내용", "detail", "설명"}
	subtitleAliases = []string{"부제", "부제목", "subtitle"}
	spotAliases     = []string{"주요장소", "spot"}
	placeAliases    = []string{"장소", "place"}
	menuAliases     = []string{"대표메뉴", "menu", "메뉴"}
)

// Load reads and cleans the catalog CSV at path.
func Load(path string, logger *slog.Logger) ([]types.Place, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", types.ErrCatalogLoad, path, err)
	}
	defer f.Close()

	places, err := Parse(f, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", types.ErrCatalogLoad, path, err)
	}
	return places, nil
}

// Parse reads catalog rows from r. Separated from Load so tests can feed
// in-memory CSV data.
func Parse(r io.Reader, logger *slog.Logger) ([]types.Place, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols := indexColumns(header)

	var places []types.Place
	dropped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		place, ok := buildPlace(record, cols)
		if !ok {
			dropped++
			continue
		}
		places = append(places, place)
	}

	counts := make(map[types.Category]int)
	for _, p := range places {
		counts[p.Category]++
	}
	logger.Info("catalog loaded",
		slog.Int("places", len(places)),
		slog.Int("dropped", dropped),
		slog.Any("by_category", counts),
	)

	return places, nil
}

type columnIndex map[string]int

func indexColumns(header []string) columnIndex {
	cols := make(columnIndex, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
		if _, seen := cols[h]; !seen {
			cols[h] = i
		}
	}
	return cols
}

// field returns the first non-empty cell among the aliases.
func (c columnIndex) field(record []string, aliases []string) string {
	for _, alias := range aliases {
		idx, ok := c[alias]
		if !ok || idx >= len(record) {
			continue
		}
		if v := scrub(record[idx]); v != "" {
			return v
		}
	}
	return ""
}

// scrub trims a cell and empties textual null tokens.
func scrub(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "null", "none", "nan":
		return ""
	}
	return s
}

func buildPlace(record []string, cols columnIndex) (types.Place, bool) {
	lat, errLat := strconv.ParseFloat(cols.field(record, latAliases), 64)
	lng, errLng := strconv.ParseFloat(cols.field(record, lngAliases), 64)
	if errLat != nil || errLng != nil {
		return types.Place{}, false
	}
	if lat < minLatitude || lat > maxLatitude || lng < minLongitude || lng > maxLongitude {
		return types.Place{}, false
	}

	name := cols.field(record, nameAliases)
	if name == "" {
		return types.Place{}, false
	}
	for _, banned := range bannedNameSubstrings {
		if strings.Contains(strings.ToLower(name), strings.ToLower(banned)) {
			return types.Place{}, false
		}
	}

	keywords := strings.TrimSpace(strings.Join([]string{
		cols.field(record, detailAliases),
		cols.field(record, subtitleAliases),
		cols.field(record, spotAliases),
		cols.field(record, placeAliases),
	}, " "))

	rawType := cols.field(record, typeAliases)
	menu := cols.field(record, menuAliases)

	return types.Place{
		Name:      name,
		Address:   cols.field(record, addressAliases),
		Latitude:  lat,
		Longitude: lng,
		Category:  inferCategory(name, rawType, keywords, menu),
		Keywords:  keywords,
		District:  cols.field(record, districtAliases),
	}, true
}

// inferCategory guesses a category from the row's text fields when the
// source data carries none explicitly.
func inferCategory(name, rawType, keywords, menu string) types.Category {
	text := name + " " + rawType + " " + keywords
	switch {
	case strings.Contains(text, "카페"):
		return types.CategoryCafe
	case menu != "":
		return types.CategoryRestaurant
	case containsAny(text, "체험", "공방", "워크샵"):
		return types.CategoryExperience
	case containsAny(text, "쇼핑", "상점", "마켓"):
		return types.CategoryShopping
	default:
		return types.CategorySightseeing
	}
}

func containsAny(text string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
