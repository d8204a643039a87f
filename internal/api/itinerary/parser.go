package itinerary

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/S-yujin/Gildam/internal/types"
)

var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*\\})\\s*```")

// extractJSON strips optional Markdown code fences and slices out the first
// top-level {...} block. Models frequently wrap the object in fences or
// surround it with prose despite the JSON-only instruction.
func extractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", types.ErrParse)
	}

	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return "", fmt.Errorf("%w: no JSON object in response", types.ErrParse)
	}
	return text[start : end+1], nil
}

// ParseResponse extracts and decodes the model output into the raw itinerary
// shape used by validation. Numbers stay as json.Number so coordinate and
// duration checks can report precise failures.
func ParseResponse(text string) (map[string]any, error) {
	jsonStr, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(strings.NewReader(jsonStr))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrParse, err)
	}
	return raw, nil
}

// DecodeItinerary converts a validated raw mapping into the typed Itinerary.
func DecodeItinerary(raw map[string]any) (*types.Itinerary, error) {
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: re-encoding: %w", types.ErrParse, err)
	}
	var out types.Itinerary
	if err := json.Unmarshal(buf, &out); err != nil {
		return nil, fmt.Errorf("%w: decoding: %w", types.ErrParse, err)
	}
	return &out, nil
}
