package toyoko

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/example/toyoko-monitor/internal/target"
)

// FetchHotels resolves a target to its hotel directory (code → name) via
// the _next/data search endpoint, and returns the display label for the
// target. For area targets the label is upgraded to "Name (id)" when the
// response carries an area name; prefecture responses have no area
// metadata, so their label stays as the raw value.
//
// An empty directory is not an error here; the caller decides whether
// "no hotels" is fatal for the target.
func (c *Client) FetchHotels(ctx context.Context, t target.SearchTarget, sc StayCriteria) (map[string]string, string, error) {
	params := url.Values{}
	key, value := t.QueryParam()
	params.Set(key, value)
	params.Set("people", strconv.Itoa(sc.People))
	params.Set("room", strconv.Itoa(sc.Rooms))
	params.Set("smoking", sc.Smoking)
	params.Set("start", datePart(sc.CheckinDate))
	params.Set("end", datePart(sc.CheckoutDate))

	var data any
	if err := c.getJSON(ctx, c.opts.SearchURL, params, &data); err != nil {
		return nil, t.Display, fmt.Errorf("search %s=%s: %w", key, value, err)
	}

	root, _ := data.(map[string]any)
	pageProps, _ := root["pageProps"].(map[string]any)
	searchResponse, _ := pageProps["searchResponse"].(map[string]any)

	display := t.Display
	if t.IsArea() {
		area, _ := searchResponse["area"].(map[string]any)
		name := strings.TrimSpace(firstString(area["areaName"], area["name"], searchResponse["areaName"]))
		if name != "" {
			display = fmt.Sprintf("%s (%s)", name, t.Value)
		}
	}

	directory := map[string]string{}
	hotels, _ := searchResponse["hotels"].([]any)
	for _, h := range hotels {
		hm, ok := h.(map[string]any)
		if !ok {
			continue
		}
		code := strings.TrimSpace(firstString(hm["hotelCode"], hm["code"]))
		if code == "" {
			continue
		}
		name := strings.TrimSpace(firstString(hm["hotelName"], hm["name"]))
		if name == "" {
			name = code
		}
		directory[code] = name
	}
	return directory, display, nil
}

// datePart reduces a canonical UTC timestamp to the plain date the search
// endpoint expects.
func datePart(iso string) string {
	if len(iso) >= 10 {
		return iso[:10]
	}
	return iso
}

// firstString returns the first value that stringifies to something
// non-empty. Codes occasionally arrive as JSON numbers.
func firstString(values ...any) string {
	for _, v := range values {
		switch s := v.(type) {
		case string:
			if s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64)
		}
	}
	return ""
}
