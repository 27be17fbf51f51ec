package toyoko

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	json "github.com/goccy/go-json"
)

type trpcQuery struct {
	JSON trpcInput `json:"json"`
	Meta trpcMeta  `json:"meta"`
}

type trpcInput struct {
	HotelCodes     []string `json:"hotelCodes"`
	CheckinDate    string   `json:"checkinDate"`
	CheckoutDate   string   `json:"checkoutDate"`
	NumberOfPeople int      `json:"numberOfPeople"`
	NumberOfRoom   int      `json:"numberOfRoom"`
	SmokingType    string   `json:"smokingType"`
}

type trpcMeta struct {
	Values map[string][]string `json:"values"`
}

// FetchAvailability issues the batched tRPC query for the given hotel
// codes and returns the raw per-hotel availability payload. The inner
// "prices" substructure is returned when present; otherwise the whole
// extracted slot payload is returned so a drifted schema still reaches the
// heuristic parser.
func (c *Client) FetchAvailability(ctx context.Context, hotelCodes []string, sc StayCriteria) (any, error) {
	input := map[string]trpcQuery{
		"0": {
			JSON: trpcInput{
				HotelCodes:     hotelCodes,
				CheckinDate:    sc.CheckinDate,
				CheckoutDate:   sc.CheckoutDate,
				NumberOfPeople: sc.People,
				NumberOfRoom:   sc.Rooms,
				SmokingType:    sc.Smoking,
			},
			Meta: trpcMeta{Values: map[string][]string{
				"checkinDate":  {"Date"},
				"checkoutDate": {"Date"},
			}},
		},
	}
	encoded, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("encode trpc input: %w", err)
	}

	params := url.Values{}
	params.Set("batch", "1")
	params.Set("input", string(encoded))

	var resp any
	if err := c.getJSON(ctx, c.opts.AvailabilityURL, params, &resp); err != nil {
		return nil, fmt.Errorf("availability query: %w", err)
	}

	payload := extractBatchPayload(resp, 0)
	if m, ok := payload.(map[string]any); ok {
		if prices, ok := m["prices"]; ok && prices != nil {
			return prices, nil
		}
	}
	return payload, nil
}

// extractBatchPayload digs result.data.json out of one slot of a tRPC
// batch envelope. The envelope may be an array or an object keyed by the
// slot index; any missing branch yields an empty map.
func extractBatchPayload(resp any, index int) any {
	var node any
	switch v := resp.(type) {
	case []any:
		if index >= 0 && index < len(v) {
			node = v[index]
		}
	case map[string]any:
		node = v[strconv.Itoa(index)]
	}
	m, ok := node.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	result, _ := m["result"].(map[string]any)
	data, _ := result["data"].(map[string]any)
	if j, ok := data["json"]; ok && j != nil {
		return j
	}
	return map[string]any{}
}
