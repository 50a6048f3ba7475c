package babybuddy

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type listResponse struct {
	Results []json.RawMessage `json:"results"`
}

// ListGeneric lists api/<collection>/ with an optional query and delivers the
// raw elements of the "results" array.
func (c *Client) ListGeneric(collection string, query QueryValues, cb Callback[[]json.RawMessage]) {
	listGeneric(c, collection, query, func(raw json.RawMessage) (json.RawMessage, error) {
		return raw, nil
	}, cb)
}

func listGeneric[TE any](c *Client, collection string, query QueryValues, decode func(json.RawMessage) (TE, error), cb Callback[[]TE]) {
	dispatch(c, http.MethodGet, listPath(collection, query), nil, decodeList(collection, decode), cb)
}

// readTimeline pages through a child's records in target, decoding each with
// decode. One bad element fails the whole page.
func readTimeline[TE any](c *Client, target string, childID, offset, count int, decode func(json.RawMessage) (TE, error), cb Callback[[]TE]) {
	query := NewQueryValues().
		AddInt("child", childID).
		AddInt("offset", offset).
		AddInt("limit", count)
	listGeneric(c, target, query, decode, cb)
}

func listPath(collection string, query QueryValues) string {
	path := "api/" + collection + "/"
	if qs := query.QueryString(); qs != "" {
		path += "?" + qs
	}
	return path
}

func decodeList[TE any](collection string, decode func(json.RawMessage) (TE, error)) func([]byte) ([]TE, error) {
	return func(body []byte) ([]TE, error) {
		var page listResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, decodeErr(collection+" list", err)
		}
		out := make([]TE, 0, len(page.Results))
		for i, raw := range page.Results {
			item, err := decode(raw)
			if err != nil {
				return nil, decodeErr(collection+" list", fmt.Errorf("result %d: %w", i, err))
			}
			out = append(out, item)
		}
		return out, nil
	}
}
