package normalize

import (
	"encoding/json"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/alex-user-go/getaway/internal/search/types"
)

// Regions extracts autocomplete candidates in upstream order.
func Regions(payload []byte) []types.Region {
	items := gjson.GetBytes(payload, "data.regions").Array()
	regions := make([]types.Region, 0, len(items))
	for _, r := range items {
		regions = append(regions, types.Region{
			ID:   idOf(r, "id"),
			Name: stringOf(r, "", "name"),
			Type: stringOf(r, "", "type"),
		})
	}
	return regions
}

// Full extracts a combined search response: { status, meta, data: [{ serp_item, info, hp? }] }.
// Items whose serp_item carries no identifier are dropped.
func Full(payload []byte) *types.FullResult {
	root := gjson.ParseBytes(payload)

	res := &types.FullResult{
		Status: stringOf(root, "", "status"),
		Raw:    json.RawMessage(root.Raw),
	}
	if m := root.Get("meta"); notNull(m) {
		res.Meta = json.RawMessage(m.Raw)
	}

	for _, it := range root.Get("data").Array() {
		h, ok := Hotel(it.Get("serp_item"))
		if !ok {
			continue
		}
		fi := types.FullItem{Hotel: h}
		if info := it.Get("info"); notNull(info) {
			fi.Info = json.RawMessage(info.Raw)
		}
		if hp := it.Get("hp"); notNull(hp) {
			fi.Rates = rates(hp)
		}
		res.Items = append(res.Items, fi)
	}
	return res
}

// ErrorMessage extracts a failure message from an error response body, trying
// "error.message", a string "error" and "errors.0.title" in order.
func ErrorMessage(body []byte, status int) string {
	root := gjson.ParseBytes(body)
	if msg := stringOf(root, "", "error.message", "error", "errors.0.title"); msg != "" {
		return msg
	}
	return "Request failed: " + strconv.Itoa(status)
}
