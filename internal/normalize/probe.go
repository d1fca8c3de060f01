// Package normalize extracts canonical records from booking API payloads whose
// shape varies between accounts and providers. Every function is total: missing
// or malformed fields degrade to zero values or documented defaults.
package normalize

import (
	"github.com/tidwall/gjson"
)

// check decides whether a probed value is usable.
type check func(gjson.Result) bool

// firstOf returns the first value at paths (relative to r) accepted by ok.
func firstOf(r gjson.Result, ok check, paths ...string) (gjson.Result, bool) {
	for _, p := range paths {
		v := r.Get(p)
		if ok(v) {
			return v, true
		}
	}
	return gjson.Result{}, false
}

func nonEmptyArray(v gjson.Result) bool {
	return v.IsArray() && len(v.Array()) > 0
}

func isObject(v gjson.Result) bool {
	return v.IsObject()
}

func nonEmptyString(v gjson.Result) bool {
	return v.Type == gjson.String && v.Str != ""
}

// present mirrors a truthy scalar: a non-zero number or a non-empty string.
func present(v gjson.Result) bool {
	switch v.Type {
	case gjson.Number:
		return v.Num != 0
	case gjson.String:
		return v.Str != ""
	default:
		return false
	}
}

// notNull accepts any existing non-null value, including zero.
func notNull(v gjson.Result) bool {
	return v.Exists() && v.Type != gjson.Null
}

func stringOf(r gjson.Result, def string, paths ...string) string {
	if v, ok := firstOf(r, nonEmptyString, paths...); ok {
		return v.Str
	}
	return def
}

// idOf accepts string or numeric identifiers.
func idOf(r gjson.Result, paths ...string) string {
	if v, ok := firstOf(r, present, paths...); ok {
		return v.String()
	}
	return ""
}

// subject returns the nested "hotel" object of a results item, or the item itself.
func subject(item gjson.Result) gjson.Result {
	if h := item.Get("hotel"); h.IsObject() {
		return h
	}
	return item
}
