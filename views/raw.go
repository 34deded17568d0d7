package views

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Raw is an undecoded record as it crossed the broker boundary. Both
// the paper engine and the live client hand records over in this form
// so that all shape tolerance lives here.
type Raw = json.RawMessage

// lookup returns the first key present in raw, in preference order.
// JSON null counts as present, mirroring how the terminal UI treated
// anything but undefined as a value.
func lookup(raw Raw, keys ...string) (gjson.Result, bool) {
	for _, k := range keys {
		if v := gjson.GetBytes(raw, k); v.Exists() {
			return v, true
		}
	}
	return gjson.Result{}, false
}

// str resolves the first present key as a string, or def.
func str(raw Raw, def string, keys ...string) string {
	if v, ok := lookup(raw, keys...); ok {
		return v.String()
	}
	return def
}

// num resolves the first present key as a float. Numbers may arrive as
// JSON numbers or strings; anything unparseable counts as zero.
func num(raw Raw, keys ...string) float64 {
	if v, ok := lookup(raw, keys...); ok {
		return v.Float()
	}
	return 0
}

// count resolves the first present key as an integer quantity.
func count(raw Raw, keys ...string) int64 {
	if v, ok := lookup(raw, keys...); ok {
		return v.Int()
	}
	return 0
}
