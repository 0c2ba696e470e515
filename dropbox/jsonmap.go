package dropbox

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// The v1 API dates all entries in RFC 1123 format with a numeric zone,
// for example "Sat, 21 Aug 2010 22:31:20 +0000".
const timeFormat = time.RFC1123Z

// decodeJSONMap parses a JSON object body into a generic map. Numbers are
// kept as json.Number so 64-bit byte counts survive undamaged.
func decodeJSONMap(body string) (map[string]interface{}, error) {
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var m map[string]interface{}
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("dropbox: parse response %q: %w", body, err)
	}
	return m, nil
}

// decodeJSONList parses a JSON array body into a generic slice.
func decodeJSONList(body string) ([]interface{}, error) {
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var l []interface{}
	if err := dec.Decode(&l); err != nil {
		return nil, fmt.Errorf("dropbox: parse response %q: %w", body, err)
	}
	return l, nil
}

// decodeEntity maps a generic JSON map onto a typed value, matching fields
// by their mapstructure tags. Decoding is weakly typed: json.Number fills
// int64 and float64 fields alike, and date strings fill time.Time fields.
func decodeEntity(m map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(timeFormat),
	})
	if err != nil {
		return fmt.Errorf("dropbox: build decoder: %w", err)
	}
	if err := dec.Decode(m); err != nil {
		return fmt.Errorf("dropbox: decode response: %w", err)
	}
	return nil
}

// asString reads a string field from a generic JSON map, "" when absent.
func asString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// asInt64 reads an integer field from a generic JSON map, 0 when absent or
// not a number.
func asInt64(m map[string]interface{}, key string) int64 {
	if v, ok := m[key].(json.Number); ok {
		if n, err := v.Int64(); err == nil {
			return n
		}
	}
	return 0
}

// asBool reads a boolean field from a generic JSON map, false when absent.
func asBool(m map[string]interface{}, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}
