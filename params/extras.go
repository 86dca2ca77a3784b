package params

import (
	"github.com/buger/jsonparser"
)

// Extras reads values out of the publisher's raw JSON extras. Missing keys, wrong types and
// malformed JSON all fall back to the supplied default.
type Extras []byte

func (e Extras) String(def string, keys ...string) string {
	v, err := jsonparser.GetString(e, keys...)
	if err != nil {
		return def
	}
	return v
}

func (e Extras) Int(def int, keys ...string) int {
	v, err := jsonparser.GetInt(e, keys...)
	if err != nil {
		return def
	}
	return int(v)
}

func (e Extras) Bool(def bool, keys ...string) bool {
	v, err := jsonparser.GetBoolean(e, keys...)
	if err != nil {
		return def
	}
	return v
}

// Has reports whether the extras contain keys.
func (e Extras) Has(keys ...string) bool {
	_, _, _, err := jsonparser.Get(e, keys...)
	return err == nil
}
