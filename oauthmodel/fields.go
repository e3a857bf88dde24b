package oauthmodel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// RequireJSONFields checks that body is a JSON object holding a non-null value
// for every named top level field.
func RequireJSONFields(body []byte, fields ...string) error {
	if !gjson.ValidBytes(body) {
		return errors.New("body is not valid JSON")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return errors.New("body is not a JSON object")
	}
	var missing []string
	for _, f := range fields {
		v := doc.Get(gjson.Escape(f))
		if !v.Exists() || v.Type == gjson.Null {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
