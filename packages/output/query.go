package output

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Query evaluates a gjson path against serialized document JSON, for example
// "entries.#(kind==\"request\")#.request.method". Scalars are returned as
// plain text and objects or arrays as raw JSON.
func Query(data []byte, path string) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("query: input is not valid JSON")
	}
	result := gjson.GetBytes(data, path)
	if !result.Exists() {
		return "", fmt.Errorf("query %q matched nothing", path)
	}
	if result.IsObject() || result.IsArray() {
		return result.Raw, nil
	}
	return result.String(), nil
}
