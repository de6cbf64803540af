package clone

import (
	"encoding/json"
	"fmt"

	"github.com/loyaltyops/promo-migrator/internal/models"
	"github.com/loyaltyops/promo-migrator/internal/remote"
)

// resourceID extracts the ID of a Resource as a string. Remote IDs are
// numeric on the promotions engine and string on the CMS.
func resourceID(r models.Resource) string {
	return idString(r["id"])
}

// resourceName returns the name of a Resource.
func resourceName(r models.Resource) string {
	if n, ok := r["name"].(string); ok {
		return n
	}
	return ""
}

// stringField safely extracts a string field, returning "" if nil.
func stringField(obj map[string]interface{}, field string) string {
	if v, ok := obj[field].(string); ok {
		return v
	}
	return ""
}

// boolField safely extracts a bool field, returning false if nil.
func boolField(obj map[string]interface{}, field string) bool {
	if v, ok := obj[field].(bool); ok {
		return v
	}
	return false
}

// intField safely extracts an int field from a map.
func intField(obj map[string]interface{}, field string) int {
	return toInt(obj[field])
}

// stringsField extracts a []string field (decoded as []interface{}).
func stringsField(obj map[string]interface{}, field string) []string {
	arr, ok := obj[field].([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// pick copies the listed fields from a source object into a fresh payload,
// skipping absent ones. Read-only server-assigned fields (ids, timestamps,
// computed flags) are dropped by never being listed.
func pick(src models.Resource, fields ...string) models.Resource {
	payload := make(models.Resource, len(fields))
	for _, f := range fields {
		if v, ok := src[f]; ok && v != nil {
			payload[f] = v
		}
	}
	return payload
}

// toInt converts various numeric types to int.
func toInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	}
	return 0
}

// idString renders an ID value (number or string) as a string.
func idString(v interface{}) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return fmt.Sprintf("%d", int64(n))
	case json.Number:
		return n.String()
	case int:
		return fmt.Sprintf("%d", n)
	}
	return ""
}

// createObject POSTs a payload and returns the created resource.
func createObject(client *remote.Client, path string, payload models.Resource) (models.Resource, error) {
	body, err := client.Post(path, payload)
	if err != nil {
		return nil, err
	}
	var created models.Resource
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("parsing create response: %w", err)
	}
	return created, nil
}
