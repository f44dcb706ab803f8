//go:build unit || e2e

package testutil

// a helper function for dynamically modifying map fields in tests
func Field(key string, value any) func(m map[string]any) {
	return func(m map[string]any) {
		if value == nil {
			delete(m, key)
		} else {
			m[key] = value
		}
	}
}

// same as Field, applied to one element of a list field
func ItemField(listKey string, index int, key string, value any) func(m map[string]any) {
	return func(m map[string]any) {
		list, ok := m[listKey].([]any)
		if !ok || index >= len(list) {
			return
		}
		item, ok := list[index].(map[string]any)
		if !ok {
			return
		}
		Field(key, value)(item)
	}
}
