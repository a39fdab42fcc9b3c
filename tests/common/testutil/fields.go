//go:build unit || e2e

package testutil

// Field sets a key in a DtoMap payload; nil deletes the key so "missing
// field" binding cases read the same as "wrong value" ones.
func Field(key string, value any) func(m map[string]any) {
	return func(m map[string]any) {
		if value == nil {
			delete(m, key)
		} else {
			m[key] = value
		}
	}
}
