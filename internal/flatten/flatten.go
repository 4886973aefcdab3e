// Package flatten hoists one level of nested objects into dotted keys.
package flatten

// Flatten returns a new map where every nested map[string]any value is replaced by its
// entries under "parent.child" keys. Only one level is expanded: a map nested inside a
// nested map is copied unchanged. Non-map values keep their original key.
func Flatten(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		nested, ok := v.(map[string]any)
		if !ok {
			out[k] = v
			continue
		}
		for ck, cv := range nested {
			out[k+"."+ck] = cv
		}
	}
	return out
}
