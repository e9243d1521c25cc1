package loggers

// FloatSlicer is the capability a record value exposes to be flattened
// into a plain numeric slice before logging.
type FloatSlicer interface {
	FloatSlice() []float64
}

// Normalize walks a nested structure of maps and sequences and replaces
// every leaf implementing FloatSlicer with its plain []float64 form.
// Other leaves pass through untouched; containers are rebuilt, not
// mutated in place.
func Normalize(v any) any {
	switch t := v.(type) {
	case FloatSlicer:
		return t.FloatSlice()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Normalize(val)
		}
		return out
	default:
		return v
	}
}
