package env

// DiscreteSpec describes a scalar integer drawn from [0, NumValues).
type DiscreteSpec struct {
	NumValues int    `json:"num_values"`
	Name      string `json:"name"`
}

func (s DiscreteSpec) Contains(v int) bool {
	return v >= 0 && v < s.NumValues
}

// BoundedSpec describes a fixed-shape integer array whose entries lie in
// [Minimum, Maximum], bounds inclusive.
type BoundedSpec struct {
	Shape   []int  `json:"shape"`
	Minimum int    `json:"minimum"`
	Maximum int    `json:"maximum"`
	Name    string `json:"name"`
}

// Contains reports whether values matches the spec's shape and bounds.
// Only rank-1 shapes are used by this package.
func (s BoundedSpec) Contains(values ...int) bool {
	if len(s.Shape) == 1 && s.Shape[0] != len(values) {
		return false
	}

	for _, v := range values {
		if v < s.Minimum || v > s.Maximum {
			return false
		}
	}

	return true
}
