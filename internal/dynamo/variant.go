package dynamo

import (
	"fmt"
	"strings"
)

// Variant selects one of the fixed set of integration schemes.
type Variant int

const (
	Euler Variant = iota
	LeapFrog
	Verlet
	RK4

	numVariants
)

var variantNames = [numVariants]string{"euler", "leapfrog", "verlet", "rk4"}

func (v Variant) String() string {
	if !v.Valid() {
		return fmt.Sprintf("variant(%d)", int(v))
	}
	return variantNames[v]
}

func (v Variant) Valid() bool { return v >= 0 && v < numVariants }

func ParseVariant(name string) (Variant, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range variantNames {
		if n == candidate {
			return Variant(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}

// Variants lists every supported variant in declaration order.
func Variants() []Variant {
	out := make([]Variant, numVariants)
	for i := range out {
		out[i] = Variant(i)
	}
	return out
}
