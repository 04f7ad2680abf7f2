package bitwire

import "golang.org/x/exp/constraints"

// FlagSet describes a flag enumeration's declared non-zero discriminants
// to the generic helpers below. Generated code builds one FlagSet literal
// per flag enumeration type and calls these functions instead of
// reimplementing bit decomposition per type.
type FlagSet[T constraints.Unsigned] struct {
	All []T // declared non-zero discriminants, ascending order
}

// Contains reports whether bit is set in u.
func Contains[T constraints.Unsigned](u, bit T) bool {
	return bit != 0 && u&bit == bit
}

// FromBits returns u, and ok == true, iff every set bit in u corresponds
// to a declared discriminant in fs.
func FromBits[T constraints.Unsigned](fs FlagSet[T], u T) (T, bool) {
	var union T
	for _, f := range fs.All {
		union |= f
	}
	if u&^union != 0 {
		return 0, false
	}
	return u, true
}

// Decompose returns the declared flags set in u, in ascending discriminant
// order.
func Decompose[T constraints.Unsigned](fs FlagSet[T], u T) []T {
	out := make([]T, 0, len(fs.All))
	for _, f := range fs.All {
		if u&f == f {
			out = append(out, f)
		}
	}
	return out
}

// Union, Intersect, Xor, and Complement are the bitwise operators the
// generator binds to a flag enumeration's named operators.
func Union[T constraints.Unsigned](a, b T) T        { return a | b }
func Intersect[T constraints.Unsigned](a, b T) T    { return a & b }
func Xor[T constraints.Unsigned](a, b T) T          { return a ^ b }
func Complement[T constraints.Unsigned](fs FlagSet[T], u T) T {
	var union T
	for _, f := range fs.All {
		union |= f
	}
	return union &^ u
}

// FlagIterator walks the declared flags set in u, in ascending order,
// without allocating the intermediate slice Decompose produces.
type FlagIterator[T constraints.Unsigned] struct {
	fs    FlagSet[T]
	u     T
	index int
}

func IterFlags[T constraints.Unsigned](fs FlagSet[T], u T) *FlagIterator[T] {
	return &FlagIterator[T]{fs: fs, u: u}
}

// Next returns the next set flag and true, or the zero value and false
// once exhausted.
func (it *FlagIterator[T]) Next() (T, bool) {
	for it.index < len(it.fs.All) {
		f := it.fs.All[it.index]
		it.index++
		if it.u&f == f {
			return f, true
		}
	}
	return 0, false
}
