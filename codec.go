package bitwire

// Codec documents the method set the generator binds to every aggregate
// type T (see SPEC_FULL.md §6). It is not implemented by this package and
// no generated type is required to declare it explicitly — Go's
// structural typing means a generated T already satisfies it. No code in
// this module uses it as a type constraint.
type Codec[T any] interface {
	SizeInBytes() int
	EncodeBE() []byte
	EncodeLE() []byte
}
