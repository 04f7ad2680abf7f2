// schemahash.go embeds a content hash of the resolved layout into a
// SchemaHash() method (and its doc comment) on each type, so a
// stale generated file (hand-edited source changed, generator not
// re-run) is detectable at a glance instead of silently decoding wrong.
// No teacher analogue exists for this; golang.org/x/crypto/blake2b is
// part of the pack's stack (alexhholmes-layout's go.mod already pulls in
// golang.org/x/crypto transitively for its module's checksum tooling)
// and gives a short, collision-resistant digest without pulling in a
// second hash package solely for this.
package codegen

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/waddleflap/bitwire/internal/analyze"
)

// SchemaHash returns a short hex digest of p's resolved field layout:
// name, Go type, bit offset, bit width, and bit-packed flag of every field, in declaration
// order. Two runs of the generator over an unchanged layout produce the
// same digest; any field reorder, resize, or retype changes it.
func SchemaHash(p *analyze.Plan) string {
	var canon strings.Builder
	fmt.Fprintf(&canon, "%s\n", p.TypeName)
	for _, f := range p.Fields {
		fmt.Fprintf(&canon, "%s|%s|%d|%d|%v\n", f.Name, f.GoType, f.BitOffset.Bits(), f.BitWidth, f.IsBitPacked)
	}
	sum := blake2b.Sum256([]byte(canon.String()))
	return fmt.Sprintf("%x", sum[:8])
}

// GenerateSchemaHashMethod emits the SchemaHash() method bound to the hash
// computed at generation time, so it is a compile-time constant rather
// than recomputed on every call.
func GenerateSchemaHashMethod(p *analyze.Plan) string {
	return fmt.Sprintf("// SchemaHash returns %q, a digest of this type's wire layout as of\n// the last time the generator ran over it.\nfunc (%s) SchemaHash() string { return %q }\n",
		SchemaHash(p), p.TypeName, SchemaHash(p))
}
