package diff

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"ddexcore/model"
)

// StructurallyEqual reports whether a and b are equal ignoring the
// side-channel fidelity artifacts (comments, processing instructions)
// that "balanced" fidelity never materializes — the comparison
// spec.md §8.1's semantic round-trip law is checked against.
func StructurallyEqual(a, b *model.Message) bool {
	return cmp.Equal(a, b, cmpopts.EquateEmpty())
}
