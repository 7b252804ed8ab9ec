package diff

import (
	"fmt"
	"strings"
)

// FormatHuman renders a changeset as a readable summary, one line per
// change, grouped under the impact level.
func FormatHuman(cs *Changeset) string {
	var b strings.Builder
	fmt.Fprintf(&b, "impact: %s (%d changes)\n", cs.ImpactLevel, len(cs.Changes))
	for _, c := range cs.Changes {
		marker := " "
		if c.Criticality {
			marker = "!"
		}
		switch c.Type {
		case ElementAdded:
			fmt.Fprintf(&b, "%s + %s: %s\n", marker, c.Path, c.New)
		case ElementRemoved:
			fmt.Fprintf(&b, "%s - %s: %s\n", marker, c.Path, c.Old)
		default:
			fmt.Fprintf(&b, "%s ~ %s: %q -> %q\n", marker, c.Path, c.Old, c.New)
		}
	}
	return b.String()
}
