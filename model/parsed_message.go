package model

// FidelityLevel expresses how much non-semantic XML detail is
// preserved through parse/build, per spec.md §4.3/§9.
type FidelityLevel string

const (
	FidelityFast     FidelityLevel = "fast"
	FidelityBalanced FidelityLevel = "balanced"
	FidelityPerfect  FidelityLevel = "perfect"
)

// SideChannel holds the opaque, non-semantic artifacts "perfect"
// fidelity needs to round-trip byte-for-byte: comments, processing
// instructions, attribute order, and namespace prefix choices,
// indexed by the structural path they were observed at.
type SideChannel struct {
	Comments              map[string][]string
	ProcessingInstructions map[string][]string
	AttributeOrder        map[string][]string
	NamespacePrefixes     map[string]string
}

func NewSideChannel() *SideChannel {
	return &SideChannel{
		Comments:               make(map[string][]string),
		ProcessingInstructions:  make(map[string][]string),
		AttributeOrder:          make(map[string][]string),
		NamespacePrefixes:       make(map[string]string),
	}
}

// ParsedMessage bundles both views the parser always materializes,
// plus version, fidelity metadata, and warnings surfaced during
// parsing (e.g. "no resources found").
type ParsedMessage struct {
	Version  Version
	Graph    *Message
	Flat     *FlatModel
	Fidelity FidelityLevel
	Side     *SideChannel // nil unless Fidelity == FidelityPerfect
	Warnings []string
}
