// Package builder implements the Builder of spec.md §4.6: a
// deterministic, single-producer emitter from the graph/flat model to
// canonical XML, with a streaming phase-machine mode and
// preset-driven validation.
package builder

import "ddexcore/model"

// Request is the build input: a graph-shaped message, ready to be
// serialized. Callers constructing from the flat view first re-graph
// it (Parties/Resources are shared, Releases carry resolved tracks).
type Request struct {
	Header    model.MessageHeader
	Parties   []model.Party
	Resources []model.Resource
	Releases  []model.Release
	Deals     []model.Deal

	// PresetName, if set, selects a preset.Preset the request's
	// releases and resources must satisfy before any bytes are
	// emitted.
	PresetName string
}

// Result is what a completed (non-streaming) build returns.
type Result struct {
	XML          []byte
	Stats        model.Stats
	Verified     bool
	PresetErrors []string
}
