package model

// Party is a participant referenced by an opaque reference token
// (e.g. "P1"): a label, artist, or rights holder.
type Party struct {
	// Reference is the opaque within-document token ("P1", "P2", …)
	// other entities use to point at this party.
	Reference string
	// ID is an external, durable identifier (e.g. a DPID), distinct
	// from Reference which is only meaningful within this document.
	ID   string
	Name string
	Role string
	ExtensionHolder
}
