// Package parser implements the Streaming Parser of spec.md §4.3: a
// second pass over the Safe XML Reader's event stream (the first pass
// belongs to ernversion.Detect) that assembles the graph-view
// model.Message directly from events, without building a DOM.
package parser

// state names the parser's position in the document; it is recorded
// as the walk proceeds and is not included in errors or progress
// reports. The parser is a recursive-descent
// walk over xmlsafe events; these constants label the walk rather
// than drive a table, since each state's grammar differs enough that
// a shared dispatch table would obscure more than it'd save.
type state string

const (
	stateAtRoot         state = "AtRoot"
	stateInMessage      state = "InMessage"
	stateInHeader       state = "InHeader"
	stateInSender       state = "InSender"
	stateInRecipient    state = "InRecipient"
	stateInPartyList    state = "InPartyList"
	stateInResourceList state = "InResourceList"
	stateInReleaseList  state = "InReleaseList"
	stateInDealList     state = "InDealList"
	stateInExtensions   state = "InExtensions"
	stateDone           state = "Done"
)
