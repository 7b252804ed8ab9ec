package model

import "time"

// ValidityWindow is a deal's commercial-availability window.
type ValidityWindow struct {
	Start time.Time
	End   time.Time // zero value means open-ended
}

// Deal is a commercial-availability assertion over one or more
// releases.
type Deal struct {
	DealID               string
	ReleaseReferences    []string
	Validity             ValidityWindow
	Territories          []string
	UsageTypes           []string
	CommercialModelType  string
	Restrictions         []string
	ExtensionHolder
}
