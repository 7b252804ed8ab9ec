package model

// ResourceType classifies the kind of media asset a Resource represents.
type ResourceType string

const (
	ResourceSoundRecording ResourceType = "SoundRecording"
	ResourceVideo          ResourceType = "Video"
	ResourceImage          ResourceType = "Image"
)

// TechnicalDetails carries the file-level technical facts DDEX expects
// per resource.
type TechnicalDetails struct {
	FileFormat string
	Bitrate    int
	SampleRate int
	FileSize   int64
}

// TerritorialRights restricts where a resource may be exploited.
type TerritorialRights struct {
	IncludedTerritories []string
	ExcludedTerritories []string
}

// Resource is a media asset: SoundRecording, Video, or Image.
// ResourceReference is the opaque token ("A1", "A2", …) releases and
// tracks use to point at it; ResourceID is an external identifier
// (ISRC / ISVN / proprietary).
type Resource struct {
	ResourceReference string
	ResourceID        string
	ResourceIDType    string // "ISRC", "ISVN", "Proprietary"
	Type              ResourceType
	Titles            TitleSet
	DisplayArtist     string
	Duration          Duration
	Technical         TechnicalDetails
	Rights            *TerritorialRights

	// LinkedResourceReferences are other resources this one points at
	// directly (DDEX's LinkedReleaseResourceReference, e.g. a video
	// resource linking to its cover-art image resource). Unlike
	// ReleaseResourceReferences, which only ever point from a release
	// down into the resource list, these are resource-to-resource
	// edges and so are the one place the reference graph can actually
	// fold back on itself.
	LinkedResourceReferences []string

	ExtensionHolder
}

// Title returns the resource's title in the given locale, falling
// back to the first title recorded if the locale is absent.
func (r *Resource) Title(locale string) string {
	return r.Titles.Get(locale)
}
