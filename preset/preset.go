// Package preset holds static, per-platform validation rule tables
// consumed by the builder (spec.md §4.6, §1 "preset catalogs ... are
// data, not logic"). Nothing here executes; Check merely walks a
// release/resource pair against a Preset's declared rules.
package preset

import "ddexcore/model"

// Preset declares the fields, territories, and quality thresholds a
// target platform requires.
type Preset struct {
	Name                 string
	RequiredReleaseTitle  bool
	RequiredDisplayArtist bool
	RequiredGenre         bool
	RequiredReleaseDate   bool
	RequireISRC           bool
	AllowedTerritories    []string // empty means "no restriction"
	MinBitrateKbps        int
	MinSampleRateHz       int
	AllowedReleaseTypes   []model.ReleaseType
}

// Spotify's album and single presets, the YouTube video preset: the
// concrete named presets the builder's callers select by name.
var (
	SpotifyAlbum = Preset{
		Name:                 "spotify_album",
		RequiredReleaseTitle: true,
		RequiredDisplayArtist: true,
		RequiredGenre:        true,
		RequiredReleaseDate:  true,
		RequireISRC:          true,
		MinBitrateKbps:       320,
		MinSampleRateHz:      44100,
		AllowedReleaseTypes:  []model.ReleaseType{model.ReleaseAlbum, model.ReleaseEP},
	}

	SpotifySingle = Preset{
		Name:                 "spotify_single",
		RequiredReleaseTitle: true,
		RequiredDisplayArtist: true,
		RequiredReleaseDate:  true,
		RequireISRC:          true,
		MinBitrateKbps:       320,
		MinSampleRateHz:      44100,
		AllowedReleaseTypes:  []model.ReleaseType{model.ReleaseSingle},
	}

	YouTubeVideo = Preset{
		Name:                 "youtube_video",
		RequiredReleaseTitle: true,
		RequiredDisplayArtist: true,
		MinBitrateKbps:       256,
		AllowedReleaseTypes:  []model.ReleaseType{model.ReleaseVideoSingle},
	}
)

// Registry maps a preset name to its rule set, for callers that
// select a preset dynamically (e.g. from a config file).
var Registry = map[string]Preset{
	SpotifyAlbum.Name:  SpotifyAlbum,
	SpotifySingle.Name: SpotifySingle,
	YouTubeVideo.Name:  YouTubeVideo,
}

// Check returns every rule in p that release (and, transitively, its
// resolved tracks/resources) fails to satisfy. An empty result means
// the release is compliant.
func Check(p Preset, release model.Release, resources *model.ResourceIndex) []string {
	var violations []string

	if p.RequiredReleaseTitle && release.Titles.Get("") == "" {
		violations = append(violations, "release title is required")
	}
	if p.RequiredDisplayArtist && release.DisplayArtist == "" {
		violations = append(violations, "release display artist is required")
	}
	if p.RequiredGenre && release.Genre == "" {
		violations = append(violations, "release genre is required")
	}
	if p.RequiredReleaseDate && release.ReleaseDate.IsZero() {
		violations = append(violations, "release date is required")
	}
	if len(p.AllowedReleaseTypes) > 0 && !releaseTypeAllowed(p.AllowedReleaseTypes, release.Type) {
		violations = append(violations, "release type "+string(release.Type)+" is not allowed by preset "+p.Name)
	}

	for _, token := range release.ReleaseResourceReferences {
		res, ok := resources.Get(token)
		if !ok {
			continue
		}
		if p.RequireISRC && res.ResourceIDType != "ISRC" {
			violations = append(violations, "resource "+token+" is missing a required ISRC")
		}
		if p.MinBitrateKbps > 0 && res.Technical.Bitrate > 0 && res.Technical.Bitrate < p.MinBitrateKbps {
			violations = append(violations, "resource "+token+" bitrate below preset minimum")
		}
		if p.MinSampleRateHz > 0 && res.Technical.SampleRate > 0 && res.Technical.SampleRate < p.MinSampleRateHz {
			violations = append(violations, "resource "+token+" sample rate below preset minimum")
		}
		if len(p.AllowedTerritories) > 0 && res.Rights != nil {
			for _, t := range res.Rights.IncludedTerritories {
				if !territoryAllowed(p.AllowedTerritories, t) {
					violations = append(violations, "resource "+token+" territory "+t+" not allowed by preset "+p.Name)
				}
			}
		}
	}

	return violations
}

func releaseTypeAllowed(allowed []model.ReleaseType, t model.ReleaseType) bool {
	for _, a := range allowed {
		if a == t {
			return true
		}
	}
	return false
}

func territoryAllowed(allowed []string, t string) bool {
	for _, a := range allowed {
		if a == t {
			return true
		}
	}
	return false
}
