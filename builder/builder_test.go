package builder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ddexcore/config"
	"ddexcore/ddexerr"
	"ddexcore/model"
)

func validResource() model.Resource {
	r := model.Resource{
		ResourceReference: "A1",
		ResourceIDType:    "ISRC",
		ResourceID:        "USRC17607839",
		DisplayArtist:     "Artist",
	}
	r.Titles.Add("en", "Track One")
	return r
}

func validRelease() model.Release {
	r := model.Release{
		ReleaseID:                 "R1",
		ReleaseResourceReferences: []string{"A1"},
		Tracks:                    []model.Track{{Position: 1, ResourceReference: "A1"}},
	}
	r.Titles.Add("en", "Greatest Hits")
	return r
}

func validRequest() Request {
	return Request{
		Header:    model.MessageHeader{Type: model.MessageTypeNewRelease, Version: model.V4_3},
		Resources: []model.Resource{validResource()},
		Releases:  []model.Release{validRelease()},
	}
}

func TestBuildProducesWellFormedXML(t *testing.T) {
	result, err := Build(validRequest(), config.DefaultBuildOptions())
	require.Nil(t, err)
	xml := string(result.XML)
	assert.Contains(t, xml, "<NewReleaseMessage")
	assert.Contains(t, xml, "<SoundRecording ResourceReference=\"A1\">")
	assert.Contains(t, xml, "<Release>")
	assert.Equal(t, 1, result.Stats.ReleaseCount)
	assert.Equal(t, 1, result.Stats.TrackCount)
}

func TestBuildRejectsMissingResourceTitle(t *testing.T) {
	req := validRequest()
	req.Resources[0].Titles = nil
	_, err := Build(req, config.DefaultBuildOptions())
	require.NotNil(t, err)
	assert.True(t, ddexerr.Is(err, ddexerr.CategoryMissingField))
}

func TestBuildRejectsReleaseWithNoResourceReferences(t *testing.T) {
	req := validRequest()
	req.Releases[0].ReleaseResourceReferences = nil
	req.Releases[0].Tracks = nil
	_, err := Build(req, config.DefaultBuildOptions())
	require.NotNil(t, err)
	assert.True(t, ddexerr.Is(err, ddexerr.CategoryMissingField))
}

func TestBuildCountsTracksNotResources(t *testing.T) {
	req := validRequest()
	req.Releases[0].Tracks = []model.Track{
		{Position: 1, ResourceReference: "A1"},
		{Position: 2, ResourceReference: "A1"},
		{Position: 3, ResourceReference: "A1"},
	}

	result, err := Build(req, config.DefaultBuildOptions())
	require.Nil(t, err)
	assert.Equal(t, 1, result.Stats.ReleaseCount)
	assert.Equal(t, 3, result.Stats.TrackCount, "TrackCount must count tracks, not resources written")
}

func TestBuildWritesPartiesAndDeals(t *testing.T) {
	req := validRequest()
	req.Parties = []model.Party{{Reference: "P1", Name: "Label Inc"}}
	req.Deals = []model.Deal{{DealID: "D1", Territories: []string{"US"}}}

	result, err := Build(req, config.DefaultBuildOptions())
	require.Nil(t, err)
	xml := string(result.XML)
	assert.Contains(t, xml, "<PartyList>")
	assert.Contains(t, xml, "Label Inc")
	assert.Contains(t, xml, "<DealList>")
	assert.Equal(t, 1, result.Stats.DealCount)
}

func TestBuildWithUnknownPresetNameIsInvalidValue(t *testing.T) {
	req := validRequest()
	req.PresetName = "not_a_real_preset"
	_, err := Build(req, config.DefaultBuildOptions())
	require.NotNil(t, err)
	assert.True(t, ddexerr.Is(err, ddexerr.CategoryInvalidValue))
}

func TestBuildWithFailingPresetReturnsPresetViolation(t *testing.T) {
	req := validRequest()
	req.PresetName = "spotify_album"
	_, err := Build(req, config.DefaultBuildOptions())
	require.NotNil(t, err)
	assert.True(t, ddexerr.Is(err, ddexerr.CategoryPresetViolation))
}

func TestBuildVerificationSucceedsOnRoundTrippableRequest(t *testing.T) {
	opts := config.DefaultBuildOptions()
	opts.EnableVerification = true
	result, err := Build(validRequest(), opts)
	require.Nil(t, err)
	assert.True(t, result.Verified)
}

func TestBuildIsDeterministicAcrossCalls(t *testing.T) {
	req := validRequest()
	opts := config.DefaultBuildOptions()
	a, err := Build(req, opts)
	require.Nil(t, err)
	b, err := Build(req, opts)
	require.Nil(t, err)

	stripID := func(xml string) string {
		start := strings.Index(xml, "<MessageId>")
		end := strings.Index(xml, "</MessageId>")
		if start == -1 || end == -1 {
			return xml
		}
		return xml[:start] + xml[end:]
	}
	assert.Equal(t, stripID(string(a.XML)), stripID(string(b.XML)))
}
