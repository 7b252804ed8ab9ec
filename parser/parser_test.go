package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ddexcore/config"
	"ddexcore/ddexerr"
	"ddexcore/model"
)

const sampleERN = `<?xml version="1.0" encoding="UTF-8"?>
<NewReleaseMessage MessageSchemaVersionId="ern/43">
  <MessageHeader>
    <MessageId>MSG1</MessageId>
    <MessageSender><PartyId>PADPIDA001</PartyId><PartyName>Sender Co</PartyName></MessageSender>
    <MessageRecipient><PartyId>PADPIDA002</PartyId><PartyName>Recipient Co</PartyName></MessageRecipient>
  </MessageHeader>
  <PartyList>
    <Party><PartyReference>P1</PartyReference><PartyName>Artist</PartyName></Party>
  </PartyList>
  <ResourceList>
    <SoundRecording ResourceReference="A1">
      <ISRC>USRC17607839</ISRC>
      <ReferenceTitle LanguageAndScriptCode="en">Track One</ReferenceTitle>
      <DisplayArtistName>Artist</DisplayArtistName>
      <Duration>PT2M5S</Duration>
    </SoundRecording>
  </ResourceList>
  <ReleaseList>
    <Release ReleaseId="R1">
      <ICPN>1234567890123</ICPN>
      <ReferenceTitle LanguageAndScriptCode="en">Greatest Hits</ReferenceTitle>
      <DisplayArtistName>Artist</DisplayArtistName>
      <Genre>Pop</Genre>
      <ReleaseDate>2024-01-01</ReleaseDate>
      <ResourceGroup SequenceNumber="1"><ResourceReference>A1</ResourceReference></ResourceGroup>
    </Release>
  </ReleaseList>
  <DealList>
    <ReleaseDeal>
      <DealReference>D1</DealReference>
      <ReleaseReference>R1</ReleaseReference>
      <TerritoryCode>US</TerritoryCode>
      <CommercialModelType>SubscriptionModel</CommercialModelType>
    </ReleaseDeal>
  </DealList>
</NewReleaseMessage>`

func TestParseProducesGraphModel(t *testing.T) {
	msg, err := Parse([]byte(sampleERN), config.DefaultParseOptions())
	require.Nil(t, err)

	assert.Equal(t, "MSG1", msg.Header.MessageID)
	assert.Equal(t, model.V4_3, msg.Header.Version)
	assert.Equal(t, "Sender Co", msg.Header.Sender.Name)
	assert.Equal(t, "Recipient Co", msg.Header.Recipient.Name)

	require.Len(t, msg.Parties, 1)
	assert.Equal(t, "Artist", msg.Parties[0].Name)

	require.Len(t, msg.Resources, 1)
	assert.Equal(t, "A1", msg.Resources[0].ResourceReference)
	assert.Equal(t, "USRC17607839", msg.Resources[0].ResourceID)
	assert.Equal(t, "ISRC", msg.Resources[0].ResourceIDType)
	assert.Equal(t, "Track One", msg.Resources[0].Titles.Get("en"))

	require.Len(t, msg.Releases, 1)
	assert.Equal(t, "1234567890123", msg.Releases[0].ReleaseID)
	assert.Equal(t, "UPC", msg.Releases[0].ReleaseIDType)
	assert.Equal(t, []string{"A1"}, msg.Releases[0].ReleaseResourceReferences)
	require.Len(t, msg.Releases[0].Tracks, 1)
	assert.Equal(t, "A1", msg.Releases[0].Tracks[0].ResourceReference)

	require.Len(t, msg.Deals, 1)
	assert.Equal(t, "D1", msg.Deals[0].DealID)
	assert.Equal(t, "SubscriptionModel", msg.Deals[0].CommercialModelType)
}

func TestParseFullProducesFlatView(t *testing.T) {
	pm, err := ParseFull([]byte(sampleERN), config.DefaultParseOptions())
	require.Nil(t, err)
	require.Len(t, pm.Flat.Releases, 1)
	require.Len(t, pm.Flat.Releases[0].Tracks, 1)
	assert.Equal(t, "Track One", pm.Flat.Releases[0].Tracks[0].Title)
}

func TestParseFullCapturesCommentsInSideChannelAtPerfectFidelity(t *testing.T) {
	withComment := strings.Replace(sampleERN, "</ResourceList>",
		"<!-- resource list reviewed 2026-01-01 --></ResourceList>", 1)

	opts := config.DefaultParseOptions()
	opts.FidelityLevel = model.FidelityPerfect
	pm, err := ParseFull([]byte(withComment), opts)
	require.Nil(t, err)
	require.NotNil(t, pm.Side)
	assert.Equal(t, []string{" resource list reviewed 2026-01-01 "}, pm.Side.Comments["/NewReleaseMessage/ResourceList"])
}

func TestParseFullOmitsSideChannelBelowPerfectFidelity(t *testing.T) {
	opts := config.DefaultParseOptions()
	opts.FidelityLevel = model.FidelityBalanced
	pm, err := ParseFull([]byte(sampleERN), opts)
	require.Nil(t, err)
	assert.Nil(t, pm.Side)
}

func TestParseEnforcesMemoryCeilingIndependentlyOfEntityExpansionLimit(t *testing.T) {
	opts := config.DefaultParseOptions()
	opts.MaxMemoryBytes = 32
	_, err := Parse([]byte(sampleERN), opts)
	require.NotNil(t, err)
	assert.True(t, ddexerr.Is(err, ddexerr.CategoryMemoryLimit))
}

func TestParseAllowsDocumentUnderDefaultMemoryCeiling(t *testing.T) {
	msg, err := Parse([]byte(sampleERN), config.DefaultParseOptions())
	require.Nil(t, err)
	assert.Equal(t, "MSG1", msg.Header.MessageID)
}

func TestParseRejectsEmptyDocument(t *testing.T) {
	_, err := Parse([]byte(""), config.DefaultParseOptions())
	require.NotNil(t, err)
}

func TestParseRejectsDocumentWithNoEntities(t *testing.T) {
	empty := `<NewReleaseMessage MessageSchemaVersionId="ern/43"><MessageHeader><MessageId>M</MessageId></MessageHeader></NewReleaseMessage>`
	_, err := Parse([]byte(empty), config.DefaultParseOptions())
	require.NotNil(t, err)
	assert.Equal(t, "NO_DATA", err.Code)
}

func TestParseFoldsUnknownNamespaceAsExtension(t *testing.T) {
	withExt := strings.Replace(sampleERN, "</SoundRecording>",
		`<ext:CustomTag xmlns:ext="urn:example:ext">hi</ext:CustomTag></SoundRecording>`, 1)
	msg, err := Parse([]byte(withExt), config.DefaultParseOptions())
	require.Nil(t, err)
	require.Len(t, msg.Resources, 1)
	assert.NotEmpty(t, msg.Resources[0].Extensions)
}

func TestParseSkipsExtensionsWhenFidelityFast(t *testing.T) {
	withExt := strings.Replace(sampleERN, "</SoundRecording>",
		`<ext:CustomTag xmlns:ext="urn:example:ext">hi</ext:CustomTag></SoundRecording>`, 1)
	opts := config.DefaultParseOptions()
	opts.FidelityLevel = model.FidelityFast
	msg, err := Parse([]byte(withExt), opts)
	require.Nil(t, err)
	assert.Empty(t, msg.Resources[0].Extensions)
}

func TestSanityCheckReportsValidDocument(t *testing.T) {
	report := SanityCheck([]byte(sampleERN))
	assert.True(t, report.IsValid)
	assert.Equal(t, model.V4_3, report.Version)
	assert.Empty(t, report.Errors)
}

func TestSanityCheckReportsUnsupportedVersion(t *testing.T) {
	report := SanityCheck([]byte(`<NewReleaseMessage MessageSchemaVersionId="ern/99"/>`))
	assert.False(t, report.IsValid)
	require.NotEmpty(t, report.Errors)
}

func TestSanityCheckNeverPanicsOnGarbageInput(t *testing.T) {
	report := SanityCheck([]byte("not xml at all"))
	assert.False(t, report.IsValid)
}

func TestSanityCheckEnumeratesEveryDanglingReferenceInOnePass(t *testing.T) {
	doc := `<NewReleaseMessage MessageSchemaVersionId="ern/43">
  <MessageHeader><MessageId>M</MessageId></MessageHeader>
  <ReleaseList>
    <Release ReleaseId="R1">
      <ReferenceTitle LanguageAndScriptCode="en">One</ReferenceTitle>
      <ResourceGroup SequenceNumber="1"><ResourceReference>MISSING1</ResourceReference></ResourceGroup>
    </Release>
    <Release ReleaseId="R2">
      <ReferenceTitle LanguageAndScriptCode="en">Two</ReferenceTitle>
      <ResourceGroup SequenceNumber="1"><ResourceReference>MISSING2</ResourceReference></ResourceGroup>
    </Release>
  </ReleaseList>
</NewReleaseMessage>`

	report := SanityCheck([]byte(doc))
	assert.False(t, report.IsValid)
	assert.Contains(t, report.Errors, "missing reference: MISSING1")
	assert.Contains(t, report.Errors, "missing reference: MISSING2")

	// ParseFull, by contrast, stops at the first dangling reference.
	_, perr := ParseFull([]byte(doc), config.DefaultParseOptions())
	require.NotNil(t, perr)
	assert.True(t, ddexerr.Is(perr, ddexerr.CategoryMissingReference))
}

func TestParseRejectsUnsupportedVersion(t *testing.T) {
	_, err := Parse([]byte(`<NewReleaseMessage MessageSchemaVersionId="ern/99"/>`), config.DefaultParseOptions())
	require.NotNil(t, err)
	assert.True(t, ddexerr.Is(err, ddexerr.CategoryUnsupportedVer))
}
