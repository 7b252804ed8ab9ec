package diff

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleChangeset() *Changeset {
	changes := []Change{
		{Type: ElementAdded, Path: "/ReleaseList/Release[R2]", New: "Second Album"},
		{Type: ElementModified, Path: "/ReleaseList/Release[R1]/DisplayArtistName", Old: "Artist", New: "New Artist", Criticality: true},
	}
	return &Changeset{Changes: changes, ImpactLevel: computeImpact(changes)}
}

func TestFormatHumanListsEachChange(t *testing.T) {
	out := FormatHuman(sampleChangeset())
	assert.Contains(t, out, "impact: Medium (2 changes)")
	assert.Contains(t, out, "+ /ReleaseList/Release[R2]: Second Album")
	assert.Contains(t, out, "! ~ /ReleaseList/Release[R1]/DisplayArtistName: \"Artist\" -> \"New Artist\"")
}

func TestFormatJSONProducesValidDocument(t *testing.T) {
	out, err := FormatJSON(sampleChangeset())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "Medium", decoded["impact_level"])

	changes, ok := decoded["changes"].([]interface{})
	require.True(t, ok)
	require.Len(t, changes, 2)
	first := changes[0].(map[string]interface{})
	assert.Equal(t, "ElementAdded", first["type"])
	assert.Equal(t, "/ReleaseList/Release[R2]", first["path"])
}

func TestFormatHTMLRendersTable(t *testing.T) {
	out, err := FormatHTML(sampleChangeset())
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Impact: Medium</h1>")
	assert.Contains(t, out, "/ReleaseList/Release[R2]")
}

func TestToJSONPointerEscapesAndExtractsKeys(t *testing.T) {
	assert.Equal(t, "/ReleaseList/Release/R1/DisplayArtistName", toJSONPointer("/ReleaseList/Release[R1]/DisplayArtistName"))
	assert.Equal(t, "/MessageHeader/Version", toJSONPointer("/MessageHeader/Version"))
}

func TestFormatJSONPatchProducesAddRemoveReplace(t *testing.T) {
	cs := &Changeset{Changes: []Change{
		{Type: ElementAdded, Path: "/ReleaseList/Release[R2]", New: "Second Album"},
		{Type: ElementRemoved, Path: "/ReleaseList/Release[R3]", Old: "Gone"},
		{Type: ElementModified, Path: "/MessageHeader/Version", Old: "4.2", New: "4.3"},
	}}
	out, err := FormatJSONPatch(cs)
	require.NoError(t, err)

	var ops []patchOp
	require.NoError(t, json.Unmarshal(out, &ops))
	require.Len(t, ops, 3)
	assert.Equal(t, "add", ops[0].Op)
	assert.Equal(t, "remove", ops[1].Op)
	assert.Equal(t, "replace", ops[2].Op)
	assert.Equal(t, "4.3", ops[2].Value)
}

func TestVerifyPatchAppliesCleanlyWhenResultMatches(t *testing.T) {
	oldJSON := []byte(`{"MessageHeader":{"Version":"4.2"}}`)
	newJSON := []byte(`{"MessageHeader":{"Version":"4.3"}}`)
	patchBytes := []byte(`[{"op":"replace","path":"/MessageHeader/Version","value":"4.3"}]`)

	ok, err := VerifyPatch(oldJSON, newJSON, patchBytes)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPatchDetectsMismatch(t *testing.T) {
	oldJSON := []byte(`{"MessageHeader":{"Version":"4.2"}}`)
	newJSON := []byte(`{"MessageHeader":{"Version":"4.3"}}`)
	patchBytes := []byte(`[{"op":"replace","path":"/MessageHeader/Version","value":"9.9"}]`)

	ok, err := VerifyPatch(oldJSON, newJSON, patchBytes)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPatchRejectsMalformedPatch(t *testing.T) {
	_, err := VerifyPatch([]byte(`{}`), []byte(`{}`), []byte(`not json`))
	assert.Error(t, err)
}
