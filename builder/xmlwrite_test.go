package builder

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ddexcore/model"
)

func TestEscTextEscapesReservedCharacters(t *testing.T) {
	assert.Equal(t, "A &amp; B &lt;tag&gt;", escText("A & B <tag>"))
}

func TestEscAttrEscapesQuotes(t *testing.T) {
	assert.Equal(t, "say &quot;hi&quot;", escAttr(`say "hi"`))
}

func TestWriteLeafOmitsEmptyText(t *testing.T) {
	var buf bytes.Buffer
	writeLeaf(&buf, "Genre", "")
	assert.Empty(t, buf.String())
}

func TestWriteLeafWritesNonEmptyText(t *testing.T) {
	var buf bytes.Buffer
	writeLeaf(&buf, "Genre", "Pop")
	assert.Equal(t, "<Genre>Pop</Genre>", buf.String())
}

func TestWriteLeafAttrOmitsEmptyAttributes(t *testing.T) {
	var buf bytes.Buffer
	writeLeafAttr(&buf, "Title", "Hits", map[string]string{"LanguageAndScriptCode": ""})
	assert.Equal(t, "<Title>Hits</Title>", buf.String())
}

func TestWriteDateOmitsZeroTime(t *testing.T) {
	var buf bytes.Buffer
	writeDate(&buf, "ReleaseDate", time.Time{})
	assert.Empty(t, buf.String())
}

func TestWriteDateFormatsISODate(t *testing.T) {
	var buf bytes.Buffer
	writeDate(&buf, "ReleaseDate", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "<ReleaseDate>2024-03-05</ReleaseDate>", buf.String())
}

func TestWriteTitlesEmitsOneElementPerLocale(t *testing.T) {
	var buf bytes.Buffer
	titles := model.TitleSet{}
	titles.Add("en", "Greatest Hits")
	titles.Add("fr", "Meilleurs Succès")
	writeTitles(&buf, "ReferenceTitle", titles)
	out := buf.String()
	assert.Contains(t, out, `LanguageAndScriptCode="en"`)
	assert.Contains(t, out, `LanguageAndScriptCode="fr"`)
}

func TestWriteExtensionsEmitsRawXMLVerbatim(t *testing.T) {
	var buf bytes.Buffer
	writeExtensions(&buf, []model.Extension{{RawXML: []byte("<Custom>x</Custom>")}})
	assert.Equal(t, "<Custom>x</Custom>", buf.String())
}
