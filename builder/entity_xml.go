package builder

import (
	"bytes"
	"fmt"

	"ddexcore/model"
)

func writeResourceXML(buf *bytes.Buffer, r model.Resource) {
	tag := resourceTag(r.Type)
	fmt.Fprintf(buf, `<%s ResourceReference="%s">`, tag, escAttr(r.ResourceReference))
	if r.ResourceID != "" {
		writeLeaf(buf, resourceIDTag(r.ResourceIDType), r.ResourceID)
	}
	writeTitles(buf, "ReferenceTitle", r.Titles)
	writeLeaf(buf, "DisplayArtistName", r.DisplayArtist)
	if r.Duration.Formatted != "" {
		writeLeaf(buf, "Duration", r.Duration.Formatted)
	}
	writeTechnicalDetails(buf, tag, r.Technical)
	if r.Rights != nil {
		writeTerritorialRights(buf, *r.Rights)
	}
	for _, ref := range r.LinkedResourceReferences {
		writeLeaf(buf, "LinkedReleaseResourceReference", ref)
	}
	writeExtensions(buf, r.Extensions)
	fmt.Fprintf(buf, "</%s>", tag)
}

func resourceTag(t model.ResourceType) string {
	switch t {
	case model.ResourceVideo:
		return "Video"
	case model.ResourceImage:
		return "Image"
	default:
		return "SoundRecording"
	}
}

func resourceIDTag(idType string) string {
	switch idType {
	case "ISRC":
		return "ISRC"
	case "ISVN":
		return "ISVN"
	default:
		return "ProprietaryId"
	}
}

func writeTechnicalDetails(buf *bytes.Buffer, resourceTag string, td model.TechnicalDetails) {
	if td.FileFormat == "" && td.Bitrate == 0 && td.SampleRate == 0 && td.FileSize == 0 {
		return
	}
	tag := "TechnicalSoundRecordingDetails"
	if resourceTag == "Video" {
		tag = "TechnicalVideoDetails"
	}
	fmt.Fprintf(buf, "<%s>", tag)
	writeLeaf(buf, "FileFormat", td.FileFormat)
	if td.Bitrate > 0 {
		fmt.Fprintf(buf, "<BitRate>%d</BitRate>", td.Bitrate)
	}
	if td.SampleRate > 0 {
		fmt.Fprintf(buf, "<SamplingRate>%d</SamplingRate>", td.SampleRate)
	}
	if td.FileSize > 0 {
		fmt.Fprintf(buf, "<FileSize>%d</FileSize>", td.FileSize)
	}
	fmt.Fprintf(buf, "</%s>", tag)
}

func writeTerritorialRights(buf *bytes.Buffer, tr model.TerritorialRights) {
	if len(tr.IncludedTerritories) == 0 && len(tr.ExcludedTerritories) == 0 {
		return
	}
	buf.WriteString("<TerritorialRights>")
	for _, t := range tr.IncludedTerritories {
		writeLeaf(buf, "TerritoryCode", t)
	}
	for _, t := range tr.ExcludedTerritories {
		writeLeaf(buf, "ExcludedTerritoryCode", t)
	}
	buf.WriteString("</TerritorialRights>")
}

func writeReleaseXML(buf *bytes.Buffer, r model.Release) {
	buf.WriteString("<Release>")
	if r.ReleaseID != "" {
		writeLeaf(buf, releaseIDTag(r.ReleaseIDType), r.ReleaseID)
	}
	if r.Type != "" {
		writeLeaf(buf, "ReleaseType", string(r.Type))
	}
	writeTitles(buf, "ReferenceTitle", r.Titles)
	writeLeaf(buf, "DisplayArtistName", r.DisplayArtist)
	writeLeaf(buf, "Genre", r.Genre)
	writeLeaf(buf, "SubGenre", r.SubGenre)
	writeDate(buf, "OriginalReleaseDate", r.OriginalReleaseDate)
	writeDate(buf, "ReleaseDate", r.ReleaseDate)
	for _, tok := range r.ReleaseResourceReferences {
		writeLeaf(buf, "ReleaseResourceReference", tok)
	}
	for _, t := range r.Tracks {
		writeTrackXML(buf, t)
	}
	writeExtensions(buf, r.Extensions)
	buf.WriteString("</Release>")
}

func releaseIDTag(idType string) string {
	switch idType {
	case "GRid":
		return "GRid"
	case "UPC":
		return "ICPN"
	default:
		return "ProprietaryId"
	}
}

func writeTrackXML(buf *bytes.Buffer, t model.Track) {
	fmt.Fprintf(buf, `<ResourceGroup SequenceNumber="%d">`, t.Position)
	writeLeaf(buf, "ResourceReference", t.ResourceReference)
	if t.DiscNumber > 0 {
		fmt.Fprintf(buf, "<DiscNumber>%d</DiscNumber>", t.DiscNumber)
	}
	buf.WriteString("</ResourceGroup>")
}

func writePartyXML(buf *bytes.Buffer, p model.Party) {
	buf.WriteString("<Party>")
	if p.Reference != "" {
		writeLeaf(buf, "PartyReference", p.Reference)
	}
	if p.ID != "" {
		writeLeaf(buf, "PartyId", p.ID)
	}
	buf.WriteString("<PartyName>")
	writeLeaf(buf, "FullName", p.Name)
	buf.WriteString("</PartyName>")
	writeExtensions(buf, p.Extensions)
	buf.WriteString("</Party>")
}

func writeDealXML(buf *bytes.Buffer, d model.Deal) {
	buf.WriteString("<ReleaseDeal>")
	writeLeaf(buf, "DealReference", d.DealID)
	for _, ref := range d.ReleaseReferences {
		writeLeaf(buf, "ReleaseReference", ref)
	}
	for _, t := range d.Territories {
		writeLeaf(buf, "TerritoryCode", t)
	}
	for _, u := range d.UsageTypes {
		writeLeaf(buf, "UseType", u)
	}
	if d.CommercialModelType != "" {
		writeLeaf(buf, "CommercialModelType", d.CommercialModelType)
	}
	writeDate(buf, "StartDate", d.Validity.Start)
	writeDate(buf, "EndDate", d.Validity.End)
	for _, r := range d.Restrictions {
		writeLeaf(buf, "Restriction", r)
	}
	writeExtensions(buf, d.Extensions)
	buf.WriteString("</ReleaseDeal>")
}
