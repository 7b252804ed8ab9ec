package parser

import (
	"io"

	"ddexcore/ddexerr"
	"ddexcore/model"
	"ddexcore/xmlsafe"
)

var resourceElements = map[string]model.ResourceType{
	"SoundRecording": model.ResourceSoundRecording,
	"Video":          model.ResourceVideo,
	"Image":          model.ResourceImage,
}

func (p *parserState) parseResourceList(msg *model.Message, seen map[string]bool) *ddexerr.Error {
	for {
		ev, err := p.r.Next()
		if err == io.EOF {
			return ddexerr.NewXMLError("unexpected end of input in ResourceList", ddexerr.Location{})
		}
		if err != nil {
			return asDDEXErr(err)
		}
		switch ev.Kind {
		case xmlsafe.EventEndElement:
			if ev.Name == "ResourceList" {
				return nil
			}
		case xmlsafe.EventStartElement:
			if rtype, ok := resourceElements[ev.Name]; ok {
				res, rerr := p.parseResource(ev, rtype)
				if rerr != nil {
					return rerr
				}
				if !seen[res.ResourceReference] {
					seen[res.ResourceReference] = true
					msg.Resources = append(msg.Resources, res)
					p.progress.ResourcesParsed++
				}
				if merr := p.checkMemoryLimit(); merr != nil {
					return merr
				}
			} else if ferr := p.foldExtension(&msg.ExtensionHolder, ev); ferr != nil {
				return ferr
			}
		case xmlsafe.EventComment, xmlsafe.EventProcInst:
			p.captureSideChannel(ev)
		}
	}
}

func (p *parserState) parseResource(root xmlsafe.Event, rtype model.ResourceType) (model.Resource, *ddexerr.Error) {
	res := model.Resource{
		ResourceReference: attr(root, "ResourceReference"),
		Type:              rtype,
	}
	closeTag := root.Name
	var durationSeconds float64
	var durationFormatted string

	for {
		ev, err := p.r.Next()
		if err == io.EOF {
			return res, ddexerr.NewXMLError("unexpected end of input in "+closeTag, ddexerr.Location{})
		}
		if err != nil {
			return res, asDDEXErr(err)
		}
		switch ev.Kind {
		case xmlsafe.EventEndElement:
			if ev.Name == closeTag {
				if durationSeconds != 0 || durationFormatted != "" {
					if d, derr := model.ParseOrDeriveDuration(durationSeconds, durationFormatted); derr == nil {
						res.Duration = d
					}
				}
				return res, nil
			}
		case xmlsafe.EventStartElement:
			switch ev.Name {
			case "ResourceId", "ISRC", "ISVN", "ProprietaryId":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return res, terr
				}
				res.ResourceID = text
				res.ResourceIDType = idTypeFor(ev.Name)
			case "ResourceReference":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return res, terr
				}
				if res.ResourceReference == "" {
					res.ResourceReference = text
				}
			case "LinkedReleaseResourceReference":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return res, terr
				}
				res.LinkedResourceReferences = append(res.LinkedResourceReferences, text)
			case "ReferenceTitle", "TitleText", "Title":
				locale := attr(ev, "LanguageAndScriptCode")
				text, terr := readLeafText(p.r)
				if terr != nil {
					return res, terr
				}
				res.Titles.Add(locale, text)
			case "DisplayArtistName", "ArtistName":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return res, terr
				}
				res.DisplayArtist = text
			case "Duration":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return res, terr
				}
				durationFormatted = text
			case "TechnicalDetails", "TechnicalSoundRecordingDetails", "TechnicalVideoDetails":
				td, derr := p.parseTechnicalDetails()
				if derr != nil {
					return res, derr
				}
				res.Technical = td
				if td.durationHint != 0 {
					durationSeconds = td.durationHint
				}
			case "TerritoryOfCommercialisation", "RightsController", "TerritorialRights":
				tr, terr := p.parseTerritorialRights(ev.Name)
				if terr != nil {
					return res, terr
				}
				if res.Rights == nil {
					res.Rights = &model.TerritorialRights{}
				}
				res.Rights.IncludedTerritories = append(res.Rights.IncludedTerritories, tr.IncludedTerritories...)
				res.Rights.ExcludedTerritories = append(res.Rights.ExcludedTerritories, tr.ExcludedTerritories...)
			default:
				if ferr := p.foldExtension(&res.ExtensionHolder, ev); ferr != nil {
					return res, ferr
				}
			}
		}
	}
}

func idTypeFor(elemName string) string {
	switch elemName {
	case "ISRC":
		return "ISRC"
	case "ISVN":
		return "ISVN"
	default:
		return "Proprietary"
	}
}

type technicalDetailsResult = model.TechnicalDetails

type technicalDetailsAccum struct {
	model.TechnicalDetails
	durationHint float64
}

func (p *parserState) parseTechnicalDetails() (technicalDetailsAccum, *ddexerr.Error) {
	var td technicalDetailsAccum
	for {
		ev, err := p.r.Next()
		if err == io.EOF {
			return td, ddexerr.NewXMLError("unexpected end of input in TechnicalDetails", ddexerr.Location{})
		}
		if err != nil {
			return td, asDDEXErr(err)
		}
		switch ev.Kind {
		case xmlsafe.EventEndElement:
			if isTechnicalDetailsClose(ev.Name) {
				return td, nil
			}
		case xmlsafe.EventStartElement:
			switch ev.Name {
			case "AudioCodecType", "VideoCodecType", "FileFormat":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return td, terr
				}
				td.FileFormat = text
			case "BitRate":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return td, terr
				}
				td.Bitrate = parseIntDefault(text, 0)
			case "SamplingRate":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return td, terr
				}
				td.SampleRate = parseIntDefault(text, 0)
			case "FileSize":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return td, terr
				}
				td.FileSize = int64(parseFloatDefault(text, 0))
			case "Duration":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return td, terr
				}
				if secs, perr := model.ParseDuration(text); perr == nil {
					td.durationHint = secs
				}
			default:
				if serr := skipElement(p.r); serr != nil {
					return td, serr
				}
			}
		}
	}
}

func isTechnicalDetailsClose(name string) bool {
	switch name {
	case "TechnicalDetails", "TechnicalSoundRecordingDetails", "TechnicalVideoDetails":
		return true
	default:
		return false
	}
}

func (p *parserState) parseTerritorialRights(closeTag string) (model.TerritorialRights, *ddexerr.Error) {
	var tr model.TerritorialRights
	for {
		ev, err := p.r.Next()
		if err == io.EOF {
			return tr, ddexerr.NewXMLError("unexpected end of input in "+closeTag, ddexerr.Location{})
		}
		if err != nil {
			return tr, asDDEXErr(err)
		}
		switch ev.Kind {
		case xmlsafe.EventEndElement:
			if ev.Name == closeTag {
				return tr, nil
			}
		case xmlsafe.EventStartElement:
			switch ev.Name {
			case "TerritoryCode":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return tr, terr
				}
				tr.IncludedTerritories = append(tr.IncludedTerritories, text)
			case "ExcludedTerritoryCode":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return tr, terr
				}
				tr.ExcludedTerritories = append(tr.ExcludedTerritories, text)
			default:
				if serr := skipElement(p.r); serr != nil {
					return tr, serr
				}
			}
		}
	}
}
