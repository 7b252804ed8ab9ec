package parser

import (
	"io"

	"ddexcore/ddexerr"
	"ddexcore/model"
	"ddexcore/xmlsafe"
)

func (p *parserState) parseReleaseList(msg *model.Message, refTokens map[*model.Release][]string) *ddexerr.Error {
	for {
		ev, err := p.r.Next()
		if err == io.EOF {
			return ddexerr.NewXMLError("unexpected end of input in ReleaseList", ddexerr.Location{})
		}
		if err != nil {
			return asDDEXErr(err)
		}
		switch ev.Kind {
		case xmlsafe.EventEndElement:
			if ev.Name == "ReleaseList" {
				return nil
			}
		case xmlsafe.EventStartElement:
			if ev.Name == "Release" {
				rel, toks, rerr := p.parseRelease(ev)
				if rerr != nil {
					return rerr
				}
				msg.Releases = append(msg.Releases, rel)
				last := &msg.Releases[len(msg.Releases)-1]
				for _, t := range toks {
					last.AddResourceReference(t)
				}
				p.progress.ReleasesParsed++
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

// parseRelease implements the ReleaseResourceReference tie-break of
// spec.md §4.3(ii): reference tokens are collected both from direct
// ReleaseResourceReference children and from inline track
// ResourceReference children, de-duplicated in first-seen order. The
// collected token list is returned alongside the release, and
// parseReleaseList adds the tokens to the copy it appends to the
// message.
func (p *parserState) parseRelease(root xmlsafe.Event) (model.Release, []string, *ddexerr.Error) {
	rel := model.Release{
		ReleaseID:     attr(root, "ReleaseId"),
		ReleaseIDType: "Proprietary",
	}
	var tokens []string
	seenTok := map[string]bool{}
	addToken := func(tok string) {
		if tok == "" || seenTok[tok] {
			return
		}
		seenTok[tok] = true
		tokens = append(tokens, tok)
	}
	nextTrackPosition := 1

	for {
		ev, err := p.r.Next()
		if err == io.EOF {
			return rel, tokens, ddexerr.NewXMLError("unexpected end of input in Release", ddexerr.Location{})
		}
		if err != nil {
			return rel, tokens, asDDEXErr(err)
		}
		switch ev.Kind {
		case xmlsafe.EventEndElement:
			if ev.Name == "Release" {
				return rel, tokens, nil
			}
		case xmlsafe.EventStartElement:
			switch ev.Name {
			case "ReleaseId", "GRid", "ICPN", "ProprietaryId":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return rel, tokens, terr
				}
				rel.ReleaseID = text
				rel.ReleaseIDType = releaseIDTypeFor(ev.Name)
			case "ReleaseType":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return rel, tokens, terr
				}
				rel.Type = model.ReleaseType(text)
			case "ReferenceTitle", "TitleText", "Title":
				locale := attr(ev, "LanguageAndScriptCode")
				text, terr := readLeafText(p.r)
				if terr != nil {
					return rel, tokens, terr
				}
				rel.Titles.Add(locale, text)
			case "DisplayArtistName", "ArtistName":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return rel, tokens, terr
				}
				rel.DisplayArtist = text
			case "Genre", "GenreText":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return rel, tokens, terr
				}
				rel.Genre = text
			case "SubGenre":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return rel, tokens, terr
				}
				rel.SubGenre = text
			case "OriginalReleaseDate":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return rel, tokens, terr
				}
				rel.OriginalReleaseDate = parseTimeDefault(text)
			case "ReleaseDate":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return rel, tokens, terr
				}
				rel.ReleaseDate = parseTimeDefault(text)
			case "ReleaseResourceReference":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return rel, tokens, terr
				}
				addToken(text)
			case "ResourceGroup", "TrackRelease":
				track, trackToken, terr := p.parseTrack(ev, nextTrackPosition)
				if terr != nil {
					return rel, tokens, terr
				}
				nextTrackPosition++
				rel.Tracks = append(rel.Tracks, track)
				addToken(trackToken)
			default:
				if ferr := p.foldExtension(&rel.ExtensionHolder, ev); ferr != nil {
					return rel, tokens, ferr
				}
			}
		}
	}
}

func releaseIDTypeFor(elemName string) string {
	switch elemName {
	case "GRid":
		return "GRid"
	case "ICPN":
		return "UPC"
	default:
		return "Proprietary"
	}
}

// parseTrack consumes a track-bearing subtree (ResourceGroup or a
// dedicated TrackRelease element), resolving its position either from
// a SequenceNumber attribute/child or from document order.
func (p *parserState) parseTrack(root xmlsafe.Event, fallbackPosition int) (model.Track, string, *ddexerr.Error) {
	closeTag := root.Name
	track := model.Track{Position: parseIntDefault(attr(root, "SequenceNumber"), fallbackPosition)}
	var token string

	for {
		ev, err := p.r.Next()
		if err == io.EOF {
			return track, token, ddexerr.NewXMLError("unexpected end of input in "+closeTag, ddexerr.Location{})
		}
		if err != nil {
			return track, token, asDDEXErr(err)
		}
		switch ev.Kind {
		case xmlsafe.EventEndElement:
			if ev.Name == closeTag {
				track.ResourceReference = token
				return track, token, nil
			}
		case xmlsafe.EventStartElement:
			switch ev.Name {
			case "ResourceReference":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return track, token, terr
				}
				token = text
			case "SequenceNumber":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return track, token, terr
				}
				track.Position = parseIntDefault(text, track.Position)
			case "DiscNumber":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return track, token, terr
				}
				track.DiscNumber = parseIntDefault(text, 0)
			default:
				if serr := skipElement(p.r); serr != nil {
					return track, token, serr
				}
			}
		}
	}
}
