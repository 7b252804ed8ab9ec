package parser

import (
	"io"

	"ddexcore/ddexerr"
	"ddexcore/model"
	"ddexcore/xmlsafe"
)

func (p *parserState) parsePartyList(msg *model.Message) *ddexerr.Error {
	for {
		ev, err := p.r.Next()
		if err == io.EOF {
			return ddexerr.NewXMLError("unexpected end of input in PartyList", ddexerr.Location{})
		}
		if err != nil {
			return asDDEXErr(err)
		}
		switch ev.Kind {
		case xmlsafe.EventEndElement:
			if ev.Name == "PartyList" {
				return nil
			}
		case xmlsafe.EventStartElement:
			if ev.Name == "Party" {
				party, perr := p.parseParty(ev)
				if perr != nil {
					return perr
				}
				msg.Parties = append(msg.Parties, party)
				p.progress.PartiesParsed++
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

// parseParty implements the PartyName tie-break of spec.md §4.3(i):
// a leaf text node and a nested <PartyName><FullName>…</FullName>
// </PartyName> container both yield Party.Name, with the nested form
// winning when both are present.
func (p *parserState) parseParty(root xmlsafe.Event) (model.Party, *ddexerr.Error) {
	party := model.Party{Reference: attr(root, "PartyReference")}
	leafName := ""
	nestedName := ""

	for {
		ev, err := p.r.Next()
		if err == io.EOF {
			return party, ddexerr.NewXMLError("unexpected end of input in Party", ddexerr.Location{})
		}
		if err != nil {
			return party, asDDEXErr(err)
		}
		switch ev.Kind {
		case xmlsafe.EventEndElement:
			if ev.Name == "Party" {
				if nestedName != "" {
					party.Name = nestedName
				} else {
					party.Name = leafName
				}
				return party, nil
			}
		case xmlsafe.EventStartElement:
			switch ev.Name {
			case "PartyId":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return party, terr
				}
				party.ID = text
			case "PartyName":
				name, pnErr := p.parsePartyName()
				if pnErr != nil {
					return party, pnErr
				}
				if name.nested != "" {
					nestedName = name.nested
				}
				if name.leaf != "" && nestedName == "" {
					leafName = name.leaf
				}
			case "PartyReference":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return party, terr
				}
				if party.Reference == "" {
					party.Reference = text
				}
			case "Role", "PartyRole":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return party, terr
				}
				party.Role = text
			default:
				if ferr := p.foldExtension(&party.ExtensionHolder, ev); ferr != nil {
					return party, ferr
				}
			}
		}
	}
}

type partyName struct {
	leaf   string
	nested string
}

// parsePartyName handles both the leaf-text and FullName-container
// shapes in a single pass: it accumulates CharData found directly
// under PartyName as the leaf candidate, and text under a nested
// FullName as the nested candidate.
func (p *parserState) parsePartyName() (partyName, *ddexerr.Error) {
	var pn partyName
	var leaf []byte
	depth := 0
	inFullName := false
	var fullName []byte

	for {
		ev, err := p.r.Next()
		if err == io.EOF {
			return pn, ddexerr.NewXMLError("unexpected end of input in PartyName", ddexerr.Location{})
		}
		if err != nil {
			return pn, asDDEXErr(err)
		}
		switch ev.Kind {
		case xmlsafe.EventStartElement:
			depth++
			if ev.Name == "FullName" && depth == 1 {
				inFullName = true
			}
		case xmlsafe.EventEndElement:
			if depth == 0 {
				pn.leaf = string(leaf)
				pn.nested = string(fullName)
				return pn, nil
			}
			if ev.Name == "FullName" {
				inFullName = false
			}
			depth--
		case xmlsafe.EventCharData:
			if isWhitespace(ev.Text) {
				continue
			}
			if inFullName {
				fullName = append(fullName, ev.Text...)
			} else if depth == 0 {
				leaf = append(leaf, ev.Text...)
			}
		}
	}
}
