package parser

import (
	"io"

	"ddexcore/ddexerr"
	"ddexcore/model"
	"ddexcore/xmlsafe"
)

// parseHeader implements states InHeader, InSender, InRecipient: the
// MessageHeader start tag has already been consumed.
func (p *parserState) parseHeader(hdr model.MessageHeader) (model.MessageHeader, *ddexerr.Error) {
	for {
		ev, err := p.r.Next()
		if err == io.EOF {
			return hdr, ddexerr.NewXMLError("unexpected end of input in MessageHeader", ddexerr.Location{})
		}
		if err != nil {
			return hdr, asDDEXErr(err)
		}
		switch ev.Kind {
		case xmlsafe.EventEndElement:
			if ev.Name == "MessageHeader" {
				return hdr, nil
			}
		case xmlsafe.EventStartElement:
			switch ev.Name {
			case "MessageId":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return hdr, terr
				}
				hdr.MessageID = text
			case "MessageCreatedDateTime":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return hdr, terr
				}
				hdr.Created = parseTimeDefault(text)
			case "MessageControlType", "MessageAudit":
				if serr := skipElement(p.r); serr != nil {
					return hdr, serr
				}
			case "MessageSender":
				p.state = stateInSender
				org, oerr := p.parseOrganization("MessageSender")
				if oerr != nil {
					return hdr, oerr
				}
				hdr.Sender = org
				p.state = stateInHeader
			case "MessageRecipient":
				p.state = stateInRecipient
				org, oerr := p.parseOrganization("MessageRecipient")
				if oerr != nil {
					return hdr, oerr
				}
				hdr.Recipient = org
				p.state = stateInHeader
			default:
				// MessageHeader carries no extension slot in the
				// model: unrecognized children are skipped.
				if serr := skipElement(p.r); serr != nil {
					return hdr, serr
				}
			}
		}
	}
}

func (p *parserState) parseOrganization(closeTag string) (model.Organization, *ddexerr.Error) {
	var org model.Organization
	for {
		ev, err := p.r.Next()
		if err == io.EOF {
			return org, ddexerr.NewXMLError("unexpected end of input in "+closeTag, ddexerr.Location{})
		}
		if err != nil {
			return org, asDDEXErr(err)
		}
		switch ev.Kind {
		case xmlsafe.EventEndElement:
			if ev.Name == closeTag {
				return org, nil
			}
		case xmlsafe.EventStartElement:
			switch ev.Name {
			case "PartyName", "PartyId":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return org, terr
				}
				if ev.Name == "PartyId" {
					org.ID = text
				} else if org.Name == "" {
					org.Name = text
				}
			default:
				if serr := skipElement(p.r); serr != nil {
					return org, serr
				}
			}
		}
	}
}
