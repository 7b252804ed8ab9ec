package parser

import (
	"io"

	"ddexcore/ddexerr"
	"ddexcore/model"
	"ddexcore/xmlsafe"
)

func (p *parserState) parseDealList(msg *model.Message) *ddexerr.Error {
	for {
		ev, err := p.r.Next()
		if err == io.EOF {
			return ddexerr.NewXMLError("unexpected end of input in DealList", ddexerr.Location{})
		}
		if err != nil {
			return asDDEXErr(err)
		}
		switch ev.Kind {
		case xmlsafe.EventEndElement:
			if ev.Name == "DealList" {
				return nil
			}
		case xmlsafe.EventStartElement:
			switch ev.Name {
			case "ReleaseDeal", "Deal":
				deal, derr := p.parseDeal(ev)
				if derr != nil {
					return derr
				}
				msg.Deals = append(msg.Deals, deal)
				p.progress.DealsParsed++
				if merr := p.checkMemoryLimit(); merr != nil {
					return merr
				}
			default:
				if ferr := p.foldExtension(&msg.ExtensionHolder, ev); ferr != nil {
					return ferr
				}
			}
		case xmlsafe.EventComment, xmlsafe.EventProcInst:
			p.captureSideChannel(ev)
		}
	}
}

func (p *parserState) parseDeal(root xmlsafe.Event) (model.Deal, *ddexerr.Error) {
	closeTag := root.Name
	deal := model.Deal{DealID: attr(root, "DealReference")}

	for {
		ev, err := p.r.Next()
		if err == io.EOF {
			return deal, ddexerr.NewXMLError("unexpected end of input in "+closeTag, ddexerr.Location{})
		}
		if err != nil {
			return deal, asDDEXErr(err)
		}
		switch ev.Kind {
		case xmlsafe.EventEndElement:
			if ev.Name == closeTag {
				return deal, nil
			}
		case xmlsafe.EventStartElement:
			switch ev.Name {
			case "DealReference":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return deal, terr
				}
				deal.DealID = text
			case "ReleaseReference":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return deal, terr
				}
				deal.ReleaseReferences = append(deal.ReleaseReferences, text)
			case "TerritoryCode":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return deal, terr
				}
				deal.Territories = append(deal.Territories, text)
			case "UseType":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return deal, terr
				}
				deal.UsageTypes = append(deal.UsageTypes, text)
			case "CommercialModelType":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return deal, terr
				}
				deal.CommercialModelType = text
			case "StartDate":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return deal, terr
				}
				deal.Validity.Start = parseTimeDefault(text)
			case "EndDate":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return deal, terr
				}
				deal.Validity.End = parseTimeDefault(text)
			case "Restriction":
				text, terr := readLeafText(p.r)
				if terr != nil {
					return deal, terr
				}
				deal.Restrictions = append(deal.Restrictions, text)
			default:
				if ferr := p.foldExtension(&deal.ExtensionHolder, ev); ferr != nil {
					return deal, ferr
				}
			}
		}
	}
}
