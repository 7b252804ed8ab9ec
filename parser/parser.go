package parser

import (
	"bytes"
	"io"
	"time"

	"ddexcore/config"
	"ddexcore/ddexerr"
	"ddexcore/ernversion"
	"ddexcore/model"
	"ddexcore/xmlsafe"
)

// knownRootElements maps a root element local name to the message
// type it declares.
var knownRootElements = map[string]model.MessageType{
	"NewReleaseMessage":    model.MessageTypeNewRelease,
	"UpdateReleaseMessage": model.MessageTypeUpdateRelease,
	"PurgeReleaseMessage":  model.MessageTypeTakedown,
}

// Parse runs the Streaming Parser over data and returns the graph
// model. Version detection (a separate bounded pre-pass) must already
// have succeeded; Parse repeats it cheaply to stamp the header.
//
// opts.MaxMemoryBytes bounds the accumulated working-set as the scan
// proceeds (checked via checkMemoryLimit at each list entry) and is
// independent of xmlsafe's own MaxEntityExpansionBytes, which guards
// only the pre-parse entity-expansion scan against XXE-style bombs
// before a single model byte exists to bound.
func Parse(data []byte, opts config.ParseOptions) (*model.Message, *ddexerr.Error) {
	version, verr := ernversion.Detect(data)
	if verr != nil {
		return nil, verr
	}

	limits := xmlsafe.Limits{
		MaxEntityExpansionBytes: xmlsafe.DefaultLimits().MaxEntityExpansionBytes,
		MaxDepth:                opts.DepthLimit,
	}
	if opts.TimeoutMS > 0 {
		limits.Timeout = time.Duration(opts.TimeoutMS) * time.Millisecond
	} else {
		limits.Timeout = xmlsafe.DefaultLimits().Timeout
	}
	if limits.MaxDepth <= 0 {
		limits.MaxDepth = xmlsafe.DefaultLimits().MaxDepth
	}

	r, err := xmlsafe.Open(bytes.NewReader(data), limits)
	if err != nil {
		return nil, err
	}

	p := &parserState{r: r, opts: opts, version: version}
	return p.parseMessage()
}

// parseWithSideChannel is Parse plus the perfect-fidelity side
// channel: non-nil only when opts.FidelityLevel is FidelityPerfect,
// and populated with the comments/processing instructions observed at
// list granularity (the message body and the immediate children of
// PartyList/ResourceList/ReleaseList/DealList) as the scan proceeds.
// Comments nested inside a single entity (e.g. between two resource
// fields) are not captured.
func parseWithSideChannel(data []byte, opts config.ParseOptions) (*model.Message, *model.SideChannel, *ddexerr.Error) {
	version, verr := ernversion.Detect(data)
	if verr != nil {
		return nil, nil, verr
	}

	limits := xmlsafe.Limits{
		MaxEntityExpansionBytes: xmlsafe.DefaultLimits().MaxEntityExpansionBytes,
		MaxDepth:                opts.DepthLimit,
	}
	if opts.TimeoutMS > 0 {
		limits.Timeout = time.Duration(opts.TimeoutMS) * time.Millisecond
	} else {
		limits.Timeout = xmlsafe.DefaultLimits().Timeout
	}
	if limits.MaxDepth <= 0 {
		limits.MaxDepth = xmlsafe.DefaultLimits().MaxDepth
	}

	r, err := xmlsafe.Open(bytes.NewReader(data), limits)
	if err != nil {
		return nil, nil, err
	}

	p := &parserState{r: r, opts: opts, version: version}
	if opts.FidelityLevel == model.FidelityPerfect {
		p.side = model.NewSideChannel()
	}
	msg, perr := p.parseMessage()
	return msg, p.side, perr
}

type parserState struct {
	r       *xmlsafe.Reader
	opts    config.ParseOptions
	version model.Version
	state   state
	progress config.Progress
	side    *model.SideChannel
}

// captureSideChannel records a comment or processing instruction
// observed at list granularity into p.side, keyed by the structural
// path it occurred at. A no-op when side-channel capture isn't active.
func (p *parserState) captureSideChannel(ev xmlsafe.Event) {
	if p.side == nil {
		return
	}
	switch ev.Kind {
	case xmlsafe.EventComment:
		p.side.Comments[ev.Location.Path] = append(p.side.Comments[ev.Location.Path], ev.Text)
	case xmlsafe.EventProcInst:
		inst := ev.PITarget + " " + ev.PIInst
		p.side.ProcessingInstructions[ev.Location.Path] = append(p.side.ProcessingInstructions[ev.Location.Path], inst)
	}
}

// checkMemoryLimit reports ddexerr.CategoryMemoryLimit once the bytes
// consumed from the input exceed opts.MaxMemoryBytes. ByteOffset is a
// conservative proxy for the accumulated model's working set rather
// than a live heap measurement, so this fires somewhat earlier than
// actual memory exhaustion would — deliberately, since the point is to
// bail before exhaustion, not after. A MaxMemoryBytes of zero or less
// disables the check.
func (p *parserState) checkMemoryLimit() *ddexerr.Error {
	if p.opts.MaxMemoryBytes <= 0 {
		return nil
	}
	if p.r.ByteOffset() > p.opts.MaxMemoryBytes {
		return ddexerr.NewMemoryLimitExceeded(p.opts.MaxMemoryBytes)
	}
	return nil
}

func (p *parserState) report() {
	if p.opts.ProgressCallback != nil {
		p.progress.CurrentDepth = p.r.Depth()
		p.opts.ProgressCallback(p.progress)
	}
}

// parseMessage implements states AtRoot and InMessage: it reads the
// root start element, dispatches each top-level child to its list
// handler, and finalizes on the root's end element.
func (p *parserState) parseMessage() (*model.Message, *ddexerr.Error) {
	p.state = stateAtRoot

	var root xmlsafe.Event
	for {
		ev, err := p.r.Next()
		if err == io.EOF {
			return nil, ddexerr.NewXMLError("empty document: no root element", ddexerr.Location{})
		}
		if err != nil {
			return nil, asDDEXErr(err)
		}
		if ev.Kind == xmlsafe.EventStartElement {
			root = ev
			break
		}
	}

	msgType, known := knownRootElements[root.Name]
	if !known {
		msgType = model.MessageTypeNewRelease
	}

	msg := &model.Message{
		Header: model.MessageHeader{
			Version: p.version,
			Type:    msgType,
		},
	}
	msg.Header.MessageID = attr(root, "MessageId")

	p.state = stateInMessage
	resourceRefSeen := make(map[string]bool)
	releaseResourceTokens := map[*model.Release][]string{}

	for {
		ev, err := p.r.Next()
		if err == io.EOF {
			return nil, ddexerr.NewXMLError("unexpected end of input in message body", ddexerr.Location{})
		}
		if err != nil {
			return nil, asDDEXErr(err)
		}

		switch ev.Kind {
		case xmlsafe.EventEndElement:
			if ev.Name == root.Name {
				if len(msg.Resources) == 0 && len(msg.Releases) == 0 && len(msg.Deals) == 0 {
					return nil, &ddexerr.Error{
						Code:     "NO_DATA",
						Category: ddexerr.CategoryMissingField,
						Severity: ddexerr.SeverityError,
						Message:  "document contains zero releases, resources, and deals",
						Hint:     "Check that the document is a complete ERN message",
					}
				}
				for rel, toks := range releaseResourceTokens {
					for _, t := range toks {
						rel.AddResourceReference(t)
					}
				}
				return msg, nil
			}

		case xmlsafe.EventStartElement:
			switch ev.Name {
			case "MessageHeader":
				p.state = stateInHeader
				hdr, perr := p.parseHeader(msg.Header)
				if perr != nil {
					return nil, perr
				}
				msg.Header = hdr
			case "PartyList":
				p.state = stateInPartyList
				if perr := p.parsePartyList(msg); perr != nil {
					return nil, perr
				}
			case "ResourceList":
				p.state = stateInResourceList
				if perr := p.parseResourceList(msg, resourceRefSeen); perr != nil {
					return nil, perr
				}
			case "ReleaseList":
				p.state = stateInReleaseList
				if perr := p.parseReleaseList(msg, releaseResourceTokens); perr != nil {
					return nil, perr
				}
			case "DealList":
				p.state = stateInDealList
				if perr := p.parseDealList(msg); perr != nil {
					return nil, perr
				}
			default:
				if perr := p.foldExtension(&msg.ExtensionHolder, ev); perr != nil {
					return nil, perr
				}
			}
		case xmlsafe.EventCharData:
			// whitespace between top-level children: dropped per
			// spec.md §4.3(iv).
		case xmlsafe.EventComment, xmlsafe.EventProcInst:
			p.captureSideChannel(ev)
		}
		if merr := p.checkMemoryLimit(); merr != nil {
			return nil, merr
		}
		p.report()
	}
}

// foldExtension captures ev, an element the caller does not recognize
// (whatever its namespace), as an opaque Extension on holder. When
// fidelity is "fast" or PreserveExtensions is off, the content is
// skipped instead of captured.
func (p *parserState) foldExtension(holder *model.ExtensionHolder, ev xmlsafe.Event) *ddexerr.Error {
	if p.opts.FidelityLevel == model.FidelityFast || !p.opts.PreserveExtensions {
		return skipElement(p.r)
	}
	ext, err := captureExtension(p.r, ev)
	if err != nil {
		return err
	}
	holder.AddExtension(ext)
	return nil
}
