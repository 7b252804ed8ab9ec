package parser

import (
	"bytes"
	"io"

	"ddexcore/config"
	"ddexcore/ddexerr"
	"ddexcore/ernversion"
	"ddexcore/model"
	"ddexcore/xmlsafe"
)

// Fragments is a sequential pre-pass's output: the document's root
// tag and namespace declaration plus each ResourceList/ReleaseList
// child re-serialized as a standalone XML fragment, in document
// order. It exists to let the parallel package split work at points
// the Safe XML Reader has already proven are outside any element's
// content, per spec.md §5, without reasoning about raw byte offsets.
type Fragments struct {
	RootTag           string
	RootAttrs         []xmlsafe.Attr
	Version           model.Version
	HeaderFragment    string
	PartyListFragment string
	DealListFragment  string
	ResourceFragments []string
	ReleaseFragments  []string
}

// ExtractFragments runs a single sequential scan over data, capturing
// each top-level Resource and Release element as a re-serialized
// fragment without materializing the full model.
func ExtractFragments(data []byte, opts config.ParseOptions) (*Fragments, *ddexerr.Error) {
	version, verr := ernversion.Detect(data)
	if verr != nil {
		return nil, verr
	}

	limits := xmlsafe.Limits{
		MaxEntityExpansionBytes: xmlsafe.DefaultLimits().MaxEntityExpansionBytes,
		MaxDepth:                opts.DepthLimit,
	}
	if limits.MaxDepth <= 0 {
		limits.MaxDepth = xmlsafe.DefaultLimits().MaxDepth
	}
	limits.Timeout = xmlsafe.DefaultLimits().Timeout

	r, err := xmlsafe.Open(bytes.NewReader(data), limits)
	if err != nil {
		return nil, err
	}

	frags := &Fragments{Version: version}

	var root xmlsafe.Event
	for {
		ev, nerr := r.Next()
		if nerr == io.EOF {
			return nil, ddexerr.NewXMLError("empty document", ddexerr.Location{})
		}
		if nerr != nil {
			return nil, asDDEXErr(nerr)
		}
		if ev.Kind == xmlsafe.EventStartElement {
			root = ev
			break
		}
	}
	frags.RootTag = root.Name
	frags.RootAttrs = root.Attrs

	for {
		ev, nerr := r.Next()
		if nerr == io.EOF {
			return nil, ddexerr.NewXMLError("unexpected end of input", ddexerr.Location{})
		}
		if nerr != nil {
			return nil, asDDEXErr(nerr)
		}
		if ev.Kind == xmlsafe.EventEndElement && ev.Name == root.Name {
			return frags, nil
		}
		if ev.Kind != xmlsafe.EventStartElement {
			continue
		}
		switch ev.Name {
		case "MessageHeader", "PartyList", "DealList":
			ext, cerr := captureExtension(r, ev)
			if cerr != nil {
				return nil, cerr
			}
			switch ev.Name {
			case "MessageHeader":
				frags.HeaderFragment = string(ext.RawXML)
			case "PartyList":
				frags.PartyListFragment = string(ext.RawXML)
			case "DealList":
				frags.DealListFragment = string(ext.RawXML)
			}
		case "ResourceList":
			fs, cerr := captureChildren(r, "ResourceList")
			if cerr != nil {
				return nil, cerr
			}
			frags.ResourceFragments = fs
		case "ReleaseList":
			fs, cerr := captureChildren(r, "ReleaseList")
			if cerr != nil {
				return nil, cerr
			}
			frags.ReleaseFragments = fs
		default:
			if serr := skipElement(r); serr != nil {
				return nil, serr
			}
		}
		if opts.MaxMemoryBytes > 0 && r.ByteOffset() > opts.MaxMemoryBytes {
			return nil, ddexerr.NewMemoryLimitExceeded(opts.MaxMemoryBytes)
		}
	}
}

// captureChildren consumes events until closeTag's EndElement,
// re-serializing each direct child element as its own fragment.
func captureChildren(r *xmlsafe.Reader, closeTag string) ([]string, *ddexerr.Error) {
	var out []string
	for {
		ev, err := r.Next()
		if err == io.EOF {
			return nil, ddexerr.NewXMLError("unexpected end of input in "+closeTag, ddexerr.Location{})
		}
		if err != nil {
			return nil, asDDEXErr(err)
		}
		if ev.Kind == xmlsafe.EventEndElement && ev.Name == closeTag {
			return out, nil
		}
		if ev.Kind != xmlsafe.EventStartElement {
			continue
		}
		ext, cerr := captureExtension(r, ev)
		if cerr != nil {
			return nil, cerr
		}
		out = append(out, string(ext.RawXML))
	}
}
