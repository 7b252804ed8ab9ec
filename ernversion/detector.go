// Package ernversion implements the Version Detector of spec.md §4.2:
// identify ERN 3.8.2 / 4.2 / 4.3 from the root element's namespace and
// MessageSchemaVersionId attribute, without consuming more of the
// input than the root start tag.
package ernversion

import (
	"bytes"
	"io"
	"strings"
	"time"

	"ddexcore/ddexerr"
	"ddexcore/model"
	"ddexcore/xmlsafe"
)

// detectLimits caps how deep/long the detector will look: it only
// ever needs the root element, but a malicious document shouldn't be
// able to make detection itself expensive.
var detectLimits = xmlsafe.Limits{
	MaxEntityExpansionBytes: 1024,
	MaxDepth:                4,
	Timeout:                 2 * time.Second,
}

// Detect inspects data and returns the ERN version it declares, or a
// *ddexerr.Error (UnsupportedVersion, or an XML/security error if the
// input is unparsable at the root).
func Detect(data []byte) (model.Version, *ddexerr.Error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return "", ddexerr.NewXMLError("empty input: cannot detect version", ddexerr.Location{})
	}

	r, err := xmlsafe.Open(bytes.NewReader(data), detectLimits)
	if err != nil {
		return "", err
	}

	for {
		ev, nerr := r.Next()
		if nerr == io.EOF {
			return "", ddexerr.NewXMLError("no root element found", ddexerr.Location{})
		}
		if nerr != nil {
			if de, ok := nerr.(*ddexerr.Error); ok {
				return "", de
			}
			return "", ddexerr.NewXMLError(nerr.Error(), ddexerr.Location{})
		}
		if ev.Kind != xmlsafe.EventStartElement {
			continue
		}

		var raw string
		for _, a := range ev.Attrs {
			if a.Name == "MessageSchemaVersionId" {
				raw = a.Value
				break
			}
		}

		if v, ok := fromSchemaVersionID(raw); ok {
			return v, nil
		}
		if v, ok := fromNamespace(ev.Namespace); ok {
			return v, nil
		}
		return "", ddexerr.NewUnsupportedVersion(firstNonEmpty(raw, ev.Namespace, "unknown"))
	}
}

func fromSchemaVersionID(raw string) (model.Version, bool) {
	switch {
	case raw == "":
		return "", false
	case strings.Contains(raw, "3.8.2") || strings.Contains(raw, "382"):
		return model.V3_8_2, true
	case strings.Contains(raw, "4.3") || strings.Contains(raw, "43"):
		return model.V4_3, true
	case strings.Contains(raw, "4.2") || strings.Contains(raw, "42"):
		return model.V4_2, true
	default:
		return "", false
	}
}

func fromNamespace(ns string) (model.Version, bool) {
	switch {
	case strings.Contains(ns, "382"):
		return model.V3_8_2, true
	case strings.Contains(ns, "43"):
		return model.V4_3, true
	case strings.Contains(ns, "42"):
		return model.V4_2, true
	default:
		return "", false
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
