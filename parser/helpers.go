package parser

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"ddexcore/ddexerr"
	"ddexcore/model"
	"ddexcore/xmlsafe"
)

func attr(ev xmlsafe.Event, name string) string {
	for _, a := range ev.Attrs {
		if a.Name == name || strings.HasSuffix(a.Name, ":"+name) {
			return a.Value
		}
	}
	return ""
}

// readLeafText consumes events until the matching EndElement for the
// element whose StartElement was already read, returning the
// concatenated, trimmed CharData. Any nested elements are skipped
// without error: a handful of ERN leaves (e.g. DisplayArtistName)
// occasionally carry sub-elements a reader should tolerate.
func readLeafText(r *xmlsafe.Reader) (string, *ddexerr.Error) {
	var buf strings.Builder
	depth := 0
	for {
		ev, err := r.Next()
		if err == io.EOF {
			return "", ddexerr.NewXMLError("unexpected end of input reading element text", ddexerr.Location{})
		}
		if err != nil {
			return "", asDDEXErr(err)
		}
		switch ev.Kind {
		case xmlsafe.EventStartElement:
			depth++
		case xmlsafe.EventEndElement:
			if depth == 0 {
				return strings.TrimSpace(buf.String()), nil
			}
			depth--
		case xmlsafe.EventCharData:
			if depth == 0 {
				buf.WriteString(ev.Text)
			}
		}
	}
}

// skipElement consumes and discards events until the matching
// EndElement for the already-read StartElement.
func skipElement(r *xmlsafe.Reader) *ddexerr.Error {
	depth := 0
	for {
		ev, err := r.Next()
		if err == io.EOF {
			return ddexerr.NewXMLError("unexpected end of input skipping element", ddexerr.Location{})
		}
		if err != nil {
			return asDDEXErr(err)
		}
		switch ev.Kind {
		case xmlsafe.EventStartElement:
			depth++
		case xmlsafe.EventEndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

// captureExtension re-serializes the subtree rooted at the
// already-read start event root into a self-contained XML fragment
// and skips past its EndElement. Comments and processing instructions
// encountered inside are preserved in the fragment; this is how
// unrecognized-namespace content survives for "perfect" fidelity.
func captureExtension(r *xmlsafe.Reader, root xmlsafe.Event) (model.Extension, *ddexerr.Error) {
	var buf bytes.Buffer
	writeStart(&buf, root)
	depth := 0
	for {
		ev, err := r.Next()
		if err == io.EOF {
			return model.Extension{}, ddexerr.NewXMLError("unexpected end of input in extension", ddexerr.Location{})
		}
		if err != nil {
			return model.Extension{}, asDDEXErr(err)
		}
		switch ev.Kind {
		case xmlsafe.EventStartElement:
			depth++
			writeStart(&buf, ev)
		case xmlsafe.EventEndElement:
			if depth == 0 {
				fmt.Fprintf(&buf, "</%s>", ev.Name)
				return model.Extension{Namespace: root.Namespace, LocalName: root.Name, RawXML: buf.Bytes()}, nil
			}
			depth--
			fmt.Fprintf(&buf, "</%s>", ev.Name)
		case xmlsafe.EventCharData:
			buf.WriteString(escapeText(ev.Text))
		case xmlsafe.EventComment:
			fmt.Fprintf(&buf, "<!--%s-->", ev.Text)
		case xmlsafe.EventProcInst:
			fmt.Fprintf(&buf, "<?%s %s?>", ev.PITarget, ev.PIInst)
		}
	}
}

func writeStart(buf *bytes.Buffer, ev xmlsafe.Event) {
	buf.WriteByte('<')
	buf.WriteString(ev.Name)
	for _, a := range ev.Attrs {
		fmt.Fprintf(buf, ` %s="%s"`, a.Name, escapeAttr(a.Value))
	}
	buf.WriteByte('>')
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

func escapeAttr(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", `"`, "&quot;")
	return r.Replace(s)
}

func asDDEXErr(err error) *ddexerr.Error {
	if de, ok := err.(*ddexerr.Error); ok {
		return de
	}
	return ddexerr.NewXMLError(err.Error(), ddexerr.Location{})
}

func isWhitespace(s string) bool {
	return strings.TrimSpace(s) == ""
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func parseFloatDefault(s string, def float64) float64 {
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

func parseTimeDefault(s string) time.Time {
	for _, layout := range []string{"2006-01-02T15:04:05Z07:00", "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
