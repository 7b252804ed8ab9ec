// Package xmlsafe provides a bounded, entity-suppressed, depth-limited
// event cursor over XML bytes — the "Safe XML Reader" of spec.md §4.1.
// It never attempts recovery: the first structural error halts the
// stream.
package xmlsafe

import (
	"bufio"
	"encoding/xml"
	"errors"
	"io"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"ddexcore/ddexerr"
)

// Limits are the configurable safety limits: entity expansion budget,
// nesting depth, and wall-clock time. UTF-8 validation is always on and
// has no setting here.
type Limits struct {
	MaxEntityExpansionBytes int64
	MaxDepth                int
	Timeout                 time.Duration
}

// DefaultLimits matches the spec's conservative defaults.
func DefaultLimits() Limits {
	return Limits{
		MaxEntityExpansionBytes: 10 * 1024 * 1024,
		MaxDepth:                100,
		Timeout:                 30 * time.Second,
	}
}

// Reader is a single-shot cursor over XML events.
type Reader struct {
	dec      *xml.Decoder
	safe     *safeReader
	limits   Limits
	deadline time.Time
	depth    int
	stack    []string
	done     bool
}

// Open constructs a Reader over src. It Peeks (never consumes) a
// bounded prefix to reject external entities before any token is
// materialized.
func Open(src io.Reader, limits Limits) (*Reader, *ddexerr.Error) {
	safe := newSafeReader(src)
	bomless := transform.NewReader(safe, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	br := bufio.NewReaderSize(bomless, 64*1024)

	if err := scanForUnsafeEntities(br, limits.MaxEntityExpansionBytes); err != nil {
		return nil, err
	}

	dec := xml.NewDecoder(br)
	dec.Strict = true
	// No network access, ever: refuse any non-default charset that
	// would otherwise trigger a lookup.
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return nil, errors.New("external charset resolution is forbidden")
	}

	return &Reader{
		dec:      dec,
		safe:     safe,
		limits:   limits,
		deadline: time.Now().Add(limits.Timeout),
	}, nil
}

// Path returns the current element path, '/'-joined from the root.
func (r *Reader) Path() string {
	if len(r.stack) == 0 {
		return "/"
	}
	out := ""
	for _, s := range r.stack {
		out += "/" + s
	}
	return out
}

// Depth returns the current nesting depth.
func (r *Reader) Depth() int { return r.depth }

// ByteOffset returns how many input bytes have been consumed so far,
// a conservative proxy callers use to bound accumulated working-set
// memory against a ceiling (spec.md §6.1's max_memory_bytes): it grows
// monotonically with the decoded-model size but is cheap to read on
// every event, unlike actually measuring live heap usage.
func (r *Reader) ByteOffset() int64 { return r.safe.byteOffset }

// Next returns the next event, or io.EOF via the error when the
// stream is exhausted, or a *ddexerr.Error on any structural,
// security, depth, timeout, or encoding failure.
func (r *Reader) Next() (Event, error) {
	if r.done {
		return Event{}, io.EOF
	}
	if r.limits.Timeout > 0 && time.Now().After(r.deadline) {
		r.done = true
		return Event{}, ddexerr.NewTimeout(r.limits.Timeout.String())
	}

	tok, err := r.dec.Token()
	if err != nil {
		r.done = true
		if err == io.EOF {
			return Event{}, io.EOF
		}
		var de *ddexerr.Error
		if errors.As(err, &de) {
			return Event{}, de
		}
		return Event{}, ddexerr.NewXMLError(err.Error(), r.safe.location(r.Path()))
	}

	switch t := tok.(type) {
	case xml.StartElement:
		r.depth++
		if r.depth > r.limits.MaxDepth {
			r.done = true
			return Event{}, ddexerr.NewDepthLimitExceeded(r.depth, r.limits.MaxDepth, r.safe.location(r.Path()))
		}
		name := t.Name.Local
		r.stack = append(r.stack, name)
		ev := Event{Kind: EventStartElement, Name: name, Namespace: t.Name.Space, Location: r.safe.location(r.Path())}
		for _, a := range t.Attr {
			ev.Attrs = append(ev.Attrs, Attr{Name: qualifiedName(a.Name), Value: a.Value})
		}
		return ev, nil

	case xml.EndElement:
		name := t.Name.Local
		path := r.Path()
		if len(r.stack) == 0 {
			r.done = true
			return Event{}, ddexerr.NewXMLError("unmatched end element: "+name, r.safe.location(path))
		}
		expected := r.stack[len(r.stack)-1]
		if expected != name {
			r.done = true
			return Event{}, ddexerr.NewXMLError(
				"mismatched tags: expected </"+expected+"> found </"+name+">",
				r.safe.location(path))
		}
		r.stack = r.stack[:len(r.stack)-1]
		r.depth--
		return Event{Kind: EventEndElement, Name: name, Namespace: t.Name.Space, Location: r.safe.location(path)}, nil

	case xml.CharData:
		return Event{Kind: EventCharData, Text: string(t), Location: r.safe.location(r.Path())}, nil

	case xml.Comment:
		return Event{Kind: EventComment, Text: string(t), Location: r.safe.location(r.Path())}, nil

	case xml.ProcInst:
		return Event{Kind: EventProcInst, PITarget: t.Target, PIInst: string(t.Inst), Location: r.safe.location(r.Path())}, nil

	default:
		// Directive (DOCTYPE) or other token: not a structural event,
		// skip to the next one.
		return r.Next()
	}
}

func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
