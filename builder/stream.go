package builder

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"ddexcore/canon"
	"ddexcore/config"
	"ddexcore/ddexerr"
	"ddexcore/model"
)

type phase string

const (
	phaseNotStarted    phase = "NotStarted"
	phaseStarted       phase = "Started"
	phaseInResources   phase = "InResources"
	phaseInReleases    phase = "InReleases"
	phaseFinished      phase = "Finished"
)

// Streaming implements spec.md §4.6's streaming build mode: resources
// and releases are written one at a time without the full document
// ever being held in memory as a DOM, transitioning through the
// documented phases. Calling an operation out of phase is a
// PhaseError. A Streaming value is single-producer: StartMessage
// claims it, and a second concurrent StartMessage is rejected rather
// than serialized, matching "at-most-one build per in-flight request".
type Streaming struct {
	mu    sync.Mutex
	phase phase
	opts  config.BuildOptions
	buf   bytes.Buffer

	header  model.MessageHeader
	stats   model.Stats
	rootTag string

	resources []model.Resource
}

// NewStreaming constructs an idle streaming builder.
func NewStreaming(opts config.BuildOptions) *Streaming {
	return &Streaming{phase: phaseNotStarted, opts: opts}
}

// requirePhase must be called with s.mu held.
func (s *Streaming) requirePhase(op string, want phase) *ddexerr.Error {
	if s.phase != want {
		return ddexerr.NewPhaseError(op, string(s.phase))
	}
	return nil
}

// StartMessage opens the document root, the message header, and (if
// any are given) the party list. A second StartMessage on a Streaming
// already past NotStarted is rejected as a PhaseError: the instance is
// single-producer for its whole lifecycle, not just for this call.
// Parties are not part of the streaming contract spec.md §4.6 names
// (they're known upfront, unlike resources/releases) so they're
// accepted as a batch here rather than through a per-phase write call.
func (s *Streaming) StartMessage(header model.MessageHeader, version model.Version, parties []model.Party) *ddexerr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePhase("StartMessage", phaseNotStarted); err != nil {
		return err
	}

	header.Version = version
	if header.MessageID == "" {
		header.MessageID = uuid.New().String()
	}
	s.header = header

	root := string(header.Type)
	if root == "" {
		root = "NewReleaseMessage"
	}

	if ns := model.NamespaceFor(version); ns != "" {
		fmt.Fprintf(&s.buf, `<%s xmlns="%s" MessageSchemaVersionId="%s">`, root, escAttr(ns), escAttr(string(version)))
	} else {
		fmt.Fprintf(&s.buf, `<%s MessageSchemaVersionId="%s">`, root, escAttr(string(version)))
	}
	s.writeHeader()
	if len(parties) > 0 {
		s.buf.WriteString("<PartyList>")
		for _, p := range parties {
			writePartyXML(&s.buf, p)
		}
		s.buf.WriteString("</PartyList>")
	}
	s.buf.WriteString("<ResourceList>")

	s.phase = phaseInResources
	s.rootTag = root
	return nil
}

// WriteResource appends one resource; valid only in phase
// InResources.
func (s *Streaming) WriteResource(r model.Resource) *ddexerr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requirePhase("WriteResource", phaseInResources); err != nil {
		return err
	}
	writeResourceXML(&s.buf, r)
	s.resources = append(s.resources, r)
	return nil
}

// FinishResourcesStartReleases closes ResourceList and opens
// ReleaseList, transitioning InResources → InReleases.
func (s *Streaming) FinishResourcesStartReleases() *ddexerr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requirePhase("FinishResourcesStartReleases", phaseInResources); err != nil {
		return err
	}
	s.buf.WriteString("</ResourceList><ReleaseList>")
	s.phase = phaseInReleases
	return nil
}

// WriteRelease appends one release; valid only in phase InReleases.
func (s *Streaming) WriteRelease(r model.Release) *ddexerr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requirePhase("WriteRelease", phaseInReleases); err != nil {
		return err
	}
	writeReleaseXML(&s.buf, r)
	s.stats.ReleaseCount++
	s.stats.TrackCount += len(r.Tracks)
	return nil
}

// FinishMessage closes ReleaseList, writes the deal list (if any),
// closes the root, canonicalizes per options, and returns the final
// bytes plus stats. Deals, like parties, are known upfront rather than
// streamed one at a time, so they're accepted here as a batch. The
// Streaming value cannot be reused afterward.
func (s *Streaming) FinishMessage(deals []model.Deal) ([]byte, model.Stats, *ddexerr.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requirePhase("FinishMessage", phaseInReleases); err != nil {
		return nil, model.Stats{}, err
	}
	s.buf.WriteString("</ReleaseList>")
	if len(deals) > 0 {
		s.buf.WriteString("<DealList>")
		for _, d := range deals {
			writeDealXML(&s.buf, d)
		}
		s.buf.WriteString("</DealList>")
		s.stats.DealCount = len(deals)
	}
	fmt.Fprintf(&s.buf, "</%s>", s.rootTag)
	s.phase = phaseFinished

	out, err := canon.Canonicalize(s.buf.Bytes(), s.opts.Canonicalization, s.opts.PreserveNamespacePrefixes)
	if err != nil {
		return nil, model.Stats{}, err
	}
	return out, s.stats, nil
}

func (s *Streaming) writeHeader() {
	s.buf.WriteString("<MessageHeader>")
	writeLeaf(&s.buf, "MessageId", s.header.MessageID)
	if !s.header.Created.IsZero() {
		writeLeaf(&s.buf, "MessageCreatedDateTime", s.header.Created.Format("2006-01-02T15:04:05"))
	}
	if s.header.Sender.Name != "" || s.header.Sender.ID != "" {
		s.buf.WriteString("<MessageSender>")
		writeLeaf(&s.buf, "PartyId", s.header.Sender.ID)
		writeLeaf(&s.buf, "PartyName", s.header.Sender.Name)
		s.buf.WriteString("</MessageSender>")
	}
	if s.header.Recipient.Name != "" || s.header.Recipient.ID != "" {
		s.buf.WriteString("<MessageRecipient>")
		writeLeaf(&s.buf, "PartyId", s.header.Recipient.ID)
		writeLeaf(&s.buf, "PartyName", s.header.Recipient.Name)
		s.buf.WriteString("</MessageRecipient>")
	}
	s.buf.WriteString("</MessageHeader>")
}
