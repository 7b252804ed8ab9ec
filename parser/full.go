package parser

import (
	"github.com/sirupsen/logrus"

	"ddexcore/config"
	"ddexcore/ddexerr"
	"ddexcore/ernversion"
	"ddexcore/model"
	"ddexcore/transform"
)

// ParseFull runs the full parse pipeline: version detection, the
// streaming parser, and the graph-to-flat transform, bundling both
// views into a ParsedMessage exactly as spec.md §3.2 requires.
func ParseFull(data []byte, opts config.ParseOptions) (*model.ParsedMessage, *ddexerr.Error) {
	graph, side, err := parseWithSideChannel(data, opts)
	if err != nil {
		logrus.WithError(err).WithField("bytes", len(data)).Warn("parse failed")
		return nil, err
	}

	flat, err := transform.Transform(graph, opts)
	if err != nil {
		logrus.WithError(err).WithField("message_id", graph.Header.MessageID).Warn("transform failed")
		return nil, err
	}

	pm := &model.ParsedMessage{
		Version:  graph.Header.Version,
		Graph:    graph,
		Flat:     flat,
		Fidelity: opts.FidelityLevel,
		Side:     side,
	}
	return pm, nil
}

// SanityCheck implements spec.md §6.1's sanity_check: it never raises,
// always returning a report enumerating every detectable problem in
// one pass.
type SanityReport struct {
	IsValid  bool
	Version  model.Version
	Errors   []string
	Warnings []string
}

// SanityCheck recovers past structural-model problems the way ParseFull
// never does: a malformed token stream still halts it immediately (the
// Safe XML Reader itself offers no way back from that), but once a
// graph is in hand, every dangling reference and reference cycle is
// collected via transform.TransformLenient instead of stopping at the
// first one, so the report enumerates everything wrong in one pass.
func SanityCheck(data []byte) SanityReport {
	report := SanityReport{}

	version, verr := ddexVersionOrReport(data, &report)
	if verr {
		return report
	}
	report.Version = version

	opts := config.DefaultParseOptions()
	graph, err := Parse(data, opts)
	if err != nil {
		report.Errors = append(report.Errors, err.Error())
		return report
	}

	_, problems := transform.TransformLenient(graph, opts)
	report.Errors = append(report.Errors, problems...)

	if len(report.Errors) == 0 {
		report.IsValid = true
		logrus.WithField("version", report.Version).Debug("sanity check passed")
	}
	return report
}

func ddexVersionOrReport(data []byte, report *SanityReport) (model.Version, bool) {
	version, verr := ernversion.Detect(data)
	if verr != nil {
		report.Errors = append(report.Errors, verr.Error())
		return "", true
	}
	return version, false
}
