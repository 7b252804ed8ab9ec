// Package parallel implements the optional parallel parsing mode of
// spec.md §5: the input is partitioned at top-level element
// boundaries the Safe XML Reader has already proven lie outside any
// element's content, and each partition is parsed by an independent
// worker; results are merged back in document order.
package parallel

import (
	"bytes"
	"fmt"

	"golang.org/x/sync/errgroup"

	"ddexcore/config"
	"ddexcore/ddexerr"
	"ddexcore/model"
	"ddexcore/parser"
	"ddexcore/transform"
)

// Parse runs the parallel parsing mode over data with up to workers
// concurrent goroutines. A workers value ≤ 1 degrades to an ordinary
// sequential parser.ParseFull call.
func Parse(data []byte, opts config.ParseOptions, workers int) (*model.ParsedMessage, *ddexerr.Error) {
	if workers <= 1 {
		return parser.ParseFull(data, opts)
	}

	frags, err := parser.ExtractFragments(data, opts)
	if err != nil {
		return nil, err
	}

	shellOpts := opts
	shellOpts.ResolveReferences = false
	shellMsg, err := parser.Parse([]byte(buildShell(frags)), shellOpts)
	if err != nil {
		return nil, err
	}

	fragOpts := opts
	fragOpts.ResolveReferences = false

	resources, err := parseEntities(frags.RootTag, frags.ResourceFragments, workers, func(m *model.Message) int { return len(m.Resources) }, func(m *model.Message, i int) interface{} { return m.Resources[i] }, fragOpts, wrapResource)
	if err != nil {
		return nil, err
	}
	releases, err := parseEntities(frags.RootTag, frags.ReleaseFragments, workers, func(m *model.Message) int { return len(m.Releases) }, func(m *model.Message, i int) interface{} { return m.Releases[i] }, fragOpts, wrapRelease)
	if err != nil {
		return nil, err
	}

	merged := &model.Message{
		Header:          shellMsg.Header,
		Parties:         shellMsg.Parties,
		Deals:           shellMsg.Deals,
		ExtensionHolder: shellMsg.ExtensionHolder,
	}
	for _, r := range resources {
		merged.Resources = append(merged.Resources, r.(model.Resource))
	}
	for _, r := range releases {
		merged.Releases = append(merged.Releases, r.(model.Release))
	}

	flat, terr := transform.Transform(merged, opts)
	if terr != nil {
		return nil, terr
	}

	pm := &model.ParsedMessage{
		Version:  merged.Header.Version,
		Graph:    merged,
		Flat:     flat,
		Fidelity: opts.FidelityLevel,
	}
	return pm, nil
}

// buildShell assembles a minimal document carrying only the header,
// party list, and deal list, so the shell parse doesn't have to walk
// the (potentially huge) resource/release lists a second time.
func buildShell(frags *parser.Fragments) string {
	var b bytes.Buffer
	b.WriteByte('<')
	b.WriteString(frags.RootTag)
	for _, a := range frags.RootAttrs {
		fmt.Fprintf(&b, " %s=%q", a.Name, a.Value)
	}
	b.WriteByte('>')
	b.WriteString(frags.HeaderFragment)
	b.WriteString("<ResourceList><SoundRecording ResourceReference=\"shell\"><ISRC>XX0000000000</ISRC><ReferenceTitle><TitleText>shell</TitleText></ReferenceTitle></SoundRecording></ResourceList>")
	b.WriteString("<ReleaseList><Release><ReleaseId><ProprietaryId>shell</ProprietaryId></ReleaseId><ReferenceTitle><TitleText>shell</TitleText></ReferenceTitle><ReleaseResourceReference>shell</ReleaseResourceReference></Release></ReleaseList>")
	b.WriteString(frags.PartyListFragment)
	b.WriteString(frags.DealListFragment)
	fmt.Fprintf(&b, "</%s>", frags.RootTag)
	return b.String()
}

// wrapResource wraps a single ResourceList-child fragment in a
// synthetic document so the ordinary sequential parser can consume
// it without any change to its dispatch logic.
func wrapResource(rootTag, fragment string) string {
	return fmt.Sprintf("<%s><MessageHeader><MessageId>frag</MessageId><MessageCreatedDateTime>2000-01-01T00:00:00Z</MessageCreatedDateTime></MessageHeader><ResourceList>%s</ResourceList><ReleaseList></ReleaseList></%s>", rootTag, fragment, rootTag)
}

// wrapRelease wraps a single ReleaseList-child fragment in a synthetic
// document with an empty ResourceList; Parse's NO_DATA guard accepts
// it because the release alone is enough.
func wrapRelease(rootTag, fragment string) string {
	return fmt.Sprintf("<%s><MessageHeader><MessageId>frag</MessageId><MessageCreatedDateTime>2000-01-01T00:00:00Z</MessageCreatedDateTime></MessageHeader><ResourceList></ResourceList><ReleaseList>%s</ReleaseList></%s>", rootTag, fragment, rootTag)
}

// parseEntities fans fragments out across an errgroup-bounded worker
// pool, parsing each as its own synthetic document and extracting the
// single entity it carries; results are written into a pre-sized
// slice by index so no mutex is needed to preserve document order.
func parseEntities(rootTag string, fragments []string, workers int, count func(*model.Message) int, get func(*model.Message, int) interface{}, opts config.ParseOptions, wrap func(string, string) string) ([]interface{}, *ddexerr.Error) {
	if len(fragments) == 0 {
		return nil, nil
	}

	out := make([]interface{}, len(fragments))
	g := new(errgroup.Group)
	g.SetLimit(workers)

	for i, frag := range fragments {
		i, frag := i, frag
		g.Go(func() error {
			doc := wrap(rootTag, frag)
			msg, perr := parser.Parse([]byte(doc), opts)
			if perr != nil {
				return perr
			}
			if count(msg) == 0 {
				return ddexerr.NewXMLError("fragment produced no entity", ddexerr.Location{})
			}
			out[i] = get(msg, 0)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if derr, ok := err.(*ddexerr.Error); ok {
			return nil, derr
		}
		return nil, ddexerr.NewXMLError(err.Error(), ddexerr.Location{})
	}
	return out, nil
}
