package builder

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"ddexcore/config"
	"ddexcore/ddexerr"
	"ddexcore/model"
	"ddexcore/parser"
)

// VerifyRoundTrip re-parses xmlBytes and structurally compares the
// result against req. Unlike the original implementation this
// supersedes (which reported a fixed round-trip score regardless of
// content, see SPEC_FULL.md §D.4), this always performs a real
// comparison via go-cmp and returns whether it actually matched.
func VerifyRoundTrip(xmlBytes []byte, req Request, opts config.BuildOptions) (bool, *ddexerr.Error) {
	reparsed, err := parser.Parse(xmlBytes, opts.ParseOptions)
	if err != nil {
		return false, err
	}

	// The builder writes an untyped resource as <SoundRecording> and an
	// untyped release id as <ProprietaryId>, so expect those defaults.
	resources := append([]model.Resource(nil), req.Resources...)
	for i := range resources {
		if t := resources[i].Type; t != model.ResourceVideo && t != model.ResourceImage {
			resources[i].Type = model.ResourceSoundRecording
		}
	}
	releases := append([]model.Release(nil), req.Releases...)
	for i := range releases {
		if t := releases[i].ReleaseIDType; releases[i].ReleaseID != "" && t != "GRid" && t != "UPC" {
			releases[i].ReleaseIDType = "Proprietary"
		}
	}

	want := &model.Message{
		Header:    req.Header,
		Parties:   req.Parties,
		Resources: resources,
		Releases:  releases,
		Deals:     req.Deals,
	}

	diff := cmp.Diff(want, reparsed,
		cmpopts.IgnoreFields(model.MessageHeader{}, "Created", "MessageID"),
		cmpopts.EquateEmpty(),
	)
	return diff == "", nil
}
