package builder

import (
	"github.com/sirupsen/logrus"

	"ddexcore/config"
	"ddexcore/ddexerr"
	"ddexcore/internal/pkg/validator"
	"ddexcore/model"
	"ddexcore/preset"
)

// Build runs the non-streaming path: validate against the selected
// preset (if any) and the field validator, then drive a Streaming
// builder through its full phase sequence in one call.
func Build(req Request, opts config.BuildOptions) (*Result, *ddexerr.Error) {
	index := model.NewResourceIndex()
	for i := range req.Resources {
		index.Put(req.Resources[i].ResourceReference, &req.Resources[i])
	}

	v := validator.New()
	for i := range req.Resources {
		if res := v.ValidateResource(&req.Resources[i]); !res.IsValid {
			return nil, fieldErrorsToDDEXErr(res.Errors)
		}
	}
	for i := range req.Releases {
		if res := v.ValidateRelease(&req.Releases[i]); !res.IsValid {
			return nil, fieldErrorsToDDEXErr(res.Errors)
		}
	}

	var presetErrors []string
	if req.PresetName != "" {
		p, ok := preset.Registry[req.PresetName]
		if !ok {
			return nil, ddexerr.NewInvalidValue("PresetName", req.PresetName)
		}
		for _, rel := range req.Releases {
			presetErrors = append(presetErrors, preset.Check(p, rel, index)...)
		}
		if len(presetErrors) > 0 {
			logrus.WithFields(logrus.Fields{"preset": req.PresetName, "violations": len(presetErrors)}).Warn("preset check failed")
			return nil, ddexerr.NewPresetViolation(presetErrors)
		}
	}

	s := NewStreaming(opts)
	if err := s.StartMessage(req.Header, req.Header.Version, req.Parties); err != nil {
		return nil, err
	}
	for _, r := range req.Resources {
		if err := s.WriteResource(r); err != nil {
			return nil, err
		}
	}
	if err := s.FinishResourcesStartReleases(); err != nil {
		return nil, err
	}
	for _, r := range req.Releases {
		if err := s.WriteRelease(r); err != nil {
			return nil, err
		}
	}
	xmlBytes, stats, err := s.FinishMessage(req.Deals)
	if err != nil {
		return nil, err
	}

	result := &Result{XML: xmlBytes, Stats: stats}

	if opts.EnableVerification {
		ok, verr := VerifyRoundTrip(xmlBytes, req, opts)
		if verr != nil {
			return nil, verr
		}
		result.Verified = ok
		if !ok {
			logrus.WithField("message_id", req.Header.MessageID).Warn("round-trip verification did not match")
		}
	}

	return result, nil
}

func fieldErrorsToDDEXErr(errs []validator.FieldError) *ddexerr.Error {
	if len(errs) == 0 {
		return nil
	}
	return ddexerr.NewMissingField(errs[0].Field)
}
