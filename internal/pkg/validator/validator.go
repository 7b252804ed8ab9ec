// Package validator wraps go-playground/validator/v10 for the
// builder's required-field and format checks, adapted from the
// teacher's domain.Track validator to the model package's
// Resource/Release types and a locally-owned result shape.
package validator

import (
	"regexp"

	govalidator "github.com/go-playground/validator/v10"

	"ddexcore/model"
)

// Result mirrors the teacher's domain.ValidationResult shape.
type Result struct {
	IsValid bool
	Errors  []FieldError
}

// FieldError names one failed field and the reason.
type FieldError struct {
	Field   string
	Message string
}

var isrcPattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{3}\d{7}$`)
var territoryPattern = regexp.MustCompile(`^([A-Z]{2}|Worldwide)$`)
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Validator registers the ERN-specific tags ("isrc", "territorycode",
// "erndate") on top of the stock validator, the same
// RegisterValidation pattern the teacher used for its own custom
// tags.
type Validator struct {
	validate *govalidator.Validate
}

func New() *Validator {
	v := govalidator.New()
	_ = v.RegisterValidation("isrc", func(fl govalidator.FieldLevel) bool {
		return isrcPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("territorycode", func(fl govalidator.FieldLevel) bool {
		return territoryPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("erndate", func(fl govalidator.FieldLevel) bool {
		return datePattern.MatchString(fl.Field().String())
	})
	return &Validator{validate: v}
}

func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

func (v *Validator) Var(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}

// ValidateResource checks the required-field and format rules that
// apply independent of any preset: every resource needs a reference
// token and a title, and an ISRC-typed id must look like an ISRC.
func (v *Validator) ValidateResource(r *model.Resource) Result {
	var errs []FieldError
	if r.ResourceReference == "" {
		errs = append(errs, FieldError{Field: "ResourceReference", Message: "required"})
	}
	if r.Titles.Get("") == "" {
		errs = append(errs, FieldError{Field: "Titles", Message: "at least one title is required"})
	}
	if r.ResourceIDType == "ISRC" {
		if err := v.Var(r.ResourceID, "isrc"); err != nil {
			errs = append(errs, FieldError{Field: "ResourceID", Message: "not a valid ISRC"})
		}
	}
	return Result{IsValid: len(errs) == 0, Errors: errs}
}

// ValidateRelease checks the required-field rules for a release.
func (v *Validator) ValidateRelease(r *model.Release) Result {
	var errs []FieldError
	if r.ReleaseID == "" {
		errs = append(errs, FieldError{Field: "ReleaseID", Message: "required"})
	}
	if r.Titles.Get("") == "" {
		errs = append(errs, FieldError{Field: "Titles", Message: "at least one title is required"})
	}
	if len(r.ReleaseResourceReferences) == 0 && len(r.Tracks) == 0 {
		errs = append(errs, FieldError{Field: "Tracks", Message: "a release needs at least one resource reference"})
	}
	return Result{IsValid: len(errs) == 0, Errors: errs}
}
