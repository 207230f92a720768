// Package validation configures the request validator shared by all handlers.
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Message bounds, mirrored by the max= tags on the send request
const (
	SubjectMaxLength = 200
	BodyMaxLength    = 5000
)

var roleKinds = map[string]bool{
	"STUDENT":     true,
	"PROFESSOR":   true,
	"INSTITUTION": true,
}

// New returns a validator that reports json field names and knows the
// custom "rolekind" rule.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	// registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("rolekind", validateRoleKind)
	return v
}

func validateRoleKind(fl validator.FieldLevel) bool {
	return roleKinds[strings.ToUpper(strings.TrimSpace(fl.Field().String()))]
}

// FieldIssue is one failed rule on one field
type FieldIssue struct {
	Field   string
	Message string
}

// Issues flattens validator errors into readable messages. Errors that are
// not validation errors yield nil.
func Issues(err error) []FieldIssue {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	issues := make([]FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, FieldIssue{Field: fe.Field(), Message: Message(fe)})
	}
	return issues
}

// Message renders a single field error
func Message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "required_with":
		return e.Field() + " is required when " + e.Param() + " is set"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gte":
		return e.Field() + " must be greater than or equal to " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "rolekind":
		return e.Field() + " must be one of: STUDENT, PROFESSOR, INSTITUTION"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
