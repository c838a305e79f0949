package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/donaldgifford/pubcfg/internal/model"
)

// ErrValidation matches every structural or domain validation failure.
var ErrValidation = errors.New("validation failed")

// validScopes are the Maven dependency scopes.
var validScopes = map[string]bool{
	"compile":  true,
	"test":     true,
	"runtime":  true,
	"provided": true,
	"system":   true,
	"import":   true,
}

// NewValidator returns a validator with the project's custom tags registered
// and error paths named after YAML keys.
func NewValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}

		if name == "" {
			return f.Name
		}

		return name
	})

	custom := map[string]validator.Func{
		"notblank":    validateNotBlank,
		"maven_scope": validateScope,
		"wait_until":  validateWaitUntil,
	}

	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("registering %s validation: %w", tag, err)
		}
	}

	return v, nil
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateScope(fl validator.FieldLevel) bool {
	return validScopes[strings.ToLower(fl.Field().String())]
}

func validateWaitUntil(fl validator.FieldLevel) bool {
	return model.ValidWaitUntil(fl.Field().String())
}

// ValidateEntries checks the batch in order and returns the first violation.
// Each entry is checked structurally, then by its domain rule. Duplicate ids
// are reported at the second occurrence.
func ValidateEntries(v *validator.Validate, kind model.Kind, entries []*model.Entry) error {
	seen := make(map[string]bool, len(entries))

	for i, e := range entries {
		if err := validateEntry(v, kind, e); err != nil {
			return fmt.Errorf("%w: %s[%d]%s: %w", ErrValidation, kind.Plural(), i, idSuffix(e), err)
		}

		if seen[e.ID] {
			return fmt.Errorf("%w: %s[%d]: duplicate id %q", ErrValidation, kind.Plural(), i, e.ID)
		}

		seen[e.ID] = true
	}

	return nil
}

func idSuffix(e *model.Entry) string {
	if e == nil || strings.TrimSpace(e.ID) == "" {
		return ""
	}

	return fmt.Sprintf(" (%s)", e.ID)
}

func validateEntry(v *validator.Validate, kind model.Kind, e *model.Entry) error {
	if e == nil {
		return errors.New("entry is empty")
	}

	if err := v.Struct(e); err != nil {
		return firstViolation(err)
	}

	if key := e.ForeignInfo(); key != "" {
		return fmt.Errorf("%s is not allowed on a %s entry", key, kind)
	}

	return validateDomain(kind, e)
}

// validateDomain is the per-kind rule run after structural checks.
func validateDomain(kind model.Kind, e *model.Entry) error {
	if !e.HasInfo() {
		return fmt.Errorf("%s is required", kind.InfoKey())
	}

	switch kind {
	case model.KindLicense:
		if strings.TrimSpace(e.LicenseType) == "" {
			return errors.New("licenseType is required")
		}

		if !strings.HasPrefix(strings.ToLower(e.LicenseInfo.URL), "https") {
			return fmt.Errorf("licenseInfo.url %q must use https", e.LicenseInfo.URL)
		}
	case model.KindPlugin:
		for _, tag := range e.PluginInfo.ExpandTags {
			if strings.TrimSpace(tag) == "" {
				return errors.New("pluginInfo.expandTags must not contain blank values")
			}
		}
	case model.KindDependency:
		d := e.DependencyInfo
		if strings.EqualFold(d.Scope, "system") && strings.TrimSpace(d.SystemPath) == "" {
			return errors.New("dependencyInfo.systemPath is required for system scope")
		}
	}

	return nil
}

// firstViolation renders the first field error with its YAML path.
func firstViolation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	_, path, _ := strings.Cut(fe.Namespace(), ".")

	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Errorf("%s is required", path)
	case "maven_scope":
		return fmt.Errorf("%s %q is not a Maven scope", path, fe.Value())
	default:
		return fmt.Errorf("%s failed %q validation", path, fe.Tag())
	}
}
