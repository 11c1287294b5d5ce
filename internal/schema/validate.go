package schema

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError carries human-readable messages keyed by field path, for
// example "clientId" or "scopes[1]".
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	names := e.FieldNames()
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], ", ")))
	}
	return "invalid picker configuration: " + strings.Join(parts, "; ")
}

// FieldNames returns the failing field paths in sorted order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) merge(other *ValidationError) {
	if other == nil {
		return
	}
	for field, msgs := range other.Fields {
		for _, msg := range msgs {
			e.add(field, msg)
		}
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("gscope", func(fl validator.FieldLevel) bool {
		return knownScopes[fl.Field().String()]
	})
	_ = v.RegisterValidation("viewid", func(fl validator.FieldLevel) bool {
		return ViewID(fl.Field().String()).Valid()
	})
	return v
}

// ParseCredentials trims and validates the three credential strings.
func ParseCredentials(clientID, developerKey, appID string) (Credentials, error) {
	creds := Credentials{
		ClientID:     strings.TrimSpace(clientID),
		DeveloperKey: strings.TrimSpace(developerKey),
		AppID:        strings.TrimSpace(appID),
	}
	if verr := check(creds); verr != nil {
		return Credentials{}, verr
	}
	return creds, nil
}

// ParseConfig applies defaults to cfg and validates the result. A nil cfg
// yields the default configuration. The input is never modified.
func ParseConfig(cfg *Config) (Config, error) {
	var out Config
	if cfg != nil {
		out = *cfg
		out.CustomViews = slices.Clone(cfg.CustomViews)
		out.ViewMimeTypes = slices.Clone(cfg.ViewMimeTypes)
		out.Scopes = make([]string, 0, len(cfg.Scopes))
		for _, s := range cfg.Scopes {
			out.Scopes = append(out.Scopes, ExpandScope(s))
		}
	}
	if len(out.Scopes) == 0 {
		out.Scopes = slices.Clone(DefaultScopes)
	}
	if out.ViewID == "" {
		out.ViewID = ViewDocs
	}
	if verr := check(out); verr != nil {
		return Config{}, verr
	}
	return out, nil
}

// Parse validates credentials and configuration together. When either fails,
// the returned *ValidationError holds the field errors of both.
func Parse(clientID, developerKey, appID string, cfg *Config) (Credentials, Config, error) {
	creds, credErr := ParseCredentials(clientID, developerKey, appID)
	conf, confErr := ParseConfig(cfg)
	if credErr == nil && confErr == nil {
		return creds, conf, nil
	}

	verr := &ValidationError{}
	for _, err := range []error{credErr, confErr} {
		var fe *ValidationError
		if errors.As(err, &fe) {
			verr.merge(fe)
		} else if err != nil {
			return Credentials{}, Config{}, err
		}
	}
	return Credentials{}, Config{}, verr
}

func check(v any) *ValidationError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verr := &ValidationError{}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.add("", err.Error())
		return verr
	}
	for _, fe := range fieldErrs {
		verr.add(fieldPath(fe.Namespace()), message(fe))
	}
	return verr
}

// fieldPath drops the leading struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gscope":
		return fmt.Sprintf("%q is not a supported OAuth scope", fe.Value())
	case "viewid":
		return fmt.Sprintf("%q is not a supported view", fe.Value())
	case "startswith":
		return fmt.Sprintf("%q must start with %s", fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}
