package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MdFayaz7/portfolio1/internal/database"
	"github.com/MdFayaz7/portfolio1/internal/errcode"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their wire name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	must(v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := parseDate(fl.Field().String())
		return err == nil
	}))
	must(v.RegisterValidation("skillcategory", oneOf(database.SkillCategories)))
	must(v.RegisterValidation("projectstatus", oneOf(database.ProjectStatuses)))
	must(v.RegisterValidation("projectcategory", oneOf(database.ProjectCategories)))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func oneOf(values []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return slices.Contains(values, fl.Field().String())
	}
}

// requirement is a create-time presence check.
type requirement struct {
	field   string
	present bool
	message string
}

// check validates in, reporting one message per failing field. Missing
// required fields are reported first.
func check(in any, required []requirement, messages map[string]string) error {
	var fields []FieldError
	reported := map[string]bool{}
	for _, r := range required {
		if !r.present {
			fields = append(fields, FieldError{Field: r.field, Message: r.message})
			reported[r.field] = true
		}
	}

	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return errcode.Wrap(errcode.Internal, "Server error while validating request", err)
		}
		for _, fe := range verrs {
			name := fieldName(fe)
			if reported[name] {
				continue
			}
			reported[name] = true
			msg, ok := messages[name]
			if !ok {
				msg = fmt.Sprintf("%s is invalid", name)
			}
			fields = append(fields, FieldError{Field: name, Message: msg})
		}
	}

	if len(fields) > 0 {
		return errcode.Invalid(fields...)
	}
	return nil
}

// FieldError is re-exported for callers building their own checks.
type FieldError = errcode.FieldError

// fieldName strips the top-level struct from the namespace, keeping nested
// paths such as socialLinks.github.
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

// parseDate accepts RFC 3339 timestamps and plain dates.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.DateOnly, s)
}

// optionalDate parses a validated date; blank clears it.
func optionalDate(s *string) *time.Time {
	if !present(s) {
		return nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil
	}
	return &t
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// setString assigns a trimmed value when provided.
func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// StringList accepts either a JSON array or a comma separated string.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	var arr []string
	if err := json.Unmarshal(b, &arr); err == nil {
		*l = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("expected string or array of strings")
	}
	*l = StringList{s}
	return nil
}

// normalize splits comma separated entries and drops blanks.
func (l StringList) normalize() []string {
	out := make([]string, 0, len(l))
	for _, entry := range l {
		for _, part := range strings.Split(entry, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
