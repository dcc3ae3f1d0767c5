package content

import (
	"context"
	"strings"

	"github.com/MdFayaz7/portfolio1/internal/database"
	"github.com/MdFayaz7/portfolio1/internal/errcode"
	"github.com/MdFayaz7/portfolio1/internal/store"
)

// EducationInput is the writable subset of an education entry. Nil fields are
// left untouched on update; an empty EndDate marks the entry as ongoing.
type EducationInput struct {
	Institution *string `json:"institution" form:"institution" validate:"omitempty,max=200"`
	Degree      *string `json:"degree" form:"degree" validate:"omitempty,max=200"`
	Field       *string `json:"field" form:"field" validate:"omitempty,max=200"`
	StartDate   *string `json:"startDate" form:"startDate" validate:"omitempty,isodate"`
	EndDate     *string `json:"endDate" form:"endDate" validate:"omitempty,isodate"`
	Description *string `json:"description" form:"description" validate:"omitempty,max=500"`
	Grade       *string `json:"grade" form:"grade" validate:"omitempty,max=64"`
	Location    *string `json:"location" form:"location" validate:"omitempty,max=100"`
	SortOrder   *int    `json:"sortOrder" form:"sortOrder"`
	IsActive    *bool   `json:"isActive" form:"isActive"`
}

var educationMessages = map[string]string{
	"institution": "Institution must be at most 200 characters",
	"degree":      "Degree must be at most 200 characters",
	"field":       "Field must be at most 200 characters",
	"startDate":   "Valid start date is required",
	"endDate":     "End date must be a valid date",
	"description": "Description must be at most 500 characters",
	"grade":       "Grade must be at most 64 characters",
	"location":    "Location must be at most 100 characters",
}

func (in *EducationInput) validate(create bool) error {
	var required []requirement
	if create {
		required = []requirement{
			{"institution", present(in.Institution), "Institution is required"},
			{"degree", present(in.Degree), "Degree is required"},
			{"field", present(in.Field), "Field is required"},
			{"startDate", present(in.StartDate), "Valid start date is required"},
		}
	}
	return check(in, required, educationMessages)
}

// blankRequired reports required fields an update tries to clear.
func (in *EducationInput) blankRequired() []FieldError {
	var out []FieldError
	for _, r := range []struct {
		field string
		value *string
		msg   string
	}{
		{"institution", in.Institution, "Institution is required"},
		{"degree", in.Degree, "Degree is required"},
		{"field", in.Field, "Field is required"},
		{"startDate", in.StartDate, "Valid start date is required"},
	} {
		if r.value != nil && strings.TrimSpace(*r.value) == "" {
			out = append(out, FieldError{Field: r.field, Message: r.msg})
		}
	}
	return out
}

func (in *EducationInput) apply(e *database.Education) {
	setString(&e.Institution, in.Institution)
	setString(&e.Degree, in.Degree)
	setString(&e.Field, in.Field)
	setString(&e.Description, in.Description)
	setString(&e.Grade, in.Grade)
	setString(&e.Location, in.Location)
	if present(in.StartDate) {
		// validated already
		e.StartDate, _ = parseDate(*in.StartDate)
	}
	if in.EndDate != nil {
		e.EndDate = nil
		if present(in.EndDate) {
			t, _ := parseDate(*in.EndDate)
			e.EndDate = &t
		}
	}
	if in.SortOrder != nil {
		e.SortOrder = *in.SortOrder
	}
	if in.IsActive != nil {
		e.IsActive = *in.IsActive
	}
}

// EducationService manages the education timeline.
type EducationService struct {
	*shared
	store store.Store[database.Education]
}

// List returns active entries ordered by sortOrder, then most recent start.
func (s *EducationService) List(ctx context.Context) ([]database.Education, error) {
	items, err := cachedList(ctx, s.shared, "education", s.store, store.Query{
		Where: map[string]any{"is_active": true},
		Sort:  []store.Sort{{Field: "sort_order"}, {Field: "start_date", Desc: true}},
	})
	if err != nil {
		if s.degrade("education", err) {
			return s.fallback.Education(), nil
		}
		return nil, errcode.Wrap(errcode.Internal, "Server error while fetching education", err)
	}
	return items, nil
}

// Create inserts a new entry with schema defaults applied.
func (s *EducationService) Create(ctx context.Context, in EducationInput) (*database.Education, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	e := &database.Education{IsActive: true}
	in.apply(e)
	if err := s.store.Insert(ctx, e); err != nil {
		return nil, errcode.Wrap(errcode.Internal, "Server error while creating education entry", err)
	}
	s.cache.flush()
	return e, nil
}

// Update merges the provided fields into an existing entry.
func (s *EducationService) Update(ctx context.Context, id string, in EducationInput) (*database.Education, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}
	if blanks := in.blankRequired(); len(blanks) > 0 {
		return nil, errcode.Invalid(blanks...)
	}
	e, err := load(ctx, s.store, id, "Education entry not found", "Server error while updating education entry")
	if err != nil {
		return nil, err
	}
	in.apply(e)
	if err := s.store.Save(ctx, e); err != nil {
		return nil, errcode.Wrap(errcode.Internal, "Server error while updating education entry", err)
	}
	s.cache.flush()
	return e, nil
}

// Delete removes an entry permanently.
func (s *EducationService) Delete(ctx context.Context, id string) error {
	return remove(ctx, s.shared, s.store, id, "Education entry not found", "Server error while deleting education entry")
}

