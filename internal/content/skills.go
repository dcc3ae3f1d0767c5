package content

import (
	"context"

	"github.com/MdFayaz7/portfolio1/internal/database"
	"github.com/MdFayaz7/portfolio1/internal/errcode"
	"github.com/MdFayaz7/portfolio1/internal/store"
)

const (
	defaultSkillCategory    = "Other"
	defaultSkillProficiency = 50
	defaultSkillColor       = "#3B82F6"
)

// SkillInput is the writable subset of a skill.
type SkillInput struct {
	Name        *string `json:"name" form:"name" validate:"omitempty,max=100"`
	Category    *string `json:"category" form:"category" validate:"omitempty,skillcategory"`
	Proficiency *int    `json:"proficiency" form:"proficiency" validate:"omitempty,min=1,max=100"`
	Icon        *string `json:"icon" form:"icon" validate:"omitempty,max=255"`
	IconURL     *string `json:"iconUrl" form:"iconUrl" validate:"omitempty,max=512"`
	Color       *string `json:"color" form:"color" validate:"omitempty,max=16"`
	Description *string `json:"description" form:"description" validate:"omitempty,max=200"`
	SortOrder   *int    `json:"sortOrder" form:"sortOrder"`
	IsActive    *bool   `json:"isActive" form:"isActive"`
}

var skillMessages = map[string]string{
	"name":        "Skill name must be at most 100 characters",
	"category":    "Category must be one of Frontend, Backend, Tools, Languages, Database, Other",
	"proficiency": "Proficiency must be between 1 and 100",
	"icon":        "Icon must be at most 255 characters",
	"iconUrl":     "Icon URL must be at most 512 characters",
	"color":       "Color must be at most 16 characters",
	"description": "Description must be at most 200 characters",
}

func (in *SkillInput) validate(create bool) error {
	var required []requirement
	if create {
		required = []requirement{
			{"name", present(in.Name), "Skill name is required"},
			{"category", present(in.Category), "Category is required"},
		}
	}
	return check(in, required, skillMessages)
}

func (in *SkillInput) apply(sk *database.Skill) {
	setString(&sk.Name, in.Name)
	setString(&sk.Category, in.Category)
	setString(&sk.Icon, in.Icon)
	setString(&sk.IconURL, in.IconURL)
	setString(&sk.Color, in.Color)
	setString(&sk.Description, in.Description)
	if in.Proficiency != nil {
		sk.Proficiency = *in.Proficiency
	}
	if in.SortOrder != nil {
		sk.SortOrder = *in.SortOrder
	}
	if in.IsActive != nil {
		sk.IsActive = *in.IsActive
	}
}

// SkillService manages the skills grid.
type SkillService struct {
	*shared
	store store.Store[database.Skill]
}

// List returns active skills ordered by sortOrder, then name.
func (s *SkillService) List(ctx context.Context) ([]database.Skill, error) {
	items, err := cachedList(ctx, s.shared, "skills", s.store, store.Query{
		Where: map[string]any{"is_active": true},
		Sort:  []store.Sort{{Field: "sort_order"}, {Field: "name"}},
	})
	if err != nil {
		if s.degrade("skills", err) {
			return s.fallback.Skills(), nil
		}
		return nil, errcode.Wrap(errcode.Internal, "Server error while fetching skills", err)
	}
	return items, nil
}

// ByCategory groups skills by category, keeping list order within a group.
func ByCategory(skills []database.Skill) map[string][]database.Skill {
	out := make(map[string][]database.Skill)
	for _, sk := range skills {
		out[sk.Category] = append(out[sk.Category], sk)
	}
	return out
}

// Create inserts a new skill with schema defaults applied.
func (s *SkillService) Create(ctx context.Context, in SkillInput) (*database.Skill, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	sk := &database.Skill{
		Category:    defaultSkillCategory,
		Proficiency: defaultSkillProficiency,
		Color:       defaultSkillColor,
		IsActive:    true,
	}
	in.apply(sk)
	if err := s.store.Insert(ctx, sk); err != nil {
		return nil, errcode.Wrap(errcode.Internal, "Server error while creating skill", err)
	}
	s.cache.flush()
	return sk, nil
}

// Update merges the provided fields into an existing skill.
func (s *SkillService) Update(ctx context.Context, id string, in SkillInput) (*database.Skill, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}
	if in.Name != nil && !present(in.Name) {
		return nil, errcode.Invalid(FieldError{Field: "name", Message: "Skill name is required"})
	}
	sk, err := load(ctx, s.store, id, "Skill not found", "Server error while updating skill")
	if err != nil {
		return nil, err
	}
	in.apply(sk)
	if err := s.store.Save(ctx, sk); err != nil {
		return nil, errcode.Wrap(errcode.Internal, "Server error while updating skill", err)
	}
	s.cache.flush()
	return sk, nil
}

// Delete removes a skill permanently.
func (s *SkillService) Delete(ctx context.Context, id string) error {
	return remove(ctx, s.shared, s.store, id, "Skill not found", "Server error while deleting skill")
}
