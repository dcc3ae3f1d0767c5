package content

import (
	"context"
	"errors"

	"github.com/MdFayaz7/portfolio1/internal/database"
	"github.com/MdFayaz7/portfolio1/internal/errcode"
	"github.com/MdFayaz7/portfolio1/internal/store"
)

const (
	defaultProjectStatus   = "Completed"
	defaultProjectCategory = "Web Application"
)

// ProjectInput is the writable subset of a project. Image is normally set
// from an uploaded file rather than by the client.
type ProjectInput struct {
	Title           *string    `json:"title" form:"title" validate:"omitempty,max=200"`
	Description     *string    `json:"description" form:"description" validate:"omitempty,min=10,max=5000"`
	LongDescription *string    `json:"longDescription" form:"longDescription" validate:"omitempty,max=1000"`
	Image           *string    `json:"image" form:"image" validate:"omitempty,max=512"`
	Technologies    StringList `json:"technologies" form:"technologies" validate:"omitempty,max=50,dive,max=255"`
	DemoURL         *string    `json:"demoUrl" form:"demoUrl" validate:"omitempty,max=512"`
	GitHubURL       *string    `json:"githubUrl" form:"githubUrl" validate:"omitempty,max=512"`
	Featured        *bool      `json:"featured" form:"featured"`
	Status          *string    `json:"status" form:"status" validate:"omitempty,projectstatus"`
	Category        *string    `json:"category" form:"category" validate:"omitempty,projectcategory"`
	StartDate       *string    `json:"startDate" form:"startDate" validate:"omitempty,isodate"`
	EndDate         *string    `json:"endDate" form:"endDate" validate:"omitempty,isodate"`
	SortOrder       *int       `json:"sortOrder" form:"sortOrder"`
	IsActive        *bool      `json:"isActive" form:"isActive"`
}

var projectMessages = map[string]string{
	"title":           "Project title must be at most 200 characters",
	"description":     "Description must be at least 10 characters",
	"longDescription": "Long description must be at most 1000 characters",
	"image":           "Image path must be at most 512 characters",
	"technologies":    "Technologies must be a list of short names",
	"demoUrl":         "Demo URL must be at most 512 characters",
	"githubUrl":       "GitHub URL must be at most 512 characters",
	"status":          "Status must be one of Completed, In Progress, Planned",
	"category":        "Category must be one of Web Application, Mobile App, Desktop App, Game, API, Other",
	"startDate":       "Start date must be a valid date",
	"endDate":         "End date must be a valid date",
}

func (in *ProjectInput) validate(create bool) error {
	var required []requirement
	if create {
		required = []requirement{
			{"title", present(in.Title), "Project title is required"},
			{"description", present(in.Description), "Description must be at least 10 characters"},
			{"image", present(in.Image), "Project image is required"},
		}
	}
	return check(in, required, projectMessages)
}

// CheckFields validates the input except for the image requirement, which an
// uploaded file may still satisfy. Handlers call it before storing files.
func (in *ProjectInput) CheckFields(create bool) error {
	var required []requirement
	if create {
		required = []requirement{
			{"title", present(in.Title), "Project title is required"},
			{"description", present(in.Description), "Description must be at least 10 characters"},
		}
	}
	if err := check(in, required, projectMessages); err != nil {
		return err
	}
	if !create && in.Title != nil && !present(in.Title) {
		return errcode.Invalid(FieldError{Field: "title", Message: "Project title is required"})
	}
	return nil
}

func (in *ProjectInput) apply(p *database.Project) {
	setString(&p.Title, in.Title)
	setString(&p.Description, in.Description)
	setString(&p.LongDescription, in.LongDescription)
	setString(&p.DemoURL, in.DemoURL)
	setString(&p.GitHubURL, in.GitHubURL)
	setString(&p.Status, in.Status)
	setString(&p.Category, in.Category)
	if present(in.Image) {
		p.Image = trimmed(in.Image)
	}
	if in.Technologies != nil {
		p.Technologies = in.Technologies.normalize()
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.StartDate != nil {
		p.StartDate = optionalDate(in.StartDate)
	}
	if in.EndDate != nil {
		p.EndDate = optionalDate(in.EndDate)
	}
	if in.SortOrder != nil {
		p.SortOrder = *in.SortOrder
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}

// ProjectService manages showcased projects.
type ProjectService struct {
	*shared
	store store.Store[database.Project]
}

// List returns active projects ordered by sortOrder, then newest first.
func (s *ProjectService) List(ctx context.Context, featuredOnly bool) ([]database.Project, error) {
	where := map[string]any{"is_active": true}
	key := "projects"
	if featuredOnly {
		where["featured"] = true
		key = "projects:featured"
	}
	items, err := cachedList(ctx, s.shared, key, s.store, store.Query{
		Where: where,
		Sort:  []store.Sort{{Field: "sort_order"}, {Field: "created_at", Desc: true}},
	})
	if err != nil {
		if s.degrade("projects", err) {
			return s.fallback.Projects(featuredOnly), nil
		}
		return nil, errcode.Wrap(errcode.Internal, "Server error while fetching projects", err)
	}
	return items, nil
}

// GetActive returns one active project.
func (s *ProjectService) GetActive(ctx context.Context, id string) (*database.Project, error) {
	p, err := s.store.FindOne(ctx, map[string]any{"id": id, "is_active": true})
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, errcode.Missing("Project not found")
	case err != nil:
		if s.degrade("projects", err) {
			if fp, ok := s.fallback.Project(id); ok {
				return &fp, nil
			}
			return nil, errcode.Missing("Project not found")
		}
		return nil, errcode.Wrap(errcode.Internal, "Server error while fetching project", err)
	}
	return p, nil
}

// Create inserts a new project with schema defaults applied.
func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (*database.Project, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	p := &database.Project{
		Technologies: []string{},
		Status:       defaultProjectStatus,
		Category:     defaultProjectCategory,
		StartDate:    &now,
		IsActive:     true,
	}
	in.apply(p)
	if err := s.store.Insert(ctx, p); err != nil {
		return nil, errcode.Wrap(errcode.Internal, "Server error while creating project", err)
	}
	s.cache.flush()
	return p, nil
}

// Update merges the provided fields into an existing project.
func (s *ProjectService) Update(ctx context.Context, id string, in ProjectInput) (*database.Project, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}
	if in.Title != nil && !present(in.Title) {
		return nil, errcode.Invalid(FieldError{Field: "title", Message: "Project title is required"})
	}
	p, err := load(ctx, s.store, id, "Project not found", "Server error while updating project")
	if err != nil {
		return nil, err
	}
	in.apply(p)
	if err := s.store.Save(ctx, p); err != nil {
		return nil, errcode.Wrap(errcode.Internal, "Server error while updating project", err)
	}
	s.cache.flush()
	return p, nil
}

// ToggleFeatured flips the featured flag.
func (s *ProjectService) ToggleFeatured(ctx context.Context, id string) (*database.Project, error) {
	p, err := load(ctx, s.store, id, "Project not found", "Server error while updating project")
	if err != nil {
		return nil, err
	}
	p.Featured = !p.Featured
	if err := s.store.Save(ctx, p); err != nil {
		return nil, errcode.Wrap(errcode.Internal, "Server error while updating project", err)
	}
	s.cache.flush()
	return p, nil
}

// Delete removes a project permanently.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	return remove(ctx, s.shared, s.store, id, "Project not found", "Server error while deleting project")
}
