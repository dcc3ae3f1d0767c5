// Package fallback holds the default content served by public endpoints while
// the database is unreachable.
package fallback

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MdFayaz7/portfolio1/internal/database"
	"github.com/MdFayaz7/portfolio1/internal/store"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Dataset is immutable after Load; accessors return copies.
type Dataset struct {
	profile   database.Profile
	education []database.Education
	skills    []database.Skill
	projects  []database.Project
}

type document struct {
	Profile   profileRecord     `yaml:"profile"`
	Education []educationRecord `yaml:"education"`
	Skills    []skillRecord     `yaml:"skills"`
	Projects  []projectRecord   `yaml:"projects"`
}

type profileRecord struct {
	ID             string            `yaml:"id"`
	Name           string            `yaml:"name"`
	Title          string            `yaml:"title"`
	ProfilePicture string            `yaml:"profilePicture"`
	HomeImage      string            `yaml:"homeImage"`
	AboutImage     string            `yaml:"aboutImage"`
	WelcomeMessage string            `yaml:"welcomeMessage"`
	AboutText      string            `yaml:"aboutText"`
	ResumeURL      string            `yaml:"resumeUrl"`
	Email          string            `yaml:"email"`
	Phone          string            `yaml:"phone"`
	Location       string            `yaml:"location"`
	SocialLinks    map[string]string `yaml:"socialLinks"`
	CVText         string            `yaml:"cvText"`
}

type educationRecord struct {
	ID          string `yaml:"id"`
	Institution string `yaml:"institution"`
	Degree      string `yaml:"degree"`
	Field       string `yaml:"field"`
	StartDate   string `yaml:"startDate"`
	EndDate     string `yaml:"endDate"`
	Description string `yaml:"description"`
	Grade       string `yaml:"grade"`
	Location    string `yaml:"location"`
	SortOrder   int    `yaml:"sortOrder"`
}

type skillRecord struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Proficiency int    `yaml:"proficiency"`
	Icon        string `yaml:"icon"`
	Color       string `yaml:"color"`
	Description string `yaml:"description"`
	SortOrder   int    `yaml:"sortOrder"`
}

type projectRecord struct {
	ID              string   `yaml:"id"`
	Title           string   `yaml:"title"`
	Description     string   `yaml:"description"`
	LongDescription string   `yaml:"longDescription"`
	Image           string   `yaml:"image"`
	Technologies    []string `yaml:"technologies"`
	DemoURL         string   `yaml:"demoUrl"`
	GitHubURL       string   `yaml:"githubUrl"`
	Featured        bool     `yaml:"featured"`
	Status          string   `yaml:"status"`
	Category        string   `yaml:"category"`
	SortOrder       int      `yaml:"sortOrder"`
}

// Default parses the compiled-in dataset.
func Default() (*Dataset, error) {
	return Parse(defaultsYAML)
}

// Load reads the dataset from path, or the compiled-in one when path is empty.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fallback file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a YAML dataset.
func Parse(raw []byte) (*Dataset, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode fallback dataset: %w", err)
	}
	if doc.Profile.Name == "" {
		return nil, errors.New("fallback dataset has no profile")
	}

	ds := &Dataset{profile: doc.Profile.model()}
	for i, rec := range doc.Education {
		e, err := rec.model()
		if err != nil {
			return nil, fmt.Errorf("education[%d]: %w", i, err)
		}
		ds.education = append(ds.education, e)
	}
	for _, rec := range doc.Skills {
		ds.skills = append(ds.skills, rec.model())
	}
	for _, rec := range doc.Projects {
		ds.projects = append(ds.projects, rec.model())
	}
	return ds, nil
}

// Profile returns the default profile.
func (d *Dataset) Profile() database.Profile { return d.profile }

// Education returns the default education entries.
func (d *Dataset) Education() []database.Education {
	return append([]database.Education(nil), d.education...)
}

// Skills returns the default skills.
func (d *Dataset) Skills() []database.Skill {
	return append([]database.Skill(nil), d.skills...)
}

// Projects returns the default projects, only featured ones when featuredOnly is set.
func (d *Dataset) Projects(featuredOnly bool) []database.Project {
	out := make([]database.Project, 0, len(d.projects))
	for _, p := range d.projects {
		if featuredOnly && !p.Featured {
			continue
		}
		p.Technologies = append([]string(nil), p.Technologies...)
		out = append(out, p)
	}
	return out
}

// Project looks up a default project by id.
func (d *Dataset) Project(id string) (database.Project, bool) {
	for _, p := range d.Projects(false) {
		if p.ID == id {
			return p, true
		}
	}
	return database.Project{}, false
}

func (r profileRecord) model() database.Profile {
	return database.Profile{
		Base:           store.Base{ID: r.ID},
		Name:           r.Name,
		Title:          r.Title,
		ProfilePicture: r.ProfilePicture,
		HomeImage:      r.HomeImage,
		AboutImage:     r.AboutImage,
		WelcomeMessage: r.WelcomeMessage,
		AboutText:      r.AboutText,
		ResumeURL:      r.ResumeURL,
		Email:          r.Email,
		Phone:          r.Phone,
		Location:       r.Location,
		SocialLinks: database.SocialLinks{
			GitHub:    r.SocialLinks["github"],
			LinkedIn:  r.SocialLinks["linkedin"],
			Twitter:   r.SocialLinks["twitter"],
			Instagram: r.SocialLinks["instagram"],
			Website:   r.SocialLinks["website"],
		},
		CVText: r.CVText,
	}
}

func (r educationRecord) model() (database.Education, error) {
	start, err := time.Parse(time.DateOnly, r.StartDate)
	if err != nil {
		return database.Education{}, fmt.Errorf("start date: %w", err)
	}
	e := database.Education{
		Base:        store.Base{ID: r.ID},
		Institution: r.Institution,
		Degree:      r.Degree,
		Field:       r.Field,
		StartDate:   start,
		Description: r.Description,
		Grade:       r.Grade,
		Location:    r.Location,
		SortOrder:   r.SortOrder,
		IsActive:    true,
	}
	if r.EndDate != "" {
		end, err := time.Parse(time.DateOnly, r.EndDate)
		if err != nil {
			return database.Education{}, fmt.Errorf("end date: %w", err)
		}
		e.EndDate = &end
	}
	return e, nil
}

func (r skillRecord) model() database.Skill {
	return database.Skill{
		Base:        store.Base{ID: r.ID},
		Name:        r.Name,
		Category:    r.Category,
		Proficiency: r.Proficiency,
		Icon:        r.Icon,
		Color:       r.Color,
		Description: r.Description,
		SortOrder:   r.SortOrder,
		IsActive:    true,
	}
}

func (r projectRecord) model() database.Project {
	return database.Project{
		Base:            store.Base{ID: r.ID},
		Title:           r.Title,
		Description:     r.Description,
		LongDescription: r.LongDescription,
		Image:           r.Image,
		Technologies:    r.Technologies,
		DemoURL:         r.DemoURL,
		GitHubURL:       r.GitHubURL,
		Featured:        r.Featured,
		Status:          r.Status,
		Category:        r.Category,
		SortOrder:       r.SortOrder,
		IsActive:        true,
	}
}
