package content

import (
	"context"
	"errors"
	"strings"

	"github.com/MdFayaz7/portfolio1/internal/database"
	"github.com/MdFayaz7/portfolio1/internal/errcode"
	"github.com/MdFayaz7/portfolio1/internal/store"
)

// defaultProfile is persisted on first access when no profile exists.
func defaultProfile() database.Profile {
	return database.Profile{
		Base:           store.Base{ID: database.ProfileID},
		Name:           "Your Name",
		Title:          "Full Stack Developer",
		ProfilePicture: "/default-profile.jpg",
		WelcomeMessage: "Welcome to my portfolio! I am a passionate developer...",
		AboutText:      "I am a passionate full-stack developer...",
		Email:          "your-email@example.com",
		Location:       "Your Location",
	}
}

// SocialLinksInput addresses individual social links. The form tags match
// dotted multipart keys such as socialLinks.github.
type SocialLinksInput struct {
	GitHub    *string `json:"github" form:"socialLinks.github" validate:"omitempty,max=512"`
	LinkedIn  *string `json:"linkedin" form:"socialLinks.linkedin" validate:"omitempty,max=512"`
	Twitter   *string `json:"twitter" form:"socialLinks.twitter" validate:"omitempty,max=512"`
	Instagram *string `json:"instagram" form:"socialLinks.instagram" validate:"omitempty,max=512"`
	Website   *string `json:"website" form:"socialLinks.website" validate:"omitempty,max=512"`
}

// ProfileInput is the writable subset of the profile. Blank values are ignored.
// The file-backed fields are filled in from uploads by the HTTP layer.
type ProfileInput struct {
	Name           *string           `json:"name" form:"name" validate:"omitempty,max=100"`
	Title          *string           `json:"title" form:"title" validate:"omitempty,max=100"`
	WelcomeMessage *string           `json:"welcomeMessage" form:"welcomeMessage" validate:"omitempty,max=500"`
	AboutText      *string           `json:"aboutText" form:"aboutText" validate:"omitempty,max=2000"`
	Email          *string           `json:"email" form:"email" validate:"omitempty,email"`
	Phone          *string           `json:"phone" form:"phone" validate:"omitempty,max=20"`
	Location       *string           `json:"location" form:"location" validate:"omitempty,max=100"`
	CVText         *string           `json:"cvText" form:"cvText" validate:"omitempty,max=1000"`
	SocialLinks    *SocialLinksInput `json:"socialLinks" form:"socialLinks"`

	ProfilePicture *string `json:"-" form:"-"`
	ResumeURL      *string `json:"-" form:"-"`
	HomeImage      *string `json:"-" form:"-"`
	AboutImage     *string `json:"-" form:"-"`
}

var profileMessages = map[string]string{
	"name":                  "Name must be at most 100 characters",
	"title":                 "Title must be at most 100 characters",
	"welcomeMessage":        "Welcome message must be at most 500 characters",
	"aboutText":             "About text must be at most 2000 characters",
	"email":                 "Valid email is required",
	"phone":                 "Phone must be at most 20 characters",
	"location":              "Location must be at most 100 characters",
	"cvText":                "CV text must be at most 1000 characters",
	"socialLinks.github":    "GitHub link must be at most 512 characters",
	"socialLinks.linkedin":  "LinkedIn link must be at most 512 characters",
	"socialLinks.twitter":   "Twitter link must be at most 512 characters",
	"socialLinks.instagram": "Instagram link must be at most 512 characters",
	"socialLinks.website":   "Website link must be at most 512 characters",
}

// Check validates the text fields; handlers call it before storing files.
func (in *ProfileInput) Check() error {
	return check(in, nil, profileMessages)
}

// setNonBlank assigns a trimmed value unless it is blank.
func setNonBlank(dst *string, src *string) {
	if present(src) {
		*dst = strings.TrimSpace(*src)
	}
}

func (in *ProfileInput) apply(p *database.Profile) {
	setNonBlank(&p.Name, in.Name)
	setNonBlank(&p.Title, in.Title)
	setNonBlank(&p.WelcomeMessage, in.WelcomeMessage)
	setNonBlank(&p.AboutText, in.AboutText)
	setNonBlank(&p.Phone, in.Phone)
	setNonBlank(&p.Location, in.Location)
	setNonBlank(&p.CVText, in.CVText)
	if present(in.Email) {
		p.Email = strings.ToLower(trimmed(in.Email))
	}
	if sl := in.SocialLinks; sl != nil {
		setNonBlank(&p.SocialLinks.GitHub, sl.GitHub)
		setNonBlank(&p.SocialLinks.LinkedIn, sl.LinkedIn)
		setNonBlank(&p.SocialLinks.Twitter, sl.Twitter)
		setNonBlank(&p.SocialLinks.Instagram, sl.Instagram)
		setNonBlank(&p.SocialLinks.Website, sl.Website)
	}
	setNonBlank(&p.ProfilePicture, in.ProfilePicture)
	setNonBlank(&p.ResumeURL, in.ResumeURL)
	setNonBlank(&p.HomeImage, in.HomeImage)
	setNonBlank(&p.AboutImage, in.AboutImage)
}

// ProfileService manages the profile singleton.
type ProfileService struct {
	*shared
	store store.Store[database.Profile]
}

// GetOrCreate returns the stored profile, persisting the default template when
// none exists. Concurrent first calls converge on the fixed profile id.
func (s *ProfileService) GetOrCreate(ctx context.Context) (*database.Profile, error) {
	p, err := s.store.FindOne(ctx, nil)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	created := defaultProfile()
	if insErr := s.store.Insert(ctx, &created); insErr != nil {
		// lost the race to another first access
		p, err := s.store.FindByID(ctx, database.ProfileID)
		if err != nil {
			return nil, errors.Join(insErr, err)
		}
		return p, nil
	}
	return &created, nil
}

// Get returns the profile for public pages, degrading to the fallback profile.
func (s *ProfileService) Get(ctx context.Context) (*database.Profile, error) {
	if v, ok := s.cache.get("profile"); ok {
		if p, ok := v.(database.Profile); ok {
			return &p, nil
		}
	}
	p, err := s.GetOrCreate(ctx)
	if err != nil {
		if s.degrade("profile", err) {
			fp := s.fallback.Profile()
			return &fp, nil
		}
		return nil, errcode.Wrap(errcode.Internal, "Server error while fetching profile", err)
	}
	s.cache.set("profile", *p)
	return p, nil
}

// Update merges the provided fields into the profile.
func (s *ProfileService) Update(ctx context.Context, in ProfileInput) (*database.Profile, error) {
	if err := in.Check(); err != nil {
		return nil, err
	}
	p, err := s.GetOrCreate(ctx)
	if err != nil {
		return nil, errcode.Wrap(errcode.Internal, "Server error while updating profile", err)
	}
	in.apply(p)
	if err := s.store.Save(ctx, p); err != nil {
		return nil, errcode.Wrap(errcode.Internal, "Server error while updating profile", err)
	}
	s.cache.flush()
	return p, nil
}

// ResumePath returns the stored resume reference.
func (s *ProfileService) ResumePath(ctx context.Context) (string, error) {
	p, err := s.GetOrCreate(ctx)
	if err != nil {
		return "", errcode.Wrap(errcode.Internal, "Server error while downloading resume", err)
	}
	if strings.TrimSpace(p.ResumeURL) == "" {
		return "", errcode.Missing("Resume not found")
	}
	return p.ResumeURL, nil
}
