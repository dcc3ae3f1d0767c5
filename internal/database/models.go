package database

import (
	"time"

	"gorm.io/datatypes"

	"github.com/MdFayaz7/portfolio1/internal/store"
)

// Roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Skill categories.
var SkillCategories = []string{"Frontend", "Backend", "Tools", "Languages", "Database", "Other"}

// Project enums.
var (
	ProjectStatuses   = []string{"Completed", "In Progress", "Planned"}
	ProjectCategories = []string{"Web Application", "Mobile App", "Desktop App", "Game", "API", "Other"}
)

// Message statuses.
const (
	MessageNew     = "new"
	MessageRead    = "read"
	MessageReplied = "replied"
)

// ProfileID is the fixed identifier of the profile singleton.
const ProfileID = "profile"

// User is a back-office account.
type User struct {
	store.Base   `bson:",inline"`
	Email        string `json:"email" gorm:"uniqueIndex;size:255" bson:"email"`
	PasswordHash string `json:"-" gorm:"size:255" bson:"password_hash"`
	Role         string `json:"role" gorm:"size:16;index" bson:"role"`
}

// SocialLinks is stored as a JSON column (gorm) or sub-document (mongo).
type SocialLinks struct {
	GitHub    string `json:"github,omitempty" bson:"github,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
	Website   string `json:"website,omitempty" bson:"website,omitempty"`
}

// Profile is the portfolio owner's singleton document.
type Profile struct {
	store.Base     `bson:",inline"`
	Name           string      `json:"name" gorm:"size:255" bson:"name"`
	Title          string      `json:"title" gorm:"size:255" bson:"title"`
	ProfilePicture string      `json:"profilePicture" gorm:"size:512" bson:"profile_picture"`
	HomeImage      string      `json:"homeImage" gorm:"size:512" bson:"home_image"`
	AboutImage     string      `json:"aboutImage" gorm:"size:512" bson:"about_image"`
	WelcomeMessage string      `json:"welcomeMessage" gorm:"size:500" bson:"welcome_message"`
	AboutText      string      `json:"aboutText" gorm:"size:2000" bson:"about_text"`
	ResumeURL      string      `json:"resumeUrl" gorm:"column:resume_url;size:512" bson:"resume_url"`
	Email          string      `json:"email" gorm:"size:255" bson:"email"`
	Phone          string      `json:"phone" gorm:"size:20" bson:"phone"`
	Location       string      `json:"location" gorm:"size:100" bson:"location"`
	SocialLinks    SocialLinks `json:"socialLinks" gorm:"serializer:json;type:text" bson:"social_links"`
	CVText         string      `json:"cvText" gorm:"column:cv_text;size:1000" bson:"cv_text"`
}

// Education is one entry of the education timeline.
type Education struct {
	store.Base  `bson:",inline"`
	Institution string     `json:"institution" gorm:"size:255" bson:"institution"`
	Degree      string     `json:"degree" gorm:"size:255" bson:"degree"`
	Field       string     `json:"field" gorm:"size:255" bson:"field"`
	StartDate   time.Time  `json:"startDate" bson:"start_date"`
	EndDate     *time.Time `json:"endDate" bson:"end_date"`
	Description string     `json:"description" gorm:"size:500" bson:"description"`
	Grade       string     `json:"grade" gorm:"size:64" bson:"grade"`
	Location    string     `json:"location" gorm:"size:255" bson:"location"`
	SortOrder   int        `json:"sortOrder" bson:"sort_order"`
	IsActive    bool       `json:"isActive" gorm:"index" bson:"is_active"`
}

// Skill is one entry of the skills grid.
type Skill struct {
	store.Base  `bson:",inline"`
	Name        string `json:"name" gorm:"size:100" bson:"name"`
	Category    string `json:"category" gorm:"size:32" bson:"category"`
	Proficiency int    `json:"proficiency" bson:"proficiency"`
	Icon        string `json:"icon" gorm:"size:255" bson:"icon"`
	IconURL     string `json:"iconUrl" gorm:"column:icon_url;size:512" bson:"icon_url"`
	Color       string `json:"color" gorm:"size:16" bson:"color"`
	Description string `json:"description" gorm:"size:200" bson:"description"`
	SortOrder   int    `json:"sortOrder" bson:"sort_order"`
	IsActive    bool   `json:"isActive" gorm:"index" bson:"is_active"`
}

// Project is one showcased project.
type Project struct {
	store.Base      `bson:",inline"`
	Title           string                      `json:"title" gorm:"size:255" bson:"title"`
	Description     string                      `json:"description" gorm:"type:text" bson:"description"`
	LongDescription string                      `json:"longDescription" gorm:"size:1000" bson:"long_description"`
	Image           string                      `json:"image" gorm:"size:512" bson:"image"`
	Technologies    datatypes.JSONSlice[string] `json:"technologies" bson:"technologies"`
	DemoURL         string                      `json:"demoUrl" gorm:"column:demo_url;size:512" bson:"demo_url"`
	GitHubURL       string                      `json:"githubUrl" gorm:"column:github_url;size:512" bson:"github_url"`
	Featured        bool                        `json:"featured" gorm:"index" bson:"featured"`
	Status          string                      `json:"status" gorm:"size:32" bson:"status"`
	Category        string                      `json:"category" gorm:"size:32" bson:"category"`
	StartDate       *time.Time                  `json:"startDate" bson:"start_date"`
	EndDate         *time.Time                  `json:"endDate" bson:"end_date"`
	SortOrder       int                         `json:"sortOrder" bson:"sort_order"`
	IsActive        bool                        `json:"isActive" gorm:"index" bson:"is_active"`
}

// Message is a contact-form submission.
type Message struct {
	store.Base `bson:",inline"`
	Name       string `json:"name" gorm:"size:255" bson:"name"`
	Email      string `json:"email" gorm:"size:255" bson:"email"`
	Phone      string `json:"phone" gorm:"size:32" bson:"phone"`
	Subject    string `json:"subject" gorm:"size:255" bson:"subject"`
	Body       string `json:"message" gorm:"column:message;type:text" bson:"message"`
	Status     string `json:"status" gorm:"size:16;index" bson:"status"`
	IPAddress  string `json:"ipAddress" gorm:"column:ip_address;size:64" bson:"ip_address"`
	UserAgent  string `json:"userAgent" gorm:"size:512" bson:"user_agent"`
}

// Models lists every migrated type.
func Models() []any {
	return []any{&User{}, &Profile{}, &Education{}, &Skill{}, &Project{}, &Message{}}
}
