// Package content holds the portfolio entities and the schema description
// that drives the generic repository, service and HTTP handler.
package content

import (
	"time"
)

// Entity is implemented by every document managed through the CMS routes.
// Implementations use pointer receivers so that T is always a pointer type.
type Entity interface {
	GetID() string
	SetID(id string)
	Created() time.Time
	SetTimestamps(created, updated time.Time)
	// Normalize trims and sanitizes text fields and fills defaults.
	Normalize()
}

// Base carries the identity and timestamps shared by all entities.
type Base struct {
	ID        string    `json:"id" bson:"_id"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (b *Base) GetID() string      { return b.ID }
func (b *Base) SetID(id string)    { b.ID = id }
func (b *Base) Created() time.Time { return b.CreatedAt }

func (b *Base) SetTimestamps(created, updated time.Time) {
	b.CreatedAt = created
	b.UpdatedAt = updated
}

// Status is the publication state shared by several entities.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusPublished Status = "Published"
	StatusArchived  Status = "Archived"
)

type ProjectType string

const (
	ProjectWebsite   ProjectType = "Website"
	ProjectWebApp    ProjectType = "WebApp"
	ProjectMobileApp ProjectType = "MobileApp"
	ProjectDesktop   ProjectType = "Desktop"
	ProjectAPI       ProjectType = "API"
	ProjectLibrary   ProjectType = "Library"
	ProjectOther     ProjectType = "Other"
)

type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "FullTime"
	EmploymentPartTime   EmploymentType = "PartTime"
	EmploymentContract   EmploymentType = "Contract"
	EmploymentInternship EmploymentType = "Internship"
	EmploymentFreelance  EmploymentType = "Freelance"
)

type Section string

const (
	SectionHero    Section = "hero"
	SectionAbout   Section = "about"
	SectionFooter  Section = "footer"
	SectionContact Section = "contact"
	SectionGeneral Section = "general"
)

func defaultStatus(s *Status) {
	if *s == "" {
		*s = StatusDraft
	}
}

// Project is a portfolio entry shown on the projects page.
type Project struct {
	Base         `bson:",inline"`
	Title        string      `json:"title" bson:"title" validate:"required,max=200"`
	Description  string      `json:"description" bson:"description" validate:"required,max=5000"`
	ProjectType  ProjectType `json:"projectType" bson:"projectType" validate:"required,oneof=Website WebApp MobileApp Desktop API Library Other"`
	Status       Status      `json:"status" bson:"status" validate:"oneof=Draft Published Archived"`
	Technologies []string    `json:"technologies" bson:"technologies" validate:"max=50,dive,required,max=50"`
	Images       []string    `json:"images" bson:"images" validate:"max=20,dive,url"`
	DemoURL      string      `json:"demoUrl,omitempty" bson:"demoUrl,omitempty" validate:"omitempty,url"`
	RepoURL      string      `json:"repoUrl,omitempty" bson:"repoUrl,omitempty" validate:"omitempty,url"`
	Featured     bool        `json:"featured" bson:"featured"`
	Order        int         `json:"order" bson:"order"`
}

func (p *Project) Normalize() {
	p.Title = plain(p.Title)
	p.Description = rich(p.Description)
	p.ProjectType = ProjectType(plain(string(p.ProjectType)))
	p.Technologies = plainList(p.Technologies)
	p.Images = plainList(p.Images)
	p.DemoURL = plain(p.DemoURL)
	p.RepoURL = plain(p.RepoURL)
	defaultStatus(&p.Status)
}

type Experience struct {
	Base           `bson:",inline"`
	Position       string         `json:"position" bson:"position" validate:"required,max=200"`
	Company        string         `json:"company" bson:"company" validate:"required,max=200"`
	Location       string         `json:"location,omitempty" bson:"location,omitempty" validate:"max=200"`
	EmploymentType EmploymentType `json:"employmentType" bson:"employmentType" validate:"required,oneof=FullTime PartTime Contract Internship Freelance"`
	StartDate      string         `json:"startDate" bson:"startDate" validate:"required,max=32"`
	EndDate        string         `json:"endDate,omitempty" bson:"endDate,omitempty" validate:"max=32"`
	Current        bool           `json:"current" bson:"current"`
	Description    string         `json:"description,omitempty" bson:"description,omitempty" validate:"max=5000"`
	Skills         []string       `json:"skills" bson:"skills" validate:"max=50,dive,required,max=50"`
	Status         Status         `json:"status" bson:"status" validate:"oneof=Draft Published Archived"`
	Order          int            `json:"order" bson:"order"`
}

func (e *Experience) Normalize() {
	e.Position = plain(e.Position)
	e.Company = plain(e.Company)
	e.Location = plain(e.Location)
	e.EmploymentType = EmploymentType(plain(string(e.EmploymentType)))
	e.StartDate = plain(e.StartDate)
	e.EndDate = plain(e.EndDate)
	e.Description = rich(e.Description)
	e.Skills = plainList(e.Skills)
	if e.Current {
		e.EndDate = ""
	}
	defaultStatus(&e.Status)
}

type Education struct {
	Base         `bson:",inline"`
	Institution  string `json:"institution" bson:"institution" validate:"required,max=200"`
	Degree       string `json:"degree" bson:"degree" validate:"required,max=200"`
	FieldOfStudy string `json:"fieldOfStudy,omitempty" bson:"fieldOfStudy,omitempty" validate:"max=200"`
	StartDate    string `json:"startDate" bson:"startDate" validate:"required,max=32"`
	EndDate      string `json:"endDate,omitempty" bson:"endDate,omitempty" validate:"max=32"`
	Grade        string `json:"grade,omitempty" bson:"grade,omitempty" validate:"max=50"`
	Description  string `json:"description,omitempty" bson:"description,omitempty" validate:"max=5000"`
	Status       Status `json:"status" bson:"status" validate:"oneof=Draft Published Archived"`
	Order        int    `json:"order" bson:"order"`
}

func (e *Education) Normalize() {
	e.Institution = plain(e.Institution)
	e.Degree = plain(e.Degree)
	e.FieldOfStudy = plain(e.FieldOfStudy)
	e.StartDate = plain(e.StartDate)
	e.EndDate = plain(e.EndDate)
	e.Grade = plain(e.Grade)
	e.Description = rich(e.Description)
	defaultStatus(&e.Status)
}

type Recommendation struct {
	Base         `bson:",inline"`
	Name         string `json:"name" bson:"name" validate:"required,max=200"`
	Position     string `json:"position,omitempty" bson:"position,omitempty" validate:"max=200"`
	Company      string `json:"company,omitempty" bson:"company,omitempty" validate:"max=200"`
	Relationship string `json:"relationship,omitempty" bson:"relationship,omitempty" validate:"max=200"`
	Content      string `json:"content" bson:"content" validate:"required,max=5000"`
	AvatarURL    string `json:"avatarUrl,omitempty" bson:"avatarUrl,omitempty" validate:"omitempty,url"`
	LinkedInURL  string `json:"linkedinUrl,omitempty" bson:"linkedinUrl,omitempty" validate:"omitempty,url"`
	Status       Status `json:"status" bson:"status" validate:"oneof=Draft Published Archived"`
	Featured     bool   `json:"featured" bson:"featured"`
	Order        int    `json:"order" bson:"order"`
}

func (r *Recommendation) Normalize() {
	r.Name = plain(r.Name)
	r.Position = plain(r.Position)
	r.Company = plain(r.Company)
	r.Relationship = plain(r.Relationship)
	r.Content = rich(r.Content)
	r.AvatarURL = plain(r.AvatarURL)
	r.LinkedInURL = plain(r.LinkedInURL)
	defaultStatus(&r.Status)
}

type SocialLink struct {
	Base     `bson:",inline"`
	Platform string `json:"platform" bson:"platform" validate:"required,max=50"`
	URL      string `json:"url" bson:"url" validate:"required,url"`
	Icon     string `json:"icon,omitempty" bson:"icon,omitempty" validate:"max=100"`
	Active   bool   `json:"active" bson:"active"`
	Order    int    `json:"order" bson:"order"`
}

func (s *SocialLink) Normalize() {
	s.Platform = plain(s.Platform)
	s.URL = plain(s.URL)
	s.Icon = plain(s.Icon)
}

// ProjectTypeEntry is an editable label for project categories.
type ProjectTypeEntry struct {
	Base        `bson:",inline"`
	Name        string `json:"name" bson:"name" validate:"required,max=100"`
	Slug        string `json:"slug" bson:"slug" validate:"max=100"`
	Description string `json:"description,omitempty" bson:"description,omitempty" validate:"max=1000"`
	Active      bool   `json:"active" bson:"active"`
	Order       int    `json:"order" bson:"order"`
}

func (p *ProjectTypeEntry) Normalize() {
	p.Name = plain(p.Name)
	p.Description = plain(p.Description)
	p.Slug = slugify(plain(p.Slug))
	if p.Slug == "" {
		p.Slug = slugify(p.Name)
	}
}

// ContentBlock is a piece of editable site copy (hero text, footer, ...).
type ContentBlock struct {
	Base    `bson:",inline"`
	Section Section `json:"section" bson:"section" validate:"required,oneof=hero about footer contact general"`
	Key     string  `json:"key,omitempty" bson:"key,omitempty" validate:"max=100"`
	Title   string  `json:"title,omitempty" bson:"title,omitempty" validate:"max=200"`
	Content string  `json:"content" bson:"content" validate:"required,max=20000"`
	Locale  string  `json:"locale,omitempty" bson:"locale,omitempty" validate:"omitempty,bcp47_language_tag"`
	Active  bool    `json:"active" bson:"active"`
	Order   int     `json:"order" bson:"order"`
}

func (b *ContentBlock) Normalize() {
	b.Section = Section(plain(string(b.Section)))
	b.Key = plain(b.Key)
	b.Title = plain(b.Title)
	b.Content = rich(b.Content)
	b.Locale = plain(b.Locale)
}
