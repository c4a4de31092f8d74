package session

import (
	"strings"

	"github.com/nikogura/resume-builder/pkg/resume"
)

// Question is one questionnaire step.
type Question struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Questions lists the questionnaire steps in order.
//
//nolint:gochecknoglobals // fixed questionnaire
var Questions = []Question{
	{Key: resume.FieldName, Label: "Full Name"},
	{Key: resume.FieldLocation, Label: "Location (City, State)"},
	{Key: resume.FieldPhone, Label: "Phone Number"},
	{Key: resume.FieldEmail, Label: "Email Address"},
	{Key: resume.FieldPortfolio, Label: "Portfolio URL"},
	{Key: resume.FieldLinkedIn, Label: "LinkedIn URL"},
	{Key: resume.FieldGitHub, Label: "GitHub URL"},
	{Key: resume.SectionSkills, Label: "Technical Skills (comma separated)"},
	{Key: resume.SectionExperience, Label: "Experience (format: Role, Org, Dates, Location, Description; separate multiple with '||')"},
	{Key: resume.SectionEducation, Label: "Education (format: Degree, College, Dates, Location, Details)"},
	{Key: resume.SectionProjects, Label: "Projects (format: Title | Technologies | Year; separate multiple with '||')"},
	{Key: resume.SectionCertifications, Label: "Certifications (comma separated)"},
}

// RevisableSections are the sections that can be revised with AI.
//
//nolint:gochecknoglobals // fixed list
var RevisableSections = []string{
	resume.SectionSummary,
	resume.SectionSkills,
	resume.SectionExperience,
	resume.SectionEducation,
	resume.SectionProjects,
	resume.SectionCertifications,
}

// LabelFor returns the label of the question with the given key.
func LabelFor(key string) (label string, ok bool) {
	for _, q := range Questions {
		if q.Key == key {
			label = q.Label
			ok = true
			return label, ok
		}
	}
	return label, ok
}

// IsRevisable reports whether key can be revised with AI.
func IsRevisable(key string) (ok bool) {
	for _, k := range RevisableSections {
		if k == key {
			ok = true
			return ok
		}
	}
	return ok
}

// UserInfo formats the non-empty answers as "Label: value" lines in questionnaire order.
func UserInfo(answers map[string]string) (info string) {
	var b strings.Builder
	for _, q := range Questions {
		v := strings.TrimSpace(answers[q.Key])
		if v == "" {
			continue
		}
		b.WriteString(q.Label + ": " + v + "\n")
	}
	info = b.String()
	return info
}
