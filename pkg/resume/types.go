// Package resume holds the resume content model: the contact header, the ordered section map
// produced from generated Markdown, and the transformations between them.
package resume

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// Contact field keys, in questionnaire order.
const (
	FieldName      = "name"
	FieldLocation  = "location"
	FieldPhone     = "phone"
	FieldEmail     = "email"
	FieldPortfolio = "portfolio"
	FieldLinkedIn  = "linkedin"
	FieldGitHub    = "github"
)

// Section keys with a fixed place in the rendered document.
const (
	SectionSummary        = "summary"
	SectionSkills         = "skills"
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionProjects       = "projects"
	SectionCertifications = "certifications"
	SectionAchievements   = "achievements"
)

// ContactFields lists the contact keys in questionnaire order.
//
//nolint:gochecknoglobals // fixed lookup table
var ContactFields = []string{FieldName, FieldLocation, FieldPhone, FieldEmail, FieldPortfolio, FieldLinkedIn, FieldGitHub}

// SectionTitle pairs a section key with its display title.
type SectionTitle struct {
	Key   string
	Title string
}

// SectionOrder is the layout order of the recognized sections.
//
//nolint:gochecknoglobals // fixed lookup table
var SectionOrder = []SectionTitle{
	{Key: SectionSummary, Title: "Summary"},
	{Key: SectionSkills, Title: "Skills"},
	{Key: SectionExperience, Title: "Experience"},
	{Key: SectionEducation, Title: "Education"},
	{Key: SectionProjects, Title: "Projects"},
	{Key: SectionCertifications, Title: "Certifications"},
	{Key: SectionAchievements, Title: "Achievements"},
}

// TitleFor returns the display title of a recognized section key, or "" if the key has no
// fixed place in the document.
func TitleFor(key string) (title string) {
	for _, s := range SectionOrder {
		if s.Key == key {
			title = s.Title
			return title
		}
	}
	return title
}

// ContactRecord is the header block of the resume.
type ContactRecord struct {
	Name      string `json:"name" yaml:"name" validate:"max=120"`
	Location  string `json:"location" yaml:"location" validate:"max=120"`
	Phone     string `json:"phone" yaml:"phone" validate:"max=40"`
	Email     string `json:"email" yaml:"email" validate:"omitempty,email"`
	Portfolio string `json:"portfolio" yaml:"portfolio" validate:"max=300"`
	LinkedIn  string `json:"linkedin" yaml:"linkedin" validate:"max=300"`
	GitHub    string `json:"github" yaml:"github" validate:"max=300"`
}

// Get returns the value of a contact field by key.
func (c ContactRecord) Get(field string) (value string) {
	switch field {
	case FieldName:
		value = c.Name
	case FieldLocation:
		value = c.Location
	case FieldPhone:
		value = c.Phone
	case FieldEmail:
		value = c.Email
	case FieldPortfolio:
		value = c.Portfolio
	case FieldLinkedIn:
		value = c.LinkedIn
	case FieldGitHub:
		value = c.GitHub
	}
	return value
}

// Set returns a copy of the record with one field replaced.
func (c ContactRecord) Set(field, value string) (updated ContactRecord, err error) {
	updated = c
	switch field {
	case FieldName:
		updated.Name = value
	case FieldLocation:
		updated.Location = value
	case FieldPhone:
		updated.Phone = value
	case FieldEmail:
		updated.Email = value
	case FieldPortfolio:
		updated.Portfolio = value
	case FieldLinkedIn:
		updated.LinkedIn = value
	case FieldGitHub:
		updated.GitHub = value
	default:
		err = errors.Errorf("unknown contact field: %s", field)
	}
	return updated, err
}

// IsContactField reports whether key names a ContactRecord field.
func IsContactField(key string) (ok bool) {
	for _, f := range ContactFields {
		if f == key {
			ok = true
			return ok
		}
	}
	return ok
}

// Section is one named block of content lines.
type Section struct {
	Key   string   `json:"key"`
	Lines []string `json:"lines"`
}

// SectionMap is an insertion-ordered mapping of section key to content lines.
// The zero value is an empty map ready to use.
type SectionMap struct {
	sections []Section
}

// Get returns the lines stored under key.
func (m SectionMap) Get(key string) (lines []string, ok bool) {
	for _, s := range m.sections {
		if s.Key == key {
			lines = s.Lines
			ok = true
			return lines, ok
		}
	}
	return lines, ok
}

// Has reports whether key is present.
func (m SectionMap) Has(key string) (ok bool) {
	_, ok = m.Get(key)
	return ok
}

// Set stores lines under key. An existing key keeps its position and its previous lines are
// replaced, not merged.
func (m *SectionMap) Set(key string, lines []string) {
	for i := range m.sections {
		if m.sections[i].Key == key {
			m.sections[i].Lines = lines
			return
		}
	}
	m.sections = append(m.sections, Section{Key: key, Lines: lines})
}

// Delete removes key if present.
func (m *SectionMap) Delete(key string) {
	for i := range m.sections {
		if m.sections[i].Key == key {
			m.sections = append(m.sections[:i], m.sections[i+1:]...)
			return
		}
	}
}

// Keys returns the keys in insertion order.
func (m SectionMap) Keys() (keys []string) {
	keys = make([]string, 0, len(m.sections))
	for _, s := range m.sections {
		keys = append(keys, s.Key)
	}
	return keys
}

// Sections returns a copy of the ordered sections.
func (m SectionMap) Sections() (sections []Section) {
	sections = m.Clone().sections
	return sections
}

// Len returns the number of sections.
func (m SectionMap) Len() (n int) {
	n = len(m.sections)
	return n
}

// IsEmpty reports whether the map holds no sections.
func (m SectionMap) IsEmpty() (empty bool) {
	empty = len(m.sections) == 0
	return empty
}

// Clone returns a deep copy.
func (m SectionMap) Clone() (clone SectionMap) {
	clone.sections = make([]Section, 0, len(m.sections))
	for _, s := range m.sections {
		lines := make([]string, len(s.Lines))
		copy(lines, s.Lines)
		clone.sections = append(clone.sections, Section{Key: s.Key, Lines: lines})
	}
	return clone
}

// Equal reports whether both maps hold the same keys, order and lines.
func (m SectionMap) Equal(other SectionMap) (equal bool) {
	if len(m.sections) != len(other.sections) {
		return equal
	}
	for i, s := range m.sections {
		o := other.sections[i]
		if s.Key != o.Key || len(s.Lines) != len(o.Lines) {
			return equal
		}
		for j := range s.Lines {
			if s.Lines[j] != o.Lines[j] {
				return equal
			}
		}
	}
	equal = true
	return equal
}

// Text returns the lines of key joined with newlines.
func (m SectionMap) Text(key string) (text string) {
	lines, _ := m.Get(key)
	text = strings.Join(lines, "\n")
	return text
}

// MarshalJSON encodes the map as an ordered array of sections.
func (m SectionMap) MarshalJSON() (data []byte, err error) {
	sections := m.sections
	if sections == nil {
		sections = []Section{}
	}
	data, err = json.Marshal(sections)
	return data, err
}

// UnmarshalJSON decodes an ordered array of sections.
func (m *SectionMap) UnmarshalJSON(data []byte) (err error) {
	var sections []Section
	err = json.Unmarshal(data, &sections)
	if err != nil {
		err = errors.Wrap(err, "failed to decode section map")
		return err
	}
	m.sections = nil
	for _, s := range sections {
		m.Set(s.Key, s.Lines)
	}
	return err
}

// NewSectionMap builds a map from sections in the given order.
func NewSectionMap(sections ...Section) (m SectionMap) {
	for _, s := range sections {
		m.Set(s.Key, s.Lines)
	}
	return m
}
