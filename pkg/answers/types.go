package answers

import (
	"strings"

	"github.com/nikogura/resume-builder/pkg/resume"
)

// File holds questionnaire answers supplied up front instead of interactively.
type File struct {
	Contact        resume.ContactRecord `json:"contact" yaml:"contact"`
	Skills         string               `json:"skills" yaml:"skills" validate:"max=4000"`
	Experience     string               `json:"experience" yaml:"experience" validate:"max=8000"`
	Education      string               `json:"education" yaml:"education" validate:"max=4000"`
	Projects       string               `json:"projects" yaml:"projects" validate:"max=8000"`
	Certifications string               `json:"certifications" yaml:"certifications" validate:"max=4000"`
}

// Values returns every answer keyed by question key, with surrounding whitespace removed.
func (f *File) Values() (values map[string]string) {
	values = make(map[string]string, len(resume.ContactFields)+5)
	for _, field := range resume.ContactFields {
		values[field] = strings.TrimSpace(f.Contact.Get(field))
	}
	values[resume.SectionSkills] = strings.TrimSpace(f.Skills)
	values[resume.SectionExperience] = strings.TrimSpace(f.Experience)
	values[resume.SectionEducation] = strings.TrimSpace(f.Education)
	values[resume.SectionProjects] = strings.TrimSpace(f.Projects)
	values[resume.SectionCertifications] = strings.TrimSpace(f.Certifications)
	return values
}

// IsEmpty reports whether no question was answered.
func (f *File) IsEmpty() (empty bool) {
	for _, v := range f.Values() {
		if v != "" {
			return false
		}
	}
	return true
}
