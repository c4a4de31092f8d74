package resume

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstruct(t *testing.T) {
	sections := NewSectionMap(
		Section{Key: "experience", Lines: []string{"- Built X"}},
		Section{Key: "hobbies", Lines: []string{"Climbing"}},
		Section{Key: "summary", Lines: []string{"Engineer."}},
	)

	got := Reconstruct(sections)

	assert.Equal(t, "## Summary\n\nEngineer.\n\n## Experience\n\n- Built X\n", got)
}

func TestReconstructRoundTrip(t *testing.T) {
	sections := NewSectionMap(
		Section{Key: "summary", Lines: []string{"Engineer."}},
		Section{Key: "skills", Lines: []string{"Go, Python"}},
		Section{Key: "projects", Lines: []string{"Tool | Go | 2024", "Did things; More things"}},
	)

	again := Parse(Reconstruct(sections))

	assert.True(t, sections.Equal(again))
}

func TestFingerprint(t *testing.T) {
	sections := NewSectionMap(Section{Key: "skills", Lines: []string{"Go"}})
	contact := ContactRecord{Name: "Jane"}

	base := Fingerprint(sections, contact)
	assert.Len(t, base, 64)
	assert.Equal(t, base, Fingerprint(sections.Clone(), contact))

	changedLine := NewSectionMap(Section{Key: "skills", Lines: []string{"Rust"}})
	assert.NotEqual(t, base, Fingerprint(changedLine, contact))

	changedContact := contact
	changedContact.Email = "jane@example.com"
	assert.NotEqual(t, base, Fingerprint(sections, changedContact))

	reordered := NewSectionMap(
		Section{Key: "a", Lines: []string{"1"}},
		Section{Key: "b", Lines: []string{"2"}},
	)
	other := NewSectionMap(
		Section{Key: "b", Lines: []string{"2"}},
		Section{Key: "a", Lines: []string{"1"}},
	)
	assert.NotEqual(t, Fingerprint(reordered, contact), Fingerprint(other, contact))
}

func TestSectionMapJSON(t *testing.T) {
	sections := NewSectionMap(
		Section{Key: "skills", Lines: []string{"Go"}},
		Section{Key: "education", Lines: []string{"BSc"}},
	)

	data, err := json.Marshal(sections)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"key":"skills","lines":["Go"]},{"key":"education","lines":["BSc"]}]`, string(data))

	var decoded SectionMap
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, sections.Equal(decoded))

	empty, err := json.Marshal(SectionMap{})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}

func TestSectionMapCloneIsDeep(t *testing.T) {
	sections := NewSectionMap(Section{Key: "skills", Lines: []string{"Go"}})
	clone := sections.Clone()

	lines, _ := clone.Get("skills")
	lines[0] = "Rust"

	assert.Equal(t, "Go", sections.Text("skills"))
}

func TestContactRecordSet(t *testing.T) {
	c := ContactRecord{}
	for _, field := range ContactFields {
		var err error
		c, err = c.Set(field, field+"-value")
		require.NoError(t, err)
		assert.Equal(t, field+"-value", c.Get(field))
	}

	_, err := c.Set("skills", "Go")
	assert.Error(t, err)
	assert.True(t, IsContactField("github"))
	assert.False(t, IsContactField("projects"))
}

func TestTitleFor(t *testing.T) {
	assert.Equal(t, "Certifications", TitleFor("certifications"))
	assert.Empty(t, TitleFor("hobbies"))
}
