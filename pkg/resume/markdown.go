package resume

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Reconstruct renders the recognized sections back to Markdown in layout order.
// Sections without a fixed place in the document are left out.
func Reconstruct(sections SectionMap) (markdown string) {
	parts := make([]string, 0)
	for _, st := range SectionOrder {
		lines, ok := sections.Get(st.Key)
		if !ok || len(lines) == 0 {
			continue
		}
		parts = append(parts, "## "+st.Title, "")
		parts = append(parts, lines...)
		parts = append(parts, "")
	}
	markdown = strings.Join(parts, "\n")
	return markdown
}

// Fingerprint is a stable digest of the content that determines the rendered document.
// Any change to a section line, the section order, or a contact field changes it.
func Fingerprint(sections SectionMap, contact ContactRecord) (fingerprint string) {
	payload := struct {
		Sections SectionMap    `json:"sections"`
		Contact  ContactRecord `json:"contact"`
	}{
		Sections: sections,
		Contact:  contact,
	}

	// Marshal cannot fail for these types.
	data, _ := json.Marshal(payload)
	sum := blake2b.Sum256(data)
	fingerprint = hex.EncodeToString(sum[:])
	return fingerprint
}
