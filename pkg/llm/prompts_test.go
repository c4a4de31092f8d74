package llm

import (
	"strings"
	"testing"
)

func TestBuildGenerationPrompt(t *testing.T) {
	userInfo := "Name: Jane Doe\nSkills: Go, Kubernetes\n"

	prompt := buildGenerationPrompt(userInfo)

	if prompt == "" {
		t.Fatal("Expected non-empty prompt")
	}

	// Should end with the collected answers.
	if !strings.HasSuffix(prompt, userInfo) {
		t.Error("Prompt should end with the user information")
	}

	// Should ask for bold section headings the parser understands.
	for _, heading := range []string{"**Summary**", "**Skills**", "**Experience**", "**Education**", "**Projects**", "**Certifications**"} {
		if !strings.Contains(prompt, heading) {
			t.Errorf("Prompt should mention heading %s", heading)
		}
	}

	// Should describe the projects layout.
	if !strings.Contains(prompt, "Title | Technologies | Year") {
		t.Error("Prompt should describe the project header format")
	}

	if !strings.Contains(prompt, `"||"`) {
		t.Error("Prompt should describe the project separator")
	}

	if !strings.Contains(prompt, "Omit any section if the information is not provided") {
		t.Error("Prompt should ask to omit missing sections")
	}
}

func TestBuildRevisionPrompt(t *testing.T) {
	content := "- Built X\n- Shipped Y"

	prompt := buildRevisionPrompt("experience", content, "Quantify impact")

	if !strings.Contains(prompt, "Here is the experience section") {
		t.Error("Prompt should name the section")
	}

	if !strings.Contains(prompt, content) {
		t.Error("Prompt should contain the section content")
	}

	if !strings.Contains(prompt, "Instruction: Quantify impact") {
		t.Error("Prompt should contain the instruction")
	}

	if strings.Contains(prompt, DefaultRevisionInstruction) {
		t.Error("Prompt should not use the default instruction when one is given")
	}

	if !strings.Contains(prompt, "Output only the improved experience section") {
		t.Error("Prompt should restrict the output to the section")
	}
}

func TestBuildRevisionPromptDefaultInstruction(t *testing.T) {
	for _, instruction := range []string{"", "   ", "\n"} {
		prompt := buildRevisionPrompt("skills", "Go", instruction)

		if !strings.Contains(prompt, "Instruction: "+DefaultRevisionInstruction) {
			t.Errorf("Expected default instruction for %q", instruction)
		}
	}
}

func TestPromptsPreserveContent(t *testing.T) {
	prompt := buildRevisionPrompt("projects", "Tool | Go | 2024", "")

	// Revisions must not drop existing material.
	if !strings.Contains(prompt, "preserving ALL existing content") {
		t.Error("Revision prompt should ask to preserve existing content")
	}

	if !strings.Contains(revisionSystemPrompt, "preserve existing content") {
		t.Error("Revision system prompt should ask to preserve existing content")
	}

	if generationSystemPrompt != "You are an expert resume writer." {
		t.Errorf("Unexpected generation system prompt: %s", generationSystemPrompt)
	}
}
