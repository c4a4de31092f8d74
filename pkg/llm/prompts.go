package llm

import (
	"fmt"
	"strings"
)

const (
	generationSystemPrompt = "You are an expert resume writer."
	revisionSystemPrompt   = "You are an expert resume writer. Always preserve existing content while making improvements."

	// DefaultRevisionInstruction is used when a revision is requested without an instruction.
	DefaultRevisionInstruction = "Optimize the section for clarity, conciseness, and ATS-friendliness while keeping all existing information."
)

// buildGenerationPrompt creates the whole-resume prompt.
func buildGenerationPrompt(userInfo string) (prompt string) {
	prompt = `Using the following information, create a clear, ATS-friendly, one-page professional resume. ` +
		`Organize it with appropriate sections and bold each section heading (e.g. **Summary**, **Skills**, **Experience**, **Education**, **Projects**, **Certifications**). ` +
		`Start directly with the candidate's name and a brief Summary, without repeating their name or adding additional copies. ` +
		`Make sure to use strong action verbs, concise bullet points, and keep it factual and impersonal (without using personal pronouns). ` +
		`Ensure it fits on a single page while retaining maximum impact and readability. ` +
		`Do not include a cover letter, additional comments, or explanations - output only the finished resume. ` +
		`Only include sections for which information is provided. Omit any section if the information is not provided.

For projects, put each project's first line as "Title | Technologies | Year", separate the description items with semicolons, and separate projects with "||".

` + userInfo

	return prompt
}

// buildRevisionPrompt creates the single-section revision prompt.
func buildRevisionPrompt(key, content, instruction string) (prompt string) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		instruction = DefaultRevisionInstruction
	}

	prompt = fmt.Sprintf(`Here is the %[1]s section of a professional resume in Markdown:

%[2]s

IMPORTANT: Please improve this %[1]s section based on the following instruction while preserving ALL existing content and information in this section. Only enhance, refine, or add to the existing content - do not remove or replace existing achievements, projects, or experience. Instruction: %[3]s

Output only the improved %[1]s section in Markdown format, ensuring all original content is preserved and enhanced.`,
		key, content, instruction)

	return prompt
}
