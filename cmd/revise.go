package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nikogura/resume-builder/pkg/config"
	"github.com/nikogura/resume-builder/pkg/llm"
	"github.com/nikogura/resume-builder/pkg/preview"
	"github.com/nikogura/resume-builder/pkg/resume"
	"github.com/nikogura/resume-builder/pkg/session"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var reviseSection string

//nolint:gochecknoglobals // Cobra boilerplate
var reviseInstruction string

//nolint:gochecknoglobals // Cobra boilerplate
var reviseAnswersFile string

//nolint:gochecknoglobals // Cobra boilerplate
var reviseOutputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var reviseKeepMarkdown bool

//nolint:gochecknoglobals // Cobra boilerplate
var reviseCmd = &cobra.Command{
	Use:   "revise <draft-file-or-url>",
	Short: "Rewrite one section of a Markdown resume with AI",
	Long: `Rewrite one section of an existing Markdown resume with AI, then write the revised
Markdown and PDF.

Sections that can be revised: summary, skills, experience, education, projects, certifications.
Without --instruction, the section is improved for clarity, impact and ATS-friendliness.

Non-Latin characters will be removed from the PDF.

Example:
  resume-builder revise resume.md --section experience --instruction "Quantify the impact"
  resume-builder revise resume.md --section summary --answers answers.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runRevise,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(reviseCmd)
	reviseCmd.Flags().StringVar(&reviseSection, "section", "", "Section to revise (required)")
	reviseCmd.Flags().StringVar(&reviseInstruction, "instruction", "", "How to change the section")
	reviseCmd.Flags().StringVar(&reviseAnswersFile, "answers", "", "YAML or JSON answers file with contact details")
	reviseCmd.Flags().StringVar(&reviseOutputDir, "output-dir", "", "Output directory (default from config)")
	reviseCmd.Flags().BoolVar(&reviseKeepMarkdown, "keep-markdown", false, "Keep markdown file after PDF generation (default from config)")
	_ = reviseCmd.MarkFlagRequired("section")
}

func runRevise(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	key := strings.ToLower(strings.TrimSpace(reviseSection))
	if !session.IsRevisable(key) {
		err = errors.Wrapf(session.ErrUnknownSection, "%q (choose from %s)", reviseSection, strings.Join(session.RevisableSections, ", "))
		return err
	}

	var cfg config.Config
	cfg, err = loadConfig()
	if err != nil {
		return err
	}

	err = cfg.RequireAPIKey()
	if err != nil {
		return err
	}

	var sections resume.SectionMap
	sections, err = loadDraft(ctx, args[0])
	if err != nil {
		return err
	}

	var contact resume.ContactRecord
	contact, err = loadContact(reviseAnswersFile)
	if err != nil {
		return err
	}

	sections, err = reviseDraftSection(ctx, newClient(cfg), sections, key, reviseInstruction)
	if err != nil {
		return err
	}

	var pdf []byte
	pdf, err = newRenderer(cfg).Render(sections, contact)
	if err != nil {
		err = errors.Wrap(err, "failed to render resume")
		return err
	}

	filenames := buildFilenames(flagOrConfig(reviseOutputDir, cfg.Defaults.OutputDir), outputName(contact, args[0])+"-revised")
	err = writeOutputs(preview.Markdown(sections, contact), pdf, filenames, getKeepMarkdown(cmd, reviseKeepMarkdown, cfg))
	return err
}

// reviseDraftSection replaces one section of sections with the model's revision.
func reviseDraftSection(ctx context.Context, gen session.Generator, sections resume.SectionMap, key, instruction string) (revised resume.SectionMap, err error) {
	lines, _ := sections.Get(key)

	var result []string
	err = withSpinner(fmt.Sprintf("Revising %s...", sectionTitle(key)), func() (revErr error) {
		result, revErr = gen.ReviseSection(ctx, key, lines, instruction)
		return revErr
	})
	if err != nil {
		var genErr *llm.GenerationError
		if errors.As(err, &genErr) {
			err = errors.Wrap(err, "revision failed, draft unchanged")
		}
		return sections, err
	}

	if len(result) == 0 {
		err = errors.Wrapf(session.ErrRevisionEmpty, "section %s", key)
		return sections, err
	}

	revised = sections.Clone()
	revised.Set(key, result)

	fmt.Printf("\n%s\n%s\n\n", strings.ToUpper(sectionTitle(key)), strings.Join(result, "\n"))
	return revised, err
}
