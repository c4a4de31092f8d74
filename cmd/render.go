package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikogura/resume-builder/pkg/answers"
	"github.com/nikogura/resume-builder/pkg/config"
	"github.com/nikogura/resume-builder/pkg/draft"
	"github.com/nikogura/resume-builder/pkg/resume"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var renderAnswersFile string

//nolint:gochecknoglobals // Cobra boilerplate
var renderOutputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var renderCmd = &cobra.Command{
	Use:   "render <draft-file-or-url>",
	Short: "Render a Markdown resume to PDF",
	Long: `Render an existing Markdown resume to PDF without calling the text generation service.

The draft can be a file path, an http(s) URL, or - for standard input. Sections start at
'#' headings or at short lines written entirely in bold. Contact details for the header are
read from the contact block of an answers file.

Non-Latin characters will be removed from the PDF.

Example:
  resume-builder render resume.md --answers answers.yaml
  resume-builder render https://example.com/resume.md --output-dir ~/Documents
  cat resume.md | resume-builder render -`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVar(&renderAnswersFile, "answers", "", "YAML or JSON answers file with contact details")
	renderCmd.Flags().StringVar(&renderOutputDir, "output-dir", "", "Output directory (default from config)")
}

func runRender(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var cfg config.Config
	cfg, err = loadConfig()
	if err != nil {
		return err
	}

	var sections resume.SectionMap
	sections, err = loadDraft(ctx, args[0])
	if err != nil {
		return err
	}

	var contact resume.ContactRecord
	contact, err = loadContact(renderAnswersFile)
	if err != nil {
		return err
	}

	var pdf []byte
	pdf, err = newRenderer(cfg).Render(sections, contact)
	if err != nil {
		err = errors.Wrap(err, "failed to render resume")
		return err
	}

	filenames := buildFilenames(flagOrConfig(renderOutputDir, cfg.Defaults.OutputDir), outputName(contact, args[0]))

	// The draft is the Markdown source, so only the PDF is written.
	err = writePDF(pdf, filenames.resumePDF)
	return err
}

// loadDraft fetches a Markdown draft and splits it into sections.
func loadDraft(ctx context.Context, input string) (sections resume.SectionMap, err error) {
	var text string
	text, err = draft.FetchWithContext(ctx, input)
	if err != nil {
		err = errors.Wrap(err, "failed to read draft")
		return sections, err
	}

	sections = resume.Parse(text)
	if sections.IsEmpty() {
		fmt.Println("Warning: the draft has no recognizable sections.")
	}
	slog.Debug("draft loaded", "input", input, "bytes", len(text), "sections", sections.Keys())

	return sections, err
}

// loadContact reads the contact block of an answers file. An empty path yields no contact.
func loadContact(path string) (contact resume.ContactRecord, err error) {
	if path == "" {
		return contact, err
	}

	var f answers.File
	f, err = answers.Load(path)
	if err != nil {
		err = errors.Wrap(err, "failed to load answers")
		return contact, err
	}

	contact = f.Contact
	return contact, err
}

// outputName picks the name used for output files: the contact name, else the draft file name.
func outputName(contact resume.ContactRecord, input string) (name string) {
	name = strings.TrimSpace(contact.Name)
	if name != "" || input == draft.Stdin || strings.Contains(input, "://") {
		return name
	}

	base := filepath.Base(input)
	name = strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.TrimSuffix(strings.TrimSuffix(name, "-resume"), "_resume")
	return name
}
