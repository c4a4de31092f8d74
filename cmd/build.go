package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nikogura/resume-builder/pkg/answers"
	"github.com/nikogura/resume-builder/pkg/config"
	"github.com/nikogura/resume-builder/pkg/llm"
	"github.com/nikogura/resume-builder/pkg/preview"
	"github.com/nikogura/resume-builder/pkg/session"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// backCommand steps back one question in the interactive questionnaire.
const backCommand = ":back"

//nolint:gochecknoglobals // Cobra boilerplate
var buildAnswersFile string

//nolint:gochecknoglobals // Cobra boilerplate
var buildOutputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var buildKeepMarkdown bool

//nolint:gochecknoglobals // Cobra boilerplate
var buildRevise bool

//nolint:gochecknoglobals // Cobra boilerplate
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a resume from a questionnaire",
	Long: `Build a resume by answering a short questionnaire. Your answers are sent to the text
generation service, which writes a Markdown resume that is then rendered to PDF.

Every question may be skipped by pressing Enter. Type :back to return to the previous
question. With --answers, the questionnaire is read from a YAML or JSON file instead.

With --revise, you can rewrite individual sections with AI before the PDF is written.

Non-Latin characters will be removed from the PDF.

Example:
  resume-builder build
  resume-builder build --answers answers.yaml --output-dir ~/Documents
  resume-builder build --answers answers.yaml --revise`,
	RunE: runBuild,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVar(&buildAnswersFile, "answers", "", "YAML or JSON answers file (skips the interactive questionnaire)")
	buildCmd.Flags().StringVar(&buildOutputDir, "output-dir", "", "Output directory (default from config)")
	buildCmd.Flags().BoolVar(&buildKeepMarkdown, "keep-markdown", false, "Keep markdown file after PDF generation (default from config)")
	buildCmd.Flags().BoolVar(&buildRevise, "revise", false, "Revise sections with AI before writing the PDF")
}

func runBuild(cmd *cobra.Command, args []string) (err error) {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	var cfg config.Config
	cfg, err = loadConfig()
	if err != nil {
		return err
	}

	err = cfg.RequireAPIKey()
	if err != nil {
		return err
	}

	ctrl := session.NewController(session.NewMemoryStore(), newClient(cfg), newRenderer(cfg))
	p := newPrompter(os.Stdin, os.Stdout)

	var s *session.Session
	s, err = ctrl.Start(ctx)
	if err != nil {
		return err
	}

	if buildAnswersFile != "" {
		s, err = answerFromFile(ctx, ctrl, s.ID, buildAnswersFile)
	} else {
		s, err = answerInteractively(ctx, ctrl, s.ID, p)
	}
	if err != nil {
		return err
	}

	err = withSpinner("Generating resume...", func() (genErr error) {
		s, genErr = ctrl.Generate(ctx, s.ID)
		return genErr
	})
	if err != nil {
		return err
	}

	if s.Current.IsEmpty() {
		fmt.Println("Warning: the generated resume has no recognizable sections.")
	} else if !getVerbose() {
		fmt.Printf("✓ Generated %d sections\n", s.Current.Len())
	}

	if buildRevise {
		err = reviseLoop(ctx, ctrl, s.ID, p)
		if err != nil {
			return err
		}
	}

	err = writeSession(ctx, ctrl, s.ID, flagOrConfig(buildOutputDir, cfg.Defaults.OutputDir), getKeepMarkdown(cmd, buildKeepMarkdown, cfg))
	return err
}

func answerFromFile(ctx context.Context, ctrl *session.Controller, id, path string) (s *session.Session, err error) {
	var f answers.File
	f, err = answers.Load(path)
	if err != nil {
		err = errors.Wrap(err, "failed to load answers")
		return s, err
	}

	s, err = ctrl.SetAnswers(ctx, id, f.Values())
	return s, err
}

func answerInteractively(ctx context.Context, ctrl *session.Controller, id string, p *prompter) (s *session.Session, err error) {
	s, err = ctrl.Get(ctx, id)
	if err != nil {
		return s, err
	}

	fmt.Printf("Answer each question, or press Enter to skip. Type %s to go back.\n\n", backCommand)

	for !s.Complete() {
		q, _ := s.Question()

		var input string
		input, err = p.ask(fmt.Sprintf("[%d/%d] %s", s.Step+1, len(session.Questions), q.Label))
		if errors.Is(err, io.EOF) {
			// Out of input: the remaining questions are left blank.
			err = nil
		}
		if err != nil {
			return s, err
		}

		if input == backCommand {
			s, err = ctrl.Back(ctx, id)
		} else {
			s, err = ctrl.Answer(ctx, id, input)
		}
		if err != nil {
			return s, err
		}
	}

	if strings.TrimSpace(s.UserInfo()) == "" {
		err = errors.New("no answers given")
		return s, err
	}

	return s, err
}

// reviseLoop lets the user rewrite sections until they press Enter at the section prompt.
func reviseLoop(ctx context.Context, ctrl *session.Controller, id string, p *prompter) (err error) {
	for {
		fmt.Printf("\nSections: %s (or 'restore' to undo all revisions)\n", strings.Join(session.RevisableSections, ", "))

		var key string
		key, err = p.ask("Section to revise (Enter to finish)")
		if errors.Is(err, io.EOF) {
			err = nil
			return err
		}
		if err != nil {
			return err
		}

		key = strings.ToLower(key)
		switch key {
		case "":
			return err
		case "restore":
			_, err = ctrl.Restore(ctx, id)
			if err != nil {
				return err
			}
			fmt.Println("✓ Restored the generated resume")
			continue
		}

		if !session.IsRevisable(key) {
			fmt.Printf("Unknown section %q\n", key)
			continue
		}

		var instruction string
		instruction, err = p.ask(fmt.Sprintf("Instruction (Enter for %q)", llm.DefaultRevisionInstruction))
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		var s *session.Session
		err = withSpinner(fmt.Sprintf("Revising %s...", sectionTitle(key)), func() (revErr error) {
			s, revErr = ctrl.ReviseSection(ctx, id, key, instruction)
			return revErr
		})
		if err != nil {
			var genErr *llm.GenerationError
			if errors.Is(err, session.ErrRevisionEmpty) || errors.As(err, &genErr) {
				fmt.Printf("Revision failed, section unchanged: %v\n", err)
				err = nil
				continue
			}
			return err
		}

		fmt.Printf("\n%s\n%s\n", strings.ToUpper(sectionTitle(key)), s.Current.Text(key))
	}
}

// writeSession writes the current resume of a session to outDir.
func writeSession(ctx context.Context, ctrl *session.Controller, id, outDir string, keepMarkdown bool) (err error) {
	var s *session.Session
	s, err = ctrl.Get(ctx, id)
	if err != nil {
		return err
	}

	markdown := preview.Markdown(s.Current, s.Contact)

	var pdf []byte
	err = withSpinner("Rendering PDF...", func() (renderErr error) {
		pdf, renderErr = ctrl.Document(ctx, id)
		return renderErr
	})
	if err != nil {
		return err
	}

	err = writeOutputs(markdown, pdf, buildFilenames(outDir, s.Contact.Name), keepMarkdown)
	if err != nil {
		return err
	}

	fmt.Println("\nResume complete!")
	return err
}
