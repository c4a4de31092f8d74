package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nikogura/resume-builder/pkg/config"
	"github.com/nikogura/resume-builder/pkg/llm"
	"github.com/nikogura/resume-builder/pkg/renderer"
	"github.com/nikogura/resume-builder/pkg/resume"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// outputFilenames holds the paths written for one resume.
type outputFilenames struct {
	resumeMD  string
	resumePDF string
}

// buildFilenames generates the output file paths for name.
func buildFilenames(outDir, name string) (filenames outputFilenames) {
	base := sanitizeFilename(name)
	if base == "" {
		base = "my"
	}

	filenames = outputFilenames{
		resumeMD:  filepath.Join(outDir, base+"-resume.md"),
		resumePDF: filepath.Join(outDir, base+"-resume.pdf"),
	}
	return filenames
}

func sanitizeFilename(name string) (sanitized string) {
	sanitized = strings.ToLower(strings.TrimSpace(name))

	// Replace spaces and special chars with hyphens
	sanitized = strings.Map(func(r rune) (result rune) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			result = r
			return result
		}
		result = '-'
		return result
	}, sanitized)

	for strings.Contains(sanitized, "--") {
		sanitized = strings.ReplaceAll(sanitized, "--", "-")
	}

	sanitized = strings.Trim(sanitized, "-")

	return sanitized
}

// flagOrConfig returns the flag value when set, else the config value.
func flagOrConfig(flagValue, configValue string) (value string) {
	value = flagValue
	if value == "" {
		value = configValue
	}
	return value
}

// getKeepMarkdown returns the --keep-markdown flag when given, else the config default.
func getKeepMarkdown(cmd *cobra.Command, flagValue bool, cfg config.Config) (keep bool) {
	keep = cfg.Defaults.KeepMarkdown
	if cmd.Flags().Changed("keep-markdown") {
		keep = flagValue
	}
	return keep
}

// sectionTitle returns the display title of a section key, title-casing unrecognized keys.
func sectionTitle(key string) (title string) {
	title = resume.TitleFor(key)
	if title == "" {
		title = cases.Title(language.English).String(key)
	}
	return title
}

// loadConfig loads the config file named by --config, or the default one.
func loadConfig() (cfg config.Config, err error) {
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return cfg, err
	}
	return cfg, err
}

func newClient(cfg config.Config) (client *llm.Client) {
	client = llm.NewClient(cfg.APIKey, cfg.Model,
		llm.WithEndpoint(cfg.APIEndpoint),
		llm.WithTimeout(cfg.Timeout()),
		llm.WithGenerationParams(cfg.Generation),
		llm.WithRevisionParams(cfg.Revision),
	)
	return client
}

func newRenderer(cfg config.Config) (r *renderer.Renderer) {
	r = renderer.New(
		renderer.WithPageSize(cfg.Defaults.PageSize),
		renderer.WithFontFamily(cfg.Defaults.FontFamily),
	)
	return r
}

// writeOutputs writes the Markdown and PDF for one resume and removes the Markdown unless
// keepMarkdown is set.
func writeOutputs(markdown string, pdf []byte, filenames outputFilenames, keepMarkdown bool) (err error) {
	err = renderer.WriteMarkdown(markdown, filenames.resumeMD)
	if err != nil {
		err = errors.Wrap(err, "failed to write resume markdown")
		return err
	}

	err = writePDF(pdf, filenames.resumePDF)
	if err != nil {
		fmt.Printf("Resume markdown saved at: %s\n", filenames.resumeMD)
		return err
	}

	if keepMarkdown {
		fmt.Printf("Resume markdown saved at: %s\n", filenames.resumeMD)
		return err
	}

	cleanupErr := renderer.CleanupMarkdown(filenames.resumeMD)
	if cleanupErr != nil {
		fmt.Printf("Warning: Failed to clean up markdown file: %v\n", cleanupErr)
	}

	return err
}

func writePDF(pdf []byte, path string) (err error) {
	err = renderer.WritePDF(pdf, path)
	if err != nil {
		err = errors.Wrap(err, "failed to write resume PDF")
		return err
	}

	pages, pageErr := renderer.PageCount(pdf)
	if pageErr != nil {
		slog.Warn("failed to count pages", "error", pageErr)
	} else {
		slog.Info("resume rendered", "pages", pages, "bytes", len(pdf))
	}

	fmt.Printf("Resume PDF saved at: %s\n", path)
	return err
}

// prompter reads answers from the terminal.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) (p *prompter) {
	p = &prompter{in: bufio.NewReader(in), out: out}
	return p
}

// ask prints label and returns the trimmed line typed in reply. io.EOF is returned once input
// is exhausted and nothing was typed.
func (p *prompter) ask(label string) (input string, err error) {
	_, _ = fmt.Fprintf(p.out, "%s: ", label)

	input, err = p.in.ReadString('\n')
	input = strings.TrimSpace(input)
	if errors.Is(err, io.EOF) && input != "" {
		err = nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		err = errors.Wrap(err, "failed to read input")
	}

	return input, err
}

// spinner provides a simple text-based progress indicator.
type spinner struct {
	message string
	stop    chan bool
	done    chan bool
	active  bool
	mu      sync.Mutex
}

func newSpinner(message string) (s *spinner) {
	s = &spinner{
		message: message,
		stop:    make(chan bool),
		done:    make(chan bool),
	}
	return s
}

func (s *spinner) start() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()

	go func() {
		chars := []string{"|", "/", "-", "\\"}
		i := 0
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		fmt.Printf("%s ", s.message)
		for {
			select {
			case <-s.stop:
				fmt.Printf("\r%s\r", strings.Repeat(" ", len(s.message)+2))
				s.done <- true
				return
			case <-ticker.C:
				fmt.Printf("\r%s %s", s.message, chars[i%len(chars)])
				i++
			}
		}
	}()
}

func (s *spinner) stopSpinner() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.stop <- true
	<-s.done

	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}

// withSpinner runs fn behind a spinner unless verbose output is on.
func withSpinner(message string, fn func() error) (err error) {
	if getVerbose() {
		fmt.Println(message)
		err = fn()
		return err
	}

	sp := newSpinner(message)
	sp.start()
	err = fn()
	sp.stopSpinner()

	return err
}
