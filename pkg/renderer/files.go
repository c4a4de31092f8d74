package renderer

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// WriteMarkdown writes markdown content to a file.
func WriteMarkdown(content, outputPath string) (err error) {
	err = writeFile([]byte(content), outputPath)
	if err != nil {
		err = errors.Wrap(err, "failed to write markdown file")
		return err
	}
	return err
}

// WritePDF writes a rendered document to a file.
func WritePDF(data []byte, outputPath string) (err error) {
	if len(data) == 0 {
		err = errors.Errorf("refusing to write empty document: %s", outputPath)
		return err
	}

	err = writeFile(data, outputPath)
	if err != nil {
		err = errors.Wrap(err, "failed to write pdf file")
		return err
	}
	return err
}

// CleanupMarkdown removes markdown files after PDF generation.
func CleanupMarkdown(paths ...string) (err error) {
	for _, path := range paths {
		err = os.Remove(path)
		if err != nil {
			err = errors.Wrapf(err, "failed to remove markdown file: %s", path)
			return err
		}
	}
	return err
}

func writeFile(data []byte, outputPath string) (err error) {
	// Ensure output directory exists
	outputDir := filepath.Dir(outputPath)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}

	err = os.WriteFile(outputPath, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write file: %s", outputPath)
		return err
	}

	return err
}
