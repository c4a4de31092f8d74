// Package answers loads questionnaire answers from YAML or JSON files.
package answers

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

// maxFileSize bounds the answers file read into memory.
const maxFileSize = 1 << 20

// Load reads answers from a YAML file. JSON files are accepted as well.
func Load(path string) (f File, err error) {
	var info os.FileInfo
	info, err = os.Stat(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read answers file: %s", path)
		return f, err
	}

	if info.Size() > maxFileSize {
		err = errors.Errorf("answers file too large: %s (%d bytes, max %d)", path, info.Size(), maxFileSize)
		return f, err
	}

	var fileData []byte
	fileData, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read answers file: %s", path)
		return f, err
	}

	f, err = Parse(fileData)
	if err != nil {
		err = errors.Wrapf(err, "invalid answers file: %s", path)
		return f, err
	}

	return f, err
}

// Parse decodes and validates answers. Unknown keys are rejected.
func Parse(data []byte) (f File, err error) {
	err = yaml.UnmarshalWithOptions(data, &f, yaml.Strict())
	if err != nil {
		err = errors.Wrap(err, "failed to parse answers")
		return f, err
	}

	err = f.Validate()
	if err != nil {
		return f, err
	}

	return f, err
}

// Validate checks field formats and that at least one question was answered.
func (f *File) Validate() (err error) {
	if f.IsEmpty() {
		err = errors.New("no answers found")
		return err
	}

	err = validator.New().Struct(f)
	if err != nil {
		err = errors.Wrap(err, "answers validation failed")
		return err
	}

	return err
}
