package renderer

import (
	"bytes"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pkg/errors"
)

//nolint:gochecknoglobals // pdfcpu configuration is process-wide
var disableConfigDir sync.Once

func pdfcpuConfig() (conf *model.Configuration) {
	// pdfcpu would otherwise create a user config directory on first use.
	disableConfigDir.Do(api.DisableConfigDir)
	conf = model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Validate checks that data is a structurally valid PDF.
func Validate(data []byte) (err error) {
	err = api.Validate(bytes.NewReader(data), pdfcpuConfig())
	if err != nil {
		err = errors.Wrap(err, "pdf validation failed")
		return err
	}
	return err
}

// PageCount returns the number of pages in a PDF.
func PageCount(data []byte) (count int, err error) {
	count, err = api.PageCount(bytes.NewReader(data), pdfcpuConfig())
	if err != nil {
		err = errors.Wrap(err, "failed to count pdf pages")
		return count, err
	}
	return count, err
}
