package ocr

import (
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rotisserie/eris"
)

// ErrNotPDF is returned for uploads whose content is not a PDF.
var ErrNotPDF = eris.New("File must be a PDF")

// InspectPDF checks that r holds a readable PDF and returns its page count.
// r is rewound before returning.
func InspectPDF(r io.ReadSeeker) (int, error) {
	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return 0, eris.Wrap(err, "ocr: sniff content type")
	}
	if !mt.Is("application/pdf") {
		return 0, eris.Wrapf(ErrNotPDF, "ocr: got %s", mt.String())
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, eris.Wrap(err, "ocr: rewind")
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	pages, err := api.PageCount(r, conf)
	if err != nil {
		return 0, eris.Wrap(err, "ocr: read PDF")
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, eris.Wrap(err, "ocr: rewind")
	}
	return pages, nil
}
