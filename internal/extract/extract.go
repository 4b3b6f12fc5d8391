package extract

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoTextLayer reports a PDF without an extractable text layer, i.e. a
// scanned document that needs real OCR.
var ErrNoTextLayer = errors.New("pdf has no extractable text layer")

// PDFText pulls the native text layer out of a PDF along with its page count.
// Library used: github.com/ledongthuc/pdf.
func PDFText(data []byte) (string, int, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", 0, err
	}

	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", 0, err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", 0, err
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", 0, ErrNoTextLayer
	}
	return text, pdfReader.NumPage(), nil
}
