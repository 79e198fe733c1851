package acquire

import (
	"bytes"
	"os"
	"strings"

	perr "jangat/internal/platform/errors"

	"github.com/ledongthuc/pdf"
)

// extractPDF returns the plain text of every page joined by a space, and the page count.
// A page that fails to extract is skipped; a document with no extractable page fails
func extractPDF(data []byte) (text string, pages int, err error) {
	defer func() {
		// the reader panics on some malformed cross reference tables
		if r := recover(); r != nil {
			text, pages, err = "", 0, perr.InvalidArgf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "open pdf")
	}
	pages = r.NumPage()
	parts := make([]string, 0, pages)
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		s, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "", pages, perr.InvalidArgf("no extractable text in %d pages", pages)
	}
	return strings.Join(parts, " "), pages, nil
}

func readPDFFile(src Source, max int64) (*Document, error) {
	b, err := readFile(src.Location, max)
	if err != nil {
		return nil, err
	}
	text, pages, err := extractPDF(b)
	if err != nil {
		return nil, err
	}
	return &Document{Text: text, Pages: pages, Bytes: len(b)}, nil
}

func readTextFile(src Source, max int64) (*Document, error) {
	b, err := readFile(src.Location, max)
	if err != nil {
		return nil, err
	}
	return &Document{Text: string(b), Bytes: len(b)}, nil
}

func readFile(path string, max int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perr.Wrap(err, perr.ErrorCodeNotFound, "open")
		}
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "open")
	}
	defer f.Close()
	return readLimited(f, max)
}
