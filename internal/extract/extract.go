package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	pdf "github.com/ledongthuc/pdf"

	"matchfit/internal/errors"
	"matchfit/internal/utils"
)

// Format identifies a supported document format.
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatDocx  Format = "docx"
	FormatPlain Format = "plain"
)

// DetectFormat maps a filename to the extraction format for it. Text-based
// extensions and unknown extensions both fall through to plain handling by
// callers that allow it; Extract rejects the unknown ones.
func DetectFormat(filename string) (Format, error) {
	ext := utils.GetFileExtension(filename)
	switch {
	case ext == ".pdf":
		return FormatPDF, nil
	case ext == ".docx":
		return FormatDocx, nil
	case utils.IsTextFile(filename):
		return FormatPlain, nil
	}
	return "", errors.NewExtractionError(errors.ErrCodeUnsupportedFormat,
		fmt.Sprintf("Unsupported document format: %s", ext), nil)
}

// Extractor converts resume and cover letter documents to plain text.
type Extractor struct {
	logger *errors.Logger
}

// NewExtractor creates a document text extractor.
func NewExtractor(logger *errors.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract converts the document bytes to normalized plain text based on the
// filename's extension.
func (e *Extractor) Extract(filename string, data []byte) (string, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return "", err
	}

	var text string
	switch format {
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatDocx:
		text, err = extractDocx(data)
	case FormatPlain:
		text = string(data)
	}
	if err != nil {
		return "", err
	}

	text = NormalizeWhitespace(text)
	if e.logger != nil {
		e.logger.Debug("Extracted document text",
			"filename", filename,
			"format", string(format),
			"chars", len(text))
	}
	return text, nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewExtractionError(errors.ErrCodeExtractionFailed,
			"Cannot open PDF document", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", errors.NewExtractionError(errors.ErrCodeExtractionFailed,
			"Cannot extract PDF text", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", errors.NewExtractionError(errors.ErrCodeExtractionFailed,
			"Cannot read PDF text stream", err)
	}
	return buf.String(), nil
}

var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewExtractionError(errors.ErrCodeExtractionFailed,
			"Cannot open docx archive", err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", errors.NewExtractionError(errors.ErrCodeExtractionFailed,
					"Cannot open docx document body", err)
			}
			docXML, err = io.ReadAll(rc)
			closeErr := rc.Close()
			if err != nil {
				return "", errors.NewExtractionError(errors.ErrCodeExtractionFailed,
					"Cannot read docx document body", err)
			}
			if closeErr != nil {
				return "", errors.NewExtractionError(errors.ErrCodeExtractionFailed,
					"Cannot close docx document body", closeErr)
			}
			break
		}
	}
	if len(docXML) == 0 {
		return "", errors.NewExtractionError(errors.ErrCodeExtractionFailed,
			"No document.xml found in docx archive", nil)
	}

	// Paragraph and tab markers become whitespace before tags are stripped.
	text := string(docXML)
	text = strings.ReplaceAll(text, "</w:p>", "\n")
	text = strings.ReplaceAll(text, "<w:tab/>", "\t")
	text = xmlTagPattern.ReplaceAllString(text, " ")
	return text, nil
}

var (
	horizontalSpace = regexp.MustCompile(`[ \t\r\f\v]+`)
	newlineRuns     = regexp.MustCompile(`\n+`)
)

// NormalizeWhitespace collapses whitespace runs while preserving single
// newlines, and replaces non-breaking spaces with regular ones.
func NormalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = horizontalSpace.ReplaceAllString(s, " ")
	s = newlineRuns.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

// Quality summarizes how trustworthy an extraction looks.
type Quality struct {
	Words            int     `json:"words"`
	ReplacementRatio float64 `json:"replacementRatio"`
}

// AssessQuality computes the word count and the ratio of Unicode replacement
// characters, which downstream scoring treats as encoding damage.
func AssessQuality(text string) Quality {
	q := Quality{Words: len(strings.Fields(text))}
	if text == "" {
		return q
	}

	replacements := strings.Count(text, string(utf8.RuneError))
	q.ReplacementRatio = float64(replacements) / float64(utf8.RuneCountInString(text))
	return q
}
