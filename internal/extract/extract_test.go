package extract

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"matchfit/internal/errors"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
		wantErr  bool
	}{
		{"resume.pdf", FormatPDF, false},
		{"Resume.PDF", FormatPDF, false},
		{"resume.docx", FormatDocx, false},
		{"resume.txt", FormatPlain, false},
		{"resume.md", FormatPlain, false},
		{"resume.doc", "", true},
		{"resume", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := DetectFormat(tt.filename)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("DetectFormat(%q) expected error", tt.filename)
				}
				if !errors.IsExtractionError(err) {
					t.Errorf("error is not an extraction error: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectFormat(%q) error: %v", tt.filename, err)
			}
			if got != tt.want {
				t.Errorf("DetectFormat(%q) = %s, want %s", tt.filename, got, tt.want)
			}
		})
	}
}

func TestExtractPlainText(t *testing.T) {
	extractor := NewExtractor(nil)

	text, err := extractor.Extract("resume.txt", []byte("  Senior   Engineer\n\n\nGo, Docker  "))
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if text != "Senior Engineer\nGo, Docker" {
		t.Errorf("text = %q", text)
	}
}

func TestExtractDocx(t *testing.T) {
	extractor := NewExtractor(nil)
	doc := `<w:document><w:body>` +
		`<w:p><w:r><w:t>Professional Summary</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Go developer,</w:t></w:r><w:tab/><w:r><w:t>Berlin</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	text, err := extractor.Extract("resume.docx", buildDocx(t, doc))
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if !strings.Contains(text, "Professional Summary") {
		t.Errorf("missing paragraph text: %q", text)
	}
	if !strings.Contains(text, "Go developer, Berlin") {
		t.Errorf("runs not joined: %q", text)
	}
	if strings.Contains(text, "<w:") {
		t.Errorf("xml tags leaked into text: %q", text)
	}
}

func TestExtractDocxWithoutDocumentXML(t *testing.T) {
	extractor := NewExtractor(nil)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("<w:styles/>")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = extractor.Extract("resume.docx", buf.Bytes())
	if err == nil {
		t.Fatal("expected error for docx without document.xml")
	}
	if !errors.IsExtractionError(err) {
		t.Errorf("error is not an extraction error: %v", err)
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	extractor := NewExtractor(nil)

	_, err := extractor.Extract("resume.pdf", []byte("not a pdf at all"))
	if err == nil {
		t.Fatal("expected error for corrupt pdf")
	}
	if !errors.IsExtractionError(err) {
		t.Errorf("error is not an extraction error: %v", err)
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"tabs and spaces", "a\t\t b   c", "a b c"},
		{"newline runs", "a\n\n\nb", "a\nb"},
		{"non breaking space", "a b", "a b"},
		{"trims", "  a  ", "a"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeWhitespace(tt.input); got != tt.want {
				t.Errorf("NormalizeWhitespace(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAssessQuality(t *testing.T) {
	clean := AssessQuality("five clean words right here")
	if clean.Words != 5 || clean.ReplacementRatio != 0 {
		t.Errorf("clean quality = %+v", clean)
	}

	damaged := AssessQuality("ok ��")
	if damaged.Words != 2 {
		t.Errorf("damaged words = %d, want 2", damaged.Words)
	}
	if damaged.ReplacementRatio != 2.0/5.0 {
		t.Errorf("replacement ratio = %v, want 0.4", damaged.ReplacementRatio)
	}

	empty := AssessQuality("")
	if empty.Words != 0 || empty.ReplacementRatio != 0 {
		t.Errorf("empty quality = %+v", empty)
	}
}
