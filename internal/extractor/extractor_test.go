package extractor

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"
)

// buildDOCX assembles a minimal DOCX container with one run per paragraph.
func buildDOCX(t *testing.T, paragraphs []string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		fmt.Fprintf(&body, "<w:p><w:r><w:t>%s</w:t></w:r></w:p>", p)
	}

	document := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>%s</w:body></w:document>`, body.String())

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := f.Write([]byte(document)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	return buf.Bytes()
}

func TestExtractDOCXParagraphOrder(t *testing.T) {
	data := buildDOCX(t, []string{"Hello", "World"})

	got := Extract("sample.docx", data)
	if got != "Hello\nWorld" {
		t.Errorf("Extract returned %q, want %q", got, "Hello\nWorld")
	}
}

func TestExtractDOCXMultipleRunsJoined(t *testing.T) {
	document := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:r><w:t>Hel</w:t></w:r><w:r><w:t>lo</w:t></w:r></w:p>
</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := f.Write([]byte(document)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	got := Extract("split.docx", buf.Bytes())
	if got != "Hello" {
		t.Errorf("Extract returned %q, want %q", got, "Hello")
	}
}

func TestExtractCaseInsensitiveExtension(t *testing.T) {
	data := buildDOCX(t, []string{"Upper"})

	if got := Extract("REPORT.DOCX", data); got != "Upper" {
		t.Errorf("Extract returned %q, want %q", got, "Upper")
	}
}

func TestExtractUnsupportedExtension(t *testing.T) {
	if got := Extract("notes.txt", []byte("plain text")); got != "" {
		t.Errorf("Extract returned %q for unsupported extension, want empty", got)
	}
	if got := Extract("archive", []byte{0x01, 0x02}); got != "" {
		t.Errorf("Extract returned %q for missing extension, want empty", got)
	}
}

func TestExtractCorruptDOCX(t *testing.T) {
	if got := Extract("broken.docx", []byte("not a zip archive")); got != "" {
		t.Errorf("Extract returned %q for corrupt DOCX, want empty", got)
	}
}

func TestExtractDOCXWithoutDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/styles.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := f.Write([]byte("<styles/>")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	if got := Extract("weird.docx", buf.Bytes()); got != "" {
		t.Errorf("Extract returned %q without document.xml, want empty", got)
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	if got := Extract("broken.pdf", []byte("%PDF-1.4 truncated garbage")); got != "" {
		t.Errorf("Extract returned %q for corrupt PDF, want empty", got)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	if got := Extract("empty.pdf", nil); got != "" {
		t.Errorf("Extract returned %q for empty PDF input, want empty", got)
	}
	if got := Extract("empty.docx", nil); got != "" {
		t.Errorf("Extract returned %q for empty DOCX input, want empty", got)
	}
}
