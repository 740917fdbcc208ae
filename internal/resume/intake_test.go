package resume

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")

func docxBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{"[Content_Types].xml", "word/document.xml"} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		_, _ = w.Write([]byte("<xml/>"))
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestAcceptPDF(t *testing.T) {
	ack, err := NewIntake().Accept(Upload{
		FileName:    "/tmp/jane_resume.pdf",
		ContentType: "application/pdf",
		Size:        int64(len(pdfBytes)),
		Content:     bytes.NewReader(pdfBytes),
	})
	if err != nil {
		t.Fatalf("expected pdf to be accepted: %v", err)
	}
	if ack.FileName != "jane_resume.pdf" || ack.ContentType != MimePDF {
		t.Fatalf("unexpected ack %+v", ack)
	}
	if ack.Name != "" || ack.Email != "" || ack.Phone != "" {
		t.Fatalf("contact fields must be empty, got %+v", ack)
	}
}

func TestAcceptDOCXByExtension(t *testing.T) {
	data := docxBytes(t)
	ack, err := NewIntake().Accept(Upload{
		FileName:    "resume.docx",
		ContentType: "application/octet-stream",
		Size:        int64(len(data)),
		Content:     bytes.NewReader(data),
	})
	if err != nil {
		t.Fatalf("expected docx to be accepted: %v", err)
	}
	if ack.ContentType != MimeDOCX {
		t.Fatalf("unexpected content type %s", ack.ContentType)
	}
}

func TestRejectsWrongType(t *testing.T) {
	_, err := NewIntake().Accept(Upload{FileName: "photo.png", ContentType: "image/png", Size: 10})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected unsupported type, got %v", err)
	}
}

func TestRejectsMismatchedContent(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000000000000")
	_, err := NewIntake().Accept(Upload{
		FileName:    "resume.pdf",
		ContentType: "application/pdf",
		Size:        int64(len(png)),
		Content:     bytes.NewReader(png),
	})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected content sniffing to reject, got %v", err)
	}
}

func TestRejectsOversized(t *testing.T) {
	_, err := NewIntake().Accept(Upload{FileName: "big.pdf", ContentType: MimePDF, Size: 10<<20 + 1})
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected too large, got %v", err)
	}

	ack, err := NewIntake().Accept(Upload{FileName: "edge.pdf", ContentType: MimePDF, Size: 10 << 20})
	if err != nil || ack == nil {
		t.Fatalf("exactly 10 MiB should be accepted, got %v", err)
	}
}

func TestRejectsEmpty(t *testing.T) {
	_, err := NewIntake().Accept(Upload{FileName: "empty.pdf", ContentType: MimePDF})
	if !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected empty file error, got %v", err)
	}
}
