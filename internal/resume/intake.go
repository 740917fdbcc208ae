package resume

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"peerprep/interview/internal/models"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeZip  = "application/zip"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type, please upload a PDF or DOCX file")
	ErrFileTooLarge    = errors.New("file size must be less than 10MB")
	ErrEmptyFile       = errors.New("uploaded file is empty")
)

var allowedTypes = map[string]bool{
	MimePDF:  true,
	MimeDOCX: true,
}

// Upload is one uploaded resume file.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// Intake validates uploads. No text is extracted; contact fields are always
// returned empty so the candidate fills them in by hand.
type Intake struct {
	MaxSize int64
}

func NewIntake() *Intake {
	return &Intake{MaxSize: models.MaxResumeSize}
}

func (in *Intake) Accept(u Upload) (*models.ResumeAck, error) {
	if u.Size > in.MaxSize {
		return nil, ErrFileTooLarge
	}
	if u.Size == 0 {
		return nil, ErrEmptyFile
	}

	declared := normalizeType(u.ContentType)
	if declared == "" || declared == "application/octet-stream" {
		declared = typeFromExtension(u.FileName)
	}
	if !allowedTypes[declared] {
		return nil, ErrUnsupportedType
	}

	if u.Content != nil {
		detected, err := mimetype.DetectReader(io.LimitReader(u.Content, 3072))
		if err != nil {
			return nil, fmt.Errorf("failed to read upload: %w", err)
		}
		if !contentMatches(declared, detected) {
			return nil, ErrUnsupportedType
		}
	}

	return &models.ResumeAck{
		FileName:    filepath.Base(u.FileName),
		ContentType: declared,
	}, nil
}

// contentMatches checks the sniffed bytes against the declared type. A DOCX
// is a zip container, and a plain zip signature is accepted for it because
// entry order varies between word processors.
func contentMatches(declared string, detected *mimetype.MIME) bool {
	for m := detected; m != nil; m = m.Parent() {
		if m.Is(declared) || (declared == MimeDOCX && m.Is(mimeZip)) {
			return true
		}
	}
	return false
}

func normalizeType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}

func typeFromExtension(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	default:
		return ""
	}
}
