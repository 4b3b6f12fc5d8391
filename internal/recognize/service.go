package recognize

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"docscan-backend/internal/extract"
	"docscan-backend/internal/shared/telemetry"
)

// Supported upload media types.
const (
	MediaTypePDF  = "application/pdf"
	MediaTypePNG  = "image/png"
	MediaTypeJPEG = "image/jpeg"
	MediaTypeText = "text/plain"

	// Images go upstream as raw bytes.
	submitTypeImage = "application/octet-stream"
)

// AcceptedMediaTypes lists the media types an upload may declare.
func AcceptedMediaTypes() []string {
	return []string{MediaTypePDF, MediaTypePNG, MediaTypeJPEG, MediaTypeText}
}

// JobClient is the asynchronous recognition dependency.
type JobClient interface {
	Submit(ctx context.Context, data []byte, contentType string) (string, error)
	Await(ctx context.Context, jobURL string) (AnalyzeResult, error)
}

// Result is the extracted text and its recognized page count.
type Result struct {
	Text      string `json:"text"`
	PageCount int    `json:"pageCount"`
}

// Service routes an upload to the recognition flow appropriate for its media
// type: plain text bypasses OCR entirely, PDFs may short-circuit through the
// native text layer, everything else goes submit -> poll -> normalize.
type Service struct {
	Client      JobClient
	PDFFastPath bool
}

// Recognize runs one upload through the pipeline.
func (s *Service) Recognize(ctx context.Context, data []byte, mediaType string) (Result, error) {
	submitType := ""
	switch normalizeMediaType(mediaType) {
	case MediaTypeText:
		return Result{Text: string(data), PageCount: 0}, nil
	case MediaTypePDF:
		if s.PDFFastPath {
			if text, pages, err := extract.PDFText(data); err == nil {
				telemetry.Info("recognize.pdf_fastpath", map[string]any{"pages": pages})
				return Result{Text: text, PageCount: pages}, nil
			}
		}
		submitType = MediaTypePDF
	case MediaTypePNG, MediaTypeJPEG:
		submitType = submitTypeImage
	default:
		return Result{}, &UnsupportedMediaTypeError{MediaType: mediaType}
	}

	if s.Client == nil {
		return Result{}, errors.New("recognition service not configured")
	}

	jobURL, err := s.Client.Submit(ctx, data, submitType)
	if err != nil {
		return Result{}, err
	}

	analyzed, err := s.Client.Await(ctx, jobURL)
	if err != nil {
		return Result{}, err
	}

	text, pages := Normalize(analyzed)
	return Result{Text: text, PageCount: pages}, nil
}

func normalizeMediaType(mediaType string) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mediaType, ";")[0]))
	if clean == "image/jpg" {
		return MediaTypeJPEG
	}
	return clean
}

// MediaTypeForFile resolves the effective media type of an upload, falling
// back to the file extension when the declared type is absent or generic.
func MediaTypeForFile(declared, fileName string) string {
	clean := normalizeMediaType(declared)
	if clean != "" && clean != "application/octet-stream" {
		return clean
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return MediaTypePDF
	case ".png":
		return MediaTypePNG
	case ".jpg", ".jpeg":
		return MediaTypeJPEG
	case ".txt":
		return MediaTypeText
	default:
		return clean
	}
}
