// Package classify turns raw clipboard bytes into a kind, a sensitivity
// verdict and a bounded preview. Everything here is pure: no I/O, no errors.
package classify

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/nhath/clipkeep/internal/clipboard"
)

const (
	DefaultPreviewChars  = 60
	DefaultThumbnailSize = 128
)

// Result is the outcome of classifying one payload.
type Result struct {
	Kind      clipboard.Kind
	Sensitive bool
	Preview   string
	// Detector names the detector that marked the payload sensitive.
	Detector string
	// Thumbnail is a PNG, only ever set for images.
	Thumbnail []byte
}

// Empty reports whether the payload produced nothing worth keeping.
func (r Result) Empty() bool {
	return !r.Sensitive && r.Preview == "" && r.Thumbnail == nil
}

// Classifier holds the preview and thumbnail budgets.
type Classifier struct {
	PreviewChars  int
	ThumbnailSize int
}

// New returns a Classifier, falling back to defaults for non-positive budgets.
// A negative thumbnail size disables thumbnails.
func New(previewChars, thumbnailSize int) *Classifier {
	if previewChars <= 0 {
		previewChars = DefaultPreviewChars
	}
	if thumbnailSize == 0 {
		thumbnailSize = DefaultThumbnailSize
	}
	return &Classifier{PreviewChars: previewChars, ThumbnailSize: thumbnailSize}
}

var defaultClassifier = New(DefaultPreviewChars, DefaultThumbnailSize)

// Classify runs the default classifier.
func Classify(data []byte, declared clipboard.Kind) Result {
	return defaultClassifier.Classify(data, declared)
}

// Classify maps a payload and its declared kind to a Result. Malformed or
// empty input yields an empty Text result.
func (c *Classifier) Classify(data []byte, declared clipboard.Kind) Result {
	if len(data) == 0 {
		return Result{Kind: clipboard.Text}
	}
	if declared == clipboard.Image {
		return c.classifyImage(data)
	}
	if !utf8.Valid(data) {
		return Result{Kind: clipboard.Text}
	}

	text := string(data)
	kind := clipboard.Text
	if IsURL(text) {
		kind = clipboard.URL
	}

	if label, ok := Detect(text, kind); ok {
		return Result{
			Kind:      kind,
			Sensitive: true,
			Detector:  label,
			Preview:   c.sensitivePreview(label, text),
		}
	}
	return Result{Kind: kind, Preview: Preview(text, c.PreviewChars)}
}

// IsURL reports whether the whole trimmed string is an absolute URL with
// both a scheme and an authority.
func IsURL(text string) bool {
	s := strings.TrimSpace(text)
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// sensitivePreview describes the secret by detector and shape only.
func (c *Classifier) sensitivePreview(label, text string) string {
	s := strings.TrimSpace(text)
	desc := fmt.Sprintf("[sensitive] %s, %d chars", label, utf8.RuneCountInString(s))
	if lines := strings.Count(s, "\n") + 1; lines > 1 {
		desc = fmt.Sprintf("%s, %d lines", desc, lines)
	}
	return Truncate(desc, c.PreviewChars)
}
