// Package parsers provides the fixed capability set of format-specific
// text extractors and the dispatch over it.
//
// The parser set is closed: text, word, pdf, excel, powerpoint, image.
// Dispatch is first-match over that order using case-insensitive extension
// matching. Office formats are OOXML zip containers and are parsed with
// archive/zip and encoding/xml; their embedded media images are fed
// individually through optical recognition when it is enabled, and the
// recognised text is appended after the native text under a marker so
// mixed content stays distinguishable downstream.
package parsers

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/logger"
)

// ocrMarker delimits recognised image text from native document text.
const ocrMarker = "[recognised image text]"

// Recognizer recognises text in one image. Implemented by ocr.Gateway.
type Recognizer interface {
	Recognize(ctx context.Context, img []byte, fileName, path string) (string, error)
}

// Options configures parsers that depend on runtime configuration.
type Options struct {
	// EnableOCR switches embedded-image and image-file recognition on.
	EnableOCR bool

	// Recognizer performs the recognition. May be nil when EnableOCR is
	// false.
	Recognizer Recognizer

	// ImageExtensions overrides the image extensions handled by the
	// image parser. Nil means DefaultImageExtensions.
	ImageExtensions []string

	// TextExtensions overrides the plain-text extensions handled by the
	// text parser. Nil means DefaultTextExtensions.
	TextExtensions []string

	// DocumentExtensions restricts which document formats (word, pdf,
	// excel, powerpoint) are handled. Nil means all of them.
	DocumentExtensions []string
}

// documentAllowed reports whether the document-format allow-list admits
// path. An empty list admits everything.
func (o Options) documentAllowed(path string) bool {
	if len(o.DocumentExtensions) == 0 {
		return true
	}
	return supportsExt(path, o.DocumentExtensions...)
}

// DefaultImageExtensions are the image formats handled by default.
var DefaultImageExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".webp",
}

// supportsExt reports whether path ends in one of exts, case-insensitive.
func supportsExt(path string, exts ...string) bool {
	name := strings.ToLower(filepath.Base(path))
	for _, ext := range exts {
		if strings.HasSuffix(name, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// fileExtension returns the lower-cased extension of path, with the dot.
func fileExtension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// collapseWhitespace folds runs of whitespace into single spaces and trims.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// appendOCRSection appends recognised image text after the native text,
// under the marker.
func appendOCRSection(native, recognised string) string {
	recognised = strings.TrimSpace(recognised)
	if recognised == "" {
		return native
	}
	if native == "" {
		return ocrMarker + "\n" + recognised
	}
	return native + "\n\n" + ocrMarker + "\n" + recognised
}

// embeddedImage is one image pulled out of a document container.
type embeddedImage struct {
	name string
	data []byte
}

// extractZipImages returns the image entries under prefix in an OOXML
// archive, e.g. "word/media/" or "ppt/media/".
func extractZipImages(r *zip.Reader, prefix string) []embeddedImage {
	var images []embeddedImage
	for _, f := range r.File {
		if !strings.HasPrefix(f.Name, prefix) {
			continue
		}
		if !supportsExt(f.Name, DefaultImageExtensions...) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			logger.Debug("skipping media entry %s: %v", f.Name, err)
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil || len(data) == 0 {
			continue
		}
		images = append(images, embeddedImage{name: filepath.Base(f.Name), data: data})
	}
	return images
}

// recognizeImages runs each embedded image through recognition, skipping
// individual failures, and joins the recognised texts. Images are written
// to a temporary directory so the local engine can read them by path.
func recognizeImages(ctx context.Context, rec Recognizer, docPath string, images []embeddedImage) string {
	if rec == nil || len(images) == 0 {
		return ""
	}

	logger.Info("found %d embedded image(s) in %s", len(images), docPath)

	tmpDir, err := os.MkdirTemp("", "masterdocs_images_")
	if err != nil {
		logger.Warn("cannot create temp dir for embedded images: %v", err)
		return ""
	}
	defer os.RemoveAll(tmpDir)

	var parts []string
	for i, img := range images {
		name := img.name
		if name == "" {
			name = fmt.Sprintf("%s_image_%d.png", filepath.Base(docPath), i+1)
		}
		imgPath := filepath.Join(tmpDir, fmt.Sprintf("%d_%s", i+1, name))
		if err := os.WriteFile(imgPath, img.data, 0600); err != nil {
			logger.Warn("cannot write temp image for %s: %v", docPath, err)
			continue
		}

		text, err := rec.Recognize(ctx, img.data, name, imgPath)
		if err != nil {
			logger.Warn("ocr failed, skipping image %d in %s: %v", i+1, docPath, err)
			continue
		}
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}
