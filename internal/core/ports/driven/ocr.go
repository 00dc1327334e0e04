package driven

import "context"

// OCREngine runs local optical recognition over an image file.
// The default build provides a stub that reports domain.ErrOCRUnavailable;
// builds with the tesseract tag link the real engine.
type OCREngine interface {
	// Recognize returns the text recognised in the image at path.
	Recognize(ctx context.Context, path string) (string, error)
}
