// Package ocr turns image byte streams into recognised text.
//
// Recognition runs either through a local inference engine (Tesseract,
// compiled in behind the tesseract build tag) or through a remote HTTP
// service, with bounded retries and linear backoff. Callers treat a failed
// recognition as recoverable: the image's contribution is skipped and
// document processing continues.
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/domain"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/ports/driven"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/logger"
)

// backoffStep is the base backoff; attempt n sleeps n times this long.
const backoffStep = 1000 * time.Millisecond

// remoteRequestsPerSecond bounds the request rate against the remote
// service, so a document full of images does not hammer it.
const remoteRequestsPerSecond = 5

// Config holds the OCR gateway configuration.
type Config struct {
	// Enabled switches optical recognition on.
	Enabled bool

	// ServiceURL is the remote recognition endpoint. Empty means the
	// local inference engine is used instead.
	ServiceURL string

	// Timeout bounds connect and read time of one remote request.
	Timeout time.Duration

	// MaxRetries is the total number of remote attempts per image.
	MaxRetries int
}

// Error is the typed failure of an OCR call after retries are exhausted
// or the call was cancelled. It wraps the last underlying cause.
type Error struct {
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ocr failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Gateway recognises text in images.
type Gateway struct {
	cfg     Config
	client  *http.Client
	engine  driven.OCREngine
	limiter *rate.Limiter

	// sleep is the cancellation-aware backoff delay, replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewGateway creates a gateway. engine may be nil when only a remote
// service is used.
func NewGateway(cfg Config, engine driven.OCREngine) *Gateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &Gateway{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		engine:  engine,
		limiter: rate.NewLimiter(rate.Limit(remoteRequestsPerSecond), 1),
		sleep:   sleepContext,
	}
}

// request is the JSON payload sent to the remote service.
type request struct {
	Image    string `json:"image"`
	Filename string `json:"filename"`
}

// response is the JSON payload returned by the remote service.
type response struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
	Error   string `json:"error"`
}

// Recognize returns the text recognised in img. fileName is reported to
// the remote service; path is the on-disk location used by the local
// engine. Fails with domain.ErrOCRDisabled when recognition is switched
// off and with *Error when attempts are exhausted or the context is
// cancelled during backoff.
func (g *Gateway) Recognize(ctx context.Context, img []byte, fileName, path string) (string, error) {
	if !g.cfg.Enabled {
		return "", domain.ErrOCRDisabled
	}

	if strings.TrimSpace(g.cfg.ServiceURL) == "" {
		return g.recognizeLocal(ctx, path)
	}
	return g.recognizeRemote(ctx, img, fileName)
}

// recognizeLocal runs the local inference engine synchronously over the
// file path. No retries: this path is not network-bound.
func (g *Gateway) recognizeLocal(ctx context.Context, path string) (string, error) {
	if g.engine == nil {
		return "", domain.ErrOCRUnavailable
	}

	logger.Debug("ocr: running local engine on %s", path)
	text, err := g.engine.Recognize(ctx, path)
	if err != nil {
		return "", &Error{Attempts: 1, Err: err}
	}
	return strings.TrimSpace(text), nil
}

// recognizeRemote posts the image to the remote service, retrying up to
// MaxRetries total attempts with linear backoff between them.
func (g *Gateway) recognizeRemote(ctx context.Context, img []byte, fileName string) (string, error) {
	body, err := json.Marshal(request{
		Image:    base64.StdEncoding.EncodeToString(img),
		Filename: fileName,
	})
	if err != nil {
		return "", fmt.Errorf("encoding ocr request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", &Error{Attempts: attempt - 1, Err: err}
		}

		logger.Debug("ocr: calling %s (attempt %d/%d) for %s",
			g.cfg.ServiceURL, attempt, g.cfg.MaxRetries, fileName)

		text, err := g.post(ctx, body)
		if err == nil {
			logger.Info("ocr: recognised %s", fileName)
			return text, nil
		}
		lastErr = err
		logger.Warn("ocr: attempt %d/%d failed for %s: %v",
			attempt, g.cfg.MaxRetries, fileName, err)

		if attempt < g.cfg.MaxRetries {
			if err := g.sleep(ctx, time.Duration(attempt)*backoffStep); err != nil {
				return "", &Error{Attempts: attempt, Err: err}
			}
		}
	}
	return "", &Error{Attempts: g.cfg.MaxRetries, Err: lastErr}
}

// post performs one rate-limited request against the remote service.
func (g *Gateway) post(ctx context.Context, body []byte) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.ServiceURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building ocr request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "masterdocs-ocr/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for keep-alive
		return "", fmt.Errorf("ocr service returned HTTP %d", resp.StatusCode)
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding ocr response: %w", err)
	}
	if !out.Success {
		return "", fmt.Errorf("ocr service error: %s", out.Error)
	}
	return strings.TrimSpace(out.Text), nil
}

// Descriptor is the fallback text indexed for an image whose recognition
// failed or is disabled, so the file stays findable by name.
func Descriptor(fileName string, size int64) string {
	return fmt.Sprintf("image file: %s, size: %d bytes", fileName, size)
}

// sleepContext sleeps for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
