package printing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nizy/tailor/internal/domain/printing"
	"go.uber.org/zap"
)

const (
	gotenbergConvertPath = "/forms/chromium/convert/html"
	gotenbergHealthPath  = "/health"
	gotenbergIndexFile   = "index.html"
	gotenbergFooterFile  = "footer.html"
	maxErrorBodyBytes    = 512
)

// GotenbergConfig contains configuration for the Gotenberg renderer
type GotenbergConfig struct {
	// URL is the base URL of the Gotenberg service, e.g. http://gotenberg:3000
	URL string
	// DefaultTimeout for rendering operations
	DefaultTimeout time.Duration
	// HTTPClient overrides the default client (optional)
	HTTPClient *http.Client
	// Logger for debug output
	Logger *zap.Logger
}

// GotenbergRenderer renders HTML to PDF by posting it to a Gotenberg service
type GotenbergRenderer struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// NewGotenbergRenderer creates a renderer backed by a Gotenberg service
func NewGotenbergRenderer(config *GotenbergConfig) *GotenbergRenderer {
	if config == nil {
		config = &GotenbergConfig{}
	}
	timeout := config.DefaultTimeout
	if timeout == 0 {
		timeout = defaultChromeTimeout
	}
	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GotenbergRenderer{
		baseURL:    strings.TrimRight(config.URL, "/"),
		timeout:    timeout,
		httpClient: client,
		logger:     logger,
	}
}

// Ping checks if the remote Gotenberg service is available
func (g *GotenbergRenderer) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+gotenbergHealthPath, nil)
	if err != nil {
		return err
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("gotenberg returned status %d", resp.StatusCode)
	}
	return nil
}

// Render converts HTML content to PDF
func (g *GotenbergRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	started := time.Now()
	timeout := renderTimeout(req, g.timeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, contentType, err := buildGotenbergForm(req)
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to build gotenberg form", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+gotenbergConvertPath, body)
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to build gotenberg request", err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		if rerr := interrupted(ctx, timeout, err); rerr != nil {
			return nil, rerr
		}
		return nil, NewRenderError(ErrCodeRenderFailed, "gotenberg request failed", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		g.logger.Error("gotenberg rejected document",
			zap.Int("status", resp.StatusCode),
			zap.String("detail", strings.TrimSpace(string(detail))))
		return nil, NewRenderError(ErrCodeRenderFailed,
			fmt.Sprintf("render failed with status %d", resp.StatusCode), nil)
	}

	pdfData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to read gotenberg response", err)
	}
	return finishRender(g.logger, "gotenberg", pdfData, started)
}

// Close is a no-op; the HTTP client holds no dedicated resources
func (g *GotenbergRenderer) Close() error {
	return nil
}

// buildGotenbergForm encodes the document and its page setup as the
// multipart form the Chromium HTML route expects. Sizes are in inches.
func buildGotenbergForm(req *RenderRequest) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("files", gotenbergIndexFile)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.WriteString(part, buildCompleteHTML(req)); err != nil {
		return nil, "", err
	}

	if req.FooterHTML != "" {
		footer, err := writer.CreateFormFile("files", gotenbergFooterFile)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.WriteString(footer, wrapFooter(req.FooterHTML)); err != nil {
			return nil, "", err
		}
	}

	margins := pageMargins(req)
	width, height := req.PaperSize.Dimensions()

	fields := [][2]string{
		{"paperWidth", formatInches(float64(width))},
		{"paperHeight", formatInches(float64(height))},
		{"marginTop", formatInches(float64(margins.Top))},
		{"marginRight", formatInches(float64(margins.Right))},
		{"marginBottom", formatInches(float64(margins.Bottom))},
		{"marginLeft", formatInches(float64(margins.Left))},
		{"landscape", strconv.FormatBool(req.Orientation == printing.OrientationLandscape)},
		{"printBackground", "true"},
	}
	for _, f := range fields {
		if err := writer.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

// wrapFooter turns a footer fragment into the standalone document Gotenberg
// requires for footer.html
func wrapFooter(fragment string) string {
	return `<!DOCTYPE html><html><head><meta charset="UTF-8"></head><body>` + fragment + `</body></html>`
}

func formatInches(mm float64) string {
	return strconv.FormatFloat(mmToInches(mm), 'f', 3, 64)
}

var _ PDFRenderer = (*GotenbergRenderer)(nil)
