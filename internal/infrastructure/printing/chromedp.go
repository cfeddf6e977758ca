package printing

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/nizy/tailor/internal/domain/printing"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 30 * time.Second
	defaultScale         = 1.0
	minFooterMarginMM    = 10
)

// ChromedpConfig configures the in-process Chrome renderer
type ChromedpConfig struct {
	DefaultTimeout time.Duration
	// RemoteURL points at an already running Chrome's DevTools websocket.
	// Empty launches a headless browser locally.
	RemoteURL string
	// NoSandbox is needed when Chrome runs as root inside a container
	NoSandbox bool
	Scale     float64
	Logger    *zap.Logger
}

// ChromedpRenderer prints documents through the Chrome DevTools Protocol.
// Each Render opens a fresh tab on a shared allocator.
type ChromedpRenderer struct {
	config      *ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates the renderer. Chrome is not contacted until
// the first Render.
func NewChromedpRenderer(config *ChromedpConfig) *ChromedpRenderer {
	cfg := ChromedpConfig{}
	if config != nil {
		cfg = *config
	}
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = defaultChromeTimeout
	}
	if cfg.Scale <= 0 {
		cfg.Scale = defaultScale
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	r := &ChromedpRenderer{config: &cfg, logger: cfg.Logger}
	if cfg.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
	} else {
		r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), execOptions(cfg.NoSandbox)...)
	}
	return r
}

func execOptions(noSandbox bool) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		// /dev/shm is tiny in most containers
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if noSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	return opts
}

// Render prints req in a new browser tab
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	started := time.Now()
	timeout := renderTimeout(req, r.config.DefaultTimeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tab, closeTab := chromedp.NewContext(r.allocCtx, chromedp.WithLogf(func(format string, args ...any) {
		r.logger.Debug(fmt.Sprintf(format, args...))
	}))
	defer closeTab()
	stop := context.AfterFunc(ctx, closeTab)
	defer stop()

	var pdfData []byte
	params := r.buildPrintParams(req)
	err := chromedp.Run(tab,
		chromedp.Navigate("about:blank"),
		loadDocument(buildCompleteHTML(req)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := params.command().Do(ctx)
			pdfData = data
			return err
		}),
	)
	if err != nil {
		if rerr := interrupted(ctx, timeout, err); rerr != nil {
			return nil, rerr
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", err)
	}
	return finishRender(r.logger, "chromedp", pdfData, started)
}

// loadDocument replaces the blank page's content with document
func loadDocument(document string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		return page.SetDocumentContent(tree.Frame.ID, document).Do(ctx)
	})
}

// printParams is the page setup handed to Chrome, in inches
type printParams struct {
	paperWidth     float64
	paperHeight    float64
	marginTop      float64
	marginRight    float64
	marginBottom   float64
	marginLeft     float64
	scale          float64
	landscape      bool
	displayFooter  bool
	footerTemplate string
}

func (r *ChromedpRenderer) buildPrintParams(req *RenderRequest) *printParams {
	width, height := req.PaperSize.Dimensions()
	m := pageMargins(req)
	return &printParams{
		paperWidth:     mmToInches(float64(width)),
		paperHeight:    mmToInches(float64(height)),
		marginTop:      mmToInches(float64(m.Top)),
		marginRight:    mmToInches(float64(m.Right)),
		marginBottom:   mmToInches(float64(m.Bottom)),
		marginLeft:     mmToInches(float64(m.Left)),
		scale:          r.config.Scale,
		landscape:      req.Orientation == printing.OrientationLandscape,
		displayFooter:  req.FooterHTML != "",
		footerTemplate: req.FooterHTML,
	}
}

func (p *printParams) command() *page.PrintToPDFParams {
	cmd := page.PrintToPDF().
		WithPrintBackground(true).
		WithPaperWidth(p.paperWidth).
		WithPaperHeight(p.paperHeight).
		WithMarginTop(p.marginTop).
		WithMarginRight(p.marginRight).
		WithMarginBottom(p.marginBottom).
		WithMarginLeft(p.marginLeft).
		WithScale(p.scale).
		WithLandscape(p.landscape)
	if p.displayFooter {
		// an empty header template suppresses Chrome's default date/title line
		cmd = cmd.WithDisplayHeaderFooter(true).
			WithHeaderTemplate("<span></span>").
			WithFooterTemplate(p.footerTemplate)
	}
	return cmd
}

// Close shuts down the allocator and any browser it started
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)
