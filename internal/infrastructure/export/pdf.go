package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ErrPDFRender wraps browser failures
var ErrPDFRender = errors.New("pdf rendering failed")

// PDFRenderer converts an HTML document to PDF bytes
type PDFRenderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
	Close() error
}

// ChromedpConfig configures the headless browser
type ChromedpConfig struct {
	// RemoteURL is a DevTools websocket endpoint. When empty a local browser is launched.
	RemoteURL string
	ExecPath  string
	Timeout   time.Duration
	NoSandbox bool
	Landscape bool
}

// ChromedpRenderer prints HTML to PDF through the Chrome DevTools Protocol
type ChromedpRenderer struct {
	config      ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates the browser allocator. The browser itself starts on first render.
func NewChromedpRenderer(config ChromedpConfig, logger *zap.Logger) *ChromedpRenderer {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &ChromedpRenderer{config: config, logger: logger}

	if config.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), config.RemoteURL)
		return r
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if config.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(config.ExecPath))
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return r
}

// Render prints the HTML on A4 paper
func (r *ChromedpRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, fmt.Errorf("%w: empty document", ErrPDFRender)
	}
	start := time.Now()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx)
	defer browserCancel()
	browserCtx, cancel := context.WithTimeout(browserCtx, r.config.Timeout)
	defer cancel()
	// propagate request cancellation into the browser context
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithLandscape(r.config.Landscape).
				WithPaperWidth(mmToInches(210)).
				WithPaperHeight(mmToInches(297)).
				WithMarginTop(mmToInches(12)).
				WithMarginBottom(mmToInches(12)).
				WithMarginLeft(mmToInches(10)).
				WithMarginRight(mmToInches(10)).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(browserCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timed out after %v", ErrPDFRender, r.config.Timeout)
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPDFRender, err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("%w: empty output", ErrPDFRender)
	}

	r.logger.Debug("PDF rendered", zap.Int("bytes", len(pdf)), zap.Duration("duration", time.Since(start)))
	return pdf, nil
}

// Close shuts the browser allocator down
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

func mmToInches(mm float64) float64 {
	return mm / 25.4
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)
