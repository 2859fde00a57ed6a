package render

import (
	"context"
	"fmt"
	"io"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

// Engine turns an HTML document into PDF bytes.
type Engine interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// ChromeEngine prints HTML through a headless Chrome instance. Each call
// launches its own browser and tears it down when done, so a crashed render
// never poisons later ones.
type ChromeEngine struct{}

func NewChromeEngine() *ChromeEngine { return &ChromeEngine{} }

func (e *ChromeEngine) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	l := launcher.New().Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer l.Kill()

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("set page content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for page load: %w", err)
	}

	// US Letter with no print margins; the document styles its own.
	r, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
		PaperWidth:      gson.Num(8.5),
		PaperHeight:     gson.Num(11),
		MarginTop:       gson.Num(0),
		MarginBottom:    gson.Num(0),
		MarginLeft:      gson.Num(0),
		MarginRight:     gson.Num(0),
	})
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf stream: %w", err)
	}
	return out, nil
}
