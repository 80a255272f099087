// Package page renders the dashboard into a single static HTML document.
package page

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofiber/template/html/v2"
	"github.com/yuin/goldmark"

	"datapulse/internal/analytics"
	"datapulse/internal/presentation"
	"datapulse/web"
)

const templateName = "dashboard"

// Script bundles loaded from the assets host.
var scriptFiles = []string{"echarts.min.js", "echarts-wordcloud.min.js"}

var md = goldmark.New()

// Options configures rendering.
type Options struct {
	AssetsHost string
	// Now stamps the page footer; defaults to time.Now.
	Now func() time.Time
}

type pageData struct {
	Title        string
	Tagline      string
	Theme        string
	Intro        template.HTML
	TrendText    template.HTML
	AudienceText template.HTML
	DeviceText   template.HTML
	Trend        presentation.Figure
	WordCloud    presentation.Figure
	Country      presentation.Figure
	Device       presentation.Figure
	URLTable     presentation.Table
	Totals       analytics.Totals
	Scripts      []string
	GeneratedAt  string
}

// NewEngine returns the template engine over the embedded page templates.
func NewEngine() (*html.Engine, error) {
	engine := html.NewFileSystem(http.FS(web.Templates()), ".html")
	engine.AddFunc("comma", humanize.Comma)
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("failed to load page templates: %w", err)
	}
	return engine, nil
}

// Render produces the complete dashboard page.
func Render(engine *html.Engine, dashboard *presentation.Dashboard, totals analytics.Totals, opts Options) ([]byte, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	layout := dashboard.Layout
	texts := make([]template.HTML, 0, 4)
	for _, src := range []string{layout.Intro, layout.TrendText, layout.AudienceText, layout.DeviceText} {
		rendered, err := Markdown(src)
		if err != nil {
			return nil, err
		}
		texts = append(texts, rendered)
	}

	data := pageData{
		Title:        layout.Title,
		Tagline:      layout.Tagline,
		Theme:        string(layout.Theme),
		Intro:        texts[0],
		TrendText:    texts[1],
		AudienceText: texts[2],
		DeviceText:   texts[3],
		Trend:        dashboard.Trend,
		WordCloud:    dashboard.WordCloud,
		Country:      dashboard.Country,
		Device:       dashboard.Device,
		URLTable:     dashboard.URLTable,
		Totals:       totals,
		Scripts:      scripts(opts.AssetsHost),
		GeneratedAt:  now().UTC().Format(time.RFC1123),
	}

	var buf bytes.Buffer
	if err := engine.Render(&buf, templateName, data); err != nil {
		return nil, fmt.Errorf("failed to render dashboard page: %w", err)
	}
	return buf.Bytes(), nil
}

// Markdown converts a text block to HTML. Raw HTML in the source is not passed
// through.
func Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

func scripts(host string) []string {
	if host != "" && !strings.HasSuffix(host, "/") {
		host += "/"
	}
	urls := make([]string, len(scriptFiles))
	for i, f := range scriptFiles {
		urls[i] = host + f
	}
	return urls
}
