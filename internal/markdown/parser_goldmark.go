package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-deepwood/internal/domain"
)

type RenderOptions struct {
	// Extensions names goldmark extensions; empty means GFM with linkify.
	Extensions []string
	HardWraps  bool
	// Unsafe lets raw HTML in descriptions through to the output.
	Unsafe bool
}

// Renderer converts Markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	engine goldmark.Markdown
}

func NewRenderer(opts RenderOptions) *Renderer {
	return &Renderer{engine: newGoldmarkEngine(opts)}
}

func (r *Renderer) Render(markdown []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderText renders both languages of t.
func (r *Renderer) RenderText(t domain.Text) (domain.Text, error) {
	var out domain.Text
	for _, field := range []struct {
		src string
		dst *string
	}{{t.En, &out.En}, {t.Ar, &out.Ar}} {
		if strings.TrimSpace(field.src) == "" {
			continue
		}
		html, err := r.Render([]byte(field.src))
		if err != nil {
			return domain.Text{}, err
		}
		*field.dst = string(html)
	}
	return out, nil
}

func newGoldmarkEngine(opts RenderOptions) goldmark.Markdown {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.Unsafe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	if exts := collectExtensions(opts.Extensions); len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}
	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM, extension.Linkify}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := seen[key]; ok || key == "" {
			continue
		}
		if ext, ok := extensionRegistry[key]; ok {
			extenders = append(extenders, ext)
			seen[key] = struct{}{}
		}
	}
	return extenders
}
