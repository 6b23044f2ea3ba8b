package preview

import (
	"bytes"
	"context"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// markdownEngine renders markdown locally: GFM, typographic quotes,
// class-based code highlighting and single newlines as line breaks.
type markdownEngine struct {
	md goldmark.Markdown
}

// NewMarkdownEngine creates the local markdown engine.
func NewMarkdownEngine() Engine {
	return &markdownEngine{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
				highlighting.NewHighlighting(
					highlighting.WithFormatOptions(
						chromahtml.WithClasses(true),
					),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
				html.WithUnsafe(), // raw HTML is stripped by the sanitizer instead
			),
		),
	}
}

func (e *markdownEngine) Render(ctx context.Context, content string) (string, error) {
	_, body := SplitFrontmatter(content)

	var buf bytes.Buffer
	if err := e.md.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (e *markdownEngine) Name() string {
	return "markdown"
}
