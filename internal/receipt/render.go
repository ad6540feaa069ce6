package receipt

import (
	"bytes"
	"html/template"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	termMu sync.Mutex
	// Renderers are cached by style and width; building one is not free.
	termRenderers = map[string]*glamour.TermRenderer{}
)

// Terminal renders markdown for a terminal of the given width. style is
// "dark", "light" or "notty" (plain). On renderer errors the markdown is
// returned unchanged.
func Terminal(md string, width int, style string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}
	switch style {
	case styles.DarkStyle, styles.LightStyle, styles.NoTTYStyle:
	default:
		style = styles.DarkStyle
	}

	key := style + ":" + strconv.Itoa(width)
	termMu.Lock()
	r := termRenderers[key]
	termMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
			glamour.WithEmoji(),
		)
		if err != nil {
			return md
		}
		termMu.Lock()
		if existing := termRenderers[key]; existing != nil {
			r = existing
		} else {
			termRenderers[key] = rr
			r = rr
		}
		termMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

var htmlRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		// Raw HTML stays escaped; menu names are user input.
		html.WithHardWraps(),
	),
)

var pageTmpl = template.Must(template.New("receipt").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 28rem; margin: 1rem auto; }
table { width: 100%; border-collapse: collapse; }
th, td { padding: .25rem .5rem; border-bottom: 1px solid #e5e7eb; }
blockquote { margin: 0; color: #b45309; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// HTML converts markdown to a standalone HTML page.
func HTML(md, title string) (string, error) {
	var body bytes.Buffer
	if err := htmlRenderer.Convert([]byte(md), &body); err != nil {
		return "", err
	}
	var out bytes.Buffer
	err := pageTmpl.Execute(&out, struct {
		Title string
		// goldmark output is trusted only because raw HTML is disabled above.
		Body template.HTML
	}{Title: title, Body: template.HTML(body.String())})
	if err != nil {
		return "", err
	}
	return out.String(), nil
}
