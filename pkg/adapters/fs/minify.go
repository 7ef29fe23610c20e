package fs

import (
	"fmt"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
)

// Media types of the optional project assets.
const (
	MediaTypeJS  = "application/javascript"
	MediaTypeCSS = "text/css"
)

// Minifier compacts the custom script and stylesheet of a project.
type Minifier interface {
	Minify(mediatype, src string) (string, error)
}

type assetMinifier struct {
	m *minify.M
}

// NewMinifier returns a Minifier for JavaScript and CSS.
func NewMinifier() Minifier {
	m := minify.New()
	m.AddFunc(MediaTypeCSS, css.Minify)
	m.AddFunc(MediaTypeJS, js.Minify)
	return &assetMinifier{m: m}
}

func (a *assetMinifier) Minify(mediatype, src string) (string, error) {
	out, err := a.m.String(mediatype, src)
	if err != nil {
		return "", fmt.Errorf("failed to minify %s: %w", mediatype, err)
	}
	return strings.TrimSpace(out), nil
}

// passthrough keeps assets as written, trimmed.
type passthrough struct{}

func (passthrough) Minify(_ string, src string) (string, error) {
	return strings.TrimSpace(src), nil
}
