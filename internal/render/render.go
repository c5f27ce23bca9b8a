package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"offer-service/internal/money"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer composes every HTML fragment the service returns.
type Renderer struct {
	tmpl    *template.Template
	money   *money.Formatter
	baseURL string
}

// NewRenderer parses the embedded templates. baseURL is the storefront root
// product links point to.
func NewRenderer(baseURL string, formatter *money.Formatter) (*Renderer, error) {
	r := &Renderer{money: formatter, baseURL: baseURL}

	funcs := template.FuncMap{
		"price":  formatter.Price,
		"strike": formatter.Strike,
	}

	tmpl, err := template.New("offers").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	r.tmpl = tmpl

	return r, nil
}

// Money returns the price formatter the renderer uses
func (r *Renderer) Money() *money.Formatter {
	return r.money
}

func (r *Renderer) execute(name string, data interface{}) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// PriceHTML is the current price of a product, struck through against the
// regular price while on sale
func (r *Renderer) PriceHTML(regular, sale decimal.Decimal, onSale bool) template.HTML {
	if onSale {
		return r.money.Strike(regular, sale)
	}
	return r.money.Price(regular)
}
