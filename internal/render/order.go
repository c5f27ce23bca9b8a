package render

import (
	"html/template"
)

// ErrorNotice renders an inline error paragraph
func (r *Renderer) ErrorNotice(message string) template.HTML {
	return r.notice("flash-offer-error", message)
}

// InfoNotice renders an inline notice paragraph
func (r *Renderer) InfoNotice(message string) template.HTML {
	return r.notice("flash-offer-notice", message)
}

func (r *Renderer) notice(class, message string) template.HTML {
	html, err := r.execute("notice", struct{ Class, Message string }{class, message})
	if err != nil {
		return template.HTML(`<p class="` + class + `">` + template.HTMLEscapeString(message) + `</p>`)
	}
	return html
}

// SavingsNotice wraps an already rendered savings message
func (r *Renderer) SavingsNotice(message template.HTML) (template.HTML, error) {
	return r.execute("savings_notice", message)
}

// ItemNameWithBreakdown appends the offer price breakdown to an order item
// name. An empty price leaves the name as is.
func (r *Renderer) ItemNameWithBreakdown(name string, price template.HTML) (template.HTML, error) {
	return r.execute("item_name", struct {
		Name  string
		Price template.HTML
	}{name, price})
}
