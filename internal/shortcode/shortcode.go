// Package shortcode finds and expands self-closing [name attr="value"] tags
// embedded in content.
package shortcode

import (
	"context"
	"regexp"
	"strings"
)

var (
	tagPattern  = regexp.MustCompile(`\[([A-Za-z0-9_-]+)((?:\s+[^\[\]]*)?)\s*/?\]`)
	attrPattern = regexp.MustCompile(`([A-Za-z0-9_-]+)\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"']+))`)
)

// Tag is one shortcode occurrence. Start and End delimit it in the content.
type Tag struct {
	Name  string
	Attrs map[string]string
	Start int
	End   int
}

// Attr returns the attribute value or def when absent
func (t Tag) Attr(name, def string) string {
	if v, ok := t.Attrs[name]; ok {
		return v
	}
	return def
}

// Parse returns every tag of content in order. Attribute names are lowercased.
func Parse(content string) []Tag {
	var tags []Tag
	for _, m := range tagPattern.FindAllStringSubmatchIndex(content, -1) {
		tag := Tag{
			Name:  strings.ToLower(content[m[2]:m[3]]),
			Attrs: map[string]string{},
			Start: m[0],
			End:   m[1],
		}
		if m[4] >= 0 {
			for _, a := range attrPattern.FindAllStringSubmatch(content[m[4]:m[5]], -1) {
				value := a[2]
				if value == "" {
					value = a[3]
				}
				if value == "" {
					value = a[4]
				}
				tag.Attrs[strings.ToLower(a[1])] = value
			}
		}
		tags = append(tags, tag)
	}
	return tags
}

// Handler renders one tag
type Handler func(ctx context.Context, tag Tag) (string, error)

// Expander replaces registered tags with their rendered output
type Expander struct {
	handlers map[string]Handler
}

// NewExpander creates an expander without handlers
func NewExpander() *Expander {
	return &Expander{handlers: map[string]Handler{}}
}

// Register binds a handler to a tag name
func (e *Expander) Register(name string, h Handler) {
	e.handlers[strings.ToLower(name)] = h
}

// Expand renders every registered tag of content. Unknown tags are kept
// verbatim. The first handler error aborts the expansion.
func (e *Expander) Expand(ctx context.Context, content string) (string, error) {
	var b strings.Builder
	last := 0
	for _, tag := range Parse(content) {
		h, ok := e.handlers[tag.Name]
		if !ok {
			continue
		}
		out, err := h(ctx, tag)
		if err != nil {
			return "", err
		}
		b.WriteString(content[last:tag.Start])
		b.WriteString(out)
		last = tag.End
	}
	b.WriteString(content[last:])
	return b.String(), nil
}
