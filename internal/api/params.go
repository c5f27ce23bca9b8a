package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"offer-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
)

const maxMultipartMemory = 8 << 20

// params are request fields read from a form or a flat JSON object
type params map[string]string

// readParams accepts url encoded forms, multipart forms and JSON objects.
// JSON numbers and booleans are kept in their textual form.
func readParams(c *gin.Context) (params, error) {
	switch c.ContentType() {
	case binding.MIMEJSON:
		return readJSONParams(c.Request.Body)
	case binding.MIMEMultipartPOSTForm:
		if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, err
		}
	default:
		if err := c.Request.ParseForm(); err != nil {
			return nil, err
		}
	}

	p := params{}
	for k, v := range c.Request.PostForm {
		if len(v) > 0 {
			p[k] = v[0]
		}
	}
	return p, nil
}

func readJSONParams(body io.Reader) (params, error) {
	var raw map[string]interface{}
	dec := json.NewDecoder(body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return params{}, nil
		}
		return nil, err
	}

	p := make(params, len(raw))
	for k, v := range raw {
		switch t := v.(type) {
		case nil:
			continue
		case string:
			p[k] = t
		case json.Number:
			p[k] = t.String()
		case bool:
			if t {
				p[k] = "1"
			} else {
				p[k] = ""
			}
		default:
			p[k] = fmt.Sprint(t)
		}
	}
	return p, nil
}

// Has reports whether the field was sent at all
func (p params) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// String returns the field, or def when it was not sent
func (p params) String(name, def string) string {
	if v, ok := p[name]; ok {
		return strings.TrimSpace(v)
	}
	return def
}

// Int parses the field leniently; non-numeric values are 0
func (p params) Int(name string) int64 {
	return util.IntVal(p[name])
}

// IntDefault is Int with a default for fields that were not sent
func (p params) IntDefault(name string, def int64) int64 {
	if !p.Has(name) {
		return def
	}
	return p.Int(name)
}

// Decimal parses the field as a decimal, falling back to its integer prefix
func (p params) Decimal(name string) decimal.Decimal {
	v := strings.TrimSpace(p[name])
	if d, err := decimal.NewFromString(v); err == nil {
		return d
	}
	return decimal.NewFromInt(util.IntVal(v))
}
