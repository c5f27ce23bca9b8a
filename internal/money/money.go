package money

import (
	"html/template"
	"strings"

	"offer-service/config"

	"github.com/shopspring/decimal"
)

// Currency symbol positions
const (
	PositionLeft       = "left"
	PositionRight      = "right"
	PositionLeftSpace  = "left_space"
	PositionRightSpace = "right_space"
)

var hundred = decimal.NewFromInt(100)

// Formatter renders amounts the way the storefront prints prices.
type Formatter struct {
	symbol      string
	position    string
	decimals    int32
	decimalSep  string
	thousandSep string
}

// NewFormatter creates a formatter from the storefront settings
func NewFormatter(cfg config.StorefrontConfig) *Formatter {
	decimals := cfg.PriceDecimals
	if decimals < 0 {
		decimals = 0
	}
	return &Formatter{
		symbol:      cfg.CurrencySymbol,
		position:    cfg.CurrencyPosition,
		decimals:    int32(decimals),
		decimalSep:  cfg.PriceDecimalSep,
		thousandSep: cfg.PriceThousandSep,
	}
}

// Number formats the absolute amount with grouping and fixed decimals
func (f *Formatter) Number(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(f.decimals)

	intPart, fracPart := fixed, ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		intPart, fracPart = fixed[:i], fixed[i+1:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(f.thousandSep)
		}
		b.WriteRune(r)
	}
	if fracPart != "" {
		b.WriteString(f.decimalSep)
		b.WriteString(fracPart)
	}
	return b.String()
}

// Price returns the price markup for amount
func (f *Formatter) Price(amount decimal.Decimal) template.HTML {
	symbol := `<span class="woocommerce-Price-currencySymbol">` + template.HTMLEscapeString(f.symbol) + `</span>`
	number := template.HTMLEscapeString(f.Number(amount))

	var inner string
	switch f.position {
	case PositionRight:
		inner = number + symbol
	case PositionLeftSpace:
		inner = symbol + "&nbsp;" + number
	case PositionRightSpace:
		inner = number + "&nbsp;" + symbol
	default:
		inner = symbol + number
	}
	if amount.Round(f.decimals).IsNegative() {
		inner = "-" + inner
	}

	return template.HTML(`<span class="woocommerce-Price-amount amount"><bdi>` + inner + `</bdi></span>`)
}

// Strike renders a struck-through original price followed by the new one
func (f *Formatter) Strike(original, current decimal.Decimal) template.HTML {
	return "<del>" + f.Price(original) + "</del> <ins>" + f.Price(current) + "</ins>"
}

// ApplyDiscount reduces price by percent
func ApplyDiscount(price, percent decimal.Decimal) decimal.Decimal {
	return price.Mul(hundred.Sub(percent)).Div(hundred)
}

// RoundPercent rounds a percentage to a whole number, half away from zero
func RoundPercent(percent decimal.Decimal) int64 {
	return percent.Round(0).IntPart()
}
