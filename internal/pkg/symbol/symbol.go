// Package symbol converts between the internal "BASE/QUOTE" pair notation and
// the concatenated form the venues expect (BTC/USDT <-> BTCUSDT).
package symbol

import (
	"regexp"
	"strings"
)

var tradablePattern = regexp.MustCompile(`^[A-Z0-9]+/USDT$`)

type Symbol struct {
	Base  string
	Quote string
}

func (s Symbol) Internal() string {
	if s.Base == "" || s.Quote == "" {
		return ""
	}
	return s.Base + "/" + s.Quote
}

// Exchange renders the concatenated venue form, e.g. BTCUSDT.
func (s Symbol) Exchange() string {
	if s.Base == "" || s.Quote == "" {
		return ""
	}
	return s.Base + s.Quote
}

func Parse(s string) Symbol {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return Symbol{}
	}
	if parts := strings.SplitN(s, "/", 2); len(parts) == 2 {
		return Symbol{
			Base:  strings.TrimSpace(parts[0]),
			Quote: strings.TrimSpace(parts[1]),
		}
	}
	quoteCurrencies := []string{"USDT", "USDC", "BTC", "ETH", "BNB"}
	for _, quote := range quoteCurrencies {
		if strings.HasSuffix(s, quote) && len(s) > len(quote) {
			return Symbol{
				Base:  s[:len(s)-len(quote)],
				Quote: quote,
			}
		}
	}
	return Symbol{}
}

// ToExchange converts an internal pair to the venue form without validating it.
func ToExchange(internal string) string {
	s := strings.ToUpper(strings.TrimSpace(internal))
	return strings.ReplaceAll(s, "/", "")
}

// FromExchange restores the internal form from a concatenated venue symbol.
func FromExchange(raw string) string {
	return Parse(raw).Internal()
}

// IsTradable reports whether the pair is accepted by the execution core.
// The symbol must be given in internal notation, uppercase, quoted in USDT.
func IsTradable(s string) bool {
	return tradablePattern.MatchString(s)
}
