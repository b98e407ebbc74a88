package engine

import (
	"fmt"
	"strings"

	"github.com/use-agent/trawler/models"
)

// Method selects the fetch strategy of a session.
type Method string

const (
	// Direct fetch, no driver.
	MethodHTTP  Method = "http"
	MethodColly Method = "colly"

	// Driven fetch through a browser Driver.
	MethodRod        Method = "rod"
	MethodRodStealth Method = "rod-stealth"
	MethodAuto       Method = "auto" // http first, escalating to rod
)

// DefaultMethod is used when a caller leaves the method empty.
const DefaultMethod = MethodRod

var methods = []Method{MethodHTTP, MethodColly, MethodRod, MethodRodStealth, MethodAuto}

// Methods lists every supported method in a stable order.
func Methods() []Method {
	return append([]Method(nil), methods...)
}

// ParseMethod validates a method identifier. An empty string selects
// DefaultMethod.
func ParseMethod(s string) (Method, error) {
	if s == "" {
		return DefaultMethod, nil
	}
	for _, m := range methods {
		if string(m) == s {
			return m, nil
		}
	}
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = string(m)
	}
	return "", models.NewTrawlError(
		models.ErrCodeMethodNotImplemented,
		fmt.Sprintf("Not implemented: scrape method %q, available methods are [%s]", s, strings.Join(names, ",")),
		models.ErrMethodNotImplemented,
	)
}

// NeedsDriver reports whether the method fetches through a browser Driver.
func (m Method) NeedsDriver() bool {
	switch m {
	case MethodRod, MethodRodStealth, MethodAuto:
		return true
	}
	return false
}

func (m Method) String() string { return string(m) }
