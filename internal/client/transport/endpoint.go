package transport

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/urchin/internal/common"
)

// Endpoint names a server environment.
type Endpoint string

const (
	Production  Endpoint = "production"
	Staging     Endpoint = "staging"
	Development Endpoint = "development"
)

// DefaultEndpoints maps the known environments to their base URLs.
func DefaultEndpoints() map[Endpoint]string {
	return map[Endpoint]string{
		Production:  "https://api.tidepool.io",
		Staging:     "https://staging-api.tidepool.io",
		Development: "https://devel-api.tidepool.io",
	}
}

// ParseEndpoint accepts an endpoint name in any case.
func ParseEndpoint(s string) (Endpoint, error) {
	e := Endpoint(strings.ToLower(strings.TrimSpace(s)))
	switch e {
	case Production, Staging, Development:
		return e, nil
	}
	return "", fmt.Errorf("%w: %q", common.ErrUnknownEndpoint, s)
}
