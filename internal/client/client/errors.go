package client

import (
	"fmt"

	"github.com/dmitrijs2005/urchin/internal/client/transport"
	"github.com/dmitrijs2005/urchin/internal/common"
)

var (
	ErrClosed = transport.ErrClosed

	// ErrSuperseded is delivered to a sign-in whose response arrived after a
	// newer sign-in had started. The store is left to the newer one.
	ErrSuperseded = fmt.Errorf("sign in superseded: %w", common.ErrCanceled)
)
