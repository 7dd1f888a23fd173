// Package pdf picks the PDF renderer configured by PDF_STRATEGY.
package pdf

import (
	"fmt"

	"travel_inquiry/internal/adapters/gotenberg"
	"travel_inquiry/internal/adapters/vectorpdf"
	"travel_inquiry/internal/domain"
)

const (
	StrategyGotenberg = "gotenberg"
	StrategyVector    = "vector"
)

// New returns the renderer for strategy. An empty strategy means Gotenberg.
func New(strategy, gotenbergURL string, rps int) (domain.PDFRenderer, error) {
	switch strategy {
	case StrategyVector:
		return vectorpdf.New(), nil
	case StrategyGotenberg, "":
		return gotenberg.New(gotenbergURL, rps)
	default:
		return nil, fmt.Errorf("unsupported PDF_STRATEGY %q", strategy)
	}
}
