package pdf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel_inquiry/internal/adapters/gotenberg"
	"travel_inquiry/internal/adapters/pdf"
	"travel_inquiry/internal/adapters/vectorpdf"
)

func TestNew(t *testing.T) {
	r, err := pdf.New(pdf.StrategyVector, "", 0)
	require.NoError(t, err)
	assert.IsType(t, &vectorpdf.Renderer{}, r)

	r, err = pdf.New(pdf.StrategyGotenberg, "http://gotenberg:3000", 2)
	require.NoError(t, err)
	assert.IsType(t, &gotenberg.Client{}, r)

	r, err = pdf.New("", "http://gotenberg:3000", 2)
	require.NoError(t, err)
	assert.IsType(t, &gotenberg.Client{}, r)
}

func TestNew_Errors(t *testing.T) {
	_, err := pdf.New(pdf.StrategyGotenberg, "", 2)
	assert.Error(t, err)

	_, err = pdf.New("headless", "http://gotenberg:3000", 2)
	assert.ErrorContains(t, err, `unsupported PDF_STRATEGY "headless"`)
}
