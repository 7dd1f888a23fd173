package render_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"travel_inquiry/internal/domain"
	"travel_inquiry/internal/render"
)

// textOf collects the text content of elements matching tag (and class, when set).
func textOf(n *html.Node, tag, class string) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag && (class == "" || hasClass(n, class)) {
			out = append(out, strings.TrimSpace(flatten(n)))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func byID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if m := byID(c, id); m != nil {
			return m
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" && a.Val == class {
			return true
		}
	}
	return false
}

func flatten(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(flatten(c))
	}
	return b.String()
}

func TestInquiryHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.InquiryHTML(&buf, render.NewSummary(sampleDoc(), genTime)))

	doc, err := html.Parse(&buf)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Customer Information", "Flight Information", "Travel Details",
		"Accommodation Preferences", "Group Information", "Tour Preferences", "Special Arrangements",
	}, textOf(doc, "h3", ""))
	assert.Equal(t, []string{"1. Standard - DBL (Quantity: 2)", "2. Suite - SGL (Quantity: 1)"}, textOf(doc, "div", "room-item"))
	assert.Contains(t, textOf(doc, "span", "not-specified"), "Not provided")
	assert.Equal(t, "INQ-240000", flatten(byID(doc, "reference")))
}

func TestInquiryHTML_EscapesValues(t *testing.T) {
	d := sampleDoc()
	d.Values[domain.FieldCustomerName] = domain.Text("<script>alert(1)</script>")

	var buf bytes.Buffer
	require.NoError(t, render.InquiryHTML(&buf, render.NewSummary(d, genTime)))
	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}

func TestEmails(t *testing.T) {
	s := render.NewSummary(sampleDoc(), genTime)

	agency, err := render.AgencyEmail(s)
	require.NoError(t, err)
	doc, err := html.Parse(strings.NewReader(agency))
	require.NoError(t, err)
	customer := flatten(byID(doc, "customer"))
	assert.Contains(t, customer, "Ana Perera")
	assert.Contains(t, customer, "ana@example.com")
	travel := flatten(byID(doc, "travel"))
	assert.Contains(t, travel, "January 5, 2025")
	assert.Contains(t, travel, "Not specified") // pax

	body, err := render.CustomerEmail(s)
	require.NoError(t, err)
	doc, err = html.Parse(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, "Dear Ana Perera,", flatten(byID(doc, "greeting")))
	summary := flatten(byID(doc, "summary"))
	assert.Contains(t, summary, "January 1, 2025 to January 5, 2025")
	assert.Contains(t, summary, "4 nights")
}
