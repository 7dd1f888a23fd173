package render

import (
	"bytes"
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// InquiryHTML writes the printable inquiry document.
func InquiryHTML(w io.Writer, s Summary) error {
	return templates.ExecuteTemplate(w, "inquiry.html", s)
}

// AgencyEmail is the HTML body of the notification sent to the agency inbox.
func AgencyEmail(s Summary) (string, error) { return execute("agency.html", s) }

// CustomerEmail is the HTML body of the confirmation sent to the traveller.
func CustomerEmail(s Summary) (string, error) { return execute("customer.html", s) }

func execute(name string, s Summary) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, s); err != nil {
		return "", err
	}
	return buf.String(), nil
}
