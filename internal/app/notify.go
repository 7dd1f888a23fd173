package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"travel_inquiry/internal/domain"
	"travel_inquiry/internal/render"
)

const (
	ChannelAgency   = "agency"
	ChannelCustomer = "customer"
	ChannelPDF      = "pdf"
)

const (
	customerSubject = "Travel Inquiry Confirmation - We've Received Your Request"
	pdfContentType  = "application/pdf"
)

var ErrNoRecipient = errors.New("no recipient address")

type NotifyService struct {
	pdf    domain.PDFRenderer
	mailer domain.Mailer
	agency string
	now    func() time.Time
}

func NewNotifyService(pdf domain.PDFRenderer, m domain.Mailer, agencyEmail string) *NotifyService {
	return &NotifyService{pdf: pdf, mailer: m, agency: agencyEmail, now: time.Now}
}

// Receipt reports each channel separately; one failing does not void the other.
type Receipt struct {
	AgencyMessageID   string
	CustomerMessageID string
	AgencyErr         error
	CustomerErr       error
}

func (r Receipt) OK() bool { return r.AgencyErr == nil && r.CustomerErr == nil }

// Send renders the PDF once and mails it to the agency and the customer in
// parallel. Empty addresses fall back to the configured agency inbox and the
// form's customer email. The returned error joins every failed channel as a
// *domain.NotificationError.
func (s *NotifyService) Send(ctx context.Context, doc domain.Document, customerEmail, agencyEmail string) (Receipt, error) {
	pdf, err := s.pdf.Render(ctx, doc)
	if err != nil {
		nerr := &domain.NotificationError{Channel: ChannelPDF, Err: err}
		return Receipt{AgencyErr: nerr, CustomerErr: nerr}, nerr
	}

	now := s.now()
	sum := render.NewSummary(doc, now)
	stamp := strconv.FormatInt(now.UnixMilli(), 10)

	agencyTo := firstNonBlank(agencyEmail, s.agency)
	customerTo := firstNonBlank(customerEmail, doc.Text(domain.FieldCustomerEmail))
	name := firstNonBlank(doc.Text(domain.FieldCustomerName), "customer")

	var rc Receipt
	var g errgroup.Group
	g.Go(func() error {
		html, err := render.AgencyEmail(sum)
		if err == nil {
			rc.AgencyMessageID, err = s.deliver(ctx, domain.Mail{
				To:      agencyTo,
				Subject: "New Travel Inquiry from " + name,
				HTML:    html,
				Attachments: []domain.Attachment{{
					Filename:    "travel-inquiry-" + dashed(name) + "-" + stamp + ".pdf",
					ContentType: pdfContentType,
					Content:     pdf,
				}},
			})
		}
		if err != nil {
			rc.AgencyErr = &domain.NotificationError{Channel: ChannelAgency, Err: err}
		}
		return nil
	})
	g.Go(func() error {
		html, err := render.CustomerEmail(sum)
		if err == nil {
			rc.CustomerMessageID, err = s.deliver(ctx, domain.Mail{
				To:      customerTo,
				Subject: customerSubject,
				HTML:    html,
				Attachments: []domain.Attachment{{
					Filename:    "your-travel-inquiry-" + stamp + ".pdf",
					ContentType: pdfContentType,
					Content:     pdf,
				}},
			})
		}
		if err != nil {
			rc.CustomerErr = &domain.NotificationError{Channel: ChannelCustomer, Err: err}
		}
		return nil
	})
	_ = g.Wait() // channel errors live on the receipt

	if !rc.OK() {
		log.Warn().
			AnErr("agency", rc.AgencyErr).
			AnErr("customer", rc.CustomerErr).
			Str("reference", doc.Reference).
			Msg("inquiry notification incomplete")
	}
	return rc, errors.Join(rc.AgencyErr, rc.CustomerErr)
}

func (s *NotifyService) deliver(ctx context.Context, m domain.Mail) (string, error) {
	if strings.TrimSpace(m.To) == "" {
		return "", ErrNoRecipient
	}
	return s.mailer.Send(ctx, m)
}

// PDF renders doc for download and names the file after the customer.
func (s *NotifyService) PDF(ctx context.Context, doc domain.Document) (string, []byte, error) {
	b, err := s.pdf.Render(ctx, doc)
	if err != nil {
		return "", nil, &domain.NotificationError{Channel: ChannelPDF, Err: err}
	}
	return PDFFilename(doc), b, nil
}

func PDFFilename(doc domain.Document) string {
	name := firstNonBlank(doc.Text(domain.FieldCustomerName), "customer")
	return fmt.Sprintf("Serendia-Travel-Inquiry-%s.pdf", dashed(name))
}

func dashed(s string) string { return strings.Join(strings.Fields(s), "-") }

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
