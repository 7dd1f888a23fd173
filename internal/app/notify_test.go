package app_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel_inquiry/internal/app"
	"travel_inquiry/internal/domain"
)

const agencyInbox = "desk@serendia.example"

func TestNotify_BothChannels(t *testing.T) {
	pdf := &fakeRenderer{}
	m := &fakeMailer{}
	svc := app.NewNotifyService(pdf, m, agencyInbox)

	rc, err := svc.Send(context.Background(), filledDoc(t), "", "")
	require.NoError(t, err)
	assert.True(t, rc.OK())
	assert.Equal(t, 1, pdf.calls, "pdf is rendered once for both mails")
	assert.Equal(t, "<desk.serendia.example@test>", rc.AgencyMessageID)
	assert.Equal(t, "<ana.example.com@test>", rc.CustomerMessageID)

	agency, ok := m.to(agencyInbox)
	require.True(t, ok)
	assert.Equal(t, "New Travel Inquiry from Ana Perera", agency.Subject)
	require.Len(t, agency.Attachments, 1)
	att := agency.Attachments[0]
	assert.True(t, strings.HasPrefix(att.Filename, "travel-inquiry-Ana-Perera-"), att.Filename)
	assert.True(t, strings.HasSuffix(att.Filename, ".pdf"))
	assert.Equal(t, "application/pdf", att.ContentType)
	assert.Contains(t, agency.HTML, "Ana Perera")

	customer, ok := m.to("ana@example.com")
	require.True(t, ok)
	assert.Equal(t, "Travel Inquiry Confirmation - We've Received Your Request", customer.Subject)
	require.Len(t, customer.Attachments, 1)
	assert.True(t, strings.HasPrefix(customer.Attachments[0].Filename, "your-travel-inquiry-"))
	assert.Equal(t, agency.Attachments[0].Content, customer.Attachments[0].Content)
}

func TestNotify_ExplicitRecipientsWin(t *testing.T) {
	m := &fakeMailer{}
	svc := app.NewNotifyService(&fakeRenderer{}, m, agencyInbox)

	_, err := svc.Send(context.Background(), filledDoc(t), "other@example.com", "ops@example.com")
	require.NoError(t, err)

	_, ok := m.to("other@example.com")
	assert.True(t, ok)
	_, ok = m.to("ops@example.com")
	assert.True(t, ok)
	assert.Len(t, m.sent, 2)
}

func TestNotify_ChannelFailureIsIsolated(t *testing.T) {
	m := &fakeMailer{failTo: map[string]error{"ana@example.com": errBoom}}
	svc := app.NewNotifyService(&fakeRenderer{}, m, agencyInbox)

	rc, err := svc.Send(context.Background(), filledDoc(t), "", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotificationFailed)
	assert.ErrorIs(t, err, errBoom)
	assert.False(t, rc.OK())
	assert.NoError(t, rc.AgencyErr)
	assert.NotEmpty(t, rc.AgencyMessageID, "agency mail still went out")

	var ne *domain.NotificationError
	require.ErrorAs(t, rc.CustomerErr, &ne)
	assert.Equal(t, app.ChannelCustomer, ne.Channel)
	assert.Empty(t, rc.CustomerMessageID)
}

func TestNotify_MissingRecipient(t *testing.T) {
	doc := filledDoc(t)
	delete(doc.Values, domain.FieldCustomerEmail)
	svc := app.NewNotifyService(&fakeRenderer{}, &fakeMailer{}, "")

	rc, err := svc.Send(context.Background(), doc, "", "")

	assert.ErrorIs(t, err, app.ErrNoRecipient)
	assert.ErrorIs(t, rc.AgencyErr, app.ErrNoRecipient)
	assert.ErrorIs(t, rc.CustomerErr, app.ErrNoRecipient)
}

func TestNotify_PDFFailureStopsBothMails(t *testing.T) {
	m := &fakeMailer{}
	svc := app.NewNotifyService(&fakeRenderer{err: errBoom}, m, agencyInbox)

	rc, err := svc.Send(context.Background(), filledDoc(t), "", "")

	var ne *domain.NotificationError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, app.ChannelPDF, ne.Channel)
	assert.Error(t, rc.AgencyErr)
	assert.Error(t, rc.CustomerErr)
	assert.Empty(t, m.sent)
}

func TestPDF_Download(t *testing.T) {
	svc := app.NewNotifyService(&fakeRenderer{}, &fakeMailer{}, agencyInbox)

	name, b, err := svc.PDF(context.Background(), filledDoc(t))
	require.NoError(t, err)
	assert.Equal(t, "Serendia-Travel-Inquiry-Ana-Perera.pdf", name)
	assert.True(t, strings.HasPrefix(string(b), "%PDF-"))

	assert.Equal(t, "Serendia-Travel-Inquiry-customer.pdf", app.PDFFilename(domain.Document{}))

	_, _, err = app.NewNotifyService(&fakeRenderer{err: errBoom}, nil, "").PDF(context.Background(), domain.Document{})
	assert.ErrorIs(t, err, errBoom)
}
