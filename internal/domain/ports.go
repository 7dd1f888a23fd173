package domain

import "context"

type InquiryRepository interface {
	// Insert stores rec and returns the new row id.
	Insert(ctx context.Context, rec InquiryRecord) (int64, error)
	Get(ctx context.Context, id int64) (InquiryRecord, error)
}

// SessionStore keeps one FormState per wizard session.
type SessionStore interface {
	Load(ctx context.Context, id string) (*FormState, error) // ErrNotFound when unknown/expired
	Save(ctx context.Context, id string, st *FormState) error
	Delete(ctx context.Context, id string) error
}

// Cache stores JSON-encodable values under a key with a TTL in seconds.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type PDFRenderer interface {
	Render(ctx context.Context, doc Document) ([]byte, error)
}

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Mail struct {
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

type Mailer interface {
	// Send delivers m and returns the message id assigned to it.
	Send(ctx context.Context, m Mail) (string, error)
}
