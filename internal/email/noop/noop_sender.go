// Package noop provides an EmailSender that only logs. It is the default in
// development so document sends work without AWS credentials.
package noop

import (
	"context"
	"log"

	"urbill/internal/port"
)

type noopSender struct{}

// NewNoopSender creates an EmailSender that logs instead of sending.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendDocument(_ context.Context, email port.DocumentEmail) error {
	suffix := ""
	if email.DownloadURL != "" {
		suffix = ", download " + email.DownloadURL
	}
	log.Printf("[email noop] %s %s to %s <%s>, total %s%s, due by %s%s",
		email.DocumentKind, email.DocumentNumber, email.ToName, email.ToEmail,
		email.Currency, email.GrandTotal, email.DueBy, suffix)
	return nil
}
