package port

import "context"

// DocumentEmail carries everything needed to notify a client about a document.
type DocumentEmail struct {
	ToEmail        string
	ToName         string
	DocumentKind   string // "Quotation" or "Invoice"
	DocumentNumber string
	GrandTotal     string
	Currency       string
	CompanyName    string
	DueBy          string // formatted valid-until or due date
	DownloadURL    string // presigned archive link, empty when archival is off
}

// EmailSender defines the contract for sending billing emails.
type EmailSender interface {
	SendDocument(ctx context.Context, email DocumentEmail) error
}
