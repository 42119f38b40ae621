package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"urbill/internal/domain"
	"urbill/internal/port"
)

// settingsOrDefaults reads the business settings singleton, falling back to
// shipped defaults when the row has not been configured yet.
func settingsOrDefaults(ctx context.Context, repo port.SettingsRepository) (*domain.BusinessSettings, error) {
	settings, err := repo.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSettingsNotConfigured) {
			return domain.DefaultBusinessSettings(), nil
		}
		return nil, err
	}
	return settings, nil
}

// itemsToInputs converts stored line items back into request inputs. Used by
// header-only updates to carry the existing item set through revalidation and
// total recomputation.
func itemsToInputs(items []domain.LineItem) []LineItemInput {
	inputs := make([]LineItemInput, len(items))
	for i, it := range items {
		inputs[i] = LineItemInput{
			ServiceName: it.ServiceName,
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
		}
	}
	return inputs
}

// archiveLinkTTL is how long a presigned archive link stays valid. SigV4
// presigning caps out at seven days.
const archiveLinkTTL = 7 * 24 * time.Hour

// DocumentArchiver copies rendered PDFs to the archive bucket. Archival is
// best effort; a failed upload is logged and never fails the calling flow.
type DocumentArchiver struct {
	storage port.ObjectStorage
	bucket  string
	prefix  string
}

// NewDocumentArchiver creates an archiver writing under prefix in bucket.
func NewDocumentArchiver(storage port.ObjectStorage, bucket, prefix string) *DocumentArchiver {
	return &DocumentArchiver{storage: storage, bucket: bucket, prefix: prefix}
}

// archive uploads the rendered PDF and returns a presigned download link for
// it, or "" when archival is disabled or failed.
func (a *DocumentArchiver) archive(ctx context.Context, docType domain.DocType, number string, pdfBytes []byte) string {
	if a == nil || a.storage == nil {
		return ""
	}
	key := fmt.Sprintf("%s/%s/%s.pdf", a.prefix, docType, number)
	_, err := a.storage.Upload(ctx, port.UploadInput{
		Bucket:      a.bucket,
		Key:         key,
		Body:        bytes.NewReader(pdfBytes),
		ContentType: "application/pdf",
	})
	if err != nil {
		log.Printf("archiver: failed to archive %s: %v", key, err)
		return ""
	}

	url, err := a.storage.GetPresignedURL(ctx, a.bucket, key, int64(archiveLinkTTL.Seconds()))
	if err != nil {
		log.Printf("archiver: failed to presign %s: %v", key, err)
		return ""
	}
	return url
}
