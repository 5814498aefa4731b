package jobs

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"strconv"
	"time"

	"retailstock/internal/repositories"
	"retailstock/internal/services"
)

// LedgerExportService archives each day's movement entries as a CSV object.
// The ledger itself is append-only in Postgres; the archive is a cold copy for
// reconciliation outside the database.
type LedgerExportService struct {
	movementRepo repositories.MovementRepository
	archive      services.ArchiveService
	bucketName   string
}

func NewLedgerExportService(movementRepo repositories.MovementRepository, archive services.ArchiveService, bucketName string) *LedgerExportService {
	return &LedgerExportService{
		movementRepo: movementRepo,
		archive:      archive,
		bucketName:   bucketName,
	}
}

// ExportDay writes all movements for the UTC day containing t.
func (s *LedgerExportService) ExportDay(ctx context.Context, t time.Time) (string, error) {
	day := t.UTC().Truncate(24 * time.Hour)
	entries, err := s.movementRepo.ListByTimeRange(ctx, day, day.Add(24*time.Hour))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "product_id", "movement_type", "quantity", "delta", "reference_id", "performed_by", "source_table", "terminal_id", "created_at"}); err != nil {
		return "", err
	}
	for _, e := range entries {
		terminal := ""
		if e.TerminalID != nil {
			terminal = *e.TerminalID
		}
		record := []string{
			e.ID.String(),
			e.ProductID.String(),
			string(e.Movement),
			strconv.Itoa(e.Quantity),
			strconv.Itoa(e.Delta()),
			e.ReferenceID.String(),
			e.PerformedBy.String(),
			e.SourceTable,
			terminal,
			e.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("movements/%s.csv", day.Format("2006-01-02"))
	if err := s.archive.EnsureBucketExists(ctx, s.bucketName); err != nil {
		return "", err
	}
	if err := s.archive.Upload(ctx, s.bucketName, objectName, &buf, int64(buf.Len()), "text/csv"); err != nil {
		return "", err
	}
	return objectName, nil
}

// ScheduledLedgerExport archives the previous day's ledger.
func (s *LedgerExportService) ScheduledLedgerExport(ctx context.Context) error {
	log.Println("Starting scheduled ledger export")

	object, err := s.ExportDay(ctx, time.Now().UTC().AddDate(0, 0, -1))
	if err != nil {
		log.Printf("Scheduled ledger export failed: %v", err)
		return err
	}

	log.Printf("Scheduled ledger export completed: %s", object)
	return nil
}
