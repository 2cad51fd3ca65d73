package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

type ExportStore interface {
	ListScans() ([]*StoredScan, error)
	AddAudit(e AuditEntry)
}

// Archiver stores a rendered export somewhere durable and returns its location.
type Archiver interface {
	Archive(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type ExportParams struct {
	Format string
	Query  string
	Actor  string
}

type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	Location    string
}

const csvContentType = "text/csv; charset=utf-8"

type ExportService struct {
	store    ExportStore
	scans    *ScanService
	catalog  *Catalog
	archiver Archiver
	now      func() time.Time
}

// NewExportService renders CSV exports. scans supplies filtering; archiver may be nil.
func NewExportService(store ExportStore, scans *ScanService, archiver Archiver) *ExportService {
	c := DefaultCatalog()
	if scans != nil {
		c = scans.Engine().Catalog()
	}
	return &ExportService{store: store, scans: scans, catalog: c, archiver: archiver, now: time.Now}
}

func (s *ExportService) ArchiveEnabled() bool { return s.archiver != nil }

func (s *ExportService) ExportCSV(params ExportParams) (*ExportResult, error) {
	format := params.Format
	if format == "" {
		format = "long"
	}
	scans, err := s.listScans(params.Query)
	if err != nil {
		return nil, err
	}
	var b []byte
	switch format {
	case "long":
		b, err = ExportLongCSV(buildLongRows(s.catalog, scans))
	case "wide":
		b, err = ExportWideCSV(s.catalog, scans)
	case "summary":
		b, err = ExportSummaryCSV(s.catalog, scans)
	default:
		return nil, NewInvalidError("unsupported format")
	}
	if err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: s.now().UTC(), Actor: params.Actor, Action: "export." + format, Note: fmt.Sprintf("%d scans", len(scans))})
	return &ExportResult{Filename: "quickscan-" + format + ".csv", ContentType: csvContentType, Data: b}, nil
}

// Archive renders an export and hands it to the configured archiver.
func (s *ExportService) Archive(ctx context.Context, params ExportParams) (*ExportResult, error) {
	if s.archiver == nil {
		return nil, NewUnavailableError("export archiving not configured")
	}
	res, err := s.ExportCSV(params)
	if err != nil {
		return nil, err
	}
	key := s.now().UTC().Format("20060102T150405Z") + "-" + res.Filename
	loc, err := s.archiver.Archive(ctx, key, res.Data, res.ContentType)
	if err != nil {
		log.Printf("export archive: %s: %v", key, err)
		return nil, errors.Join(NewUnavailableError("archive upload failed"), err)
	}
	res.Location = loc
	s.store.AddAudit(AuditEntry{Time: s.now().UTC(), Actor: params.Actor, Action: "export.archive", Target: loc})
	return res, nil
}

func (s *ExportService) listScans(query string) ([]*StoredScan, error) {
	if s.scans != nil {
		return s.scans.List(query)
	}
	return s.store.ListScans()
}

func buildLongRows(c *Catalog, scans []*StoredScan) []LongRow {
	out := make([]LongRow, 0, len(scans)*c.Len())
	for _, sc := range scans {
		for _, a := range sc.Result.Answers {
			cat := ""
			if q, ok := c.Question(a.QuestionID); ok {
				cat = q.Category
			}
			out = append(out, LongRow{
				ScanID:      sc.ID,
				Email:       sc.Email,
				QuestionID:  a.QuestionID,
				Category:    cat,
				Value:       formatAnswerValue(a.Value),
				Score:       a.Score,
				SubmittedAt: formatTime(sc.CreatedAt),
			})
		}
	}
	return out
}
