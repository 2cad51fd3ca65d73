package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ScanStore abstracts persistence operations required by ScanService.
type ScanStore interface {
	AddScan(sc *StoredScan) error
	GetScan(id string) (*StoredScan, error)
	ListScans() ([]*StoredScan, error)
	DeleteScan(id string) (bool, error)
	AddAudit(e AuditEntry)
}

// SubmitRequest transports a completed Quick Scan from the handler into the service layer.
type SubmitRequest struct {
	Name            string `validate:"required,max=200"`
	Email           string `validate:"required,email,max=320"`
	Company         string `validate:"max=200"`
	SendCopyToAdmin bool
	Answers         []Answer `validate:"min=1"`
}

// ScanSavedEvent announces a stored scan whose respondent asked for a copy
// to reach the admin team.
type ScanSavedEvent struct {
	ScanID          string    `json:"scan_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Company         string    `json:"company,omitempty"`
	TotalPercentage int       `json:"total_percentage"`
	MaturityLevel   int       `json:"maturity_level"`
	MaturityLabel   string    `json:"maturity_label"`
	CreatedAt       time.Time `json:"created_at"`
}

// Notifier delivers ScanSavedEvents, e.g. onto a mail queue.
type Notifier interface {
	NotifyScanSaved(ctx context.Context, ev ScanSavedEvent) error
}

// ScanService evaluates and stores Quick Scan submissions.
type ScanService struct {
	store       ScanStore
	engine      *Engine
	notifier    Notifier
	now         func() time.Time
	idGenerator func() string
}

// NewScanService binds the engine to a persistence interface.
func NewScanService(store ScanStore, engine *Engine) *ScanService {
	if engine == nil {
		engine = NewEngine(nil)
	}
	return &ScanService{
		store:       store,
		engine:      engine,
		now:         func() time.Time { return time.Now().UTC() },
		idGenerator: uuid.NewString,
	}
}

func (s *ScanService) Engine() *Engine { return s.engine }

// SetNotifier enables admin copies for submissions that request one.
func (s *ScanService) SetNotifier(n Notifier) { s.notifier = n }

// Evaluate scores answers without persisting anything.
func (s *ScanService) Evaluate(answers []Answer) (*ScanResult, error) {
	return s.engine.Evaluate(answers)
}

// Submit re-scores the answers server-side and persists the result. Scores
// supplied by clients are never trusted.
func (s *ScanService) Submit(req SubmitRequest) (*StoredScan, error) {
	if s.store == nil {
		return nil, errors.New("scan service store is nil")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Company = strings.TrimSpace(req.Company)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	res, err := s.engine.Evaluate(req.Answers)
	if err != nil {
		return nil, err
	}
	scan := &StoredScan{
		ID:              s.idGenerator(),
		Name:            req.Name,
		Email:           strings.ToLower(req.Email),
		Company:         req.Company,
		SendCopyToAdmin: req.SendCopyToAdmin,
		Result:          *res,
		CreatedAt:       s.now(),
	}
	if err := s.store.AddScan(scan); err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: scan.CreatedAt, Actor: scan.Email, Action: "quick_scan.save", Target: scan.ID})
	if scan.SendCopyToAdmin && s.notifier != nil {
		s.notify(scan)
	}
	return scan, nil
}

// notify is best effort; the scan is already stored.
func (s *ScanService) notify(scan *StoredScan) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := s.notifier.NotifyScanSaved(ctx, ScanSavedEvent{
		ScanID:          scan.ID,
		Name:            scan.Name,
		Email:           scan.Email,
		Company:         scan.Company,
		TotalPercentage: scan.Result.TotalPercentage,
		MaturityLevel:   scan.Result.MaturityLevel.Level,
		MaturityLabel:   scan.Result.MaturityLevel.Label,
		CreatedAt:       scan.CreatedAt,
	})
	if err != nil {
		log.Printf("scan service: notify %s: %v", scan.ID, err)
		s.store.AddAudit(AuditEntry{Time: s.now(), Actor: "system", Action: "quick_scan.notify_failed", Target: scan.ID, Note: err.Error()})
	}
}

func (s *ScanService) Get(id string) (*StoredScan, error) {
	if strings.TrimSpace(id) == "" {
		return nil, NewInvalidError("id required")
	}
	sc, err := s.store.GetScan(id)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, NewNotFoundError("scan not found")
	}
	return sc, nil
}

// List returns scans newest first, optionally filtered by a case-insensitive
// substring of email, name or maturity label.
func (s *ScanService) List(query string) ([]*StoredScan, error) {
	all, err := s.store.ListScans()
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]*StoredScan, 0, len(all))
	for _, sc := range all {
		if q == "" || matchesScan(sc, q) {
			out = append(out, sc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func matchesScan(sc *StoredScan, q string) bool {
	return strings.Contains(strings.ToLower(sc.Email), q) ||
		strings.Contains(strings.ToLower(sc.Name), q) ||
		strings.Contains(strings.ToLower(sc.Result.MaturityLevel.Label), q)
}

func (s *ScanService) Delete(actor, id string) error {
	ok, err := s.store.DeleteScan(id)
	if err != nil {
		return err
	}
	if !ok {
		return NewNotFoundError("scan not found")
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: actor, Action: "quick_scan.delete", Target: id})
	return nil
}

// Import re-scores a legacy record and stores it under a fresh id unless one is given.
func (s *ScanService) Import(scan StoredScan) (*StoredScan, error) {
	res, err := s.engine.Rescore(scan.Result.Answers)
	if err != nil {
		return nil, err
	}
	scan.Result = *res
	if scan.ID == "" {
		scan.ID = s.idGenerator()
	}
	if scan.CreatedAt.IsZero() {
		scan.CreatedAt = s.now()
	}
	scan.Email = strings.ToLower(strings.TrimSpace(scan.Email))
	if err := s.store.AddScan(&scan); err != nil {
		return nil, err
	}
	return &scan, nil
}
