package api

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Scan is a saved submission as persisted. Result holds the full ScanResult
// document; the flattened columns serve listing and filtering.
type Scan struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Company         string          `json:"company,omitempty"`
	SendCopyToAdmin bool            `json:"send_copy_to_admin"`
	TotalScore      int             `json:"total_score"`
	TotalPercentage int             `json:"total_percentage"`
	MaturityLevel   int             `json:"maturity_level"`
	MaturityLabel   string          `json:"maturity_label"`
	Result          json.RawMessage `json:"result"`
	CreatedAt       time.Time       `json:"created_at"`
}

type Admin struct {
	ID           string
	Email        string
	Name         string
	PassHash     []byte
	Active       bool
	FailedLogins int
	LockoutUntil time.Time
	LastLogin    time.Time
	CreatedAt    time.Time
}

// audit log
type AuditEntry struct {
	Time   time.Time `json:"time"`
	Actor  string    `json:"actor"`
	Action string    `json:"action"`
	Target string    `json:"target"`
	Note   string    `json:"note,omitempty"`
}

type memoryStore struct {
	mu           sync.RWMutex
	scans        map[string]*Scan
	adminsByMail map[string]*Admin
	audit        []AuditEntry
}

// NewMemoryStore returns a process-local Store.
func NewMemoryStore() Store { return newMemoryStore() }

func newMemoryStore() *memoryStore {
	return &memoryStore{
		scans:        map[string]*Scan{},
		adminsByMail: map[string]*Admin{},
		audit:        []AuditEntry{},
	}
}

func (s *memoryStore) AddScan(sc *Scan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.scans[sc.ID]; ok {
		return fmt.Errorf("scan %s already exists", sc.ID)
	}
	copy := *sc
	s.scans[sc.ID] = &copy
	return nil
}

func (s *memoryStore) GetScan(id string) *Scan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.scans[id]
	if !ok {
		return nil
	}
	copy := *sc
	return &copy
}

func (s *memoryStore) ListScans() []*Scan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Scan, 0, len(s.scans))
	for _, sc := range s.scans {
		copy := *sc
		out = append(out, &copy)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *memoryStore) DeleteScan(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.scans[id]; !ok {
		return false, nil
	}
	delete(s.scans, id)
	return true, nil
}

func (s *memoryStore) CountScans() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scans)
}

func (s *memoryStore) AddAdmin(a *Admin) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *a
	s.adminsByMail[strings.ToLower(a.Email)] = &copy
}

func (s *memoryStore) UpdateAdmin(a *Admin) { s.AddAdmin(a) }

func (s *memoryStore) FindAdminByEmail(email string) *Admin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.adminsByMail[strings.ToLower(email)]
	if !ok {
		return nil
	}
	copy := *a
	return &copy
}

func (s *memoryStore) AddAudit(e AuditEntry) {
	s.mu.Lock()
	s.audit = append(s.audit, e)
	s.mu.Unlock()
}

func (s *memoryStore) ListAudit() []AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AuditEntry, len(s.audit))
	copy(out, s.audit)
	return out
}
