package api

import (
	"encoding/json"
	"fmt"

	"github.com/soaringjerry/QuickScan/internal/services"
)

// scanStoreAdapter serves ScanService, AnalyticsService and ExportService.
type scanStoreAdapter struct {
	store Store
}

func newScanStoreAdapter(store Store) *scanStoreAdapter {
	return &scanStoreAdapter{store: store}
}

func (a *scanStoreAdapter) AddScan(sc *services.StoredScan) error {
	row, err := toAPIScan(sc)
	if err != nil {
		return err
	}
	return a.store.AddScan(row)
}

func (a *scanStoreAdapter) GetScan(id string) (*services.StoredScan, error) {
	row := a.store.GetScan(id)
	if row == nil {
		return nil, nil
	}
	return toServiceScan(row)
}

func (a *scanStoreAdapter) ListScans() ([]*services.StoredScan, error) {
	rows := a.store.ListScans()
	out := make([]*services.StoredScan, 0, len(rows))
	for _, row := range rows {
		sc, err := toServiceScan(row)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

func (a *scanStoreAdapter) DeleteScan(id string) (bool, error) {
	return a.store.DeleteScan(id)
}

func (a *scanStoreAdapter) AddAudit(e services.AuditEntry) {
	a.store.AddAudit(AuditEntry{Time: e.Time, Actor: e.Actor, Action: e.Action, Target: e.Target, Note: e.Note})
}

func toAPIScan(sc *services.StoredScan) (*Scan, error) {
	if sc == nil {
		return nil, services.NewInvalidError("scan required")
	}
	doc, err := json.Marshal(sc.Result)
	if err != nil {
		return nil, fmt.Errorf("encode scan result: %w", err)
	}
	return &Scan{
		ID:              sc.ID,
		Name:            sc.Name,
		Email:           sc.Email,
		Company:         sc.Company,
		SendCopyToAdmin: sc.SendCopyToAdmin,
		TotalScore:      sc.Result.TotalScore,
		TotalPercentage: sc.Result.TotalPercentage,
		MaturityLevel:   sc.Result.MaturityLevel.Level,
		MaturityLabel:   sc.Result.MaturityLevel.Label,
		Result:          doc,
		CreatedAt:       sc.CreatedAt,
	}, nil
}

func toServiceScan(row *Scan) (*services.StoredScan, error) {
	sc := &services.StoredScan{
		ID:              row.ID,
		Name:            row.Name,
		Email:           row.Email,
		Company:         row.Company,
		SendCopyToAdmin: row.SendCopyToAdmin,
		CreatedAt:       row.CreatedAt,
	}
	if len(row.Result) > 0 {
		if err := json.Unmarshal(row.Result, &sc.Result); err != nil {
			return nil, fmt.Errorf("decode scan %s: %w", row.ID, err)
		}
	}
	if sc.Result.MaturityLevel.Level == 0 {
		sc.Result.TotalScore = row.TotalScore
		sc.Result.TotalPercentage = row.TotalPercentage
		sc.Result.MaturityLevel = services.MaturityLevel{Level: row.MaturityLevel, Label: row.MaturityLabel}
	}
	return sc, nil
}

var (
	_ services.ScanStore      = (*scanStoreAdapter)(nil)
	_ services.AnalyticsStore = (*scanStoreAdapter)(nil)
	_ services.ExportStore    = (*scanStoreAdapter)(nil)
)
