package api

import (
	"time"

	"github.com/soaringjerry/QuickScan/internal/services"
)

type adminStoreAdapter struct {
	store Store
	now   func() time.Time
}

func newAdminStoreAdapter(store Store) services.AdminStore {
	return &adminStoreAdapter{store: store, now: func() time.Time { return time.Now().UTC() }}
}

func (a *adminStoreAdapter) FindAdminByEmail(email string) (*services.Admin, error) {
	ad := a.store.FindAdminByEmail(email)
	if ad == nil {
		return nil, nil
	}
	return &services.Admin{
		ID:           ad.ID,
		Email:        ad.Email,
		Name:         ad.Name,
		PassHash:     ad.PassHash,
		Active:       ad.Active,
		FailedLogins: ad.FailedLogins,
		LockoutUntil: ad.LockoutUntil,
		LastLogin:    ad.LastLogin,
	}, nil
}

func (a *adminStoreAdapter) AddAdmin(ad *services.Admin) error {
	if ad == nil {
		return services.NewInvalidError("admin required")
	}
	row := toAPIAdmin(ad)
	row.CreatedAt = a.now()
	a.store.AddAdmin(row)
	return nil
}

func (a *adminStoreAdapter) UpdateAdmin(ad *services.Admin) error {
	if ad == nil {
		return services.NewInvalidError("admin required")
	}
	row := toAPIAdmin(ad)
	if existing := a.store.FindAdminByEmail(ad.Email); existing != nil {
		row.CreatedAt = existing.CreatedAt
	}
	a.store.UpdateAdmin(row)
	return nil
}

func (a *adminStoreAdapter) AddAudit(e services.AuditEntry) {
	a.store.AddAudit(AuditEntry{Time: e.Time, Actor: e.Actor, Action: e.Action, Target: e.Target, Note: e.Note})
}

func toAPIAdmin(ad *services.Admin) *Admin {
	return &Admin{
		ID:           ad.ID,
		Email:        ad.Email,
		Name:         ad.Name,
		PassHash:     ad.PassHash,
		Active:       ad.Active,
		FailedLogins: ad.FailedLogins,
		LockoutUntil: ad.LockoutUntil,
		LastLogin:    ad.LastLogin,
	}
}

var _ services.AdminStore = (*adminStoreAdapter)(nil)
