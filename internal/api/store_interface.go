package api

// Store is the persistence surface shared by the memory store and db.SQLStore.
type Store interface {
	AddScan(sc *Scan) error
	GetScan(id string) *Scan
	ListScans() []*Scan
	DeleteScan(id string) (bool, error)
	CountScans() int

	AddAdmin(a *Admin)
	UpdateAdmin(a *Admin)
	FindAdminByEmail(email string) *Admin

	AddAudit(e AuditEntry)
	ListAudit() []AuditEntry
}

var _ Store = (*memoryStore)(nil)
