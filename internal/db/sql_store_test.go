package db

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/soaringjerry/QuickScan/internal/api"
	"github.com/soaringjerry/QuickScan/internal/services"
)

func openTestStore(t *testing.T) (*SQLStore, *sql.DB) {
	t.Helper()
	conn, err := Open(DialectSQLite, filepath.Join(t.TempDir(), "quickscan.db"), "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	st, err := NewSQLStore(conn, DialectSQLite)
	if err != nil {
		t.Fatalf("NewSQLStore: %v", err)
	}
	return st, conn
}

func TestRebind(t *testing.T) {
	q := `SELECT a FROM t WHERE x = ? AND y = ?`
	if got := rebind(DialectSQLite, q); got != q {
		t.Fatalf("sqlite query changed: %s", got)
	}
	if got := rebind(DialectPostgres, q); got != `SELECT a FROM t WHERE x = $1 AND y = $2` {
		t.Fatalf("unexpected postgres query: %s", got)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("mysql", "dsn", ""); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
	if _, err := Open(DialectSQLite, " ", ""); err == nil {
		t.Fatalf("expected error for empty DSN")
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	_, conn := openTestStore(t)
	if err := RunMigrations(conn, DialectSQLite, ""); err != nil {
		t.Fatalf("second RunMigrations: %v", err)
	}
	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 recorded migration, got %d", n)
	}
}

func TestSQLStoreScans(t *testing.T) {
	st, _ := openTestStore(t)
	base := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	if err := st.AddScan(&api.Scan{ID: "b", Name: "B", Email: "b@x.nl", TotalScore: 50, TotalPercentage: 46, MaturityLevel: 3,
		MaturityLabel: "Gemiddeld volwassenheidsniveau", Result: []byte(`{"total_score":50}`), CreatedAt: base.Add(time.Hour)}); err != nil {
		t.Fatalf("AddScan b: %v", err)
	}
	if err := st.AddScan(&api.Scan{ID: "a", Name: "A", Email: "a@x.nl", Company: "Acme", SendCopyToAdmin: true,
		Result: []byte(`{}`), CreatedAt: base}); err != nil {
		t.Fatalf("AddScan a: %v", err)
	}
	if err := st.AddScan(&api.Scan{ID: "a", Result: []byte(`{}`)}); err == nil {
		t.Fatalf("duplicate id should fail")
	}

	if st.CountScans() != 2 {
		t.Fatalf("CountScans=%d", st.CountScans())
	}
	got := st.GetScan("b")
	if got == nil || got.TotalPercentage != 46 || string(got.Result) != `{"total_score":50}` || !got.CreatedAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("unexpected scan %+v", got)
	}
	list := st.ListScans()
	if len(list) != 2 || list[0].ID != "a" || !list[0].SendCopyToAdmin || list[0].Company != "Acme" {
		t.Fatalf("unexpected list %+v", list)
	}
	if st.GetScan("missing") != nil {
		t.Fatalf("missing scan should be nil")
	}
	if ok, err := st.DeleteScan("a"); !ok || err != nil {
		t.Fatalf("first delete: %v %v", ok, err)
	}
	if ok, err := st.DeleteScan("a"); ok || err != nil {
		t.Fatalf("second delete: %v %v", ok, err)
	}
}

func TestSQLStoreWriteFailuresReachServices(t *testing.T) {
	st, conn := openTestStore(t)
	rt := api.NewRouterWithStore(st, api.Options{})

	first, err := rt.Scans().Import(services.StoredScan{ID: "legacy-1", Name: "A", Email: "a@x.nl"})
	if err != nil || first.ID != "legacy-1" {
		t.Fatalf("first import: %v", err)
	}
	if _, err := rt.Scans().Import(services.StoredScan{ID: "legacy-1", Name: "A", Email: "a@x.nl"}); err == nil {
		t.Fatalf("importing the same id twice should fail")
	}
	if st.CountScans() != 1 {
		t.Fatalf("CountScans=%d", st.CountScans())
	}

	if _, err := conn.Exec(`DROP TABLE scans`); err != nil {
		t.Fatalf("drop scans: %v", err)
	}
	sc, err := rt.Scans().Submit(services.SubmitRequest{Name: "B", Email: "b@x.nl",
		Answers: []services.Answer{{QuestionID: 1, Value: services.ChoiceAnswer{Value: "no"}}}})
	if err == nil || sc != nil {
		t.Fatalf("submit should fail when the insert fails, got %+v", sc)
	}
	if err := rt.Scans().Delete("admin", "legacy-1"); err == nil {
		t.Fatalf("delete should surface the database error")
	}
	for _, e := range st.ListAudit() {
		if e.Action == "quick_scan.save" {
			t.Fatalf("failed save must not be audited: %+v", e)
		}
	}
}

func TestSQLStoreAdmins(t *testing.T) {
	st, _ := openTestStore(t)
	st.AddAdmin(&api.Admin{ID: "A1", Email: "Admin@Example.com", Name: "Admin", PassHash: []byte("$2a$10$hash"), Active: true})
	a := st.FindAdminByEmail("admin@example.com")
	if a == nil || a.ID != "A1" || string(a.PassHash) != "$2a$10$hash" || !a.Active || !a.LockoutUntil.IsZero() {
		t.Fatalf("unexpected admin %+v", a)
	}
	lock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	a.FailedLogins = 3
	a.LockoutUntil = lock
	st.UpdateAdmin(a)
	a = st.FindAdminByEmail("ADMIN@example.com")
	if a.FailedLogins != 3 || !a.LockoutUntil.Equal(lock) {
		t.Fatalf("update not persisted: %+v", a)
	}
	if st.FindAdminByEmail("nobody@example.com") != nil {
		t.Fatalf("unknown admin should be nil")
	}
}

func TestSQLStoreAudit(t *testing.T) {
	st, _ := openTestStore(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	st.AddAudit(api.AuditEntry{Time: base, Actor: "a", Action: "first"})
	st.AddAudit(api.AuditEntry{Time: base.Add(time.Minute), Actor: "b", Action: "second", Target: "t", Note: "n"})
	got := st.ListAudit()
	if len(got) != 2 || got[0].Action != "first" || got[1].Target != "t" || got[1].Note != "n" {
		t.Fatalf("unexpected audit %+v", got)
	}
}

func TestSQLStoreBacksRouter(t *testing.T) {
	st, _ := openTestStore(t)
	rt := api.NewRouterWithStore(st, api.Options{})
	created, err := rt.Admins().EnsureAdmin("admin@example.com", "Secret123", "")
	if err != nil || !created {
		t.Fatalf("EnsureAdmin: %v %v", created, err)
	}
	if _, err := rt.Admins().Login("admin@example.com", "Secret123"); err != nil {
		t.Fatalf("Login against sqlite: %v", err)
	}
	if a := st.FindAdminByEmail("admin@example.com"); a == nil || a.LastLogin.IsZero() {
		t.Fatalf("last login not persisted: %+v", a)
	}
}
