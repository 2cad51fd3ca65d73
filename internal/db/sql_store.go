package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/soaringjerry/QuickScan/internal/api"
)

const auditLimit = 500

// SQLStore implements api.Store on database/sql for sqlite3 and postgres.
type SQLStore struct {
	db      *sql.DB
	dialect string
	timeout time.Duration
}

func NewSQLStore(db *sql.DB, dialect string) (*SQLStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	switch dialect {
	case DialectSQLite:
		pragmas := []string{
			"PRAGMA foreign_keys = ON",
			"PRAGMA journal_mode = WAL",
			"PRAGMA synchronous = NORMAL",
		}
		for _, stmt := range pragmas {
			if _, err := db.Exec(stmt); err != nil {
				return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
			}
		}
	case DialectPostgres:
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
	return &SQLStore{db: db, dialect: dialect, timeout: 5 * time.Second}, nil
}

func NewStore(db *sql.DB, dialect string) (api.Store, error) {
	return NewSQLStore(db, dialect)
}

func (s *SQLStore) logErr(prefix string, err error) {
	if err != nil {
		log.Printf("%s store: %s: %v", s.dialect, prefix, err)
	}
}

func (s *SQLStore) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *SQLStore) exec(query string, args ...any) (sql.Result, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.db.ExecContext(ctx, rebind(s.dialect, query), args...)
}

func toNullString(v string) sql.NullString {
	if strings.TrimSpace(v) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

func toNullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func fromNullTime(nt sql.NullTime) time.Time {
	if !nt.Valid {
		return time.Time{}
	}
	return nt.Time.UTC()
}

const scanColumns = `id, name, email, company, send_copy_to_admin, total_score, total_percentage, maturity_level, maturity_label, result_json, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScan(row rowScanner) (*api.Scan, error) {
	var (
		sc  api.Scan
		doc string
	)
	if err := row.Scan(&sc.ID, &sc.Name, &sc.Email, &sc.Company, &sc.SendCopyToAdmin, &sc.TotalScore,
		&sc.TotalPercentage, &sc.MaturityLevel, &sc.MaturityLabel, &doc, &sc.CreatedAt); err != nil {
		return nil, err
	}
	sc.Result = []byte(doc)
	sc.CreatedAt = sc.CreatedAt.UTC()
	return &sc, nil
}

func (s *SQLStore) AddScan(sc *api.Scan) error {
	created := sc.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.exec(`INSERT INTO scans (`+scanColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.ID, sc.Name, sc.Email, sc.Company, sc.SendCopyToAdmin, sc.TotalScore, sc.TotalPercentage,
		sc.MaturityLevel, sc.MaturityLabel, string(sc.Result), created.UTC())
	if err != nil {
		s.logErr("AddScan", err)
		return fmt.Errorf("insert scan %s: %w", sc.ID, err)
	}
	return nil
}

func (s *SQLStore) GetScan(id string) *api.Scan {
	ctx, cancel := s.ctx()
	defer cancel()
	row := s.db.QueryRowContext(ctx, rebind(s.dialect, `SELECT `+scanColumns+` FROM scans WHERE id = ?`), id)
	sc, err := scanScan(row)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logErr("GetScan", err)
		}
		return nil
	}
	return sc
}

func (s *SQLStore) ListScans() []*api.Scan {
	ctx, cancel := s.ctx()
	defer cancel()
	rows, err := s.db.QueryContext(ctx, `SELECT `+scanColumns+` FROM scans ORDER BY created_at, id`)
	if err != nil {
		s.logErr("ListScans", err)
		return nil
	}
	defer rows.Close()
	out := []*api.Scan{}
	for rows.Next() {
		sc, err := scanScan(rows)
		if err != nil {
			s.logErr("ListScans scan", err)
			continue
		}
		out = append(out, sc)
	}
	s.logErr("ListScans rows", rows.Err())
	return out
}

func (s *SQLStore) DeleteScan(id string) (bool, error) {
	res, err := s.exec(`DELETE FROM scans WHERE id = ?`, id)
	if err != nil {
		s.logErr("DeleteScan", err)
		return false, fmt.Errorf("delete scan %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete scan %s: %w", id, err)
	}
	return n > 0, nil
}

func (s *SQLStore) CountScans() int {
	ctx, cancel := s.ctx()
	defer cancel()
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scans`).Scan(&n); err != nil {
		s.logErr("CountScans", err)
		return 0
	}
	return n
}

func (s *SQLStore) AddAdmin(a *api.Admin) {
	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.exec(`INSERT INTO admins (id, email, name, pass_hash, active, failed_logins, lockout_until, last_login, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, strings.ToLower(a.Email), a.Name, string(a.PassHash), a.Active, a.FailedLogins,
		toNullTime(a.LockoutUntil), toNullTime(a.LastLogin), created.UTC())
	s.logErr("AddAdmin", err)
}

func (s *SQLStore) UpdateAdmin(a *api.Admin) {
	_, err := s.exec(`UPDATE admins SET name = ?, pass_hash = ?, active = ?, failed_logins = ?, lockout_until = ?, last_login = ?
		WHERE email = ?`,
		a.Name, string(a.PassHash), a.Active, a.FailedLogins, toNullTime(a.LockoutUntil), toNullTime(a.LastLogin),
		strings.ToLower(a.Email))
	s.logErr("UpdateAdmin", err)
}

func (s *SQLStore) FindAdminByEmail(email string) *api.Admin {
	ctx, cancel := s.ctx()
	defer cancel()
	var (
		a              api.Admin
		hash           string
		lockout, login sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, rebind(s.dialect,
		`SELECT id, email, name, pass_hash, active, failed_logins, lockout_until, last_login, created_at FROM admins WHERE email = ?`),
		strings.ToLower(email)).Scan(&a.ID, &a.Email, &a.Name, &hash, &a.Active, &a.FailedLogins, &lockout, &login, &a.CreatedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logErr("FindAdminByEmail", err)
		}
		return nil
	}
	a.PassHash = []byte(hash)
	a.LockoutUntil = fromNullTime(lockout)
	a.LastLogin = fromNullTime(login)
	return &a
}

func (s *SQLStore) AddAudit(e api.AuditEntry) {
	ts := e.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.exec(`INSERT INTO audit_log (ts, actor, action, target, note) VALUES (?, ?, ?, ?, ?)`,
		ts.UTC(), e.Actor, e.Action, toNullString(e.Target), toNullString(e.Note))
	s.logErr("AddAudit", err)
}

// ListAudit returns the most recent entries, oldest first.
func (s *SQLStore) ListAudit() []api.AuditEntry {
	ctx, cancel := s.ctx()
	defer cancel()
	rows, err := s.db.QueryContext(ctx, rebind(s.dialect, `SELECT ts, actor, action, target, note FROM audit_log ORDER BY ts DESC LIMIT ?`), auditLimit)
	if err != nil {
		s.logErr("ListAudit", err)
		return nil
	}
	defer rows.Close()
	out := make([]api.AuditEntry, 0, 32)
	for rows.Next() {
		var (
			e            api.AuditEntry
			target, note sql.NullString
		)
		if err := rows.Scan(&e.Time, &e.Actor, &e.Action, &target, &note); err != nil {
			s.logErr("ListAudit scan", err)
			continue
		}
		e.Time = e.Time.UTC()
		e.Target = target.String
		e.Note = note.String
		out = append(out, e)
	}
	s.logErr("ListAudit rows", rows.Err())
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

var _ api.Store = (*SQLStore)(nil)
