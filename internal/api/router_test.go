package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/soaringjerry/QuickScan/internal/middleware"
	"github.com/soaringjerry/QuickScan/internal/services"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	router  *Router
	store   *memoryStore
}

type fakeArchiver struct{ keys []string }

func (f *fakeArchiver) Archive(_ context.Context, key string, _ []byte, _ string) (string, error) {
	f.keys = append(f.keys, key)
	return "s3://exports/" + key, nil
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	middleware.SetSecret("router-test-secret")
	store := newMemoryStore()
	rt := NewRouterWithStore(store, opts)
	if _, err := rt.Admins().EnsureAdmin("admin@example.com", "Secret123", "Admin"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	mux := http.NewServeMux()
	rt.Register(mux)
	return &testServer{t: t, handler: middleware.LocaleMiddleware(mux), router: rt, store: store}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login() string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/admin/login", "", map[string]string{"email": "admin@example.com", "password": "Secret123"})
	if rec.Code != http.StatusOK {
		s.t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	decode(s.t, rec, &out)
	return out.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

// bestAnswers answers every question with its top-scoring value.
func bestAnswers(c *services.Catalog) []map[string]any {
	out := []map[string]any{}
	for _, q := range c.Questions() {
		switch q.Type {
		case services.AnswerChoice:
			best := q.Options[0]
			for _, o := range q.Options {
				if o.Score > best.Score {
					best = o
				}
			}
			out = append(out, map[string]any{"question_id": q.ID, "value": best.Value})
		case services.AnswerNumeric:
			best := q.Thresholds[0]
			for _, th := range q.Thresholds {
				if th.Score > best.Score {
					best = th
				}
			}
			out = append(out, map[string]any{"question_id": q.ID, "value": best.MinValue})
		}
	}
	return out
}

func TestQuestionsEndpoint(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := s.do(http.MethodGet, "/api/quick-scan/questions", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var out struct {
		Questions []services.Question `json:"questions"`
		MaxTotal  int                 `json:"max_total"`
		Policy    string              `json:"policy"`
	}
	decode(t, rec, &out)
	if len(out.Questions) != 27 || out.MaxTotal != 108 || out.Policy != "lenient" {
		t.Fatalf("unexpected catalog payload: %d questions, max %d, policy %s", len(out.Questions), out.MaxTotal, out.Policy)
	}
}

func TestEvaluateLocalizesLabel(t *testing.T) {
	s := newTestServer(t, Options{})
	body := map[string]any{"answers": bestAnswers(s.router.engine.Catalog())}
	rec := s.do(http.MethodPost, "/api/quick-scan/evaluate?lang=en", "", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var res services.ScanResult
	decode(t, rec, &res)
	if res.TotalPercentage != 100 || res.MaturityLevel.Level != 5 || res.MaturityLevel.Label != "Very high maturity level" {
		t.Fatalf("unexpected result %+v", res.MaturityLevel)
	}

	rec = s.do(http.MethodPost, "/api/quick-scan/evaluate", "", body)
	decode(t, rec, &res)
	if res.MaturityLevel.Label != "Zeer hoog volwassenheidsniveau" {
		t.Fatalf("default locale should be Dutch, got %q", res.MaturityLevel.Label)
	}
}

func TestEvaluateErrors(t *testing.T) {
	s := newTestServer(t, Options{Policy: services.PolicyStrict})
	cases := []struct {
		body string
		want int
	}{
		{``, http.StatusBadRequest},
		{`{"answers":[{"question_id":1,"value":true}]}`, http.StatusBadRequest},
		{`{"answers":[{"question_id":999,"value":1}]}`, http.StatusUnprocessableEntity},
		{`{"answers":[{"question_id":1,"value":"bogus"}]}`, http.StatusUnprocessableEntity},
	}
	for _, c := range cases {
		rec := s.do(http.MethodPost, "/api/quick-scan/evaluate", "", c.body)
		if rec.Code != c.want {
			t.Fatalf("body %s: want %d, got %d (%s)", c.body, c.want, rec.Code, rec.Body.String())
		}
	}
}

func sessionOf(t *testing.T, rec *httptest.ResponseRecorder) sessionView {
	t.Helper()
	var v sessionView
	decode(t, rec, &v)
	return v
}

func TestSessionFlow(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := s.do(http.MethodPost, "/api/quick-scan/sessions", "", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start: %d", rec.Code)
	}
	view := sessionOf(t, rec)
	if view.State != services.SessionInProgress || view.Question == nil || view.Question.ID != 1 || view.Total != 27 {
		t.Fatalf("unexpected start view %+v", view)
	}
	base := "/api/quick-scan/sessions/" + view.ID

	if rec := s.do(http.MethodPost, base+"/back", "", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("back at start: want 400, got %d", rec.Code)
	}
	answers := bestAnswers(s.router.engine.Catalog())
	view = sessionOf(t, s.do(http.MethodPost, base+"/answer", "", map[string]any{"value": answers[0]["value"]}))
	if view.Index != 1 || view.Answer != nil {
		t.Fatalf("expected to advance to an unanswered question, got %+v", view)
	}
	view = sessionOf(t, s.do(http.MethodPost, base+"/back", "", nil))
	if view.Index != 0 || view.Answer != answers[0]["value"] {
		t.Fatalf("back should show previous answer, got %+v", view)
	}
	for _, a := range answers {
		rec = s.do(http.MethodPost, base+"/answer", "", map[string]any{"value": a["value"]})
		if rec.Code != http.StatusOK {
			t.Fatalf("answer q%v: %d %s", a["question_id"], rec.Code, rec.Body.String())
		}
	}
	view = sessionOf(t, rec)
	if view.State != services.SessionCompleted || view.Question != nil || view.Result == nil || view.Result.TotalScore != 108 {
		t.Fatalf("expected completed session, got %+v", view)
	}
	if rec := s.do(http.MethodPost, base+"/answer", "", map[string]any{"value": 1}); rec.Code != http.StatusConflict {
		t.Fatalf("answer after completion: want 409, got %d", rec.Code)
	}

	rec = s.do(http.MethodPost, "/api/quick-scan/save", "", map[string]any{"name": "Eva", "email": "eva@example.com", "session_id": view.ID})
	if rec.Code != http.StatusCreated {
		t.Fatalf("save from session: %d %s", rec.Code, rec.Body.String())
	}

	view = sessionOf(t, s.do(http.MethodPost, base+"/restart", "", nil))
	if view.State != services.SessionInProgress || view.Index != 0 || view.Answer != nil || view.Result != nil {
		t.Fatalf("restart should reset, got %+v", view)
	}
	if rec := s.do(http.MethodGet, "/api/quick-scan/sessions/nope", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown session: want 404, got %d", rec.Code)
	}
}

func TestSaveAndAdminFlow(t *testing.T) {
	arch := &fakeArchiver{}
	s := newTestServer(t, Options{Archiver: arch})
	answers := bestAnswers(s.router.engine.Catalog())
	rec := s.do(http.MethodPost, "/api/quick-scan/save", "", map[string]any{
		"name": "Piet", "email": "piet@example.com", "company": "Acme", "answers": answers,
		"totalScore": 1, "maturityLevel": "Initial",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("save: %d %s", rec.Code, rec.Body.String())
	}
	var saved struct {
		ID     string              `json:"id"`
		Result services.ScanResult `json:"result"`
	}
	decode(t, rec, &saved)
	if saved.Result.TotalScore != 108 {
		t.Fatalf("client scores must be ignored, got %d", saved.Result.TotalScore)
	}
	if rec := s.do(http.MethodPost, "/api/quick-scan/save", "", map[string]any{"email": "x@example.com", "answers": answers}); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing name: want 400, got %d", rec.Code)
	}

	if rec := s.do(http.MethodGet, "/api/admin/results", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous results: want 401, got %d", rec.Code)
	}
	tok := s.login()

	rec = s.do(http.MethodGet, "/api/admin/results?q=PIET", tok, nil)
	var list struct {
		Results []resultRow `json:"results"`
		Count   int         `json:"count"`
	}
	decode(t, rec, &list)
	if list.Count != 1 || list.Results[0].ScoreBand != services.BandGreen {
		t.Fatalf("unexpected list %+v", list)
	}

	rec = s.do(http.MethodGet, "/api/admin/results/"+saved.ID, tok, nil)
	var got services.StoredScan
	decode(t, rec, &got)
	if got.Company != "Acme" || len(got.Result.Answers) != 27 {
		t.Fatalf("unexpected scan %+v", got)
	}

	rec = s.do(http.MethodGet, "/api/admin/analytics", tok, nil)
	var summary services.AnalyticsSummary
	decode(t, rec, &summary)
	if summary.TotalScans != 1 || summary.MaturityHistogram[4] != 1 {
		t.Fatalf("unexpected analytics %+v", summary)
	}

	rec = s.do(http.MethodGet, "/api/admin/export?format=summary", tok, nil)
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("export: %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "piet@example.com") {
		t.Fatalf("export missing scan: %s", rec.Body.String())
	}
	rec = s.do(http.MethodPost, "/api/admin/export/archive?format=long", tok, nil)
	if rec.Code != http.StatusOK || len(arch.keys) != 1 {
		t.Fatalf("archive: %d %s", rec.Code, rec.Body.String())
	}

	if rec := s.do(http.MethodDelete, "/api/admin/results/"+saved.ID, tok, nil); rec.Code != http.StatusOK {
		t.Fatalf("delete: %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/api/admin/results/"+saved.ID, tok, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("deleted scan: want 404, got %d", rec.Code)
	}

	actions := map[string]bool{}
	for _, e := range s.store.ListAudit() {
		actions[e.Action] = true
	}
	for _, want := range []string{"quick_scan.save", "admin.login", "export.summary", "export.archive", "quick_scan.delete"} {
		if !actions[want] {
			t.Fatalf("missing audit action %s in %v", want, actions)
		}
	}
}

func TestArchiveWithoutBucket(t *testing.T) {
	s := newTestServer(t, Options{})
	tok := s.login()
	rec := s.do(http.MethodPost, "/api/admin/export/archive", tok, nil)
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), "not configured") {
		t.Fatalf("want 503 not configured, got %d %s", rec.Code, rec.Body.String())
	}
	for _, e := range s.store.ListAudit() {
		if strings.HasPrefix(e.Action, "export.") {
			t.Fatalf("no export should run without a bucket: %+v", e)
		}
	}
}

func TestAdminLockoutOverHTTP(t *testing.T) {
	s := newTestServer(t, Options{})
	for i := 0; i < services.MaxFailedLogins; i++ {
		rec := s.do(http.MethodPost, "/api/admin/login", "", map[string]string{"email": "admin@example.com", "password": "nope"})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: want 401, got %d", i+1, rec.Code)
		}
	}
	rec := s.do(http.MethodPost, "/api/admin/login", "", map[string]string{"email": "admin@example.com", "password": "Secret123"})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("locked account: want 429, got %d", rec.Code)
	}
}

func TestSessionRegistryExpiry(t *testing.T) {
	reg := newSessionRegistry(services.NewEngine(nil), time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }
	e := reg.start()
	if _, ok := reg.get(e.session.ID); !ok {
		t.Fatalf("fresh session should be found")
	}
	now = now.Add(2 * time.Minute)
	if _, ok := reg.get(e.session.ID); ok {
		t.Fatalf("idle session should expire")
	}
	for i := 0; i < 3; i++ {
		reg.start()
	}
	now = now.Add(2 * time.Minute)
	reg.start()
	if n := reg.len(); n != 1 {
		t.Fatalf("expired sessions should be swept on start, have %d", n)
	}
}

func TestMemoryStoreOrdersScans(t *testing.T) {
	st := newMemoryStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 3; i >= 1; i-- {
		if err := st.AddScan(&Scan{ID: fmt.Sprintf("s%d", i), CreatedAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatalf("AddScan: %v", err)
		}
	}
	if err := st.AddScan(&Scan{ID: "s1"}); err == nil {
		t.Fatalf("duplicate id should be rejected")
	}
	got := st.ListScans()
	if len(got) != 3 || got[0].ID != "s1" || got[2].ID != "s3" || st.CountScans() != 3 {
		t.Fatalf("unexpected order %v", got)
	}
	if ok, _ := st.DeleteScan("s2"); !ok {
		t.Fatalf("first delete should succeed")
	}
	if ok, _ := st.DeleteScan("s2"); ok {
		t.Fatalf("second delete should report missing")
	}
}
