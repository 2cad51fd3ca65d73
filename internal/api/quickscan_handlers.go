package api

import (
	"encoding/json"
	"net/http"

	"github.com/soaringjerry/QuickScan/internal/middleware"
	"github.com/soaringjerry/QuickScan/internal/services"
)

// GET /api/quick-scan/questions
func (rt *Router) handleQuestions(w http.ResponseWriter, r *http.Request) {
	c := rt.engine.Catalog()
	cats := make([]map[string]any, 0, len(c.Categories()))
	for _, cat := range c.Categories() {
		cats = append(cats, map[string]any{"name": cat, "max_score": c.CategoryMax(cat)})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"questions":  c.Questions(),
		"categories": cats,
		"max_total":  c.MaxTotal(),
		"policy":     rt.engine.Policy().String(),
	})
}

// POST /api/quick-scan/evaluate {answers:[{question_id, value}]}
func (rt *Router) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answers []services.Answer `json:"answers"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	res, err := rt.scans.Evaluate(req.Answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, localizedResult(res, middleware.LocaleFromContext(r.Context())))
}

type saveRequest struct {
	Name            string            `json:"name"`
	Email           string            `json:"email"`
	Company         string            `json:"company"`
	SendCopyToAdmin bool              `json:"send_copy_to_admin"`
	SessionID       string            `json:"session_id"`
	Answers         []services.Answer `json:"answers"`
}

// POST /api/quick-scan/save
// Answers may come inline or from a completed session; client-side scores are ignored.
func (rt *Router) handleSave(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	answers := req.Answers
	if len(answers) == 0 && req.SessionID != "" {
		e, ok := rt.sessions.get(req.SessionID)
		if !ok {
			writeServiceError(w, services.NewNotFoundError("session not found"))
			return
		}
		e.mu.Lock()
		_, done := e.session.Result()
		answers = e.session.Answers()
		e.mu.Unlock()
		if !done {
			writeServiceError(w, services.NewInvalidError("session not completed"))
			return
		}
	}
	sc, err := rt.scans.Submit(services.SubmitRequest{
		Name:            req.Name,
		Email:           req.Email,
		Company:         req.Company,
		SendCopyToAdmin: req.SendCopyToAdmin,
		Answers:         answers,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":     true,
		"id":     sc.ID,
		"result": localizedResult(&sc.Result, middleware.LocaleFromContext(r.Context())),
	})
}

type questionView struct {
	services.Question
	Position int `json:"position"`
}

type sessionView struct {
	ID       string                `json:"id"`
	State    services.SessionState `json:"state"`
	Index    int                   `json:"index"`
	Total    int                   `json:"total"`
	Progress int                   `json:"progress"`
	Question *questionView         `json:"question,omitempty"`
	Answer   any                   `json:"answer,omitempty"`
	Result   *services.ScanResult  `json:"result,omitempty"`
}

func (rt *Router) viewSession(s *services.Session, locale string) sessionView {
	v := sessionView{
		ID:       s.ID,
		State:    s.State(),
		Index:    s.Index(),
		Total:    rt.engine.Catalog().Len(),
		Progress: s.Progress(),
	}
	if q, ok := s.Current(); ok {
		v.Question = &questionView{Question: q, Position: s.Index() + 1}
		if a, ok := s.CurrentAnswer(); ok {
			v.Answer = answerRaw(a)
		}
	}
	if res, ok := s.Result(); ok {
		lr := localizedResult(res, locale)
		v.Result = &lr
	}
	return v
}

func answerRaw(v services.AnswerValue) any {
	switch a := v.(type) {
	case services.ChoiceAnswer:
		return a.Value
	case services.NumericAnswer:
		return a.Value
	}
	return nil
}

// POST /api/quick-scan/sessions
func (rt *Router) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	e := rt.sessions.start()
	e.mu.Lock()
	defer e.mu.Unlock()
	writeJSON(w, http.StatusCreated, rt.viewSession(e.session, middleware.LocaleFromContext(r.Context())))
}

// withSession runs fn on the session named in the path while holding its lock.
func (rt *Router) withSession(w http.ResponseWriter, r *http.Request, fn func(e *sessionEntry) error) {
	e, ok := rt.sessions.get(r.PathValue("id"))
	if !ok {
		writeServiceError(w, services.NewNotFoundError("session not found"))
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := fn(e); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rt.viewSession(e.session, middleware.LocaleFromContext(r.Context())))
}

// GET /api/quick-scan/sessions/{id}
func (rt *Router) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	rt.withSession(w, r, func(*sessionEntry) error { return nil })
}

// POST /api/quick-scan/sessions/{id}/answer {value}
func (rt *Router) handleSessionAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value json.RawMessage `json:"value"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	v, err := services.DecodeAnswerValue(req.Value)
	if err != nil {
		writeServiceError(w, services.NewInvalidError(err.Error()))
		return
	}
	rt.withSession(w, r, func(e *sessionEntry) error {
		_, err := e.session.Answer(v)
		return err
	})
}

// POST /api/quick-scan/sessions/{id}/back
func (rt *Router) handleSessionBack(w http.ResponseWriter, r *http.Request) {
	rt.withSession(w, r, func(e *sessionEntry) error {
		if err := e.session.Back(); err != nil {
			if err == services.ErrSessionCompleted {
				return err
			}
			return services.NewInvalidError(err.Error())
		}
		return nil
	})
}

// POST /api/quick-scan/sessions/{id}/restart
func (rt *Router) handleSessionRestart(w http.ResponseWriter, r *http.Request) {
	rt.withSession(w, r, func(e *sessionEntry) error {
		e.session = e.session.Restart()
		return nil
	})
}
