package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/msl-itech/MSL-Conseil-sub002/internal/guides"
	"github.com/msl-itech/MSL-Conseil-sub002/internal/middleware"
	"github.com/msl-itech/MSL-Conseil-sub002/internal/services"
)

type stubLeads struct {
	mu        sync.Mutex
	release   chan struct{}
	createErr error
	created   []services.UserData
	updates   map[string]string
}

func (s *stubLeads) CreateLead(ctx context.Context, u services.UserData, guideName string) (string, error) {
	if s.release != nil {
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return "", s.createErr
	}
	s.created = append(s.created, u)
	return "42", nil
}

func (s *stubLeads) UpdateLead(ctx context.Context, id, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updates == nil {
		s.updates = map[string]string{}
	}
	s.updates[id] = description
	return nil
}

type flowBody struct {
	State    string                     `json:"state"`
	Answered int                        `json:"answered"`
	Total    int                        `json:"total"`
	Result   *services.DiagnosticResult `json:"result"`
	Previous *services.DiagnosticResult `json:"previous"`
	Shared   *services.SharedPayload    `json:"shared"`
	Notices  []noticeOut                `json:"notices"`
	Query    string                     `json:"query"`
	Error    string                     `json:"error"`
}

type testClient struct {
	t   *testing.T
	srv *httptest.Server
	c   *http.Client
}

func newTestServer(t *testing.T, cfg Config) (*Router, *httptest.Server) {
	t.Helper()
	rt := NewRouter(guides.MustDefault(), cfg)
	mux := http.NewServeMux()
	rt.Register(mux)
	srv := httptest.NewServer(middleware.LocaleMiddleware(mux))
	t.Cleanup(srv.Close)
	return rt, srv
}

func newTestClient(t *testing.T, srv *httptest.Server) *testClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &testClient{t: t, srv: srv, c: &http.Client{Jar: jar}}
}

func (tc *testClient) do(method, path string, body any) (int, flowBody) {
	tc.t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			tc.t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, tc.srv.URL+path, rd)
	if err != nil {
		tc.t.Fatalf("new request: %v", err)
	}
	resp, err := tc.c.Do(req)
	if err != nil {
		tc.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var out flowBody
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		tc.t.Fatalf("decode %s %s: %v", method, path, err)
	}
	return resp.StatusCode, out
}

func (tc *testClient) mustDo(method, path string, body any) flowBody {
	tc.t.Helper()
	code, out := tc.do(method, path, body)
	if code != http.StatusOK {
		tc.t.Fatalf("%s %s: status %d (%s)", method, path, code, out.Error)
	}
	return out
}

func (tc *testClient) answerAll(slug string, points int) {
	tc.t.Helper()
	g, _ := guides.MustDefault().Get(slug)
	for _, q := range g.Bank.Questions() {
		tc.mustDo(http.MethodPost, "/api/guides/"+slug+"/flow/answer", map[string]any{"questionId": q.ID, "points": points})
	}
}

func TestGuidesList(t *testing.T) {
	_, srv := newTestServer(t, Config{})
	resp, err := http.Get(srv.URL + "/api/guides")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var out struct {
		Guides []guideSummary `json:"guides"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Guides) != 5 {
		t.Fatalf("expected 5 guides, got %d", len(out.Guides))
	}
	for i := 1; i < len(out.Guides); i++ {
		if out.Guides[i-1].Slug > out.Guides[i].Slug {
			t.Fatalf("guides not sorted: %v", out.Guides)
		}
	}
}

func TestGuideDetail(t *testing.T) {
	_, srv := newTestServer(t, Config{})
	resp, err := http.Get(srv.URL + "/api/guides/automatisation-diagnostic")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var out guideDetail
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Kind != services.AnswerBoolean || out.Questions != 20 || out.MaxScore != 20 || out.RequiresForm {
		t.Fatalf("unexpected detail %+v", out.guideSummary)
	}
	if out.FreshnessDays != 7 || len(out.Blocks) == 0 {
		t.Fatalf("unexpected detail %+v", out)
	}

	resp2, err := http.Get(srv.URL + "/api/guides/unknown")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp2.StatusCode)
	}
}

func TestChecklistJourneyAndSharing(t *testing.T) {
	_, srv := newTestServer(t, Config{})
	tc := newTestClient(t, srv)
	const base = "/api/guides/automatisation-diagnostic/flow"

	if v := tc.mustDo(http.MethodGet, base, nil); v.State != "guide" || v.Previous != nil {
		t.Fatalf("unexpected mount %+v", v)
	}
	if v := tc.mustDo(http.MethodPost, base+"/start", nil); v.State != "quiz" || v.Total != 20 {
		t.Fatalf("unexpected start %+v", v)
	}
	tc.answerAll("automatisation-diagnostic", 1)
	v := tc.mustDo(http.MethodPost, base+"/finish", nil)
	if v.State != "results" || v.Result == nil {
		t.Fatalf("unexpected finish %+v", v)
	}
	if v.Result.TotalScore != 20 || v.Result.Percentage != 100 || v.Result.Level != "Avancé" {
		t.Fatalf("unexpected result %+v", v.Result)
	}
	if len(v.Notices) != 0 {
		t.Fatalf("checklist guide has no lead sync, got %+v", v.Notices)
	}

	v = tc.mustDo(http.MethodPost, base+"/share", map[string]string{"from": "Jean Dupont"})
	q, err := url.ParseQuery(v.Query)
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	if q.Get("shared") != "true" || q.Get("score") != "20" || q.Get("from") != "Jean Dupont" {
		t.Fatalf("unexpected share query %q", v.Query)
	}

	// Same visitor reloading sees the stored result.
	if v := tc.mustDo(http.MethodGet, base, nil); v.State != "guide" || v.Previous == nil || v.Previous.Percentage != 100 {
		t.Fatalf("expected previous result, got %+v", v)
	}
	if v := tc.mustDo(http.MethodPost, base+"/previous", nil); v.State != "results" || v.Result == nil {
		t.Fatalf("unexpected previous %+v", v)
	}

	// A different visitor opening the link sees the shared view only.
	other := newTestClient(t, srv)
	sv := other.mustDo(http.MethodGet, base+"?"+q.Encode(), nil)
	if sv.State != "shared" || sv.Shared == nil || sv.Shared.Level != "Avancé" || sv.Shared.FromName != "Jean Dupont" {
		t.Fatalf("unexpected shared view %+v", sv)
	}
	if sv.Previous != nil {
		t.Fatalf("other visitor must not see the stored result")
	}
	sv = other.mustDo(http.MethodPost, base+"/start", nil)
	if sv.State != "quiz" || strings.Contains(sv.Query, "shared") {
		t.Fatalf("start from shared should clear params, got %+v", sv)
	}
}

func TestFormJourneySyncsLead(t *testing.T) {
	leads := &stubLeads{release: make(chan struct{})}
	rt, srv := newTestServer(t, Config{Leads: leads})
	tc := newTestClient(t, srv)
	const base = "/api/guides/daf-pme/flow"

	tc.mustDo(http.MethodGet, base, nil)
	if v := tc.mustDo(http.MethodPost, base+"/start", nil); v.State != "form" {
		t.Fatalf("expected form state, got %q", v.State)
	}
	code, out := tc.do(http.MethodPost, base+"/form", map[string]string{"firstName": "Jean", "lastName": "Dupont"})
	if code != http.StatusBadRequest || out.Error == "" {
		t.Fatalf("expected 400 for incomplete form, got %d %+v", code, out)
	}
	user := services.UserData{FirstName: "Jean", LastName: "Dupont", Email: "jean@example.com", Company: "ACME"}
	if v := tc.mustDo(http.MethodPost, base+"/form", user); v.State != "quiz" {
		t.Fatalf("expected quiz state, got %q", v.State)
	}
	tc.answerAll("daf-pme", 2)
	v := tc.mustDo(http.MethodPost, base+"/finish", nil)
	if v.Result == nil || v.Result.Percentage != 100 {
		t.Fatalf("unexpected result %+v", v.Result)
	}

	close(leads.release)
	rt.Wait()
	if len(v.Notices) != 0 {
		t.Fatalf("lead creation still pending, got %+v", v.Notices)
	}
	back := tc.mustDo(http.MethodPost, base+"/back", nil)
	if len(back.Notices) != 1 || back.Notices[0].Kind != services.NoticeLeadSaved {
		t.Fatalf("expected lead_saved notice, got %+v", back.Notices)
	}
	if back.Notices[0].Message != "Vos résultats ont bien été transmis." {
		t.Fatalf("expected french message, got %q", back.Notices[0].Message)
	}

	leads.mu.Lock()
	defer leads.mu.Unlock()
	if len(leads.created) != 1 || leads.created[0].Email != "jean@example.com" {
		t.Fatalf("unexpected created leads %+v", leads.created)
	}
	if !strings.Contains(leads.updates["42"], "Score :</strong> 48 / 48") {
		t.Fatalf("unexpected update %q", leads.updates["42"])
	}
}

func TestFailedLeadNoticesTranslated(t *testing.T) {
	leads := &stubLeads{release: make(chan struct{}), createErr: services.NewBadGatewayError("lead api returned status 500")}
	rt, srv := newTestServer(t, Config{Leads: leads})
	tc := newTestClient(t, srv)
	const base = "/api/guides/plan-action-2026/flow"

	tc.mustDo(http.MethodPost, base+"/start", nil)
	tc.mustDo(http.MethodPost, base+"/form", services.UserData{FirstName: "A", LastName: "B", Email: "a@b.c", Company: "C"})
	tc.answerAll("plan-action-2026", 0)
	v := tc.mustDo(http.MethodPost, base+"/finish", nil)
	if v.State != "results" || len(v.Notices) != 0 {
		t.Fatalf("unexpected finish %+v", v)
	}
	close(leads.release)
	rt.Wait()

	back := tc.mustDo(http.MethodPost, base+"/back?lang=en", nil)
	if len(back.Notices) != 2 {
		t.Fatalf("expected two notices, got %+v", back.Notices)
	}
	if back.Notices[0].Kind != services.NoticeLeadCreateFailed || back.Notices[1].Kind != services.NoticeLeadMissing {
		t.Fatalf("unexpected notice order %+v", back.Notices)
	}
	if !strings.HasPrefix(back.Notices[1].Message, "Your results") {
		t.Fatalf("expected english message, got %q", back.Notices[1].Message)
	}
	if len(leads.updates) != 0 {
		t.Fatalf("no update expected without a lead id")
	}
}

func TestFlowErrors(t *testing.T) {
	_, srv := newTestServer(t, Config{})
	tc := newTestClient(t, srv)
	const base = "/api/guides/automatisation-diagnostic/flow"

	cases := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"answer before start", base + "/answer", map[string]any{"questionId": "x", "points": 1}, http.StatusConflict},
		{"unknown action", base + "/jump", nil, http.StatusNotFound},
		{"unknown guide", "/api/guides/nope/flow/start", nil, http.StatusNotFound},
		{"restart outside results", base + "/restart", nil, http.StatusConflict},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			code, out := tc.do(http.MethodPost, c.path, c.body)
			if code != c.status || out.Error == "" {
				t.Fatalf("expected %d with error, got %d %+v", c.status, code, out)
			}
		})
	}

	tc.mustDo(http.MethodPost, base+"/start", nil)
	g, _ := guides.MustDefault().Get("automatisation-diagnostic")
	first := g.Bank.Questions()[0].ID
	if code, _ := tc.do(http.MethodPost, base+"/answer", map[string]any{"questionId": first, "points": 2}); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for points not offered, got %d", code)
	}
	if code, _ := tc.do(http.MethodPost, base+"/answer", map[string]any{"questionId": first}); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing points, got %d", code)
	}
	if code, _ := tc.do(http.MethodPost, base+"/answer", map[string]any{"questionId": "nope", "points": 1}); code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown question, got %d", code)
	}
	if code, _ := tc.do(http.MethodPost, base+"/finish", nil); code != http.StatusConflict {
		t.Fatalf("expected 409 for incomplete answers, got %d", code)
	}
}

func TestGuideRoutesStatus(t *testing.T) {
	_, srv := newTestServer(t, Config{})
	cases := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/guides/daf-pme/anything", http.StatusNotFound},
		{http.MethodGet, "/api/guides/daf-pme/flow/start/extra", http.StatusNotFound},
		{http.MethodGet, "/api/guides/daf-pme/flow/start", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/guides/daf-pme", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/guides/daf-pme/flow", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/guides/daf-pme/flow", http.StatusOK},
	}
	for _, c := range cases {
		t.Run(c.method+" "+c.path, func(t *testing.T) {
			req, err := http.NewRequest(c.method, srv.URL+c.path, nil)
			if err != nil {
				t.Fatalf("new request: %v", err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("do: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != c.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, c.status)
			}
		})
	}
}
