package api

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/msl-itech/MSL-Conseil-sub002/internal/guides"
	"github.com/msl-itech/MSL-Conseil-sub002/internal/middleware"
	"github.com/msl-itech/MSL-Conseil-sub002/internal/services"
	"github.com/msl-itech/MSL-Conseil-sub002/internal/utils"
)

// Config wires the router to its storage and lead API.
type Config struct {
	Store       services.KeyValueStore
	Leads       services.LeadSyncer
	LeadTimeout time.Duration
	// Signer, when set, signs share links and rejects unsigned ones.
	Signer *services.ShareSigner
	// CookieHashKey authenticates the visitor cookie; a random key is used when empty.
	CookieHashKey []byte
	// CookieBlockKey encrypts the visitor cookie (16, 24 or 32 bytes, optional).
	CookieBlockKey []byte
	SecureCookies  bool
	FlowIdle       time.Duration
}

type Router struct {
	catalog     *guides.Catalog
	results     *services.ResultStore
	leads       services.LeadSyncer
	leadTimeout time.Duration
	codec       services.ShareCodec
	visitors    *visitors
	flows       *flowRegistry
}

func NewRouter(catalog *guides.Catalog, cfg Config) *Router {
	store := cfg.Store
	if store == nil {
		store = NewMemoryStore()
	}
	hashKey := cfg.CookieHashKey
	if len(hashKey) == 0 {
		hashKey = make([]byte, 32)
		if _, err := rand.Read(hashKey); err != nil {
			panic(err)
		}
		log.Printf("visitor cookie: no key configured, using an ephemeral one")
	}
	return &Router{
		catalog:     catalog,
		results:     services.NewResultStore(store),
		leads:       cfg.Leads,
		leadTimeout: cfg.LeadTimeout,
		codec:       services.ShareCodec{Signer: cfg.Signer},
		visitors:    newVisitors(hashKey, cfg.CookieBlockKey, cfg.SecureCookies),
		flows:       newFlowRegistry(cfg.FlowIdle),
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/guides", rt.handleGuides)       // GET
	mux.HandleFunc("/api/guides/", rt.handleGuideScoped) // GET /api/guides/{slug}[/flow], POST /api/guides/{slug}/flow/{action}
}

// Wait blocks until pending lead calls of every session have returned.
func (rt *Router) Wait() { rt.flows.wait() }

type guideSummary struct {
	Slug         string              `json:"slug"`
	Name         string              `json:"name"`
	Kind         services.AnswerKind `json:"kind"`
	Questions    int                 `json:"questions"`
	MaxScore     int                 `json:"maxScore"`
	RequiresForm bool                `json:"requiresForm"`
}

type guideDetail struct {
	guideSummary
	Blocks        []services.Block    `json:"blocks"`
	Levels        services.LevelTable `json:"levels"`
	FreshnessDays int                 `json:"freshnessDays"`
}

func summarize(g *services.Guide) guideSummary {
	return guideSummary{
		Slug:         g.Slug,
		Name:         g.Name,
		Kind:         g.Bank.Kind,
		Questions:    g.Bank.Len(),
		MaxScore:     g.Bank.MaxScore(),
		RequiresForm: g.RequiresForm,
	}
}

// GET /api/guides
func (rt *Router) handleGuides(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	list := rt.catalog.List()
	out := make([]guideSummary, 0, len(list))
	for _, g := range list {
		out = append(out, summarize(g))
	}
	writeJSON(w, http.StatusOK, map[string]any{"guides": out})
}

func (rt *Router) handleGuideScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/guides/"), "/")
	parts := strings.Split(rest, "/")
	g, ok := rt.catalog.Get(parts[0])
	if !ok {
		writeError(w, services.NewNotFoundError("guide not found"))
		return
	}
	var want string
	switch {
	case len(parts) == 1:
		want = http.MethodGet
	case len(parts) == 2 && parts[1] == "flow":
		want = http.MethodGet
	case len(parts) == 3 && parts[1] == "flow":
		want = http.MethodPost
	default:
		writeError(w, services.NewNotFoundError("not found"))
		return
	}
	if r.Method != want {
		w.Header().Set("Allow", want)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	switch len(parts) {
	case 1:
		rt.handleGuide(w, g)
	case 2:
		rt.handleMount(w, r, g)
	default:
		rt.handleAction(w, r, g, parts[2])
	}
}

// GET /api/guides/{slug}
func (rt *Router) handleGuide(w http.ResponseWriter, g *services.Guide) {
	writeJSON(w, http.StatusOK, guideDetail{
		guideSummary:  summarize(g),
		Blocks:        g.Bank.Blocks,
		Levels:        g.Levels,
		FreshnessDays: int(g.Freshness / (24 * time.Hour)),
	})
}

// GET /api/guides/{slug}/flow?shared=true&score=..
// A page load: the visitor gets a fresh machine mounted on the page query.
func (rt *Router) handleMount(w http.ResponseWriter, r *http.Request, g *services.Guide) {
	vid := rt.visitors.ID(w, r)
	m := rt.mount(vid, g, r.URL.Query())
	rt.respond(w, r, m)
}

func (rt *Router) mount(vid string, g *services.Guide, query url.Values) *services.FlowMachine {
	m := services.NewFlowMachine(g, services.FlowDeps{
		Results:     rt.results,
		Leads:       rt.leads,
		Navigation:  services.NewQueryNavigation(query),
		Codec:       rt.codec,
		StorageKey:  g.StorageKey + ":" + vid,
		LeadTimeout: rt.leadTimeout,
		OnNotice:    recordNotice,
	})
	if m.Mount() == services.StateShared {
		sharedViews.WithLabelValues(g.Slug).Inc()
	}
	rt.flows.put(vid, g.Slug, m)
	return m
}

func recordNotice(guide string, n services.Notice) {
	leadNotices.WithLabelValues(guide, string(n.Kind)).Inc()
}

type answerRequest struct {
	QuestionID string `json:"questionId"`
	Points     *int   `json:"points"`
}

type shareRequest struct {
	From string `json:"from"`
}

// POST /api/guides/{slug}/flow/{action}
func (rt *Router) handleAction(w http.ResponseWriter, r *http.Request, g *services.Guide, action string) {
	vid := rt.visitors.ID(w, r)
	m, ok := rt.flows.get(vid, g.Slug)
	if !ok {
		m = rt.mount(vid, g, nil)
	}
	var err error
	switch action {
	case "start":
		err = m.Start()
	case "form":
		var u services.UserData
		if err = decodeBody(r, &u); err == nil {
			err = m.SubmitForm(u)
		}
	case "answer":
		var in answerRequest
		if err = decodeBody(r, &in); err == nil {
			if in.Points == nil {
				err = services.NewInvalidError("points required")
			} else {
				err = m.Answer(in.QuestionID, *in.Points)
			}
		}
	case "finish":
		var res *services.DiagnosticResult
		if res, err = m.Finish(); err == nil {
			completions.WithLabelValues(g.Slug, res.Level).Inc()
		}
	case "previous":
		err = m.ShowPrevious()
	case "restart":
		err = m.Restart()
	case "back":
		m.Back()
	case "share":
		var in shareRequest
		if err = decodeBody(r, &in); err == nil {
			_, err = m.Share(in.From)
		}
	default:
		writeError(w, services.NewNotFoundError("unknown action"))
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
		if se, ok := services.AsServiceError(err); ok {
			status = string(se.Code)
		}
	}
	flowActions.WithLabelValues(g.Slug, action, status).Inc()
	if err != nil {
		writeError(w, err)
		return
	}
	rt.respond(w, r, m)
}

type noticeOut struct {
	Kind    services.NoticeKind `json:"kind"`
	Message string              `json:"message"`
	At      time.Time           `json:"at"`
}

type flowResponse struct {
	services.FlowView
	Notices []noticeOut `json:"notices,omitempty"`
}

func (rt *Router) respond(w http.ResponseWriter, r *http.Request, m *services.FlowMachine) {
	v := m.View()
	locale := middleware.LocaleFromContext(r.Context())
	out := flowResponse{FlowView: v}
	for _, n := range v.Notices {
		out.Notices = append(out.Notices, noticeOut{Kind: n.Kind, Message: utils.T(locale, string(n.Kind)), At: n.At})
	}
	writeJSON(w, http.StatusOK, out)
}

// decodeBody accepts an empty body as the zero value.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return services.NewInvalidError("invalid JSON body")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	if se, ok := services.AsServiceError(err); ok {
		msg = se.Message
		switch se.Code {
		case services.ErrorInvalid:
			status = http.StatusBadRequest
		case services.ErrorNotFound:
			status = http.StatusNotFound
		case services.ErrorConflict:
			status = http.StatusConflict
		case services.ErrorBadGateway:
			status = http.StatusBadGateway
		}
	} else {
		log.Printf("api: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
