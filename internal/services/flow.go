package services

import (
	"context"
	"log"
	"net/url"
	"sync"
	"time"
)

type FlowState string

const (
	StateGuide   FlowState = "guide"
	StateForm    FlowState = "form"
	StateQuiz    FlowState = "quiz"
	StateResults FlowState = "results"
	StateShared  FlowState = "shared"
)

// Navigation is the page URL the flow reads share parameters from and
// rewrites in place (history replace, never push).
type Navigation interface {
	Query() url.Values
	ReplaceQuery(q url.Values)
}

// QueryNavigation keeps the page query in memory.
type QueryNavigation struct {
	mu sync.Mutex
	q  url.Values
}

func NewQueryNavigation(q url.Values) *QueryNavigation {
	return &QueryNavigation{q: copyValues(q)}
}

func (n *QueryNavigation) Query() url.Values {
	n.mu.Lock()
	defer n.mu.Unlock()
	return copyValues(n.q)
}

func (n *QueryNavigation) ReplaceQuery(q url.Values) {
	n.mu.Lock()
	n.q = copyValues(q)
	n.mu.Unlock()
}

// LeadSyncer is the lead API as seen by the flow.
type LeadSyncer interface {
	CreateLead(ctx context.Context, u UserData, guideName string) (string, error)
	UpdateLead(ctx context.Context, id, description string) error
}

type NoticeKind string

const (
	NoticeLeadSaved        NoticeKind = "lead_saved"
	NoticeLeadCreateFailed NoticeKind = "lead_create_failed"
	NoticeLeadUpdateFailed NoticeKind = "lead_update_failed"
	NoticeLeadMissing      NoticeKind = "lead_missing"
)

// Notice is a transient, non-blocking message for the visitor.
type Notice struct {
	Kind NoticeKind `json:"kind"`
	At   time.Time  `json:"at"`
}

// FlowDeps are the capabilities a FlowMachine is built with.
type FlowDeps struct {
	Results    *ResultStore
	Leads      LeadSyncer
	Navigation Navigation
	Codec      ShareCodec
	// StorageKey overrides the guide's storage key, e.g. to scope it per visitor.
	StorageKey  string
	LeadTimeout time.Duration
	OnNotice    func(guide string, n Notice)
}

type leadHandle struct {
	done chan struct{}
	id   string
	err  error
}

// FlowView is a snapshot of the machine for rendering.
type FlowView struct {
	Guide     string            `json:"guide"`
	State     FlowState         `json:"state"`
	Answered  int               `json:"answered"`
	Total     int               `json:"total"`
	Answers   Answers           `json:"answers,omitempty"`
	LiveScore int               `json:"liveScore"`
	Result    *DiagnosticResult `json:"result,omitempty"`
	Previous  *DiagnosticResult `json:"previous,omitempty"`
	Shared    *SharedPayload    `json:"shared,omitempty"`
	Notices   []Notice          `json:"notices,omitempty"`
	Query     string            `json:"query"`
}

// FlowMachine drives one visitor through a guide's diagnostic.
type FlowMachine struct {
	mu   sync.Mutex
	wg   sync.WaitGroup
	now  func() time.Time
	deps FlowDeps

	guide      *Guide
	storageKey string

	state    FlowState
	answers  Answers
	result   *DiagnosticResult
	previous *DiagnosticResult
	shared   *SharedPayload
	user     *UserData
	lead     *leadHandle
	notices  []Notice
}

func NewFlowMachine(g *Guide, deps FlowDeps) *FlowMachine {
	if deps.Navigation == nil {
		deps.Navigation = NewQueryNavigation(nil)
	}
	if deps.LeadTimeout <= 0 {
		deps.LeadTimeout = defaultLeadTimeout
	}
	key := deps.StorageKey
	if key == "" {
		key = g.StorageKey
	}
	return &FlowMachine{
		now:        func() time.Time { return time.Now().UTC() },
		deps:       deps,
		guide:      g,
		storageKey: key,
		state:      StateGuide,
		answers:    Answers{},
	}
}

// Mount sets the initial state from the page URL and stored result.
func (m *FlowMachine) Mount() FlowState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.deps.Codec.Decode(m.deps.Navigation.Query()); ok {
		m.shared = p
		m.state = StateShared
		return m.state
	}
	m.shared = nil
	if m.deps.Results != nil {
		m.previous = m.deps.Results.Load(m.storageKey, m.guide.Freshness)
	}
	m.state = StateGuide
	return m.state
}

// Start leaves the guide (or a shared view) for the form or the quiz.
func (m *FlowMachine) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateGuide && m.state != StateShared {
		return ErrInvalidTransition
	}
	m.clearShareParamsLocked()
	m.shared = nil
	m.answers = Answers{}
	m.result = nil
	if m.guide.RequiresForm {
		m.state = StateForm
	} else {
		m.state = StateQuiz
	}
	return nil
}

// SubmitForm moves to the quiz and registers the lead in the background.
func (m *FlowMachine) SubmitForm(u UserData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateForm {
		return ErrInvalidTransition
	}
	if err := u.Validate(); err != nil {
		return err
	}
	user := u
	m.user = &user
	h := &leadHandle{done: make(chan struct{})}
	m.lead = h
	m.state = StateQuiz

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer close(h.done)
		if m.deps.Leads == nil {
			h.err = NewInvalidError("lead sync disabled")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), m.deps.LeadTimeout)
		defer cancel()
		h.id, h.err = m.deps.Leads.CreateLead(ctx, user, m.guide.Name)
		if h.err != nil {
			log.Printf("flow %s: create lead: %v", m.guide.Slug, h.err)
			m.notify(NoticeLeadCreateFailed)
		}
	}()
	return nil
}

// Answer records the points of the option chosen for a question.
func (m *FlowMachine) Answer(questionID string, points int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateQuiz {
		return ErrInvalidTransition
	}
	q, ok := m.guide.Bank.Question(questionID)
	if !ok {
		return NewNotFoundError("unknown question")
	}
	if !q.Offers(points) {
		return NewInvalidError("points not offered by question")
	}
	m.answers[questionID] = points
	return nil
}

// Finish scores a complete answer set, stores it and annotates the lead.
func (m *FlowMachine) Finish() (*DiagnosticResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateQuiz {
		return nil, ErrInvalidTransition
	}
	if !Complete(m.guide.Bank, m.answers) {
		return nil, ErrIncompleteAnswers
	}
	r, err := Score(m.guide.Bank, m.guide.Levels, m.answers)
	if err != nil {
		return nil, err
	}
	r.DateCompleted = m.now()
	if m.deps.Results != nil {
		if err := m.deps.Results.Save(m.storageKey, r); err != nil {
			log.Printf("flow %s: save result: %v", m.guide.Slug, err)
		}
	}
	m.result = &r
	m.previous = &r
	m.state = StateResults

	if m.guide.RequiresForm {
		m.syncResultLocked(r)
	}
	out := r
	return &out, nil
}

func (m *FlowMachine) syncResultLocked(r DiagnosticResult) {
	h, user := m.lead, m.user
	if h == nil || user == nil {
		m.notifyLocked(NoticeLeadMissing)
		return
	}
	answers := make(Answers, len(m.answers))
	for k, v := range m.answers {
		answers[k] = v
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		<-h.done
		if h.err != nil || h.id == "" {
			m.notify(NoticeLeadMissing)
			return
		}
		if m.deps.Leads == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), m.deps.LeadTimeout)
		defer cancel()
		desc := FormatResultDescription(m.guide, *user, answers, r)
		if err := m.deps.Leads.UpdateLead(ctx, h.id, desc); err != nil {
			log.Printf("flow %s: update lead %s: %v", m.guide.Slug, h.id, err)
			m.notify(NoticeLeadUpdateFailed)
			return
		}
		m.notify(NoticeLeadSaved)
	}()
}

// ShowPrevious jumps from the guide to the stored result.
func (m *FlowMachine) ShowPrevious() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateGuide || m.previous == nil {
		return ErrInvalidTransition
	}
	r := *m.previous
	m.result = &r
	m.state = StateResults
	return nil
}

// Restart discards the result, its stored copy and the answers.
func (m *FlowMachine) Restart() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateResults {
		return ErrInvalidTransition
	}
	if m.deps.Results != nil {
		if err := m.deps.Results.Clear(m.storageKey); err != nil {
			log.Printf("flow %s: clear result: %v", m.guide.Slug, err)
		}
	}
	m.clearShareParamsLocked()
	m.result = nil
	m.previous = nil
	m.answers = Answers{}
	m.state = StateQuiz
	return nil
}

// Back returns to the guide from any state. The page query loses its share
// parameters, and a shared view gives way to the visitor's own stored result.
func (m *FlowMachine) Back() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearShareParamsLocked()
	if m.state == StateShared && m.deps.Results != nil {
		m.previous = m.deps.Results.Load(m.storageKey, m.guide.Freshness)
	}
	m.shared = nil
	m.state = StateGuide
}

// Share writes the result into the page query and returns the new query string.
func (m *FlowMachine) Share(fromName string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateResults || m.result == nil {
		return "", ErrInvalidTransition
	}
	q := m.deps.Codec.Encode(m.deps.Navigation.Query(), *m.result, fromName)
	m.deps.Navigation.ReplaceQuery(q)
	return q.Encode(), nil
}

func (m *FlowMachine) State() FlowState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LeadID returns the remote id once lead creation has succeeded.
func (m *FlowMachine) LeadID() string {
	m.mu.Lock()
	h := m.lead
	m.mu.Unlock()
	if h == nil {
		return ""
	}
	select {
	case <-h.done:
		if h.err == nil {
			return h.id
		}
	default:
	}
	return ""
}

// View snapshots the machine and drains pending notices.
func (m *FlowMachine) View() FlowView {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := FlowView{
		Guide:     m.guide.Slug,
		State:     m.state,
		Answered:  len(m.answers),
		Total:     m.guide.Bank.Len(),
		LiveScore: TotalScore(m.guide.Bank, m.answers),
		Shared:    m.shared,
		Notices:   m.notices,
		Query:     m.deps.Navigation.Query().Encode(),
	}
	if len(m.answers) > 0 {
		v.Answers = make(Answers, len(m.answers))
		for k, a := range m.answers {
			v.Answers[k] = a
		}
	}
	if m.result != nil {
		r := *m.result
		v.Result = &r
	}
	if m.previous != nil {
		r := *m.previous
		v.Previous = &r
	}
	m.notices = nil
	return v
}

// Wait blocks until background lead calls have finished.
func (m *FlowMachine) Wait() {
	m.wg.Wait()
}

func (m *FlowMachine) clearShareParamsLocked() {
	m.deps.Navigation.ReplaceQuery(ClearShareParams(m.deps.Navigation.Query()))
}

func (m *FlowMachine) notify(kind NoticeKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifyLocked(kind)
}

func (m *FlowMachine) notifyLocked(kind NoticeKind) {
	n := Notice{Kind: kind, At: m.now()}
	m.notices = append(m.notices, n)
	if m.deps.OnNotice != nil {
		m.deps.OnNotice(m.guide.Slug, n)
	}
}

func copyValues(q url.Values) url.Values {
	out := url.Values{}
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	return out
}
