package api

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/msl-itech/MSL-Conseil-sub002/internal/services"
)

const (
	visitorCookie = "diag_visitor"
	visitorKey    = "vid"
	// DefaultFlowIdle is how long an untouched flow session is kept.
	DefaultFlowIdle = 2 * time.Hour
)

// visitors issues a stable visitor id held in a signed, encrypted cookie.
type visitors struct {
	store *sessions.CookieStore
}

func newVisitors(hashKey, blockKey []byte, secure bool) *visitors {
	cs := sessions.NewCookieStore(hashKey, blockKey)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &visitors{store: cs}
}

// ID returns the visitor id of r, issuing a new cookie when it is missing
// or cannot be decoded.
func (v *visitors) ID(w http.ResponseWriter, r *http.Request) string {
	sess, err := v.store.Get(r, visitorCookie)
	if err != nil {
		log.Printf("visitor cookie: %v", err)
	}
	if id, ok := sess.Values[visitorKey].(string); ok && id != "" {
		return id
	}
	id := uuid.NewString()
	sess.Values[visitorKey] = id
	if err := sess.Save(r, w); err != nil {
		log.Printf("visitor cookie: save: %v", err)
	}
	return id
}

type flowEntry struct {
	machine *services.FlowMachine
	seen    time.Time
}

// flowRegistry holds one FlowMachine per visitor and guide. Machines that
// are replaced or expire stay tracked in retired until their lead calls end.
type flowRegistry struct {
	mu      sync.Mutex
	now     func() time.Time
	idle    time.Duration
	entries map[string]*flowEntry
	retired sync.WaitGroup
}

func newFlowRegistry(idle time.Duration) *flowRegistry {
	if idle <= 0 {
		idle = DefaultFlowIdle
	}
	return &flowRegistry{
		now:     time.Now,
		idle:    idle,
		entries: map[string]*flowEntry{},
	}
}

func flowKey(visitor, slug string) string { return visitor + "|" + slug }

// put replaces the visitor's machine for a guide and prunes idle sessions.
func (f *flowRegistry) put(visitor, slug string, m *services.FlowMachine) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.now()
	for k, e := range f.entries {
		if now.Sub(e.seen) > f.idle {
			f.retireLocked(k)
		}
	}
	key := flowKey(visitor, slug)
	if _, ok := f.entries[key]; ok {
		f.retireLocked(key)
	}
	f.entries[key] = &flowEntry{machine: m, seen: now}
	activeFlows.Set(float64(len(f.entries)))
}

func (f *flowRegistry) retireLocked(key string) {
	e := f.entries[key]
	delete(f.entries, key)
	f.retired.Add(1)
	go func() {
		defer f.retired.Done()
		e.machine.Wait()
	}()
}

func (f *flowRegistry) get(visitor, slug string) (*services.FlowMachine, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[flowKey(visitor, slug)]
	if !ok {
		return nil, false
	}
	if f.now().Sub(e.seen) > f.idle {
		f.retireLocked(flowKey(visitor, slug))
		activeFlows.Set(float64(len(f.entries)))
		return nil, false
	}
	e.seen = f.now()
	return e.machine, true
}

// wait blocks until every held or retired machine has finished its lead calls.
func (f *flowRegistry) wait() {
	f.mu.Lock()
	ms := make([]*services.FlowMachine, 0, len(f.entries))
	for _, e := range f.entries {
		ms = append(ms, e.machine)
	}
	f.mu.Unlock()
	for _, m := range ms {
		m.Wait()
	}
	f.retired.Wait()
}
