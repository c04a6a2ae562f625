package services

import (
	"errors"
	"testing"
	"time"
)

type stubKV struct {
	data   map[string]string
	getErr error
}

func newStubKV() *stubKV { return &stubKV{data: map[string]string{}} }

func (s *stubKV) Get(key string) (string, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *stubKV) Set(key, value string) error { s.data[key] = value; return nil }

func (s *stubKV) Delete(key string) error { delete(s.data, key); return nil }

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestResultStore(kv KeyValueStore) *ResultStore {
	s := NewResultStore(kv)
	s.now = func() time.Time { return fixedNow }
	return s
}

func sampleResult(age time.Duration) DiagnosticResult {
	return DiagnosticResult{TotalScore: 30, MaxScore: 48, Percentage: 63, Level: "Solide", DateCompleted: fixedNow.Add(-age)}
}

func TestResultStoreFreshness(t *testing.T) {
	kv := newStubKV()
	s := newTestResultStore(kv)
	week := 7 * 24 * time.Hour

	if err := s.Save("daf", sampleResult(6*24*time.Hour)); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if r := s.Load("daf", week); r == nil || r.TotalScore != 30 || r.Level != "Solide" {
		t.Fatalf("6-day-old result not loaded: %+v", r)
	}

	if err := s.Save("daf", sampleResult(8*24*time.Hour)); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if r := s.Load("daf", week); r != nil {
		t.Fatalf("8-day-old result surfaced: %+v", r)
	}
	if _, ok := kv.data["daf"]; !ok {
		t.Fatalf("stale entry must not be purged")
	}
	if r := s.Load("daf", 0); r == nil {
		t.Fatalf("result must load when expiry is disabled")
	}
}

func TestResultStoreCorrupted(t *testing.T) {
	kv := newStubKV()
	kv.data["daf"] = "{not json"
	s := newTestResultStore(kv)
	if r := s.Load("daf", 0); r != nil {
		t.Fatalf("corrupted entry surfaced: %+v", r)
	}
	kv.data["daf"] = `{"totalScore":3}`
	if r := s.Load("daf", 0); r != nil {
		t.Fatalf("incomplete entry surfaced: %+v", r)
	}
	kv.getErr = errors.New("disk")
	if r := s.Load("daf", 0); r != nil {
		t.Fatalf("storage error surfaced a result")
	}
}

func TestResultStoreClear(t *testing.T) {
	s := newTestResultStore(newStubKV())
	if err := s.Save("daf", sampleResult(0)); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := s.Clear("daf"); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if r := s.Load("daf", 0); r != nil {
		t.Fatalf("cleared result surfaced: %+v", r)
	}
}

func TestResultStoreKeysDoNotCollide(t *testing.T) {
	s := newTestResultStore(newStubKV())
	a := sampleResult(0)
	b := sampleResult(0)
	b.Level = "Fragile"
	_ = s.Save("daf-pme", a)
	_ = s.Save("controle-gestion", b)
	if r := s.Load("daf-pme", 0); r == nil || r.Level != "Solide" {
		t.Fatalf("daf-pme result overwritten: %+v", r)
	}
	if err := s.Save(" ", a); err == nil {
		t.Fatalf("expected empty key to be rejected")
	}
}
