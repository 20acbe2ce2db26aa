package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/danielpatrickdp/pattern-recognition/internal/pattern"
	"github.com/danielpatrickdp/pattern-recognition/internal/prototype"
	"github.com/danielpatrickdp/pattern-recognition/internal/session"
)

func tempDB(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "journal.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStartAndGetSession(t *testing.T) {
	s := tempDB(t)
	rec := SessionRecord{
		SessionID:    "s1",
		Dataset:      "digits.txt",
		Width:        5,
		Height:       5,
		LearningRate: 0.3,
		AgreePolicy:  "noop",
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := s.StartSession(rec); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	got, err := s.GetSession("s1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Fatalf("expected created_at %v, got %v", rec.CreatedAt, got.CreatedAt)
	}
	got.CreatedAt = rec.CreatedAt
	if got != rec {
		t.Fatalf("expected %+v, got %+v", rec, got)
	}

	if err := s.StartSession(rec); err == nil {
		t.Fatal("expected duplicate session id to fail")
	}
	if err := s.StartSession(SessionRecord{}); err == nil {
		t.Fatal("expected empty session id to fail")
	}
}

func TestRecordRequiresSession(t *testing.T) {
	s := tempDB(t)
	err := s.Record(session.Event{SessionID: "ghost", Seq: 1, Kind: session.EventToggle, Query: pattern.New(4)})
	if err == nil {
		t.Fatal("expected foreign key failure for unknown session")
	}
}

func TestRecordAndEventsRoundTrip(t *testing.T) {
	s := tempDB(t)
	if err := s.StartSession(SessionRecord{SessionID: "s1", Width: 2, Height: 2, LearningRate: 0.3, AgreePolicy: "noop"}); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	events := []session.Event{
		{SessionID: "s1", Seq: 1, Kind: session.EventToggle, Index: 2, TopLabel: 'B', Query: pattern.Vector{0, 0, 1, 0}},
		{SessionID: "s1", Seq: 2, Kind: session.EventCorrect, Index: 1, Label: 'A', TopLabel: 'B', Decision: "commit", Query: pattern.Vector{0, 0, 1, 0}},
		{SessionID: "s1", Seq: 3, Kind: session.EventReset, Index: -1, TopLabel: 'A', Query: pattern.New(4)},
	}
	for _, ev := range events {
		if err := s.Record(ev); err != nil {
			t.Fatalf("Record seq %d: %v", ev.Seq, err)
		}
	}

	got, err := s.Events("s1")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	for i, ev := range got {
		want := events[i]
		if ev.Seq != want.Seq || ev.Kind != want.Kind || ev.Index != want.Index {
			t.Fatalf("event %d: expected %+v, got %+v", i, want, ev)
		}
		if ev.Label != want.Label || ev.TopLabel != want.TopLabel || ev.Decision != want.Decision {
			t.Fatalf("event %d labels: expected %+v, got %+v", i, want, ev)
		}
		if ev.Query.Len() != want.Query.Len() {
			t.Fatalf("event %d: query length %d", i, ev.Query.Len())
		}
		for k := range want.Query {
			if ev.Query[k] != want.Query[k] {
				t.Fatalf("event %d query[%d]: %v != %v", i, k, ev.Query[k], want.Query[k])
			}
		}
	}

	if err := s.Record(events[0]); err == nil {
		t.Fatal("expected duplicate seq to fail")
	}
}

func TestListSessionsCounts(t *testing.T) {
	s := tempDB(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "new"} {
		if err := s.StartSession(SessionRecord{SessionID: id, Width: 2, Height: 2, LearningRate: 0.3, AgreePolicy: "noop", CreatedAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatalf("StartSession: %v", err)
		}
	}
	_ = s.Record(session.Event{SessionID: "new", Seq: 1, Kind: session.EventToggle, Query: pattern.New(4)})
	_ = s.Record(session.Event{SessionID: "new", Seq: 2, Kind: session.EventCorrect, Index: 1, Decision: "commit", Query: pattern.New(4)})
	_ = s.Record(session.Event{SessionID: "new", Seq: 3, Kind: session.EventCorrect, Index: 0, Decision: "no_op", Query: pattern.New(4)})

	list, err := s.ListSessions(10)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(list))
	}
	if list[0].SessionID != "new" {
		t.Fatalf("expected newest first, got %s", list[0].SessionID)
	}
	if list[0].Events != 3 || list[0].Corrections != 2 || list[0].Commits != 1 {
		t.Fatalf("unexpected counts %+v", list[0])
	}
	if list[1].Events != 0 {
		t.Fatalf("expected 0 events for old session, got %d", list[1].Events)
	}
}

func TestStoreAsSessionRecorder(t *testing.T) {
	s := tempDB(t)
	opts := session.DefaultOptions()
	opts.ID = "live"
	opts.Width, opts.Height = 2, 2
	opts.Recorder = s
	if err := s.StartSession(SessionRecord{SessionID: opts.ID, Width: 2, Height: 2, LearningRate: opts.Learning.LearningRate, AgreePolicy: string(opts.Learning.AgreePolicy)}); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	sess, err := session.New([]prototype.Entry{
		{Label: 'A', Vector: pattern.Vector{1, 1, 0, 0}},
		{Label: 'B', Vector: pattern.Vector{0, 0, 1, 1}},
	}, opts)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	if err := sess.ToggleCell(0); err != nil {
		t.Fatalf("ToggleCell: %v", err)
	}
	if _, err := sess.Correct(1); err != nil {
		t.Fatalf("Correct: %v", err)
	}

	events, err := s.Events("live")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[1].Kind != session.EventCorrect || events[1].Label != 'B' {
		t.Fatalf("unexpected correction event %+v", events[1])
	}
}

func TestVectorEncoding(t *testing.T) {
	v := pattern.Vector{0.7, -0.3, 1, 0}
	got := decodeVector(encodeVector(v))
	for i := range v {
		if got[i] != v[i] {
			t.Fatalf("index %d: %v != %v", i, got[i], v[i])
		}
	}
}

func TestDuplicateSessionLeavesNoPartialRow(t *testing.T) {
	s := tempDB(t)
	rec := SessionRecord{SessionID: "s1", Width: 2, Height: 2, LearningRate: 0.3, AgreePolicy: "noop"}
	if err := s.StartSession(rec); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if err := s.StartSession(rec); err == nil {
		t.Fatal("expected duplicate session error")
	}
	if err := s.Record(session.Event{SessionID: "s1", Seq: 1, Kind: session.EventReset, Index: -1}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := s.Record(session.Event{SessionID: "s1", Seq: 1, Kind: session.EventReset, Index: -1}); err == nil {
		t.Fatal("expected duplicate seq error")
	}
	events, err := s.Events("s1")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 committed event, got %d", len(events))
	}
}

func TestCorruptTimestampIsReported(t *testing.T) {
	s := tempDB(t)
	if err := s.StartSession(SessionRecord{SessionID: "s1", Width: 2, Height: 2, LearningRate: 0.3, AgreePolicy: "noop"}); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if err := s.Record(session.Event{SessionID: "s1", Seq: 1, Kind: session.EventReset, Index: -1}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := s.db.Exec(`UPDATE sessions SET created_at = 'yesterday'`); err != nil {
		t.Fatalf("corrupt session: %v", err)
	}
	if _, err := s.db.Exec(`UPDATE events SET created_at = 'soon'`); err != nil {
		t.Fatalf("corrupt event: %v", err)
	}

	if _, err := s.GetSession("s1"); err == nil {
		t.Error("GetSession: expected timestamp error")
	}
	if _, err := s.ListSessions(10); err == nil {
		t.Error("ListSessions: expected timestamp error")
	}
	if _, err := s.Events("s1"); err == nil {
		t.Error("Events: expected timestamp error")
	}
}
