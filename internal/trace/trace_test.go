package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLevelGatesScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFragment, false},
		{LevelDetail, ScopeFragment, true},
		{LevelDetail, ScopeDecl, false},
		{LevelDebug, ScopeDecl, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestRingKeepsNewest(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopePass, name, "")
	}
	var names []string
	for _, ev := range r.Snapshot() {
		names = append(names, ev.Name)
	}
	if got := strings.Join(names, ""); got != "cde" {
		t.Fatalf("snapshot = %q, want cde", got)
	}
}

func TestFailureSurvivesErrorLevel(t *testing.T) {
	r := NewRingTracer(8, LevelError)
	span := Begin(r, ScopeDriver, "dump", 0)
	span.End("")
	Failure(r, ScopeFragment, "fragment:a.kmeta", errors.New("malformed table"))

	events := r.Snapshot()
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Extra["error"] != "malformed table" {
		t.Fatalf("event = %+v", events[0])
	}
}

func TestSpanPairAndContext(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)
	ctx := WithTracer(context.Background(), st)

	span := Begin(FromContext(ctx), ScopeDriver, "dump", 0)
	ctx = WithSpan(ctx, span)
	child := Begin(FromContext(ctx), ScopePass, "decode", ParentID(ctx))
	child.WithExtra("fragments", "2").End("ok")
	span.End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d:\n%s", len(lines), buf.String())
	}
	var ev jsonEvent
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != "end" || ev.Name != "decode" || ev.ParentID != span.ID() || ev.Extra["fragments"] != "2" {
		t.Fatalf("child end = %+v", ev)
	}
}

func TestInertSpanKeepsParent(t *testing.T) {
	r := NewRingTracer(4, LevelPhase)
	s := Begin(r, ScopeFragment, "fragment", 42)
	if s.ID() != 42 {
		t.Fatalf("inert span ID = %d, want parent 42", s.ID())
	}
	if s.End("") != 0 {
		t.Fatal("inert span reported a duration")
	}
	if len(r.Snapshot()) != 0 {
		t.Fatal("inert span emitted events")
	}
}

func TestFormatTextSortsExtras(t *testing.T) {
	ev := &Event{Kind: KindSpanEnd, Scope: ScopePass, Name: "print", Detail: "ok", Extra: map[string]string{"b": "2", "a": "1"}}
	got := string(FormatEvent(ev, FormatText))
	if !strings.HasSuffix(got, "  ← print (ok) {a=1, b=2}\n") {
		t.Fatalf("text = %q", got)
	}
}

func TestNewSelectsTracer(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr != Nop {
		t.Fatalf("off: %v %v", tr, err)
	}
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	mt, ok := tr.(*MultiTracer)
	if !ok {
		t.Fatalf("both: got %T", tr)
	}
	if _, ok := mt.Ring(); !ok {
		t.Fatal("both: no ring tracer")
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("ParseLevel accepted junk")
	}
}
