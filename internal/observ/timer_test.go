package observ

import (
	"strings"
	"sync"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	load := tm.Begin("load")
	tm.EndItems(load, 3, "")
	dec := tm.Begin("decode")
	tm.End(dec, "cached")
	tm.End(99, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %d", len(r.Phases))
	}
	if r.Phases[0].Items != 3 || r.Phases[1].Note != "cached" {
		t.Fatalf("report = %+v", r)
	}
	s := tm.Summary()
	for _, want := range []string{"timings:", "load", "3 items", "// cached", "total"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestTimerConcurrentPhases(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.End(tm.Begin("fragment"), "")
		}()
	}
	wg.Wait()
	if got := len(tm.Report().Phases); got != 8 {
		t.Fatalf("phases = %d, want 8", got)
	}
	if (&Timer{}).Report().Phases != nil {
		t.Fatal("empty timer reported phases")
	}
}
