package fanout

import (
	"testing"

	"missioncore/internal/adapter/metrics/inmemory"
)

func TestRecorder_ForwardsToAll(t *testing.T) {
	a, b := inmemory.NewRecorder(), inmemory.NewRecorder()
	f := New(a, nil, b)
	if len(f) != 2 {
		t.Fatalf("nil recorders must be dropped, got %d", len(f))
	}
	f.RecordTick("physiology")
	f.RecordTamper("l1")
	f.ObserveSustainability("h", 0.5)

	for i, r := range []*inmemory.Recorder{a, b} {
		s := r.Snapshot()
		if s.TickByEngine["physiology"] != 1 || s.Tampers != 1 || s.Sustainability["h"] != 0.5 {
			t.Fatalf("recorder %d missed calls: %+v", i, s)
		}
	}
}
