package inmemory

import (
	"sync"
)

type Snapshot struct {
	TickTotal      uint64             `json:"tick_total"`
	TickByEngine   map[string]uint64  `json:"tick_by_engine"`
	Conflicts      uint64             `json:"conflicts"`
	Failures       uint64             `json:"failures"`
	FailuresByOp   map[string]uint64  `json:"failures_by_op"`
	Anomalies      uint64             `json:"anomalies"`
	Tampers        uint64             `json:"tampers"`
	Population     map[string]int     `json:"population"`
	Sustainability map[string]float64 `json:"sustainability"`
}

type Recorder struct {
	mu             sync.Mutex
	ticks          map[string]uint64
	conflict       uint64
	failures       map[string]uint64
	anomalies      uint64
	tampers        uint64
	population     map[string]int
	sustainability map[string]float64
}

func NewRecorder() *Recorder {
	return &Recorder{
		ticks:          map[string]uint64{},
		failures:       map[string]uint64{},
		population:     map[string]int{},
		sustainability: map[string]float64{},
	}
}

func (r *Recorder) RecordTick(engine string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks[engine]++
}

func (r *Recorder) RecordConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflict++
}

func (r *Recorder) RecordFailure(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[op]++
}

func (r *Recorder) RecordAnomaly(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.anomalies++
}

func (r *Recorder) RecordTamper(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tampers++
}

// ObservePopulation keeps the latest total per lineage.
func (r *Recorder) ObservePopulation(lineageID string, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.population[lineageID] = total
}

func (r *Recorder) ObserveSustainability(habitatID string, index float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sustainability[habitatID] = index
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		TickByEngine:   make(map[string]uint64, len(r.ticks)),
		Conflicts:      r.conflict,
		FailuresByOp:   make(map[string]uint64, len(r.failures)),
		Anomalies:      r.anomalies,
		Tampers:        r.tampers,
		Population:     make(map[string]int, len(r.population)),
		Sustainability: make(map[string]float64, len(r.sustainability)),
	}
	for k, v := range r.ticks {
		out.TickByEngine[k] = v
		out.TickTotal += v
	}
	for k, v := range r.failures {
		out.FailuresByOp[k] = v
		out.Failures += v
	}
	for k, v := range r.population {
		out.Population[k] = v
	}
	for k, v := range r.sustainability {
		out.Sustainability[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
