// Package fanout forwards metric calls to several recorders.
package fanout

import "missioncore/internal/app/ports"

type Recorder []ports.Metrics

func New(recorders ...ports.Metrics) Recorder {
	out := make(Recorder, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (f Recorder) RecordTick(engine string) {
	for _, r := range f {
		r.RecordTick(engine)
	}
}

func (f Recorder) RecordConflict() {
	for _, r := range f {
		r.RecordConflict()
	}
}

func (f Recorder) RecordFailure(op string) {
	for _, r := range f {
		r.RecordFailure(op)
	}
}

func (f Recorder) RecordAnomaly(lineageID string) {
	for _, r := range f {
		r.RecordAnomaly(lineageID)
	}
}

func (f Recorder) RecordTamper(ledgerID string) {
	for _, r := range f {
		r.RecordTamper(ledgerID)
	}
}

func (f Recorder) ObservePopulation(lineageID string, total int) {
	for _, r := range f {
		r.ObservePopulation(lineageID, total)
	}
}

func (f Recorder) ObserveSustainability(habitatID string, index float64) {
	for _, r := range f {
		r.ObserveSustainability(habitatID, index)
	}
}
