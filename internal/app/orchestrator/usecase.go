package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"missioncore/internal/app/ports"
	"missioncore/internal/domain/anomaly"
	"missioncore/internal/domain/ecosystem"
	"missioncore/internal/domain/events"
	"missioncore/internal/logging"
)

var (
	ErrInvalidRequest = errors.New("invalid orchestrator request")
	ErrNoChains       = errors.New("orchestrator chains not configured")
)

const (
	DefaultAnomalyWindow = 20
	// MinAnomalyHistory is the series length below which no tick is flagged.
	MinAnomalyHistory = 5
)

// UseCase drives ecosystem lineages: every tick advances the engine, chains a ledger
// snapshot of the new state and scores the population series for anomalies.
type UseCase struct {
	TxManager     ports.TxManager
	Ecosystems    ports.EcosystemRepository
	Ledgers       ports.LedgerRepository
	Events        ports.EventRepository
	Metrics       ports.Metrics
	Chains        *Chains
	AnomalyWindow int
	// Source returns the random source for the next tick. Defaults to a generator
	// seeded from the lineage seed and tick, so a lineage replays identically.
	Source func(lineage ports.LineageRecord, nextTick int) ecosystem.RandomSource
	Logger *slog.Logger
	Now    func() time.Time
}

func (u UseCase) Start(ctx context.Context, req StartRequest) (StartResponse, error) {
	lineageID := strings.TrimSpace(req.LineageID)
	if lineageID == "" {
		return StartResponse{}, ErrInvalidRequest
	}
	if u.Chains == nil {
		return StartResponse{}, ErrNoChains
	}
	seed := req.Seed
	if seed == "" {
		seed = lineageID
	}
	now := u.now()
	unlock := u.Chains.Lock(lineageID)
	defer unlock()

	state, genomes := ecosystem.Initialize(ecosystem.Config{Seed: seed, InitialGenomes: req.Genomes, Now: now})

	var out StartResponse
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := u.Ecosystems.CreateLineage(txCtx, ports.LineageRecord{
			LineageID: lineageID,
			Seed:      seed,
			Genomes:   genomes,
			CreatedAt: now().UTC(),
		}); err != nil {
			return err
		}
		if err := u.Ecosystems.AppendState(txCtx, lineageID, state); err != nil {
			return err
		}
		chain, err := u.Chains.get(txCtx, lineageID, u.Ledgers, now)
		if err != nil {
			return err
		}
		entry, err := chain.AddSnapshot(snapshotSummary(lineageID, state), state)
		if err != nil {
			return err
		}
		if err := u.Ledgers.Append(txCtx, lineageID, entry); err != nil {
			return err
		}
		evt := events.New(events.TypeLineageStarted, now(), map[string]any{
			"lineage_id":    lineageID,
			"seed":          seed,
			"genomes":       len(genomes),
			"snapshot_hash": entry.SnapshotHash,
			"state_after":   state,
		})
		if err := u.Events.Append(txCtx, lineageID, []events.DomainEvent{evt}); err != nil {
			return err
		}
		out = StartResponse{State: state, Genomes: genomes, Entry: entry}
		return nil
	})
	if err != nil {
		u.Chains.drop(lineageID)
		u.recordError("start", err)
		return StartResponse{}, err
	}
	if u.Metrics != nil {
		u.Metrics.ObservePopulation(lineageID, state.TotalPopulation())
	}
	u.logger().Info("lineage started", "lineage", lineageID, "seed", seed, "genomes", len(genomes))
	return out, nil
}

func (u UseCase) Tick(ctx context.Context, req TickRequest) (TickResponse, error) {
	lineageID := strings.TrimSpace(req.LineageID)
	if lineageID == "" {
		return TickResponse{}, ErrInvalidRequest
	}
	if u.Chains == nil {
		return TickResponse{}, ErrNoChains
	}
	now := u.now()
	unlock := u.Chains.Lock(lineageID)
	defer unlock()

	var out TickResponse
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		lineage, err := u.Ecosystems.GetLineage(txCtx, lineageID)
		if err != nil {
			return err
		}
		current, err := u.Ecosystems.LatestState(txCtx, lineageID)
		if err != nil {
			return err
		}
		engine := ecosystem.Engine{Rand: u.source(lineage, current.Tick+1), Now: now}
		next, err := engine.Advance(current, lineage.Genomes)
		if err != nil {
			return err
		}
		if err := u.Ecosystems.AppendState(txCtx, lineageID, next); err != nil {
			return err
		}

		chain, err := u.Chains.get(txCtx, lineageID, u.Ledgers, now)
		if err != nil {
			return err
		}
		entry, err := chain.AddSnapshot(snapshotSummary(lineageID, next), next)
		if err != nil {
			return err
		}
		if err := u.Ledgers.Append(txCtx, lineageID, entry); err != nil {
			return err
		}

		recent, err := u.Ecosystems.RecentStates(txCtx, lineageID, u.window())
		if err != nil {
			return err
		}
		series := make([]float64, 0, len(recent))
		for _, s := range recent {
			series = append(series, float64(s.TotalPopulation()))
		}
		score := anomaly.Result{Reason: "insufficient history"}
		if len(series) >= MinAnomalyHistory {
			score = anomaly.Detect(series)
		}

		evts := []events.DomainEvent{events.New(events.TypeEcosystemTicked, now(), map[string]any{
			"lineage_id":       lineageID,
			"tick":             next.Tick,
			"total_population": next.TotalPopulation(),
			"stability_score":  next.StabilityScore,
			"resilience_score": next.ResilienceScore,
			"snapshot_hash":    entry.SnapshotHash,
			"state_after":      next,
		})}
		if score.IsAnomaly {
			evts = append(evts, events.New(events.TypeAnomalyFlagged, now(), map[string]any{
				"lineage_id": lineageID,
				"tick":       next.Tick,
				"z_score":    score.ZScore,
				"score":      score.Score,
				"reason":     score.Reason,
			}))
		}
		if err := u.Events.Append(txCtx, lineageID, evts); err != nil {
			return err
		}
		out = TickResponse{State: next, Entry: entry, Anomaly: score, Events: evts}
		return nil
	})
	if err != nil {
		u.Chains.drop(lineageID)
		u.recordError("tick", err)
		return TickResponse{}, err
	}

	if u.Metrics != nil {
		u.Metrics.RecordTick(ports.EngineEcosystem)
		u.Metrics.ObservePopulation(lineageID, out.State.TotalPopulation())
		if out.Anomaly.IsAnomaly {
			u.Metrics.RecordAnomaly(lineageID)
		}
	}
	if out.Anomaly.IsAnomaly {
		u.logger().Warn("population anomaly", "lineage", lineageID, "tick", out.State.Tick, "z", out.Anomaly.ZScore)
	}
	u.logger().Debug("ecosystem ticked", "lineage", lineageID, "tick", out.State.Tick, "population", out.State.TotalPopulation())
	return out, nil
}

func (u UseCase) source(lineage ports.LineageRecord, nextTick int) ecosystem.RandomSource {
	if u.Source != nil {
		return u.Source(lineage, nextTick)
	}
	return ecosystem.NewSeededSource(fmt.Sprintf("%s#%d", lineage.Seed, nextTick))
}

func (u UseCase) window() int {
	if u.AnomalyWindow > 0 {
		return u.AnomalyWindow
	}
	return DefaultAnomalyWindow
}

func (u UseCase) now() func() time.Time {
	if u.Now != nil {
		return u.Now
	}
	return time.Now
}

func (u UseCase) logger() *slog.Logger {
	return logging.OrDiscard(u.Logger)
}

func (u UseCase) recordError(op string, err error) {
	if u.Metrics != nil {
		if errors.Is(err, ports.ErrConflict) {
			u.Metrics.RecordConflict()
		} else {
			u.Metrics.RecordFailure(op)
		}
	}
	u.logger().Error("ecosystem "+op+" failed", "err", err)
}

func snapshotSummary(lineageID string, s ecosystem.State) string {
	return fmt.Sprintf("ecosystem %s tick %d population %d stability %.4f", lineageID, s.Tick, s.TotalPopulation(), s.StabilityScore)
}
