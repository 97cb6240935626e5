package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"missioncore/internal/adapter/repo/gorm/model"
	"missioncore/internal/app/ports"
	"missioncore/internal/domain/ecosystem"

	"gorm.io/gorm"
)

type EcosystemRepo struct {
	db *gorm.DB
}

func NewEcosystemRepo(db *gorm.DB) EcosystemRepo {
	return EcosystemRepo{db: db}
}

func (r EcosystemRepo) CreateLineage(ctx context.Context, lineage ports.LineageRecord) error {
	genomes, err := json.Marshal(lineage.Genomes)
	if err != nil {
		return fmt.Errorf("encode genomes: %w", err)
	}
	row := model.EcosystemLineage{
		LineageID: lineage.LineageID,
		Seed:      lineage.Seed,
		Genomes:   genomes,
		CreatedAt: lineage.CreatedAt,
	}
	return mapWriteErr(dbFor(ctx, r.db).Create(&row).Error)
}

func (r EcosystemRepo) GetLineage(ctx context.Context, lineageID string) (ports.LineageRecord, error) {
	var row model.EcosystemLineage
	if err := dbFor(ctx, r.db).Where("lineage_id = ?", lineageID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.LineageRecord{}, ports.ErrNotFound
		}
		return ports.LineageRecord{}, err
	}
	var genomes []ecosystem.Genome
	if err := json.Unmarshal(row.Genomes, &genomes); err != nil {
		return ports.LineageRecord{}, fmt.Errorf("decode genomes: %w", err)
	}
	return ports.LineageRecord{
		LineageID: row.LineageID,
		Seed:      row.Seed,
		Genomes:   genomes,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (r EcosystemRepo) AppendState(ctx context.Context, lineageID string, state ecosystem.State) error {
	body, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode ecosystem state: %w", err)
	}
	row := model.EcosystemState{
		LineageID:       lineageID,
		Tick:            int32(state.Tick),
		TotalPopulation: int64(state.TotalPopulation()),
		StabilityScore:  state.StabilityScore,
		State:           body,
		RecordedAt:      state.Timestamp,
	}
	return mapWriteErr(dbFor(ctx, r.db).Create(&row).Error)
}

func (r EcosystemRepo) LatestState(ctx context.Context, lineageID string) (ecosystem.State, error) {
	var row model.EcosystemState
	err := dbFor(ctx, r.db).
		Where("lineage_id = ?", lineageID).
		Order("tick DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ecosystem.State{}, ports.ErrNotFound
		}
		return ecosystem.State{}, err
	}
	return decodeEcosystemState(row)
}

func (r EcosystemRepo) RecentStates(ctx context.Context, lineageID string, limit int) ([]ecosystem.State, error) {
	var rows []model.EcosystemState
	query := dbFor(ctx, r.db).Where("lineage_id = ?", lineageID).Order("tick DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ecosystem.State, len(rows))
	for i, row := range rows {
		s, err := decodeEcosystemState(row)
		if err != nil {
			return nil, err
		}
		out[len(rows)-1-i] = s
	}
	return out, nil
}

func decodeEcosystemState(row model.EcosystemState) (ecosystem.State, error) {
	var s ecosystem.State
	if err := json.Unmarshal(row.State, &s); err != nil {
		return ecosystem.State{}, fmt.Errorf("decode ecosystem state %s/%d: %w", row.LineageID, row.Tick, err)
	}
	return s, nil
}
