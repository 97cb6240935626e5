package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"missioncore/internal/adapter/repo/gorm/model"
	"missioncore/internal/app/ports"
	"missioncore/internal/domain/lifesupport"

	"gorm.io/gorm"
)

type HabitatRepo struct {
	db *gorm.DB
}

func NewHabitatRepo(db *gorm.DB) HabitatRepo {
	return HabitatRepo{db: db}
}

func (r HabitatRepo) Latest(ctx context.Context, habitatID string) (lifesupport.ResourceState, error) {
	var row model.HabitatState
	err := dbFor(ctx, r.db).
		Where("habitat_id = ?", habitatID).
		Order("id DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return lifesupport.ResourceState{}, ports.ErrNotFound
		}
		return lifesupport.ResourceState{}, err
	}
	var s lifesupport.ResourceState
	if err := json.Unmarshal(row.State, &s); err != nil {
		return lifesupport.ResourceState{}, fmt.Errorf("decode habitat state %s: %w", habitatID, err)
	}
	return s, nil
}

func (r HabitatRepo) Append(ctx context.Context, habitatID string, state lifesupport.ResourceState, sustainability float64) error {
	body, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode habitat state: %w", err)
	}
	row := model.HabitatState{
		HabitatID:      habitatID,
		Tick:           state.Tick,
		Sustainability: sustainability,
		State:          body,
		RecordedAt:     state.Timestamp,
	}
	return dbFor(ctx, r.db).Create(&row).Error
}
