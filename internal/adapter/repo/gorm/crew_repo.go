package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"missioncore/internal/adapter/repo/gorm/model"
	"missioncore/internal/app/ports"
	"missioncore/internal/domain/physiology"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CrewRepo struct {
	db *gorm.DB
}

func NewCrewRepo(db *gorm.DB) CrewRepo {
	return CrewRepo{db: db}
}

func (r CrewRepo) Get(ctx context.Context, crewID string) (physiology.HumanState, error) {
	var row model.CrewState
	if err := dbFor(ctx, r.db).Where("crew_id = ?", crewID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return physiology.HumanState{}, ports.ErrNotFound
		}
		return physiology.HumanState{}, err
	}
	var s physiology.HumanState
	if err := json.Unmarshal(row.State, &s); err != nil {
		return physiology.HumanState{}, fmt.Errorf("decode crew state %s: %w", crewID, err)
	}
	return s, nil
}

func (r CrewRepo) Save(ctx context.Context, crewID string, state physiology.HumanState) error {
	body, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode crew state: %w", err)
	}
	row := model.CrewState{CrewID: crewID, State: body, UpdatedAt: time.Now().UTC()}
	return dbFor(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "crew_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "updated_at"}),
	}).Create(&row).Error
}
