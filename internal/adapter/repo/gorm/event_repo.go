package gormrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"missioncore/internal/adapter/repo/gorm/model"
	"missioncore/internal/domain/events"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, subject string, evts []events.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}
	rows := make([]model.DomainEvent, 0, len(evts))
	for _, e := range evts {
		b, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", e.Type, err)
		}
		rows = append(rows, model.DomainEvent{
			Subject:    subject,
			Type:       e.Type,
			OccurredAt: e.OccurredAt,
			Payload:    b,
		})
	}
	return dbFor(ctx, r.db).Create(&rows).Error
}

func (r EventRepo) ListBySubject(ctx context.Context, subject string, limit int) ([]events.DomainEvent, error) {
	rows := []model.DomainEvent{}
	query := dbFor(ctx, r.db).
		Where(&model.DomainEvent{Subject: subject}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{
				{Column: clause.Column{Name: "occurred_at"}, Desc: true},
				{Column: clause.Column{Name: "id"}, Desc: true},
			},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]events.DomainEvent, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if len(row.Payload) > 0 {
			_ = json.Unmarshal(row.Payload, &payload)
		}
		out = append(out, events.New(row.Type, row.OccurredAt, payload))
	}
	return out, nil
}
