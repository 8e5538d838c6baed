package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hubfolio/hubfolio/internal/domain"
	"github.com/hubfolio/hubfolio/internal/infra/database/models"
)

type VariableRepository struct {
	db *gorm.DB
}

func NewVariableRepository(db *gorm.DB) *VariableRepository {
	return &VariableRepository{db: db}
}

func variableToDomain(m models.Variable) domain.Variable {
	return domain.Variable{
		UserKey:     m.UserKey,
		Key:         m.Key,
		Value:       m.Value,
		Label:       m.Label,
		Category:    m.Category,
		Description: m.Description,
	}
}

func (r *VariableRepository) Upsert(ctx context.Context, v domain.Variable) (domain.UpsertOutcome, error) {
	outcome := domain.UpsertUpdated

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Variable
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_key = ? AND key = ?", v.UserKey, v.Key).
			Take(&existing).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			outcome = domain.UpsertCreated
			return tx.Create(&models.Variable{
				UserKey:     v.UserKey,
				Key:         v.Key,
				Value:       v.Value,
				Label:       v.Label,
				Category:    v.Category,
				Description: v.Description,
				MDate:       time.Now().UTC(),
			}).Error
		}

		return tx.Model(&models.Variable{}).
			Where("id = ?", existing.ID).
			Updates(map[string]any{
				"value":       v.Value,
				"label":       v.Label,
				"category":    v.Category,
				"description": v.Description,
				"m_date":      time.Now().UTC(),
			}).Error
	})
	if err != nil {
		return "", err
	}
	return outcome, nil
}

func (r *VariableRepository) List(ctx context.Context, userKey string) ([]domain.Variable, error) {
	var rows []models.Variable
	err := r.db.WithContext(ctx).
		Where("user_key = ?", userKey).
		Order("key ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Variable, 0, len(rows))
	for _, m := range rows {
		out = append(out, variableToDomain(m))
	}
	return out, nil
}

func (r *VariableRepository) Delete(ctx context.Context, userKey, key string) error {
	result := r.db.WithContext(ctx).
		Where("user_key = ? AND key = ?", userKey, key).
		Delete(&models.Variable{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "variable"}
	}
	return nil
}

func (r *VariableRepository) Map(ctx context.Context, userKey string) (map[string]string, error) {
	var rows []models.Variable
	err := r.db.WithContext(ctx).
		Where("user_key = ?", userKey).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, m := range rows {
		out[m.Key] = m.Value
	}
	return out, nil
}
