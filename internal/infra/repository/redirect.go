package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/hubfolio/hubfolio/internal/domain"
	"github.com/hubfolio/hubfolio/internal/infra/database/models"
)

type RedirectRepository struct {
	db *gorm.DB
}

func NewRedirectRepository(db *gorm.DB) *RedirectRepository {
	return &RedirectRepository{db: db}
}

func redirectToDomain(m models.Redirect) domain.Redirect {
	return domain.Redirect{
		ID:        m.ID,
		OwnerKey:  m.OwnerKey,
		Code:      m.Code,
		TargetURL: m.TargetURL,
	}
}

func (r *RedirectRepository) GetByCode(ctx context.Context, code string) (domain.Redirect, error) {
	var m models.Redirect
	err := r.db.WithContext(ctx).Where("code = ?", code).Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Redirect{}, domain.NotFoundError{Resource: "redirect"}
		}
		return domain.Redirect{}, err
	}
	return redirectToDomain(m), nil
}

func (r *RedirectRepository) Create(ctx context.Context, redirect domain.Redirect) (domain.Redirect, error) {
	m := models.Redirect{
		ID:        redirect.ID,
		OwnerKey:  redirect.OwnerKey,
		Code:      redirect.Code,
		TargetURL: redirect.TargetURL,
		CDate:     time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).Create(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Redirect{}, domain.ConflictError{Resource: "redirect"}
		}
		return domain.Redirect{}, err
	}
	return redirectToDomain(m), nil
}

func (r *RedirectRepository) List(ctx context.Context, ownerKey string) ([]domain.Redirect, error) {
	var rows []models.Redirect
	err := r.db.WithContext(ctx).
		Where("owner_key = ?", ownerKey).
		Order("code ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Redirect, 0, len(rows))
	for _, m := range rows {
		out = append(out, redirectToDomain(m))
	}
	return out, nil
}

func (r *RedirectRepository) Delete(ctx context.Context, ownerKey, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_key = ?", id, ownerKey).
		Delete(&models.Redirect{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "redirect"}
	}
	return nil
}
