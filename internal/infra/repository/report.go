package repository

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/hubfolio/hubfolio/internal/domain"
	"github.com/hubfolio/hubfolio/internal/infra/database/models"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

type ownerCount struct {
	OwnerKey string
	Count    int64
}

// OwnerReport merges per-owner counts across the core tables. Owners appear
// once even when they only show up in one table.
func (r *ReportRepository) OwnerReport(ctx context.Context) ([]domain.OwnerReport, error) {
	byOwner := map[string]*domain.OwnerReport{}
	upsert := func(key string) *domain.OwnerReport {
		if row, ok := byOwner[key]; ok {
			return row
		}
		row := &domain.OwnerReport{OwnerKey: key}
		byOwner[key] = row
		return row
	}

	var docs []ownerCount
	err := r.db.WithContext(ctx).Model(&models.Document{}).
		Select("owner_key, count(*) as count").
		Group("owner_key").
		Scan(&docs).Error
	if err != nil {
		return nil, err
	}
	for _, c := range docs {
		upsert(c.OwnerKey).Documents = c.Count
	}

	var published []ownerCount
	err = r.db.WithContext(ctx).Model(&models.Document{}).
		Select("owner_key, count(*) as count").
		Where("status = ?", string(domain.DocumentStatusPublished)).
		Group("owner_key").
		Scan(&published).Error
	if err != nil {
		return nil, err
	}
	for _, c := range published {
		upsert(c.OwnerKey).Published = c.Count
	}

	var apps []ownerCount
	err = r.db.WithContext(ctx).Model(&models.App{}).
		Select("owner_key, count(*) as count").
		Group("owner_key").
		Scan(&apps).Error
	if err != nil {
		return nil, err
	}
	for _, c := range apps {
		upsert(c.OwnerKey).Apps = c.Count
	}

	var groups []ownerCount
	err = r.db.WithContext(ctx).Model(&models.Group{}).
		Select("owner_key, count(*) as count").
		Where("owner_key IS NOT NULL").
		Group("owner_key").
		Scan(&groups).Error
	if err != nil {
		return nil, err
	}
	for _, c := range groups {
		upsert(c.OwnerKey).Groups = c.Count
	}

	out := make([]domain.OwnerReport, 0, len(byOwner))
	for _, row := range byOwner {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OwnerKey < out[j].OwnerKey })
	return out, nil
}
