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

type AppRepository struct {
	db *gorm.DB
}

func NewAppRepository(db *gorm.DB) *AppRepository {
	return &AppRepository{db: db}
}

func appToDomain(m models.App) domain.App {
	return domain.App{
		ID:                 m.ID,
		OwnerKey:           m.OwnerKey,
		Name:               m.Name,
		Slug:               m.Slug,
		IsTemplate:         m.IsTemplate,
		Visibility:         domain.AppVisibility(m.Visibility),
		TemplateSource:     m.TemplateSource,
		TemplateVersion:    m.TemplateVersion,
		LastTemplateSyncAt: m.LastTemplateSyncAt,
		UpdatedAt:          m.MDate,
	}
}

func (r *AppRepository) Get(ctx context.Context, id string) (domain.App, error) {
	var m models.App
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.App{}, domain.NotFoundError{Resource: "app"}
		}
		return domain.App{}, err
	}
	return appToDomain(m), nil
}

func (r *AppRepository) Create(ctx context.Context, app domain.App) (domain.App, error) {
	m := models.App{
		ID:             app.ID,
		OwnerKey:       app.OwnerKey,
		Name:           app.Name,
		Slug:           app.Slug,
		IsTemplate:     app.IsTemplate,
		Visibility:     string(app.Visibility),
		TemplateSource: app.TemplateSource,
		MDate:          time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).Create(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.App{}, domain.ConflictError{Resource: "app"}
		}
		return domain.App{}, err
	}
	return appToDomain(m), nil
}

func (r *AppRepository) List(ctx context.Context, ownerKey string) ([]domain.App, error) {
	var rows []models.App
	err := r.db.WithContext(ctx).
		Where("owner_key = ?", ownerKey).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.App, 0, len(rows))
	for _, m := range rows {
		out = append(out, appToDomain(m))
	}
	return out, nil
}

// FindOwning resolves the app whose slug prefix contains the given page
// slug. The longest matching prefix wins so nested app slugs stay correct.
func (r *AppRepository) FindOwning(ctx context.Context, ownerKey, slug string) (domain.App, error) {
	var m models.App
	err := r.db.WithContext(ctx).
		Where("owner_key = ? AND (slug = ? OR ? LIKE slug || '/%')", ownerKey, slug, slug).
		Order("length(slug) DESC").
		Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.App{}, domain.NotFoundError{Resource: "app"}
		}
		return domain.App{}, err
	}
	return appToDomain(m), nil
}

func (r *AppRepository) BumpTemplateVersion(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.App{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"template_version": gorm.Expr("template_version + 1"),
			"m_date":           at,
		}).Error
}

// DeleteCascade removes the app and every document under its slug prefix,
// the bare-slug home included, as one transaction.
func (r *AppRepository) DeleteCascade(ctx context.Context, app domain.App) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("owner_key = ? AND (slug = ? OR slug LIKE ?)", app.OwnerKey, app.Slug, app.Slug+"/%").
			Delete(&models.Document{}).Error
		if err != nil {
			return err
		}
		return tx.Where("id = ?", app.ID).Delete(&models.App{}).Error
	})
}

// SyncFromTemplate applies one template sync run atomically: plan against
// the rows as they stand inside the transaction, then execute the plan in
// order, migration first. Any failure rolls the whole run back.
func (r *AppRepository) SyncFromTemplate(ctx context.Context, source, dest domain.App, overwrite bool) (domain.SyncReport, error) {
	var report domain.SyncReport

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sourceRows []models.Document
		err := tx.
			Where("owner_key = ? AND (slug = ? OR slug LIKE ?)", source.OwnerKey, source.Slug, source.Slug+"/%").
			Order("slug ASC").
			Find(&sourceRows).Error
		if err != nil {
			return err
		}

		var destRows []models.Document
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("owner_key = ? AND (slug = ? OR slug LIKE ?)", dest.OwnerKey, dest.Slug, dest.Slug+"/%").
			Find(&destRows).Error
		if err != nil {
			return err
		}

		sourceDocs := make([]domain.Document, 0, len(sourceRows))
		sourceBySlug := make(map[string]models.Document, len(sourceRows))
		for _, m := range sourceRows {
			sourceDocs = append(sourceDocs, domain.Document{Slug: m.Slug})
			sourceBySlug[m.Slug] = m
		}
		destDocs := make([]domain.Document, 0, len(destRows))
		for _, m := range destRows {
			destDocs = append(destDocs, domain.Document{Slug: m.Slug})
		}

		plan := domain.PlanTemplateSync(source, dest, sourceDocs, destDocs, overwrite)
		now := time.Now().UTC()

		for _, action := range plan.Actions {
			switch action.Kind {
			case domain.SyncMigrateLegacyHome:
				err = tx.Model(&models.Document{}).
					Where("owner_key = ? AND slug = ?", dest.OwnerKey, action.LegacySlug).
					Updates(map[string]any{"slug": action.TargetSlug, "m_date": now}).Error
			case domain.SyncCreatePage:
				src := sourceBySlug[action.SourceSlug]
				err = tx.Create(&models.Document{
					OwnerKey: dest.OwnerKey,
					Slug:     action.TargetSlug,
					Status:   string(domain.DocumentStatusDraft),
					Tree:     src.Tree,
					MDate:    now,
				}).Error
			case domain.SyncOverwritePage:
				src := sourceBySlug[action.SourceSlug]
				err = tx.Model(&models.Document{}).
					Where("owner_key = ? AND slug = ?", dest.OwnerKey, action.TargetSlug).
					Updates(map[string]any{
						"tree":           src.Tree,
						"status":         string(domain.DocumentStatusDraft),
						"published_tree": nil,
						"published_at":   nil,
						"digest":         "",
						"m_date":         now,
					}).Error
			case domain.SyncSkipPage:
				// counted in the plan, nothing to write
			}
			if err != nil {
				return err
			}
		}

		bookkeeping := map[string]any{
			"last_template_sync_at": now,
			"m_date":                now,
		}
		if plan.AdvanceVersion {
			bookkeeping["template_version"] = source.TemplateVersion
		}
		err = tx.Model(&models.App{}).Where("id = ?", dest.ID).Updates(bookkeeping).Error
		if err != nil {
			return err
		}

		report = plan.Report
		return nil
	})
	if err != nil {
		return domain.SyncReport{}, err
	}
	return report, nil
}
