package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hubfolio/hubfolio/internal/domain"
	"github.com/hubfolio/hubfolio/internal/infra/database/models"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func encodeTree(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func decodeTree(s string) any {
	if s == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil
	}
	return v
}

func docToDomain(m models.Document) domain.Document {
	doc := domain.Document{
		OwnerKey:    m.OwnerKey,
		Slug:        m.Slug,
		Status:      domain.DocumentStatus(m.Status),
		Tree:        decodeTree(m.Tree),
		Digest:      m.Digest,
		PublishedAt: m.PublishedAt,
		UpdatedAt:   m.MDate,
	}
	if m.PublishedTree != nil {
		doc.PublishedTree = decodeTree(*m.PublishedTree)
	}
	return doc
}

func (r *DocumentRepository) Get(ctx context.Context, ownerKey, slug string) (domain.Document, error) {
	var m models.Document
	err := r.db.WithContext(ctx).
		Where("owner_key = ? AND slug = ?", ownerKey, slug).
		Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Document{}, domain.NotFoundError{Resource: "document"}
		}
		return domain.Document{}, err
	}
	return docToDomain(m), nil
}

func (r *DocumentRepository) Upsert(ctx context.Context, doc domain.Document) (domain.UpsertOutcome, error) {
	outcome := domain.UpsertUpdated

	record := models.Document{
		OwnerKey:    doc.OwnerKey,
		Slug:        doc.Slug,
		Status:      string(doc.Status),
		Tree:        encodeTree(doc.Tree),
		Digest:      doc.Digest,
		PublishedAt: doc.PublishedAt,
		MDate:       time.Now().UTC(),
	}
	if doc.PublishedTree != nil {
		encoded := encodeTree(doc.PublishedTree)
		record.PublishedTree = &encoded
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Document
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("owner_key = ? AND slug = ?", doc.OwnerKey, doc.Slug).
			Take(&existing).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			outcome = domain.UpsertCreated
			return tx.Create(&record).Error
		}

		return tx.Model(&models.Document{}).
			Where("id = ?", existing.ID).
			Updates(map[string]any{
				"status":         record.Status,
				"tree":           record.Tree,
				"published_tree": record.PublishedTree,
				"digest":         record.Digest,
				"published_at":   record.PublishedAt,
				"m_date":         record.MDate,
			}).Error
	})
	if err != nil {
		return "", err
	}
	return outcome, nil
}

func (r *DocumentRepository) ListByPrefix(ctx context.Context, ownerKey, prefix string) ([]domain.Document, error) {
	var rows []models.Document
	err := r.db.WithContext(ctx).
		Where("owner_key = ? AND (slug = ? OR slug LIKE ?)", ownerKey, prefix, prefix+"/%").
		Order("slug ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Document, 0, len(rows))
	for _, m := range rows {
		out = append(out, docToDomain(m))
	}
	return out, nil
}
