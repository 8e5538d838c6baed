package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hubfolio/hubfolio"
	"github.com/hubfolio/hubfolio/internal/domain"
	"github.com/hubfolio/hubfolio/internal/infra/database/models"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func groupToDomain(m models.Group) domain.Group {
	return domain.Group{
		ID:             m.ID,
		OwnerKey:       m.OwnerKey,
		Name:           m.Name,
		Tree:           decodeTree(m.Tree),
		Public:         m.Public,
		AutoInclude:    m.AutoInclude,
		Description:    m.Description,
		Version:        m.Version,
		SourceGroupID:  m.SourceGroupID,
		SourceOwnerKey: m.SourceOwnerKey,
		UpdatedAt:      m.MDate,
	}
}

func subscriptionToDomain(m models.GroupSubscription) domain.GroupSubscription {
	return domain.GroupSubscription{
		UserKey:       m.UserKey,
		GroupID:       m.GroupID,
		Status:        domain.SubscriptionStatus(m.Status),
		ClonedGroupID: m.ClonedGroupID,
		UpdatedAt:     m.MDate,
	}
}

func (r *GroupRepository) Get(ctx context.Context, id string) (domain.Group, error) {
	var m models.Group
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Group{}, domain.NotFoundError{Resource: "group"}
		}
		return domain.Group{}, err
	}
	return groupToDomain(m), nil
}

// Upsert creates the group when the (owner, name) pair is unknown and
// otherwise replaces its tree, bumping the version so subscribers can tell
// their copy went stale.
func (r *GroupRepository) Upsert(ctx context.Context, group domain.Group) (domain.Group, domain.UpsertOutcome, error) {
	outcome := domain.UpsertUpdated
	var saved models.Group

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("name = ?", group.Name)
		if group.OwnerKey == nil {
			query = query.Where("owner_key IS NULL")
		} else {
			query = query.Where("owner_key = ?", *group.OwnerKey)
		}

		var existing models.Group
		err := query.Take(&existing).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			outcome = domain.UpsertCreated
			saved = models.Group{
				ID:             uuid.NewString(),
				OwnerKey:       group.OwnerKey,
				Name:           group.Name,
				Tree:           encodeTree(group.Tree),
				Public:         group.Public,
				AutoInclude:    group.AutoInclude,
				Description:    group.Description,
				Version:        1,
				SourceGroupID:  group.SourceGroupID,
				SourceOwnerKey: group.SourceOwnerKey,
				MDate:          time.Now().UTC(),
			}
			createErr := tx.Create(&saved).Error
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return domain.ConflictError{Resource: "group"}
			}
			return createErr
		}

		saved = existing
		saved.Name = group.Name
		saved.Tree = encodeTree(group.Tree)
		saved.Public = group.Public
		saved.AutoInclude = group.AutoInclude
		saved.Description = group.Description
		saved.Version = existing.Version + 1
		saved.MDate = time.Now().UTC()
		return tx.Model(&models.Group{}).
			Where("id = ?", existing.ID).
			Updates(map[string]any{
				"name":         saved.Name,
				"tree":         saved.Tree,
				"public":       saved.Public,
				"auto_include": saved.AutoInclude,
				"description":  saved.Description,
				"version":      saved.Version,
				"m_date":       saved.MDate,
			}).Error
	})
	if err != nil {
		return domain.Group{}, "", err
	}
	return groupToDomain(saved), outcome, nil
}

func (r *GroupRepository) Delete(ctx context.Context, ownerKey, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_key = ?", id, ownerKey).
		Delete(&models.Group{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "group"}
	}
	return nil
}

func (r *GroupRepository) ListOwned(ctx context.Context, ownerKey string) ([]domain.Group, error) {
	var rows []models.Group
	err := r.db.WithContext(ctx).
		Where("owner_key = ?", ownerKey).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Group, 0, len(rows))
	for _, m := range rows {
		out = append(out, groupToDomain(m))
	}
	return out, nil
}

func (r *GroupRepository) ListPublic(ctx context.Context) ([]domain.Group, error) {
	var rows []models.Group
	err := r.db.WithContext(ctx).
		Where("public = ?", true).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Group, 0, len(rows))
	for _, m := range rows {
		out = append(out, groupToDomain(m))
	}
	return out, nil
}

func (r *GroupRepository) GetSubscription(ctx context.Context, userKey, groupID string) (domain.GroupSubscription, error) {
	var m models.GroupSubscription
	err := r.db.WithContext(ctx).
		Where("user_key = ? AND group_id = ?", userKey, groupID).
		Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.GroupSubscription{}, domain.NotFoundError{Resource: "subscription"}
		}
		return domain.GroupSubscription{}, err
	}
	return subscriptionToDomain(m), nil
}

// AcceptClone materializes the user's private copy of a public group and
// stamps the subscription accepted, all in one transaction. The clone keeps
// the source's authoring tree verbatim and gets a collision-free name.
func (r *GroupRepository) AcceptClone(ctx context.Context, source domain.Group, userKey string) (domain.Group, error) {
	var clone models.Group

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		name := hubfolio.NextCloneName(source.Name, func(candidate string) bool {
			var count int64
			tx.Model(&models.Group{}).
				Where("owner_key = ? AND name = ?", userKey, candidate).
				Count(&count)
			return count > 0
		})

		now := time.Now().UTC()
		seed := domain.CloneGroup(source, userKey, name)
		clone = models.Group{
			ID:             uuid.NewString(),
			OwnerKey:       seed.OwnerKey,
			Name:           seed.Name,
			Tree:           encodeTree(seed.Tree),
			Public:         seed.Public,
			AutoInclude:    seed.AutoInclude,
			Description:    seed.Description,
			Version:        seed.Version,
			SourceGroupID:  seed.SourceGroupID,
			SourceOwnerKey: seed.SourceOwnerKey,
			MDate:          now,
		}
		if err := tx.Create(&clone).Error; err != nil {
			return err
		}

		subscription := models.GroupSubscription{
			UserKey:       userKey,
			GroupID:       source.ID,
			Status:        string(domain.SubscriptionAccepted),
			ClonedGroupID: &clone.ID,
			MDate:         now,
		}
		return tx.Omit("Group").Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_key"}, {Name: "group_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"status":          subscription.Status,
				"cloned_group_id": subscription.ClonedGroupID,
				"m_date":          now,
			}),
		}).Create(&subscription).Error
	})
	if err != nil {
		return domain.Group{}, err
	}
	return groupToDomain(clone), nil
}
