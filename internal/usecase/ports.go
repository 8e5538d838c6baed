package usecase

import (
	"context"
	"time"

	"github.com/hubfolio/hubfolio/internal/domain"
)

// DocumentRepository defines storage operations for page documents, keyed by
// (owner, slug).
type DocumentRepository interface {
	Get(ctx context.Context, ownerKey, slug string) (domain.Document, error)
	Upsert(ctx context.Context, doc domain.Document) (domain.UpsertOutcome, error)
	ListByPrefix(ctx context.Context, ownerKey, prefix string) ([]domain.Document, error)
}

// GroupRepository defines storage operations for reusable groups and their
// subscriptions. AcceptClone runs the whole clone as one transaction.
type GroupRepository interface {
	Get(ctx context.Context, id string) (domain.Group, error)
	Upsert(ctx context.Context, group domain.Group) (domain.Group, domain.UpsertOutcome, error)
	Delete(ctx context.Context, ownerKey, id string) error
	ListOwned(ctx context.Context, ownerKey string) ([]domain.Group, error)
	ListPublic(ctx context.Context) ([]domain.Group, error)
	GetSubscription(ctx context.Context, userKey, groupID string) (domain.GroupSubscription, error)
	AcceptClone(ctx context.Context, source domain.Group, userKey string) (domain.Group, error)
}

// AppRepository defines storage operations for apps. DeleteCascade and
// SyncFromTemplate are transactional multi-writes.
type AppRepository interface {
	Get(ctx context.Context, id string) (domain.App, error)
	Create(ctx context.Context, app domain.App) (domain.App, error)
	List(ctx context.Context, ownerKey string) ([]domain.App, error)
	FindOwning(ctx context.Context, ownerKey, slug string) (domain.App, error)
	BumpTemplateVersion(ctx context.Context, id string, at time.Time) error
	DeleteCascade(ctx context.Context, app domain.App) error
	SyncFromTemplate(ctx context.Context, source, dest domain.App, overwrite bool) (domain.SyncReport, error)
}

// VariableRepository defines storage for per-user template variables.
type VariableRepository interface {
	Upsert(ctx context.Context, v domain.Variable) (domain.UpsertOutcome, error)
	List(ctx context.Context, userKey string) ([]domain.Variable, error)
	Delete(ctx context.Context, userKey, key string) error
	Map(ctx context.Context, userKey string) (map[string]string, error)
}

// ReportRepository aggregates per-owner counts for the back office.
type ReportRepository interface {
	OwnerReport(ctx context.Context) ([]domain.OwnerReport, error)
}
