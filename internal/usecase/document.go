package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hubfolio/hubfolio"
	"github.com/hubfolio/hubfolio/internal/domain"
)

type DocumentUsecase struct {
	docs DocumentRepository
	apps AppRepository
	vars VariableRepository
}

func NewDocumentUsecase(docs DocumentRepository, apps AppRepository, vars VariableRepository) *DocumentUsecase {
	return &DocumentUsecase{docs: docs, apps: apps, vars: vars}
}

// SaveInput carries one editor save. A nil Status keeps the document's
// current state; explicit "published" publishes in the same save.
type SaveInput struct {
	OwnerKey string
	Slug     string
	Tree     any
	Status   *domain.DocumentStatus
}

func (uc *DocumentUsecase) Save(ctx context.Context, input SaveInput) (domain.Document, domain.UpsertOutcome, error) {
	if input.OwnerKey == "" {
		return domain.Document{}, "", domain.ValidationError{Message: "owner key is empty"}
	}
	if err := hubfolio.ValidateSlug(input.Slug); err != nil {
		return domain.Document{}, "", domain.ValidationError{Message: err.Error()}
	}
	if input.Status != nil &&
		*input.Status != domain.DocumentStatusDraft &&
		*input.Status != domain.DocumentStatusPublished {
		return domain.Document{}, "", domain.ValidationError{Message: "invalid status"}
	}

	now := time.Now().UTC()

	doc, err := uc.docs.Get(ctx, input.OwnerKey, input.Slug)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return domain.Document{}, "", err
		}
		doc = domain.Document{
			OwnerKey: input.OwnerKey,
			Slug:     input.Slug,
			Status:   domain.DocumentStatusDraft,
		}
	}

	doc.Tree = hubfolio.Normalize(input.Tree)
	doc.UpdatedAt = now

	if input.Status != nil {
		switch *input.Status {
		case domain.DocumentStatusPublished:
			snapshot(&doc, now)
		case domain.DocumentStatusDraft:
			doc.Status = domain.DocumentStatusDraft
		}
	}

	outcome, err := uc.docs.Upsert(ctx, doc)
	if err != nil {
		return domain.Document{}, "", err
	}

	if doc.Status == domain.DocumentStatusPublished && input.Status != nil {
		uc.bumpOwningTemplate(ctx, input.OwnerKey, input.Slug, now)
	}

	return doc, outcome, nil
}

// Publish freezes the current draft tree as the public snapshot.
func (uc *DocumentUsecase) Publish(ctx context.Context, ownerKey, slug string) (domain.Document, error) {
	doc, err := uc.docs.Get(ctx, ownerKey, slug)
	if err != nil {
		return domain.Document{}, err
	}

	now := time.Now().UTC()
	snapshot(&doc, now)
	doc.UpdatedAt = now

	if _, err := uc.docs.Upsert(ctx, doc); err != nil {
		return domain.Document{}, err
	}

	uc.bumpOwningTemplate(ctx, ownerKey, slug, now)

	return doc, nil
}

// Get is the owner-facing read: the draft working copy, whatever the status.
func (uc *DocumentUsecase) Get(ctx context.Context, ownerKey, slug string) (domain.Document, error) {
	return uc.docs.Get(ctx, ownerKey, slug)
}

// GetPublic is the public read path. Only published snapshots are served;
// an absent or unpublished slug degrades to the empty root so first visits
// to a not-yet-built page render cleanly. Variable substitution runs here,
// on every read, so variable edits take effect without republication.
func (uc *DocumentUsecase) GetPublic(ctx context.Context, ownerKey, slug string) (hubfolio.Tree, string, error) {
	doc, err := uc.docs.Get(ctx, ownerKey, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return hubfolio.EmptyTree(), "", nil
		}
		return nil, "", err
	}
	if doc.Status != domain.DocumentStatusPublished || doc.PublishedTree == nil {
		return hubfolio.EmptyTree(), "", nil
	}

	vars, err := uc.vars.Map(ctx, ownerKey)
	if err != nil {
		return nil, "", err
	}

	tree := hubfolio.Normalize(hubfolio.Substitute(doc.PublishedTree, vars))
	return tree, hubfolio.TreeDigest(tree), nil
}

func snapshot(doc *domain.Document, now time.Time) {
	copied, ok := hubfolio.DeepCopy(doc.Tree)
	if !ok {
		copied = hubfolio.EmptyTree()
	}
	doc.PublishedTree = copied
	doc.Digest = hubfolio.TreeDigest(copied)
	doc.Status = domain.DocumentStatusPublished
	at := now
	doc.PublishedAt = &at
}

// Republishing any page of a template app advances the template's version
// counter so downstream apps see a newer version to sync. Best effort; a
// failed bump never fails the publish itself.
func (uc *DocumentUsecase) bumpOwningTemplate(ctx context.Context, ownerKey, slug string, now time.Time) {
	app, err := uc.apps.FindOwning(ctx, ownerKey, slug)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.WarnContext(ctx, "failed to resolve owning app",
				slog.String("error", err.Error()),
				slog.String("module", "document"),
			)
		}
		return
	}
	if !app.IsTemplate {
		return
	}
	if err := uc.apps.BumpTemplateVersion(ctx, app.ID, now); err != nil {
		slog.WarnContext(ctx, "failed to bump template version",
			slog.String("error", err.Error()),
			slog.String("app", app.ID),
			slog.String("module", "document"),
		)
	}
}
