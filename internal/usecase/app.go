package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/hubfolio/hubfolio"
	"github.com/hubfolio/hubfolio/internal/domain"
)

type AppUsecase struct {
	apps AppRepository
}

func NewAppUsecase(apps AppRepository) *AppUsecase {
	return &AppUsecase{apps: apps}
}

type CreateAppInput struct {
	OwnerKey       string
	Name           string
	Slug           string
	IsTemplate     bool
	Visibility     domain.AppVisibility
	TemplateSource *string
}

func (uc *AppUsecase) Create(ctx context.Context, input CreateAppInput) (domain.App, error) {
	if input.OwnerKey == "" {
		return domain.App{}, domain.ValidationError{Message: "owner key is empty"}
	}
	if strings.TrimSpace(input.Name) == "" {
		return domain.App{}, domain.ValidationError{Message: "app name is empty"}
	}
	if err := hubfolio.ValidateSlug(input.Slug); err != nil {
		return domain.App{}, domain.ValidationError{Message: err.Error()}
	}
	visibility := input.Visibility
	if visibility == "" {
		visibility = domain.AppVisibilityPrivate
	}
	if visibility != domain.AppVisibilityPublic && visibility != domain.AppVisibilityPrivate {
		return domain.App{}, domain.ValidationError{Message: "invalid visibility"}
	}

	return uc.apps.Create(ctx, domain.App{
		ID:             uuid.NewString(),
		OwnerKey:       input.OwnerKey,
		Name:           input.Name,
		Slug:           input.Slug,
		IsTemplate:     input.IsTemplate,
		Visibility:     visibility,
		TemplateSource: input.TemplateSource,
	})
}

func (uc *AppUsecase) List(ctx context.Context, ownerKey string) ([]domain.App, error) {
	return uc.apps.List(ctx, ownerKey)
}

// Delete removes the app together with every document under its slug
// prefix, the bare-slug home document included, as one atomic unit.
func (uc *AppUsecase) Delete(ctx context.Context, ownerKey, id string) error {
	app, err := uc.apps.Get(ctx, id)
	if err != nil {
		return err
	}
	if app.OwnerKey != ownerKey {
		return domain.NotFoundError{Resource: "app"}
	}
	return uc.apps.DeleteCascade(ctx, app)
}

// Sync pulls the destination app's template page set in: absent pages are
// created, existing ones skipped or overwritten depending on the flag.
func (uc *AppUsecase) Sync(ctx context.Context, ownerKey, id string, overwrite bool) (domain.SyncReport, error) {
	dest, err := uc.apps.Get(ctx, id)
	if err != nil {
		return domain.SyncReport{}, err
	}
	if dest.OwnerKey != ownerKey {
		return domain.SyncReport{}, domain.NotFoundError{Resource: "app"}
	}
	if dest.TemplateSource == nil {
		return domain.SyncReport{}, domain.ValidationError{Message: "app has no template source"}
	}

	source, err := uc.apps.Get(ctx, *dest.TemplateSource)
	if err != nil {
		return domain.SyncReport{}, err
	}
	if !source.IsTemplate || source.Visibility != domain.AppVisibilityPublic {
		return domain.SyncReport{}, domain.ValidationError{Message: "source app is not a public template"}
	}

	return uc.apps.SyncFromTemplate(ctx, source, dest, overwrite)
}
