package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/hubfolio/hubfolio"
	"github.com/hubfolio/hubfolio/internal/domain"
)

type GroupUsecase struct {
	groups GroupRepository
}

func NewGroupUsecase(groups GroupRepository) *GroupUsecase {
	return &GroupUsecase{groups: groups}
}

// GroupUpsertInput carries one group save. Groups are keyed by
// (owner, name): saving an existing name bumps the version instead of
// creating a duplicate.
type GroupUpsertInput struct {
	OwnerKey    *string
	Name        string
	Tree        any
	Public      bool
	AutoInclude bool
	Description string
}

func (uc *GroupUsecase) Upsert(ctx context.Context, input GroupUpsertInput) (domain.Group, domain.UpsertOutcome, error) {
	if strings.TrimSpace(input.Name) == "" {
		return domain.Group{}, "", domain.ValidationError{Message: "group name is empty"}
	}
	return uc.groups.Upsert(ctx, domain.Group{
		OwnerKey:    input.OwnerKey,
		Name:        input.Name,
		Tree:        input.Tree,
		Public:      input.Public,
		AutoInclude: input.AutoInclude,
		Description: input.Description,
	})
}

// Accept deep-clones a public group into a private copy owned by userKey
// and records the subscription. Re-accepting while the recorded clone still
// exists returns that clone unchanged; if it was deleted meanwhile, a fresh
// clone is produced.
func (uc *GroupUsecase) Accept(ctx context.Context, userKey, groupID string) (domain.Group, error) {
	if userKey == "" {
		return domain.Group{}, domain.ValidationError{Message: "user key is empty"}
	}

	source, err := uc.groups.Get(ctx, groupID)
	if err != nil {
		return domain.Group{}, err
	}
	if !source.Public {
		return domain.Group{}, domain.ValidationError{Message: "group is not public"}
	}
	if source.OwnerKey != nil && *source.OwnerKey == userKey {
		return domain.Group{}, domain.ValidationError{Message: "cannot accept an owned group"}
	}

	sub, err := uc.groups.GetSubscription(ctx, userKey, groupID)
	if err == nil && sub.Status == domain.SubscriptionAccepted && sub.ClonedGroupID != nil {
		clone, err := uc.groups.Get(ctx, *sub.ClonedGroupID)
		if err == nil {
			return clone, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return domain.Group{}, err
		}
		// clone was deleted, fall through and clone again
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.Group{}, err
	}

	return uc.groups.AcceptClone(ctx, source, userKey)
}

// Subtree returns a sanitized copy of the group's tree, ready to paste into
// a document. Ephemeral editor identifiers are stripped so the pasted copy
// carries no reference back to the source's editor state.
func (uc *GroupUsecase) Subtree(ctx context.Context, requesterKey, id string) (any, error) {
	group, err := uc.groups.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	owned := group.OwnerKey != nil && *group.OwnerKey == requesterKey
	if !group.Public && !owned {
		return nil, domain.NotFoundError{Resource: "group"}
	}

	return hubfolio.Sanitize(group.Tree), nil
}

func (uc *GroupUsecase) Delete(ctx context.Context, ownerKey, id string) error {
	return uc.groups.Delete(ctx, ownerKey, id)
}

func (uc *GroupUsecase) ListOwned(ctx context.Context, ownerKey string) ([]domain.Group, error) {
	return uc.groups.ListOwned(ctx, ownerKey)
}

func (uc *GroupUsecase) ListPublic(ctx context.Context) ([]domain.Group, error) {
	return uc.groups.ListPublic(ctx)
}
