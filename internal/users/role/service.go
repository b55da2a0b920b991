// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package role

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/taibuivan/pinpoint/internal/platform/ctxutil"
	"github.com/taibuivan/pinpoint/internal/platform/validate"
)

// Service orchestrates role administration.
type Service struct {
	repository Repository
}

// NewService constructs a role [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// List returns every role ordered by name.
func (service *Service) List(ctx context.Context) ([]Role, error) {
	roles, err := service.repository.List(ctx)
	if err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []Role{}
	}
	return roles, nil
}

// Get returns one role.
func (service *Service) Get(ctx context.Context, id int64) (*Role, error) {
	return service.repository.FindByID(ctx, id)
}

/*
Create inserts a role and its permission set in one transaction.

Returns:
  - *Role: The stored role, permissions ordered by name
  - error: 400 validation or unknown permission, 409 duplicate name
*/
func (service *Service) Create(ctx context.Context, input CreateInput) (*Role, error) {
	role := &Role{
		Name:         strings.TrimSpace(input.Name),
		DefaultRoute: input.DefaultRoute,
	}
	permissionIDs := normalizeIDs(input.PermissionIDs)

	if err := validateRole(role, permissionIDs); err != nil {
		return nil, err
	}

	var created *Role
	err := service.repository.InTx(ctx, func(tx Repository) error {
		if err := tx.Create(ctx, role); err != nil {
			return err
		}
		if err := tx.ReplacePermissions(ctx, role.ID, permissionIDs); err != nil {
			return err
		}

		var err error
		created, err = tx.FindByID(ctx, role.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "role_created",
		slog.Int64("role_id", created.ID),
		slog.Int("permissions", len(created.Permissions)),
	)
	return created, nil
}

/*
Update applies a partial change. A supplied permission list replaces the
whole set within the same transaction as the row update.
*/
func (service *Service) Update(ctx context.Context, id int64, input UpdateInput) (*Role, error) {
	var updated *Role
	err := service.repository.InTx(ctx, func(tx Repository) error {
		role, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if input.Name != nil {
			role.Name = strings.TrimSpace(*input.Name)
		}
		if input.DefaultRoute != nil {
			role.DefaultRoute = input.DefaultRoute
		}

		var permissionIDs []int64
		if input.PermissionIDs != nil {
			permissionIDs = normalizeIDs(*input.PermissionIDs)
		}
		if err := validateRole(role, permissionIDs); err != nil {
			return err
		}

		if err := tx.Update(ctx, role); err != nil {
			return err
		}
		if input.PermissionIDs != nil {
			if err := tx.ReplacePermissions(ctx, role.ID, permissionIDs); err != nil {
				return err
			}
		}

		updated, err = tx.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "role_updated", slog.Int64("role_id", id))
	return updated, nil
}

// Delete removes a role.
func (service *Service) Delete(ctx context.Context, id int64) error {
	if err := service.repository.Delete(ctx, id); err != nil {
		return err
	}
	ctxutil.GetLogger(ctx).InfoContext(ctx, "role_deleted", slog.Int64("role_id", id))
	return nil
}

func validateRole(role *Role, permissionIDs []int64) error {
	validator := &validate.Validator{}
	validator.Required(FieldRoleName, role.Name).
		MaxLen(FieldRoleName, role.Name, 100)

	if role.DefaultRoute != nil {
		validator.Custom(FieldDefaultRoute, !strings.HasPrefix(*role.DefaultRoute, "/"), "Must start with /").
			MaxLen(FieldDefaultRoute, *role.DefaultRoute, 200)
	}

	validator.Custom(FieldPermissionIDs, slices.ContainsFunc(permissionIDs, func(id int64) bool { return id <= 0 }), msgUnknownPermission)

	return validator.Err()
}

// normalizeIDs sorts and deduplicates; nil stays nil.
func normalizeIDs(ids []int64) []int64 {
	if ids == nil {
		return nil
	}
	normalized := slices.Clone(ids)
	slices.Sort(normalized)
	return slices.Compact(normalized)
}
