// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/pinpoint/internal/platform/ctxutil"
	"github.com/taibuivan/pinpoint/internal/platform/sec"
	"github.com/taibuivan/pinpoint/internal/platform/validate"
	"github.com/taibuivan/pinpoint/pkg/pointer"
)

// # Service Layer

// Service orchestrates user administration.
type Service struct {
	repository Repository
}

// NewService constructs an account [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// List returns one page of accounts and the total count.
func (service *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]Account, int, error) {
	validator := &validate.Validator{}
	for _, status := range filter.Statuses {
		validator.OneOf(FieldStatus, status, StatusPending, StatusActive, StatusInactive)
	}
	if err := validator.Err(); err != nil {
		return nil, 0, err
	}
	return service.repository.List(ctx, filter, limit, offset)
}

// Get returns one account.
func (service *Service) Get(ctx context.Context, id int64) (*Account, error) {
	return service.repository.FindByID(ctx, id)
}

/*
Create provisions a new account.

Description: Usernames are emails, stored lower-cased. Status defaults to
pending; the first login activates the account.

Returns:
  - *Account: Stored entity
  - error: 400 validation or unknown role, 409 duplicate username
*/
func (service *Service) Create(ctx context.Context, input CreateInput) (*Account, error) {
	account := &Account{
		Username: sec.NormalizeUsername(input.Username),
		Name:     strings.TrimSpace(input.Name),
		Status:   pointer.Val(input.Status),
		RoleID:   input.RoleID,
	}
	if account.Status == "" {
		account.Status = StatusPending
	}

	if err := validateAccount(account); err != nil {
		return nil, err
	}

	var created *Account
	err := service.repository.InTx(ctx, func(tx Repository) error {
		if err := tx.Create(ctx, account); err != nil {
			return err
		}
		var err error
		created, err = tx.FindByID(ctx, account.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "account_created",
		slog.Int64("account_id", created.ID),
		slog.String("status", created.Status),
	)
	return created, nil
}

/*
Update applies a partial change.

Description: Moving an account to inactive deletes all its sessions in the
same transaction as the status write.
*/
func (service *Service) Update(ctx context.Context, id int64, input UpdateInput) (*Account, error) {
	var updated *Account
	var revoked int64

	err := service.repository.InTx(ctx, func(tx Repository) error {
		account, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		previousStatus := account.Status

		if input.Username != nil {
			account.Username = sec.NormalizeUsername(*input.Username)
		}
		if input.Name != nil {
			account.Name = strings.TrimSpace(*input.Name)
		}
		if input.Status != nil {
			account.Status = *input.Status
		}
		if input.RoleID.Set {
			account.RoleID = input.RoleID.Value
		}

		if err := validateAccount(account); err != nil {
			return err
		}
		if err := tx.Update(ctx, account); err != nil {
			return err
		}

		if account.Status == StatusInactive && previousStatus != StatusInactive {
			if revoked, err = tx.RevokeSessions(ctx, id); err != nil {
				return err
			}
		}

		updated, err = tx.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "account_updated",
		slog.Int64("account_id", id),
		slog.String("status", updated.Status),
		slog.Int64("sessions_revoked", revoked),
	)
	return updated, nil
}

// RevokeSessions signs a user out everywhere. Unknown users are a 404.
func (service *Service) RevokeSessions(ctx context.Context, id int64) error {
	return service.repository.InTx(ctx, func(tx Repository) error {
		if _, err := tx.FindByID(ctx, id); err != nil {
			return err
		}
		revoked, err := tx.RevokeSessions(ctx, id)
		if err != nil {
			return err
		}
		ctxutil.GetLogger(ctx).InfoContext(ctx, "account_sessions_revoked",
			slog.Int64("account_id", id),
			slog.Int64("sessions_revoked", revoked),
		)
		return nil
	})
}

func validateAccount(account *Account) error {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, account.Username).
		Email(FieldUsername, account.Username).
		MaxLen(FieldUsername, account.Username, 254).
		Required(FieldName, account.Name).
		MaxLen(FieldName, account.Name, 200).
		OneOf(FieldStatus, account.Status, StatusPending, StatusActive, StatusInactive)

	if account.RoleID != nil {
		validator.Positive(FieldRoleID, *account.RoleID)
	}

	return validator.Err()
}
