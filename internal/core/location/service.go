// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package location

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/pinpoint/internal/platform/ctxutil"
	"github.com/taibuivan/pinpoint/internal/platform/validate"
	"github.com/taibuivan/pinpoint/pkg/pointer"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (service *Service) List(ctx context.Context, search string, limit, offset int) ([]Location, int, error) {
	return service.repo.List(ctx, strings.TrimSpace(search), limit, offset)
}

func (service *Service) Get(ctx context.Context, id int64) (*Location, error) {
	return service.repo.FindByID(ctx, id)
}

func (service *Service) Create(ctx context.Context, input Input) (*Location, error) {
	location := fromInput(input)
	if err := validateLocation(location); err != nil {
		return nil, err
	}

	if err := service.repo.Create(ctx, location); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "location_created", slog.Int64("location_id", location.ID))
	return location, nil
}

// Update replaces every mutable field.
func (service *Service) Update(ctx context.Context, id int64, input Input) (*Location, error) {
	location := fromInput(input)
	location.ID = id
	if err := validateLocation(location); err != nil {
		return nil, err
	}

	if err := service.repo.Update(ctx, location); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "location_updated", slog.Int64("location_id", id))
	return location, nil
}

func (service *Service) Delete(ctx context.Context, id int64) error {
	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}
	ctxutil.GetLogger(ctx).InfoContext(ctx, "location_deleted", slog.Int64("location_id", id))
	return nil
}

func fromInput(input Input) *Location {
	location := &Location{
		Name:      strings.TrimSpace(input.Name),
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	}
	if input.Address != nil {
		location.Address = pointer.NilIfZero(strings.TrimSpace(*input.Address))
	}
	return location
}

func validateLocation(location *Location) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, location.Name).
		MaxLen(FieldName, location.Name, 200).
		MaxLen(FieldAddress, pointer.Val(location.Address), 500).
		Custom(FieldLatitude, (location.Latitude == nil) != (location.Longitude == nil),
			"Latitude and longitude must be given together").
		Custom(FieldLatitude, location.Latitude != nil && (*location.Latitude < -90 || *location.Latitude > 90),
			"Must be between -90 and 90").
		Custom(FieldLongitude, location.Longitude != nil && (*location.Longitude < -180 || *location.Longitude > 180),
			"Must be between -180 and 180")
	return validator.Err()
}
