// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package location

import (
	"context"

	"github.com/taibuivan/pinpoint/internal/platform/apperr"
	"github.com/taibuivan/pinpoint/internal/platform/dberr"
	"github.com/taibuivan/pinpoint/internal/platform/postgres"
)

type PostgresRepository struct {
	db postgres.Querier
}

func NewRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `location_id, name, address, latitude, longitude, created_at, updated_at`

func (repository *PostgresRepository) List(ctx context.Context, search string, limit, offset int) ([]Location, int, error) {
	const query = `
		SELECT ` + selectColumns + `, count(*) OVER ()
		FROM core.location
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT $2 OFFSET $3`

	rows, err := repository.db.Query(ctx, query, search, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list locations")
	}
	defer rows.Close()

	locations := []Location{}
	total := 0
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &l.Latitude, &l.Longitude, &l.CreatedAt, &l.UpdatedAt, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan location")
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list locations")
	}

	return locations, total, nil
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id int64) (*Location, error) {
	const query = `SELECT ` + selectColumns + ` FROM core.location WHERE location_id = $1`

	l := &Location{}
	err := repository.db.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.Name, &l.Address, &l.Latitude, &l.Longitude, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find location", dberr.WithNotFound("Location"))
	}
	return l, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, l *Location) error {
	const query = `
		INSERT INTO core.location (name, address, latitude, longitude)
		VALUES ($1, $2, $3, $4)
		RETURNING location_id, created_at, updated_at`

	err := repository.db.QueryRow(ctx, query, l.Name, l.Address, l.Latitude, l.Longitude).
		Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create location", dberr.WithConflict(msgNameTaken))
	}
	return nil
}

func (repository *PostgresRepository) Update(ctx context.Context, l *Location) error {
	const query = `
		UPDATE core.location
		SET name = $2, address = $3, latitude = $4, longitude = $5, updated_at = now()
		WHERE location_id = $1
		RETURNING created_at, updated_at`

	err := repository.db.QueryRow(ctx, query, l.ID, l.Name, l.Address, l.Latitude, l.Longitude).
		Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "update location",
			dberr.WithNotFound("Location"), dberr.WithConflict(msgNameTaken))
	}
	return nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := repository.db.Exec(ctx, `DELETE FROM core.location WHERE location_id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "delete location")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Location")
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
