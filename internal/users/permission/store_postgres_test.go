// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package permission_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pinpoint/internal/users/permission"
)

const userPermissionsQuery = `SELECT DISTINCT lower\(p\.permission\) FROM users\.account u ` +
	`JOIN users\.role_permission rp ON rp\.role_id = u\.role_id ` +
	`JOIN users\.permission p ON p\.permission_id = rp\.permission_id ` +
	`WHERE u\.user_id = \$1 AND p\.permission IS NOT NULL`

func newMockRepository(t *testing.T) (pgxmock.PgxPoolIface, *permission.PostgresRepository) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, permission.NewRepository(mock)
}

/*
TestPostgresUserPermissions_Query pins the inner joins and the case folding
done in SQL.
*/
func TestPostgresUserPermissions_Query(t *testing.T) {
	mock, repository := newMockRepository(t)

	mock.ExpectQuery(userPermissionsQuery).
		WithArgs(int64(7)).
		WillReturnRows(mock.NewRows([]string{"permission"}).
			AddRow("location.view").
			AddRow("location.edit"))

	names, err := repository.UserPermissions(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, []string{"location.view", "location.edit"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestPostgresUserPermissions_NoRole checks that a user the joins drop resolves
to an empty grant, not an error.
*/
func TestPostgresUserPermissions_NoRole(t *testing.T) {
	mock, repository := newMockRepository(t)

	mock.ExpectQuery(userPermissionsQuery).
		WithArgs(int64(8)).
		WillReturnRows(mock.NewRows([]string{"permission"}))

	resolver := permission.NewResolver(repository)
	names, err := resolver.ListPermissions(context.Background(), 8)

	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestPostgresUserPermissions_Failure checks that driver errors surface wrapped
so the gate fails closed.
*/
func TestPostgresUserPermissions_Failure(t *testing.T) {
	mock, repository := newMockRepository(t)
	cause := errors.New("connection reset")

	mock.ExpectQuery(userPermissionsQuery).
		WithArgs(int64(9)).
		WillReturnError(cause)

	names, err := repository.UserPermissions(context.Background(), 9)

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "postgres_permission_repo_user_permissions_failed")
	assert.Nil(t, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestPostgresList_Ordered checks the catalog query and row mapping.
*/
func TestPostgresList_Ordered(t *testing.T) {
	mock, repository := newMockRepository(t)

	mock.ExpectQuery(`SELECT permission_id, permission FROM users\.permission ORDER BY permission`).
		WillReturnRows(mock.NewRows([]string{"permission_id", "permission"}).
			AddRow(int64(2), "location.edit").
			AddRow(int64(1), "location.view"))

	permissions, err := repository.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []permission.Permission{
		{ID: 2, Permission: "location.edit"},
		{ID: 1, Permission: "location.view"},
	}, permissions)
	assert.NoError(t, mock.ExpectationsWereMet())
}
