// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/pinpoint/internal/platform/migration"
)

/*
TestToPgx5DSN covers the scheme rewrite required by the pgx/v5 migrate driver.
*/
func TestToPgx5DSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@db:5432/pinpoint", "pgx5://u:p@db:5432/pinpoint"},
		{"postgresql://db/pinpoint?sslmode=disable", "pgx5://db/pinpoint?sslmode=disable"},
		{"pgx5://db/pinpoint", "pgx5://db/pinpoint"},
		{"host=db dbname=pinpoint", "host=db dbname=pinpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, migration.ToPgx5DSN(tt.in))
		})
	}
}
