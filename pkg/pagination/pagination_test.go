// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/pinpoint/pkg/pagination"
)

/*
TestFromRequest covers defaults and clamping.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		want   pagination.Params
		offset int
	}{
		{"defaults", "", pagination.Params{Page: 1, Limit: 50}, 0},
		{"explicit", "?page=3&limit=10", pagination.Params{Page: 3, Limit: 10}, 20},
		{"garbage", "?page=x&limit=y", pagination.Params{Page: 1, Limit: 50}, 0},
		{"negative", "?page=-2&limit=-5", pagination.Params{Page: 1, Limit: 50}, 0},
		{"over_max", "?limit=5000", pagination.Params{Page: 1, Limit: 200}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := pagination.FromRequest(httptest.NewRequest(http.MethodGet, "/users"+tt.query, nil))
			assert.Equal(t, tt.want, params)
			assert.Equal(t, tt.offset, params.Offset())
		})
	}
}

/*
TestWriteHeaders verifies the total headers.
*/
func TestWriteHeaders(t *testing.T) {
	recorder := httptest.NewRecorder()
	pagination.Params{Page: 1, Limit: 20}.WriteHeaders(recorder, 41)

	assert.Equal(t, "41", recorder.Header().Get(pagination.HeaderTotalCount))
	assert.Equal(t, "3", recorder.Header().Get(pagination.HeaderTotalPages))
}
