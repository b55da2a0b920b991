// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package location

import "context"

type Repository interface {
	// List returns one page ordered by name plus the total match count.
	// An empty search matches everything.
	List(ctx context.Context, search string, limit, offset int) ([]Location, int, error)
	FindByID(ctx context.Context, id int64) (*Location, error)
	Create(ctx context.Context, location *Location) error
	Update(ctx context.Context, location *Location) error
	Delete(ctx context.Context, id int64) error
}
