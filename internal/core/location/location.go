// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package location

import "time"

const (
	ViewLocations   = "view locations"
	ManageLocations = "manage locations"
)

const (
	FieldName      = "name"
	FieldAddress   = "address"
	FieldLatitude  = "latitude"
	FieldLongitude = "longitude"

	msgNameTaken = "Location name already exists"
)

// Location is a named place operations are tracked against.
type Location struct {
	ID        int64     `json:"location_id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Input struct {
	Name      string   `json:"name"`
	Address   *string  `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}
