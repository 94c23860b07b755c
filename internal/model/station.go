package model

import "time"

// Station is read-only reference data describing a railway station.
// Stations are managed by admins and looked up by clients when
// creating a booking; the core flows never mutate them.
//
// Fields:
//  ID        – primary key identifier.
//  Code      – short station code (e.g. "NDLS").
//  Name      – full station name.
//  Location  – free-form city/region text (nullable).
//  CreatedAt – timestamp of creation.
type Station struct {
	ID        uint64    // stations.id
	Code      string    // stations.code
	Name      string    // stations.name
	Location  *string   // stations.location (nullable)
	CreatedAt time.Time // stations.created_at
}
