package model

import "time"

// Passenger is the travelling party that books porter service. A
// passenger row is created either on email/password signup or on
// first PNR login; in the latter case UserID stays null until the
// PNR is bound to a demo account.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owning account (nullable for unbound PNR records).
//  Name      – display name.
//  Phone     – contact phone number.
//  PNR       – reservation reference used as a login token (nullable).
//  CreatedAt – timestamp of creation.
type Passenger struct {
	ID        uint64    // passengers.id
	UserID    *uint64   // passengers.user_id (nullable)
	Name      string    // passengers.name
	Phone     string    // passengers.phone
	PNR       *string   // passengers.pnr (nullable)
	CreatedAt time.Time // passengers.created_at
}
