package model

import "time"

// Coolie is the porter who carries luggage for a fare. IsAvailable
// is the single contended flag in the system: it flips to false when
// a booking claims the coolie and back to true on completion or a
// manual toggle. Only KYC-verified coolies are eligible for
// assignment.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – owning account.
//  Name        – display name.
//  Phone       – contact phone number.
//  IsAvailable – whether the coolie can take a new booking.
//  KYCVerified – whether identity verification has passed.
//  Earnings    – accumulated completed fares.
//  CreatedAt   – timestamp of creation.
type Coolie struct {
	ID          uint64    // coolies.id
	UserID      uint64    // coolies.user_id
	Name        string    // coolies.name
	Phone       string    // coolies.phone
	IsAvailable bool      // coolies.is_available
	KYCVerified bool      // coolies.kyc_verified
	Earnings    float64   // coolies.earnings
	CreatedAt   time.Time // coolies.created_at
}
