package model

import "time"

// Booking lifecycle states. Transitions are strictly
// PENDING → ACCEPTED → COMPLETED; terminal states never move again.
// CoolieID and CompletionPIN are null while PENDING and are written
// exactly once on the transition to ACCEPTED. IsPaid becomes true
// only at COMPLETED.
const (
	BookingPending   = "PENDING"
	BookingAccepted  = "ACCEPTED"
	BookingCompleted = "COMPLETED"
)

// Luggage classes. The class sets the minimum fare; see the fare
// package for the formula.
const (
	LuggageLight  = "LIGHT"
	LuggageMedium = "MEDIUM"
	LuggageHeavy  = "HEAVY"
)

// Booking records a passenger's request for porter service on a
// platform. A booking is owned by its passenger and referenced by
// at most one coolie at a time.
//
// Fields:
//  ID             – primary key identifier.
//  PassengerID    – passenger who created the booking.
//  CoolieID       – assigned coolie (null while PENDING).
//  TrainNumber    – train the passenger arrives on.
//  PlatformNumber – platform where the luggage is picked up.
//  LuggageType    – LIGHT, MEDIUM or HEAVY.
//  Weight         – luggage weight in kilograms.
//  Fare           – agreed fare, fixed at creation time.
//  Status         – PENDING, ACCEPTED or COMPLETED.
//  CompletionPIN  – 3-digit code confirming completion (null while PENDING).
//  IsPaid         – whether the fare has been settled.
//  StationCode    – optional station where the service happens.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Booking struct {
	ID             uint64    // bookings.id
	PassengerID    uint64    // bookings.passenger_id
	CoolieID       *uint64   // bookings.coolie_id (nullable)
	TrainNumber    string    // bookings.train_number
	PlatformNumber int       // bookings.platform_number
	LuggageType    string    // bookings.luggage_type
	Weight         float64   // bookings.weight
	Fare           float64   // bookings.fare
	Status         string    // bookings.status
	CompletionPIN  *string   // bookings.completion_pin (nullable)
	IsPaid         bool      // bookings.is_paid
	StationCode    *string   // bookings.station_code (nullable)
	CreatedAt      time.Time // bookings.created_at
	UpdatedAt      time.Time // bookings.updated_at
}
