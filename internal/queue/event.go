// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCompletedEvent is published when a booking is completed and
// paid. It carries enough for downstream consumers to log, notify or
// feed analytics without querying the primary database.
type BookingCompletedEvent struct {
	BookingID      uint64  `json:"booking_id"`
	PassengerID    uint64  `json:"passenger_id"`
	CoolieID       uint64  `json:"coolie_id"`
	TrainNumber    string  `json:"train_number"`
	PlatformNumber int     `json:"platform_number"`
	LuggageType    string  `json:"luggage_type"`
	Weight         float64 `json:"weight"`
	Fare           float64 `json:"fare"`
	CompletedAt    string  `json:"completed_at"`
}
