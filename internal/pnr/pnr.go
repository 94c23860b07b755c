// Package pnr resolves a Passenger Name Record to passenger travel
// details. The production system would call a railway reservation
// API; the Source interface keeps that boundary injectable so the
// shipped SyntheticSource demo stub can be swapped out without
// touching the login handler.
package pnr

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidPNR is returned when the PNR is not exactly 10 digits.
var ErrInvalidPNR = errors.New("invalid PNR: must be exactly 10 digits")

// Record holds the passenger details attached to a PNR.
type Record struct {
	PNR         string `json:"pnr"`
	Name        string `json:"name"`
	Coach       string `json:"coach"`
	Seat        string `json:"seat"`
	TrainNumber string `json:"train_number"`
}

// Source looks up passenger details for a PNR. Implementations must
// return ErrInvalidPNR for malformed input.
type Source interface {
	Lookup(ctx context.Context, pnr string) (Record, error)
}

// Validate checks that the PNR is exactly 10 ASCII digits.
func Validate(pnr string) error {
	if len(pnr) != 10 {
		return ErrInvalidPNR
	}
	for _, r := range pnr {
		if r < '0' || r > '9' {
			return ErrInvalidPNR
		}
	}
	return nil
}

// SyntheticSource derives passenger details deterministically from
// the PNR digits. The same PNR always resolves to the same record,
// which makes demo logins repeatable without a reservation backend.
type SyntheticSource struct{}

var names = []string{
	"Rajesh Kumar", "Priya Sharma", "Amit Patel", "Sunita Devi",
	"Vikram Singh", "Anjali Gupta", "Ramesh Iyer", "Kavita Nair",
	"Suresh Reddy", "Meena Joshi", "Arjun Das", "Lakshmi Menon",
}

var coaches = []string{
	"S1", "S2", "S3", "S4", "S5", "S6", "S7", "S8",
	"B1", "B2", "B3", "A1",
}

// Lookup synthesizes a Record from the PNR digits. It never fails
// for a well-formed PNR.
func (SyntheticSource) Lookup(_ context.Context, pnr string) (Record, error) {
	if err := Validate(pnr); err != nil {
		return Record{}, err
	}
	sum := 0
	for _, r := range pnr {
		sum += int(r - '0')
	}
	// First four digits pick the train, last two the berth; the digit
	// sum picks name and coach so nearby PNRs still differ visibly.
	head := digits(pnr[:4])
	tail := digits(pnr[8:])
	return Record{
		PNR:         pnr,
		Name:        names[sum%len(names)],
		Coach:       coaches[(sum+head)%len(coaches)],
		Seat:        fmt.Sprintf("%d", 1+tail%72),
		TrainNumber: fmt.Sprintf("1%04d", head),
	}, nil
}

// digits parses a run of ASCII digits as an int. Callers validate
// the input first.
func digits(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
