package model

import "strings"

// FuelKind enumerates the fuel types a vehicle can have.
type FuelKind string

const (
	FuelPetrol   FuelKind = "PETROL"
	FuelDiesel   FuelKind = "DIESEL"
	FuelElectric FuelKind = "ELECTRIC"
	FuelHybrid   FuelKind = "HYBRID"
)

// FuelKinds lists every valid fuel kind.
func FuelKinds() []FuelKind {
	return []FuelKind{FuelPetrol, FuelDiesel, FuelElectric, FuelHybrid}
}

// Valid reports whether f is one of the known fuel kinds.
func (f FuelKind) Valid() bool {
	switch f {
	case FuelPetrol, FuelDiesel, FuelElectric, FuelHybrid:
		return true
	}
	return false
}

// ParseFuelKind parses a case-insensitive fuel kind name.
func ParseFuelKind(s string) (FuelKind, bool) {
	f := FuelKind(strings.ToUpper(strings.TrimSpace(s)))
	return f, f.Valid()
}
