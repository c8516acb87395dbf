package roster

import (
	"encoding/json"
	"fmt"

	"github.com/alem-hub/roster-hub/internal/domain/shared"
)

// Availability is the presence of a user or friend. The set is closed.
type Availability uint8

const (
	Online Availability = iota
	Away
	Busy
	Offline
)

var availabilityNames = [...]string{
	Online:  "Online",
	Away:    "Away",
	Busy:    "Busy",
	Offline: "Offline",
}

// String returns the wire name of the availability.
func (a Availability) String() string {
	if int(a) < len(availabilityNames) {
		return availabilityNames[a]
	}
	return availabilityNames[Offline]
}

// IsValid reports whether a is one of the four known values.
func (a Availability) IsValid() bool {
	return a <= Offline
}

// IsOffline reports whether a is Offline. Online, Away and Busy all count as reachable.
func (a Availability) IsOffline() bool {
	return a == Offline
}

// ParseAvailability decodes a wire name. Anything unrecognized decodes to Offline.
func ParseAvailability(s string) Availability {
	a, err := ParseAvailabilityStrict(s)
	if err != nil {
		return Offline
	}
	return a
}

// ParseAvailabilityStrict decodes a wire name and fails on unknown input.
func ParseAvailabilityStrict(s string) (Availability, error) {
	switch s {
	case "Online":
		return Online, nil
	case "Away":
		return Away, nil
	case "Busy":
		return Busy, nil
	case "Offline":
		return Offline, nil
	default:
		return Offline, shared.WrapError("roster", "ParseAvailability", shared.ErrInvalidInput,
			"unknown availability", fmt.Errorf("%q", s))
	}
}

// MarshalJSON encodes the availability as its wire name.
func (a Availability) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a wire name strictly. Bootstrap documents go through
// ParseAvailability instead so that unknown values fall back to Offline.
func (a *Availability) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return shared.WrapError("roster", "ParseAvailability", shared.ErrInvalidFormat,
			"availability must be a string", err)
	}
	parsed, err := ParseAvailabilityStrict(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
