package domain

import (
	"sort"
	"strings"
)

// Complex is a court building that services one or more zones.
type Complex string

// Court complexes.
const (
	ComplexTisHazari    Complex = "TIS_HAZARI"
	ComplexKarkardooma  Complex = "KARKARDOOMA"
	ComplexPatialaHouse Complex = "PATIALA_HOUSE"
	ComplexSaket        Complex = "SAKET"
	ComplexRohini       Complex = "ROHINI"
	ComplexDwarka       Complex = "DWARKA"
	ComplexRouseAvenue  Complex = "ROUSE_AVENUE"
)

// Zone is a geographic or administrative subdivision served by a complex.
type Zone string

// Zones.
const (
	ZoneCentral   Zone = "CENTRAL"
	ZoneWest      Zone = "WEST"
	ZoneEast      Zone = "EAST"
	ZoneNorthEast Zone = "NORTH_EAST"
	ZoneShahdara  Zone = "SHAHDARA"
	ZoneNewDelhi  Zone = "NEW_DELHI"
	ZoneSouth     Zone = "SOUTH"
	ZoneSouthEast Zone = "SOUTH_EAST"
	ZoneNorth     Zone = "NORTH"
	ZoneNorthWest Zone = "NORTH_WEST"
	ZoneSouthWest Zone = "SOUTH_WEST"
	ZoneCBI       Zone = "CBI"
)

// Category is the kind of roster a document carries.
type Category string

// Document categories.
const (
	CategoryJudgesList           Category = "JUDGES_LIST"
	CategoryJudgesOnLeave        Category = "JUDGES_ON_LEAVE"
	CategoryBailRoster           Category = "BAIL_ROSTER"
	CategoryDutyMagistrateRoster Category = "DUTY_MAGISTRATE_ROSTER"
)

// topology maps each complex to the zones it services.
// Every zone belongs to exactly one complex.
var topology = map[Complex][]Zone{
	ComplexTisHazari:    {ZoneCentral, ZoneWest},
	ComplexKarkardooma:  {ZoneEast, ZoneNorthEast, ZoneShahdara},
	ComplexPatialaHouse: {ZoneNewDelhi},
	ComplexSaket:        {ZoneSouth, ZoneSouthEast},
	ComplexRohini:       {ZoneNorth, ZoneNorthWest},
	ComplexDwarka:       {ZoneSouthWest},
	ComplexRouseAvenue:  {ZoneCBI},
}

var categories = []Category{
	CategoryJudgesList,
	CategoryJudgesOnLeave,
	CategoryBailRoster,
	CategoryDutyMagistrateRoster,
}

// IsValidHierarchy reports whether zone is serviced by complex.
func IsValidHierarchy(complex Complex, zone Zone) bool {
	for _, z := range topology[complex] {
		if z == zone {
			return true
		}
	}
	return false
}

// ValidateHierarchy returns a ValidationError when the (complex, zone, category)
// triple is not part of the topology.
func ValidateHierarchy(complex Complex, zone Zone, category Category) error {
	if _, ok := topology[complex]; !ok {
		return NewValidationError("complex", "unknown complex %q", complex)
	}
	if !IsKnownZone(zone) {
		return NewValidationError("zone", "unknown zone %q", zone)
	}
	if !IsValidHierarchy(complex, zone) {
		return NewValidationError("zone", "zone %s is not serviced by complex %s", zone, complex)
	}
	if !IsKnownCategory(category) {
		return NewValidationError("category", "unknown category %q", category)
	}
	return nil
}

// IsKnownZone reports whether zone appears anywhere in the topology.
func IsKnownZone(zone Zone) bool {
	_, ok := ComplexForZone(zone)
	return ok
}

// IsKnownCategory reports whether c is one of the fixed categories.
func IsKnownCategory(c Category) bool {
	for _, known := range categories {
		if known == c {
			return true
		}
	}
	return false
}

// ComplexForZone returns the complex servicing zone.
func ComplexForZone(zone Zone) (Complex, bool) {
	for c, zones := range topology {
		for _, z := range zones {
			if z == zone {
				return c, true
			}
		}
	}
	return "", false
}

// Complexes returns all complexes in stable order.
func Complexes() []Complex {
	out := make([]Complex, 0, len(topology))
	for c := range topology {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ZonesFor returns a copy of the zones serviced by complex.
func ZonesFor(complex Complex) []Zone {
	zones := topology[complex]
	out := make([]Zone, len(zones))
	copy(out, zones)
	return out
}

// Categories returns all document categories.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseComplex normalises user input ("rohini", "Tis Hazari") into a Complex.
func ParseComplex(s string) (Complex, error) {
	c := Complex(normaliseToken(s))
	if _, ok := topology[c]; !ok {
		return "", NewValidationError("complex", "unknown complex %q", s)
	}
	return c, nil
}

// ParseZone normalises user input into a Zone.
func ParseZone(s string) (Zone, error) {
	z := Zone(normaliseToken(s))
	if !IsKnownZone(z) {
		return "", NewValidationError("zone", "unknown zone %q", s)
	}
	return z, nil
}

// ParseCategory normalises user input into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(normaliseToken(s))
	if !IsKnownCategory(c) {
		return "", NewValidationError("category", "unknown category %q", s)
	}
	return c, nil
}

func normaliseToken(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
