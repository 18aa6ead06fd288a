/*
Package location resolves free-text place names, coordinate pairs and
structured locations into coordinates plus a political timezone.

PURPOSE:
  The temporal adjuster needs two things about a birth place: where it is
  (longitude for true solar time) and which civil clock was used there
  (IANA timezone for standard offset and DST). This package answers both
  from a compiled-in gazetteer; it never touches the network or disk.

KEY CONCEPTS:
  - Query:    what the caller gave us (name, coordinates, structured)
  - Location: what we could establish, as a closed variant
      Known         coordinates + timezone
      LongitudeOnly coordinates, no timezone
      Unresolved    nothing usable
  - Resolver: gazetteer lookup with an LRU cache for name queries

FALLBACK ORDER (name queries):
  1. Each comma-separated token against city names and aliases
  2. Each token against prefectures and countries
  3. Substring match against cities, then regions
  4. Unresolved (never an error)

SEE ALSO:
  - gazetteer.go: the static place tables
  - resolver.go:  matching logic
  - solartime/:   consumes Location
*/
package location

import (
	"fmt"
	"math"
)

// =============================================================================
// COORDINATES
// =============================================================================

// Coordinates are WGS84 degrees; east and north are positive.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinates) Valid() bool {
	return !math.IsNaN(c.Latitude) && !math.IsNaN(c.Longitude) &&
		c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}

const earthRadiusKm = 6371.0

// DistanceKm is the great-circle distance between two points.
func DistanceKm(a, b Coordinates) float64 {
	rad := math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * rad
	dLon := (b.Longitude - a.Longitude) * rad
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Latitude*rad)*math.Cos(b.Latitude*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// =============================================================================
// QUERY - Caller input
// =============================================================================

// Query is any of the three accepted location inputs. A zero Query means
// "no location given".
type Query struct {
	Name        string       `json:"name,omitempty"`
	Country     string       `json:"country,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	TimeZone    string       `json:"time_zone,omitempty"`
}

func ByName(name string) Query { return Query{Name: name} }

func ByCoordinates(lat, lon float64) Query {
	return Query{Coordinates: &Coordinates{Latitude: lat, Longitude: lon}}
}

func (q Query) IsZero() bool {
	return q.Name == "" && q.Country == "" && q.Coordinates == nil && q.TimeZone == ""
}

func (q Query) String() string {
	switch {
	case q.Name != "" && q.Country != "":
		return q.Name + ", " + q.Country
	case q.Name != "":
		return q.Name
	case q.Coordinates != nil:
		return q.Coordinates.String()
	case q.Country != "":
		return q.Country
	default:
		return q.TimeZone
	}
}

// =============================================================================
// LOCATION - Resolution result (closed variant)
// =============================================================================

type Kind string

const (
	KindKnown         Kind = "known"
	KindLongitudeOnly Kind = "longitude_only"
	KindUnresolved    Kind = "unresolved"
)

// Location is implemented only by Known, LongitudeOnly and Unresolved.
// Consumers switch on the concrete type.
type Location interface {
	Kind() Kind
	sealed()
}

// Known carries both coordinates and a loadable IANA timezone.
type Known struct {
	Name        string
	Country     string
	Coordinates Coordinates
	TimeZone    string
}

// LongitudeOnly carries coordinates without any political timezone.
type LongitudeOnly struct {
	Coordinates Coordinates
}

// Unresolved means neither coordinates nor a timezone could be established.
type Unresolved struct {
	Query string
}

func (Known) Kind() Kind         { return KindKnown }
func (LongitudeOnly) Kind() Kind { return KindLongitudeOnly }
func (Unresolved) Kind() Kind    { return KindUnresolved }

func (Known) sealed()         {}
func (LongitudeOnly) sealed() {}
func (Unresolved) sealed()    {}

// Summary is the flat, serializable view of a Location.
type Summary struct {
	Kind        Kind         `json:"kind"`
	Name        string       `json:"name,omitempty"`
	Country     string       `json:"country,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	TimeZone    string       `json:"time_zone,omitempty"`
}

// Summarize flattens a Location for output.
func Summarize(loc Location) Summary {
	switch l := loc.(type) {
	case Known:
		c := l.Coordinates
		return Summary{Kind: KindKnown, Name: l.Name, Country: l.Country, Coordinates: &c, TimeZone: l.TimeZone}
	case LongitudeOnly:
		c := l.Coordinates
		return Summary{Kind: KindLongitudeOnly, Coordinates: &c}
	case Unresolved:
		return Summary{Kind: KindUnresolved, Name: l.Query}
	}
	panic(fmt.Sprintf("location: unexpected variant %T", loc))
}
