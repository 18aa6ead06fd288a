package location

import (
	"strings"
	"time"
	_ "time/tzdata" // compiled-in zone history; resolution never reads the host zoneinfo
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/width"
)

// =============================================================================
// RESOLVER
// =============================================================================

// DefaultNearestCityKm is how far a coordinate pair may be from a gazetteer
// city and still borrow that city's timezone.
const DefaultNearestCityKm = 300.0

// Resolver maps queries onto the gazetteer. It is safe for concurrent use.
type Resolver struct {
	cities    []Place
	regions   []Place
	nearestKm float64
	names     *lru.Cache[string, Location]
}

// NewResolver creates a resolver over the built-in gazetteer with a name
// cache of the given size (minimum 16).
func NewResolver(cacheSize int) *Resolver {
	if cacheSize < 16 {
		cacheSize = 16
	}
	cache, err := lru.New[string, Location](cacheSize)
	if err != nil {
		panic(err) // only fails for non-positive sizes
	}
	regions := make([]Place, 0, len(prefectures)+len(countries))
	regions = append(regions, prefectures...)
	regions = append(regions, countries...)
	return &Resolver{
		cities:    cities,
		regions:   regions,
		nearestKm: DefaultNearestCityKm,
		names:     cache,
	}
}

// Default is a process-wide resolver. The gazetteer is static so sharing the
// cache is harmless.
var Default = NewResolver(1024)

// Resolve never fails: anything it cannot place comes back as Unresolved.
func (r *Resolver) Resolve(q Query) Location {
	if q.IsZero() {
		return Unresolved{}
	}

	if q.TimeZone != "" {
		if loc, ok := r.resolveWithZone(q); ok {
			return loc
		}
	}

	if q.Name != "" || q.Country != "" {
		if loc := r.ResolveName(joinNonEmpty(q.Name, q.Country)); loc.Kind() == KindKnown {
			k := loc.(Known)
			if q.Coordinates != nil && q.Coordinates.Valid() {
				k.Coordinates = *q.Coordinates
			}
			return k
		}
	}

	if q.Coordinates != nil {
		return r.ResolveCoordinates(*q.Coordinates)
	}
	return Unresolved{Query: q.String()}
}

func (r *Resolver) resolveWithZone(q Query) (Location, bool) {
	if _, err := time.LoadLocation(q.TimeZone); err != nil {
		return nil, false
	}
	k := Known{Name: q.Name, Country: q.Country, TimeZone: q.TimeZone}
	switch {
	case q.Coordinates != nil && q.Coordinates.Valid():
		k.Coordinates = *q.Coordinates
	case q.Name != "" || q.Country != "":
		named, ok := r.ResolveName(joinNonEmpty(q.Name, q.Country)).(Known)
		if !ok {
			return nil, false
		}
		k.Coordinates = named.Coordinates
	default:
		p, ok := r.firstInZone(q.TimeZone)
		if !ok {
			return nil, false
		}
		k.Coordinates = p.Coordinates
	}
	return k, true
}

// ResolveName matches free text such as "Tokyo, Japan" or "横浜市".
func (r *Resolver) ResolveName(text string) Location {
	key := r.normalize(text)
	if key == "" {
		return Unresolved{Query: text}
	}
	if loc, ok := r.names.Get(key); ok {
		return loc
	}
	loc := r.matchName(key)
	if loc == nil {
		loc = Unresolved{Query: text}
	}
	r.names.Add(key, loc)
	return loc
}

func (r *Resolver) matchName(key string) Location {
	tokens := tokenize(key)

	for _, set := range [][]Place{r.cities, r.regions} {
		for _, tok := range tokens {
			for _, form := range tokenForms(tok) {
				if p, ok := r.exact(set, form); ok {
					return p.known()
				}
			}
		}
	}

	for _, set := range [][]Place{r.cities, r.regions} {
		for _, tok := range tokens {
			if p, ok := r.partial(set, tok); ok {
				return p.known()
			}
		}
	}
	return nil
}

func (r *Resolver) exact(set []Place, form string) (Place, bool) {
	for _, p := range set {
		if r.normalize(p.Name) == form {
			return p, true
		}
		for _, a := range p.Aliases {
			if r.normalize(a) == form {
				return p, true
			}
		}
	}
	return Place{}, false
}

// partial accepts a token containing a name ("tokyo-to"), or a name starting
// with a long enough token ("yokoha"). Short ASCII aliases such as country
// codes are never partially matched.
func (r *Resolver) partial(set []Place, tok string) (Place, bool) {
	for _, p := range set {
		for _, n := range append([]string{p.Name}, p.Aliases...) {
			n = r.normalize(n)
			if !partialCandidate(n) {
				continue
			}
			if strings.Contains(tok, n) || (partialCandidate(tok) && strings.HasPrefix(n, tok)) {
				return p, true
			}
		}
	}
	return Place{}, false
}

func partialCandidate(s string) bool {
	n := utf8.RuneCountInString(s)
	if n == len(s) { // ASCII
		return n >= 4
	}
	return n >= 2
}

// ResolveCoordinates borrows the timezone of the nearest gazetteer city when
// one is close enough; otherwise only the longitude is usable.
func (r *Resolver) ResolveCoordinates(c Coordinates) Location {
	if !c.Valid() {
		return Unresolved{Query: c.String()}
	}
	var best *Place
	bestKm := r.nearestKm
	for i := range r.cities {
		if d := DistanceKm(c, r.cities[i].Coordinates); d <= bestKm {
			best, bestKm = &r.cities[i], d
		}
	}
	if best == nil {
		return LongitudeOnly{Coordinates: c}
	}
	k := best.known()
	k.Coordinates = c
	return k
}

func (r *Resolver) firstInZone(tz string) (Place, bool) {
	for _, p := range r.cities {
		if p.TimeZone == tz {
			return p, true
		}
	}
	return Place{}, false
}

// =============================================================================
// NORMALIZATION
// =============================================================================

// normalize folds full-width forms and case so "ＴＯＫＹＯ" and "tokyo" meet.
// A Caser carries state, so each call gets its own.
func (r *Resolver) normalize(s string) string {
	s = width.Fold.String(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

func tokenize(key string) []string {
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == ',' || r == '、' || r == '/' || r == ';'
	})
	tokens := make([]string, 0, len(parts)+1)
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	if len(tokens) > 1 {
		tokens = append(tokens, key)
	}
	return tokens
}

var adminSuffixes = []string{"市", "都", "府", "県", "区", " city", " prefecture", "-shi", "-ken", "-to", "-fu"}

// tokenForms returns the token followed by the token with one
// administrative suffix stripped.
func tokenForms(tok string) []string {
	forms := []string{tok}
	for _, suf := range adminSuffixes {
		if trimmed := strings.TrimSuffix(tok, suf); trimmed != tok && trimmed != "" {
			forms = append(forms, strings.TrimSpace(trimmed))
		}
	}
	return forms
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
