package sexagenary

// =============================================================================
// BRANCH RELATIONS
// =============================================================================

// Clashes reports whether two branches stand opposite each other (冲).
func Clashes(a, b Branch) bool { return mod(int(a)-int(b), 12) == 6 }

// Triad returns the three-harmony group (三合) a branch belongs to, ordered
// birth, peak, storage: 申子辰, 亥卯未, 寅午戌, 巳酉丑.
func Triad(b Branch) [3]Branch {
	peak := triadPeaks[b%4]
	return [3]Branch{peak.Next(-4), peak, peak.Next(4)}
}

// triadPeaks is indexed by branch ordinal mod 4; members of a triad share it.
var triadPeaks = [4]Branch{Rat, Rooster, Horse, Rabbit}
