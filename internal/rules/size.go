package rules

// Size is the creature size category ladder.
type Size int

// Medium sits at zero so a stat sheet that never mentions size gets the
// neutral category instead of the bottom of the ladder.
const (
	SizeFine Size = iota - 4
	SizeDiminutive
	SizeTiny
	SizeSmall
	SizeMedium
	SizeLarge
	SizeHuge
	SizeGargantuan
	SizeColossal
)

var sizeNames = [...]string{
	"fine", "diminutive", "tiny", "small", "medium",
	"large", "huge", "gargantuan", "colossal",
}

// attack/AC modifiers by size: smaller creatures are harder to hit and
// hit more easily; grapple runs the other way at double the slope.
var sizeAttackMods = [...]int{8, 4, 2, 1, 0, -1, -2, -4, -8}
var sizeGrappleMods = [...]int{-16, -12, -8, -4, 0, 4, 8, 12, 16}

func (s Size) valid() bool {
	return s >= SizeFine && s <= SizeColossal
}

// String returns the lowercase size name, or "unknown" outside the ladder.
func (s Size) String() string {
	if !s.valid() {
		return "unknown"
	}
	return sizeNames[s-SizeFine]
}

// AttackACMod returns the modifier this size applies to both attack rolls
// and armor class. Sizes outside the ladder count as medium.
func (s Size) AttackACMod() int {
	if !s.valid() {
		return 0
	}
	return sizeAttackMods[s-SizeFine]
}

// GrappleMod returns the modifier this size applies to grapple checks.
func (s Size) GrappleMod() int {
	if !s.valid() {
		return 0
	}
	return sizeGrappleMods[s-SizeFine]
}

// ParseSize converts a size name to a Size. Unknown names map to medium
// with ok=false so callers can decide whether to reject.
func ParseSize(name string) (Size, bool) {
	for i, n := range sizeNames {
		if n == name {
			return Size(i) + SizeFine, true
		}
	}
	return SizeMedium, false
}
