package academic

import "time"

// Canonical class names in pedagogical order. The positional fallbacks in
// Resolve assume this ordering, so renaming a class never breaks placement.
const (
	ClassNursery          = "nursery"
	ClassJuniorElementary = "junior-elementary"
	ClassSeniorElementary = "senior-elementary"
	ClassMiddle           = "middle"
	ClassHigh             = "high"
	ClassCollege          = "college"
)

// ClassOrder lists the canonical class names youngest first.
var ClassOrder = []string{
	ClassNursery,
	ClassJuniorElementary,
	ClassSeniorElementary,
	ClassMiddle,
	ClassHigh,
	ClassCollege,
}

// Placement is the outcome of resolving a student's target class.
type Placement int

const (
	// PlacementUnresolvable means the date of birth was absent or invalid.
	PlacementUnresolvable Placement = iota
	// PlacementClass means a concrete class was resolved.
	PlacementClass
	// PlacementGraduate means the student has aged out of the program.
	PlacementGraduate
)

// ClassRoster maps live class names to identifiers. Lookups that miss fall
// back to an ordinal position so placement degrades rather than failing when
// a class has been renamed or removed.
type ClassRoster struct {
	byName map[string]uint
}

// NewClassRoster builds a roster from name/id pairs.
func NewClassRoster(classes map[string]uint) ClassRoster {
	byName := make(map[string]uint, len(classes))
	for name, id := range classes {
		byName[name] = id
	}
	return ClassRoster{byName: byName}
}

func (r ClassRoster) lookup(position int, names ...string) uint {
	for _, name := range names {
		if id, ok := r.byName[name]; ok {
			return id
		}
	}
	return uint(position)
}

// Resolve maps a date of birth to the target class for a reference academic
// year. Age is taken at the year's September 1st boundary. Bands follow the
// church's school-age convention: 3-5 nursery, 6-8 junior elementary, 9-11
// senior elementary, 12-14 middle, 15-17 high, 18-22 college, 23 and over
// graduate. Under-threes clamp to nursery.
func Resolve(dob *time.Time, referenceYear int, roster ClassRoster) (Placement, uint) {
	if dob == nil || dob.IsZero() {
		return PlacementUnresolvable, 0
	}

	age := AgeOn(*dob, YearStart(referenceYear))

	switch {
	case age >= 23:
		return PlacementGraduate, 0
	case age >= 18:
		return PlacementClass, roster.lookup(6, ClassCollege, ClassHigh)
	case age >= 15:
		return PlacementClass, roster.lookup(5, ClassHigh)
	case age >= 12:
		return PlacementClass, roster.lookup(4, ClassMiddle)
	case age >= 9:
		return PlacementClass, roster.lookup(3, ClassSeniorElementary)
	case age >= 6:
		return PlacementClass, roster.lookup(2, ClassJuniorElementary)
	default:
		return PlacementClass, roster.lookup(1, ClassNursery)
	}
}
