package directory

import "family_directory/internal/models"

// PrimaryAdult picks the head of household, or failing that the oldest adult
// or spouse. Equal ages prefer a member whose gender is not Female, then list
// order. It returns nil when the family has no head, adult or spouse.
func PrimaryAdult(members []*models.Person) *models.Person {
	for _, m := range members {
		if m.Role == models.RoleHead {
			return m
		}
	}

	var best *models.Person
	for _, m := range members {
		if m.Role != models.RoleAdult && m.Role != models.RoleSpouse {
			continue
		}
		if best == nil || outranks(m, best) {
			best = m
		}
	}
	return best
}

func outranks(a, b *models.Person) bool {
	if a.Age != b.Age {
		return a.Age > b.Age
	}
	return a.Gender != models.GenderFemale && b.Gender == models.GenderFemale
}

// SecondAdult returns the family's first spouse unless that spouse is the
// primary adult, otherwise the first adult other than the primary.
func SecondAdult(members []*models.Person, primary *models.Person) *models.Person {
	for _, m := range members {
		if m.Role == models.RoleSpouse {
			if m != primary {
				return m
			}
			break
		}
	}
	for _, m := range members {
		if m.Role == models.RoleAdult && m != primary {
			return m
		}
	}
	return nil
}

// Dependents is everyone except the two listed adults. Comparison is by
// identity, so identical-looking rows stay distinct.
func Dependents(members []*models.Person, primary, second *models.Person) []*models.Person {
	deps := make([]*models.Person, 0, len(members))
	for _, m := range members {
		if m == primary || m == second {
			continue
		}
		deps = append(deps, m)
	}
	return deps
}
