package directory

import "family_directory/internal/models"

var jackson = models.Locality{City: "Jackson", State: "MN", Zip: "56143"}

// person builds a local adult; adjust the result for anything else.
func person(first, last string, role models.FamilyRole, age int) *models.Person {
	return &models.Person{
		FirstName:     first,
		LastName:      last,
		Role:          role,
		Age:           age,
		StreetAddress: "12 Main St",
		City:          "Jackson",
		State:         "MN",
		Zip:           "56143",
	}
}

func with(p *models.Person, edit func(p *models.Person)) *models.Person {
	edit(p)
	return p
}

// family numbers unnumbered members by their position in the family.
func family(id string, members ...*models.Person) *models.Family {
	for i, m := range members {
		if m.Row == 0 {
			m.Row = i + 1
		}
	}
	return &models.Family{ID: id, Members: members}
}

const dependent models.FamilyRole = "Child"
