package directory

import (
	"strings"

	"family_directory/internal/models"
	"family_directory/internal/utils"
)

// FormatFamily renders one directory entry. ok is false when the family has
// no one who can be listed as its primary adult.
func FormatFamily(fam *models.Family, local models.Locality) (entry models.Entry, ok bool) {
	primary := PrimaryAdult(fam.Members)
	if primary == nil {
		return models.Entry{}, false
	}
	second := SecondAdult(fam.Members, primary)
	deps := Dependents(fam.Members, primary, second)

	phones := collectPhones(primary, second, deps)
	phone := func(i int) string {
		if i < len(phones) {
			return phones[i]
		}
		return ""
	}

	lines := []string{row(NameLine(primary, second), Address(primary, local), phone(0))}
	next := 1
	if len(deps) > 0 {
		names := make([]string, len(deps))
		for i, d := range deps {
			names[i] = d.FirstName
		}
		lines = append(lines, row(strings.Join(names, ", "), "", phone(1)))
		next = 2
	}
	// Numbers that did not fit beside a name get a line of their own.
	for i := next; i < len(phones); i++ {
		lines = append(lines, row("", "", phones[i]))
	}

	last, first := utils.ParseListingName(lines[0])
	return models.Entry{
		FamilyID:  fam.ID,
		Lines:     lines,
		Surname:   last,
		GivenName: first,
	}, true
}

func row(name, address, phone string) string {
	return name + "\t" + address + "\t" + phone
}

// NameLine is "Last, First (Nick)" for a single adult. For two adults the
// first names are joined with " & " when the surnames match, or with
// " and " plus the second surname when they differ; each adult's nickname is
// then spliced in after every occurrence of that adult's first name.
func NameLine(primary, second *models.Person) string {
	if second == nil {
		line := primary.LastName + ", " + primary.FirstName
		if primary.Nickname != "" {
			line += " (" + primary.Nickname + ")"
		}
		return line
	}

	var line string
	if primary.LastName == second.LastName {
		line = primary.LastName + ", " + primary.FirstName + " & " + second.FirstName
	} else {
		line = primary.LastName + ", " + primary.FirstName + " and " + second.FirstName + " " + second.LastName
	}

	// Substring replacement: a first name that also occurs elsewhere in the
	// line is expanded there too.
	if primary.Nickname != "" {
		line = strings.ReplaceAll(line, primary.FirstName, primary.FirstName+" ("+primary.Nickname+")")
	}
	if second.Nickname != "" {
		line = strings.ReplaceAll(line, second.FirstName, second.FirstName+" ("+second.Nickname+")")
	}
	return line
}

// Address is the primary adult's street, with city, state and zip appended
// unless they match the local area.
func Address(primary *models.Person, local models.Locality) string {
	if local.Contains(primary) {
		return primary.StreetAddress
	}
	return primary.StreetAddress + ", " + primary.City + ", " + primary.State + " " + primary.Zip
}
