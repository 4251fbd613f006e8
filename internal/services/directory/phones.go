package directory

import "family_directory/internal/models"

// phoneBook collects labelled numbers, keeping each literal number once.
type phoneBook struct {
	seen   map[string]struct{}
	phones []string
}

func (b *phoneBook) add(number, label string) {
	if _, dup := b.seen[number]; dup {
		return
	}
	b.seen[number] = struct{}{}
	if label != "" {
		number += " " + label
	}
	b.phones = append(b.phones, number)
}

// collectPhones lists the family's numbers in directory order: primary
// mobile, primary home, second adult mobile and home, then each dependent's
// mobile and home. Only members aged 18 or over contribute.
func collectPhones(primary, second *models.Person, deps []*models.Person) []string {
	b := &phoneBook{seen: make(map[string]struct{})}

	if primary.IsAdult() {
		if primary.Mobile != "" {
			label := "(C)"
			if second != nil {
				label = "(" + primary.PreferredName() + ")"
			}
			b.add(primary.Mobile, label)
		}
		if primary.Home != "" {
			label := ""
			if hasOtherPhones(primary, second, deps) {
				label = "(H)"
			}
			b.add(primary.Home, label)
		}
	}

	if second != nil {
		addMember(b, second)
	}
	for _, d := range deps {
		addMember(b, d)
	}
	return b.phones
}

func addMember(b *phoneBook, m *models.Person) {
	if !m.IsAdult() {
		return
	}
	if m.Mobile != "" {
		b.add(m.Mobile, "("+m.PreferredName()+")")
	}
	if m.Home != "" {
		b.add(m.Home, "(H)")
	}
}

// hasOtherPhones reports whether the primary's home number needs an (H) to
// tell it apart. The second adult counts regardless of age; dependents only
// when they are adults.
func hasOtherPhones(primary, second *models.Person, deps []*models.Person) bool {
	if primary.Mobile != "" {
		return true
	}
	if second != nil && (second.Mobile != "" || second.Home != "") {
		return true
	}
	for _, d := range deps {
		if d.IsAdult() && (d.Mobile != "" || d.Home != "") {
			return true
		}
	}
	return false
}
