package models

import "time"

type FamilyRole string

const (
	RoleHead   FamilyRole = "Head of Household"
	RoleSpouse FamilyRole = "Spouse"
	RoleAdult  FamilyRole = "Adult"
)

// IsDependent reports whether the role is anything other than head, spouse or adult.
func (r FamilyRole) IsDependent() bool {
	switch r {
	case RoleHead, RoleSpouse, RoleAdult:
		return false
	}
	return true
}

const GenderFemale = "Female"

// AdultAge is both the phone-listing threshold and the age assumed when the
// roster has none.
const AdultAge = 18

type Person struct {
	Row           int // 1-based position in the roster, unique per run
	ExternalID    string
	FirstName     string
	LastName      string
	Nickname      string
	Gender        string
	Birthdate     *time.Time
	Age           int
	Role          FamilyRole
	Mobile        string
	Home          string
	StreetAddress string
	City          string
	State         string
	Zip           string
}

// PreferredName is the nickname when present, otherwise the first name.
func (p *Person) PreferredName() string {
	if p.Nickname != "" {
		return p.Nickname
	}
	return p.FirstName
}

func (p *Person) IsAdult() bool { return p.Age >= AdultAge }
