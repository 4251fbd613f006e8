package processors

import (
	"context"

	"family_directory/internal/models"
	"family_directory/internal/ports"

	"go.uber.org/zap"
)

// Roster column names.
const (
	ColExternalID    = "Breeze ID"
	ColFamily        = "Family"
	ColFirstName     = "First Name"
	ColLastName      = "Last Name"
	ColNickname      = "Nickname"
	ColGender        = "Gender"
	ColBirthdate     = "Birthdate"
	ColAge           = "Age"
	ColFamilyRole    = "Family Role"
	ColMobile        = "Mobile"
	ColHome          = "Home"
	ColStreetAddress = "Street Address"
	ColCity          = "City"
	ColState         = "State"
	ColZip           = "Zip"
)

// RosterProcessor turns roster rows into people grouped by family.
type RosterProcessor struct {
	Families *models.Families
	log      *zap.Logger
}

func NewRosterProcessor(log *zap.Logger) *RosterProcessor {
	if log == nil {
		log = zap.NewNop()
	}
	return &RosterProcessor{Families: models.NewFamilies(), log: log}
}

func (p *RosterProcessor) Type() string { return "roster" }

func (p *RosterProcessor) ProcessBatch(ctx context.Context, batch []ports.Row) error {
	for _, r := range batch {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.Families.Add(r.Fields[ColFamily], PersonFromRow(r))
	}
	p.log.Debug("[PROC][roster]",
		zap.Int("rows", len(batch)),
		zap.Int("families", p.Families.Len()))
	return nil
}

// PersonFromRow never fails: unparseable fields fall back to their defaults.
func PersonFromRow(r ports.Row) *models.Person {
	m := r.Fields
	return &models.Person{
		Row:           r.Index,
		ExternalID:    m[ColExternalID],
		FirstName:     m[ColFirstName],
		LastName:      m[ColLastName],
		Nickname:      m[ColNickname],
		Gender:        m[ColGender],
		Birthdate:     ParseBirthdate(m[ColBirthdate]),
		Age:           ParseAge(m[ColAge]),
		Role:          models.FamilyRole(m[ColFamilyRole]),
		Mobile:        m[ColMobile],
		Home:          m[ColHome],
		StreetAddress: m[ColStreetAddress],
		City:          m[ColCity],
		State:         m[ColState],
		Zip:           m[ColZip],
	}
}

// RequiredColumns must all be present in the roster header. Breeze ID,
// Nickname, Gender, Birthdate and Age may be absent.
var RequiredColumns = []string{
	ColFamily,
	ColFirstName,
	ColLastName,
	ColFamilyRole,
	ColMobile,
	ColHome,
	ColStreetAddress,
	ColCity,
	ColState,
	ColZip,
}
