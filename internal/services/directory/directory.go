// Package directory turns grouped roster families into sorted directory
// listings.
package directory

import (
	"cmp"
	"slices"

	"family_directory/internal/models"

	"go.uber.org/zap"
)

type Builder struct {
	Local models.Locality
	log   *zap.Logger
}

func NewBuilder(local models.Locality, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{Local: local, log: log}
}

// Build formats every family and sorts the entries by surname, then given
// name. Families without a primary adult are dropped. Entries with equal keys
// keep the order their families first appeared in.
func (b *Builder) Build(families []*models.Family) []models.Entry {
	entries := make([]models.Entry, 0, len(families))
	skipped := 0
	for _, fam := range families {
		e, ok := FormatFamily(fam, b.Local)
		if !ok {
			skipped++
			b.log.Debug("[DIR] no primary adult, family skipped",
				zap.String("family", fam.ID),
				zap.Int("members", len(fam.Members)))
			continue
		}
		entries = append(entries, e)
	}

	slices.SortStableFunc(entries, func(a, c models.Entry) int {
		if n := cmp.Compare(a.Surname, c.Surname); n != 0 {
			return n
		}
		return cmp.Compare(a.GivenName, c.GivenName)
	})

	b.log.Info("[DIR][DONE]",
		zap.Int("families", len(families)),
		zap.Int("entries", len(entries)),
		zap.Int("skipped", skipped))
	return entries
}
