package models

import "strings"

type Family struct {
	ID      string
	Members []*Person
}

// Families groups people by family key, keeping first-seen order of both
// families and members.
type Families struct {
	order []*Family
	byID  map[string]*Family
}

func NewFamilies() *Families {
	return &Families{byID: make(map[string]*Family)}
}

// Add appends p to the family named by id. The key is used verbatim.
func (f *Families) Add(id string, p *Person) {
	fam, ok := f.byID[id]
	if !ok {
		fam = &Family{ID: id}
		f.byID[id] = fam
		f.order = append(f.order, fam)
	}
	fam.Members = append(fam.Members, p)
}

func (f *Families) List() []*Family { return f.order }

func (f *Families) Len() int { return len(f.order) }

// People counts every member across all families.
func (f *Families) People() int {
	n := 0
	for _, fam := range f.order {
		n += len(fam.Members)
	}
	return n
}

// Entry is one formatted directory listing. Surname and GivenName only drive
// ordering.
type Entry struct {
	FamilyID  string
	Lines     []string
	Surname   string
	GivenName string
}

// Locality is the home city/state/zip. Addresses in it are listed by street only.
type Locality struct {
	City  string `yaml:"city"`
	State string `yaml:"state"`
	Zip   string `yaml:"zip"`
}

// Contains compares city and state case-insensitively and zip exactly.
func (l Locality) Contains(p *Person) bool {
	return strings.EqualFold(p.City, l.City) &&
		strings.EqualFold(p.State, l.State) &&
		p.Zip == l.Zip
}
