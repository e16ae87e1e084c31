package frontier

// ProsperityPerUpgrade is added to a settlement's prosperity on every
// structure upgrade.
const ProsperityPerUpgrade = 1

// StructureBlueprint is an immutable settlement upgrade definition, shared by
// pointer between every settlement that builds it.
type StructureBlueprint struct {
	Key         string
	Name        string
	Description string
	Cost        int
	IncomeBonus int // per level
}

// Structure is a built blueprint and its current level (always >= 1).
type Structure struct {
	Blueprint *StructureBlueprint
	Level     int
}

// Settlement is an improvable site with a garrison. It knows nothing about
// who owns it.
type Settlement struct {
	Name       string
	Population int
	Prosperity int
	Defenses   int
	Garrison   *Army
	Structures map[string]*Structure // keyed by blueprint key
}

// NewSettlement returns a settlement with an empty "Town Guard" garrison.
func NewSettlement(name string, population, prosperity, defenses int) *Settlement {
	return &Settlement{
		Name:       name,
		Population: population,
		Prosperity: prosperity,
		Defenses:   defenses,
		Garrison:   NewArmy("Town Guard"),
		Structures: make(map[string]*Structure),
	}
}

// Income is population/100 plus prosperity plus every structure's
// level times its blueprint bonus.
func (s *Settlement) Income() int {
	income := s.Population/100 + s.Prosperity
	for _, st := range s.Structures {
		income += st.Level * st.Blueprint.IncomeBonus
	}
	return income
}

// StructureLevel returns the level of the given blueprint, or 0 if unbuilt.
func (s *Settlement) StructureLevel(key string) int {
	if st, ok := s.Structures[key]; ok {
		return st.Level
	}
	return 0
}

// ImproveStructure raises the blueprint's level by one, bumps prosperity and
// returns the new level.
func (s *Settlement) ImproveStructure(bp *StructureBlueprint) int {
	if s.Structures == nil {
		s.Structures = make(map[string]*Structure)
	}
	st, ok := s.Structures[bp.Key]
	if !ok {
		st = &Structure{Blueprint: bp}
		s.Structures[bp.Key] = st
	}
	st.Level++
	s.Prosperity += ProsperityPerUpgrade
	return st.Level
}

// Recruit creates quantity fresh units of the template, appends them to the
// garrison and returns them.
func (s *Settlement) Recruit(tpl *UnitTemplate, quantity int) []*Unit {
	if s.Garrison == nil {
		s.Garrison = NewArmy("Town Guard")
	}
	recruits := make([]*Unit, 0, quantity)
	for i := 0; i < quantity; i++ {
		u := NewUnit(tpl)
		s.Garrison.AddUnit(u)
		recruits = append(recruits, u)
	}
	return recruits
}
