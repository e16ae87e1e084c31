package frontier

// UnitClass is the broad battlefield role of a unit.
type UnitClass string

const (
	Infantry  UnitClass = "infantry"
	Cavalry   UnitClass = "cavalry"
	Artillery UnitClass = "artillery"
)

// FullHealth is the health of a freshly recruited unit.
const FullHealth = 100

// UnitTemplate is an immutable recruitable unit definition. Templates are
// created once at configuration time and shared by pointer; never mutate one.
type UnitTemplate struct {
	Key     string
	Name    string
	Class   UnitClass
	Attack  int
	Defense int
	Cost    int
	Upkeep  int
}

// Unit is a single battlefield instance of a template.
type Unit struct {
	Template *UnitTemplate
	Health   int
}

// NewUnit returns a full-health unit of the given template.
func NewUnit(tpl *UnitTemplate) *Unit {
	return &Unit{Template: tpl, Health: FullHealth}
}

// Attack is the template attack scaled by remaining health.
func (u *Unit) Attack() int {
	return u.Template.Attack * u.Health / FullHealth
}

// Defense is the template defense scaled by remaining health.
func (u *Unit) Defense() int {
	return u.Template.Defense * u.Health / FullHealth
}

// Alive reports whether the unit still has health left.
func (u *Unit) Alive() bool {
	return u.Health > 0
}

// Army is an ordered collection of units plus a supplies counter.
// Dead units stay in Units until RemoveDead is called.
type Army struct {
	Name     string
	Units    []*Unit
	Supplies int
}

// NewArmy returns an empty army.
func NewArmy(name string) *Army {
	return &Army{Name: name}
}

// ArmyFromTemplates builds an army with one full-health unit per key.
func ArmyFromTemplates(name string, catalog map[string]*UnitTemplate, keys []string) (*Army, error) {
	army := NewArmy(name)
	for _, key := range keys {
		tpl, ok := catalog[key]
		if !ok {
			return nil, notFound("unknown unit template %q", key)
		}
		army.AddUnit(NewUnit(tpl))
	}
	return army, nil
}

// AddUnit appends a unit to the end of the army.
func (a *Army) AddUnit(u *Unit) {
	a.Units = append(a.Units, u)
}

// Strength is the combined effective attack and defense of alive units.
func (a *Army) Strength() int {
	total := 0
	for _, u := range a.Units {
		if u.Alive() {
			total += u.Attack() + u.Defense()
		}
	}
	return total
}

// Upkeep is the per-turn cost of the alive units.
func (a *Army) Upkeep() int {
	total := 0
	for _, u := range a.Units {
		if u.Alive() {
			total += u.Template.Upkeep
		}
	}
	return total
}

// RemoveDead purges units with no health left, preserving order.
func (a *Army) RemoveDead() {
	alive := a.Units[:0]
	for _, u := range a.Units {
		if u.Alive() {
			alive = append(alive, u)
		}
	}
	for i := len(alive); i < len(a.Units); i++ {
		a.Units[i] = nil
	}
	a.Units = alive
}

// HasUnits reports whether at least one unit is alive.
func (a *Army) HasUnits() bool {
	for _, u := range a.Units {
		if u.Alive() {
			return true
		}
	}
	return false
}

// AliveCount returns the number of alive units.
func (a *Army) AliveCount() int {
	n := 0
	for _, u := range a.Units {
		if u.Alive() {
			n++
		}
	}
	return n
}

// ConsumeSupplies spends one supply per unit, never going below zero.
func (a *Army) ConsumeSupplies() {
	a.Supplies = max(0, a.Supplies-len(a.Units))
}

// Clear removes every unit from the army.
func (a *Army) Clear() {
	a.Units = nil
}
