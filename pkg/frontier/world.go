package frontier

import (
	"fmt"
	"slices"
	"sort"
)

// Territory is a node in the world graph. Its ControllingFaction is only
// changed through World.TransferTerritory.
type Territory struct {
	Name               string
	Settlement         *Settlement
	Neighbors          []string
	ControllingFaction string
}

// IsNeighbor reports whether other is directly adjacent.
func (t *Territory) IsNeighbor(other string) bool {
	return slices.Contains(t.Neighbors, other)
}

// Faction is the player or an AI-controlled rival.
type Faction struct {
	Name        string
	Treasury    int
	Territories map[string]*Territory // source of truth for ownership
	Armies      map[string]*Army      // field reserves, outside any garrison
}

// NewFaction returns a faction with no territories or armies.
func NewFaction(name string, treasury int) *Faction {
	return &Faction{
		Name:        name,
		Treasury:    treasury,
		Territories: make(map[string]*Territory),
		Armies:      make(map[string]*Army),
	}
}

// Income sums settlement income over owned territories.
func (f *Faction) Income() int {
	total := 0
	for _, t := range f.Territories {
		total += t.Settlement.Income()
	}
	return total
}

// Upkeep sums the upkeep of every garrison and field army the faction pays for.
func (f *Faction) Upkeep() int {
	total := 0
	for _, t := range f.Territories {
		total += t.Settlement.Garrison.Upkeep()
	}
	for _, a := range f.Armies {
		total += a.Upkeep()
	}
	return total
}

// PayUpkeep deducts upkeep from the treasury, flooring at zero, and returns
// the amount actually charged.
func (f *Faction) PayUpkeep() int {
	cost := f.Upkeep()
	paid := min(cost, f.Treasury)
	f.Treasury = max(0, f.Treasury-cost)
	return paid
}

// ReinforceGarrisons purges dead units from every owned garrison.
func (f *Faction) ReinforceGarrisons() {
	for _, t := range f.Territories {
		t.Settlement.Garrison.RemoveDead()
	}
}

// TerritoryNames returns the owned territory names in ascending order.
func (f *Faction) TerritoryNames() []string {
	names := make([]string, 0, len(f.Territories))
	for name := range f.Territories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Prosperity sums settlement prosperity over owned territories.
func (f *Faction) Prosperity() int {
	total := 0
	for _, t := range f.Territories {
		total += t.Settlement.Prosperity
	}
	return total
}

// World holds the full map: every territory and every faction.
type World struct {
	Territories map[string]*Territory
	Factions    map[string]*Faction
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{
		Territories: make(map[string]*Territory),
		Factions:    make(map[string]*Faction),
	}
}

// AddFaction registers a faction.
func (w *World) AddFaction(f *Faction) {
	w.Factions[f.Name] = f
}

// AddTerritory registers a territory and hands it to its initial owner.
// Used while bootstrapping a world; ownership changes afterwards go through
// TransferTerritory.
func (w *World) AddTerritory(t *Territory, owner string) error {
	f, ok := w.Factions[owner]
	if !ok {
		return notFound("unknown faction %q", owner)
	}
	if _, dup := w.Territories[t.Name]; dup {
		return invalid("territory %q already exists", t.Name)
	}
	w.Territories[t.Name] = t
	f.Territories[t.Name] = t
	t.ControllingFaction = owner
	return nil
}

// Territory looks up a territory by name.
func (w *World) Territory(name string) (*Territory, error) {
	t, ok := w.Territories[name]
	if !ok {
		return nil, notFound("unknown territory %q", name)
	}
	return t, nil
}

// Faction looks up a faction by name.
func (w *World) Faction(name string) (*Faction, error) {
	f, ok := w.Factions[name]
	if !ok {
		return nil, notFound("unknown faction %q", name)
	}
	return f, nil
}

// FactionNames returns every faction name in ascending order.
func (w *World) FactionNames() []string {
	names := make([]string, 0, len(w.Factions))
	for name := range w.Factions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TerritoryNames returns every territory name in ascending order.
func (w *World) TerritoryNames() []string {
	names := make([]string, 0, len(w.Territories))
	for name := range w.Territories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Adjacent reports whether a and b are direct neighbours.
func (w *World) Adjacent(a, b string) bool {
	t, ok := w.Territories[a]
	return ok && t.IsNeighbor(b)
}

// Connected reports whether end is reachable from start over the neighbour
// relation. It is a diagnostic; combat only needs direct adjacency.
func (w *World) Connected(start, end string) (bool, error) {
	if _, err := w.Territory(start); err != nil {
		return false, err
	}
	if _, err := w.Territory(end); err != nil {
		return false, err
	}
	visited := make(map[string]bool)
	stack := []string{start}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if current == end {
			return true, nil
		}
		if visited[current] {
			continue
		}
		visited[current] = true
		if t, ok := w.Territories[current]; ok {
			stack = append(stack, t.Neighbors...)
		}
	}
	return false, nil
}

// TransferTerritory moves a territory to a new owner. Both the factions'
// territory maps and the territory's controller field are updated together;
// it is the only way ownership changes once a world is built.
func (w *World) TransferTerritory(name, newOwner string) error {
	t, err := w.Territory(name)
	if err != nil {
		return err
	}
	to, err := w.Faction(newOwner)
	if err != nil {
		return err
	}
	from, err := w.Faction(t.ControllingFaction)
	if err != nil {
		return err
	}
	if from == to {
		return invalid("%s already controls %s", newOwner, name)
	}
	if _, ok := from.Territories[name]; !ok {
		return invalid("%s does not hold %s", from.Name, name)
	}

	delete(from.Territories, name)
	to.Territories[name] = t
	t.ControllingFaction = to.Name
	return nil
}

// TerritoryCount returns how many territories the named faction holds.
func (w *World) TerritoryCount(faction string) int {
	if f, ok := w.Factions[faction]; ok {
		return len(f.Territories)
	}
	return 0
}

// Validate checks the structural invariants of the world graph: neighbours
// exist and are symmetric, and every territory is owned by exactly one
// faction whose name matches the territory's controller field.
func (w *World) Validate() error {
	for _, name := range w.TerritoryNames() {
		t := w.Territories[name]
		if t.Settlement == nil {
			return fmt.Errorf("territory %q has no settlement", name)
		}
		for _, n := range t.Neighbors {
			if n == name {
				return fmt.Errorf("territory %q lists itself as a neighbor", name)
			}
			other, ok := w.Territories[n]
			if !ok {
				return fmt.Errorf("territory %q has unknown neighbor %q", name, n)
			}
			if !other.IsNeighbor(name) {
				return fmt.Errorf("adjacency %s -> %s has no reverse", name, n)
			}
		}

		owners := 0
		for _, f := range w.Factions {
			if _, ok := f.Territories[name]; ok {
				owners++
				if f.Name != t.ControllingFaction {
					return fmt.Errorf("territory %q is held by %s but controlled by %q", name, f.Name, t.ControllingFaction)
				}
			}
		}
		if owners != 1 {
			return fmt.Errorf("territory %q has %d owners", name, owners)
		}
	}
	for _, f := range w.Factions {
		for name, t := range f.Territories {
			if w.Territories[name] != t {
				return fmt.Errorf("faction %s holds unregistered territory %q", f.Name, name)
			}
		}
	}
	return nil
}
