package frontier

// Faction names used by the built-in frontier.
const (
	FrontierLeague   = "Frontier League"
	DesertUnion      = "Desert Union"
	CanyonSyndicate  = "Canyon Syndicate"
	DefaultPlayer    = FrontierLeague
	defaultGuardName = "Town Guard"
)

// DefaultTemplates returns the built-in recruitable units, keyed by template key.
func DefaultTemplates() map[string]*UnitTemplate {
	return map[string]*UnitTemplate{
		"militia": {
			Key: "militia", Name: "Frontier Militia", Class: Infantry,
			Attack: 12, Defense: 10, Cost: 40, Upkeep: 3,
		},
		"cavalry": {
			Key: "cavalry", Name: "Trailblazer Cavalry", Class: Cavalry,
			Attack: 18, Defense: 12, Cost: 70, Upkeep: 5,
		},
		"artillery": {
			Key: "artillery", Name: "Prairie Artillery", Class: Artillery,
			Attack: 25, Defense: 8, Cost: 120, Upkeep: 8,
		},
	}
}

// DefaultStructures returns the built-in settlement upgrades.
func DefaultStructures() map[string]*StructureBlueprint {
	return map[string]*StructureBlueprint{
		"saloon": {
			Key: "saloon", Name: "Saloon",
			Description: "Draws drifters and their coin into town.",
			Cost:        60, IncomeBonus: 4,
		},
		"general_store": {
			Key: "general_store", Name: "General Store",
			Description: "Outfits settlers and ranchers for the trail.",
			Cost:        90, IncomeBonus: 5,
		},
		"bank": {
			Key: "bank", Name: "Frontier Bank",
			Description: "Holds deposits and lends against cattle.",
			Cost:        150, IncomeBonus: 8,
		},
		"rail_depot": {
			Key: "rail_depot", Name: "Rail Depot",
			Description: "Connects the town to eastern markets.",
			Cost:        220, IncomeBonus: 12,
		},
	}
}

type territorySeed struct {
	name       string
	owner      string
	population int
	prosperity int
	defenses   int
	neighbors  []string
	garrison   []string
}

var defaultTerritories = []territorySeed{
	{"Dry Gulch", FrontierLeague, 1200, 3, 5, []string{"Copper Ridge", "Mesa Verde"}, []string{"militia", "militia"}},
	{"Copper Ridge", FrontierLeague, 900, 2, 4, []string{"Dry Gulch", "Riverbend", "Silver Springs"}, []string{"militia", "cavalry"}},
	{"Riverbend", DesertUnion, 1500, 4, 6, []string{"Copper Ridge", "Silver Springs"}, []string{"militia", "militia", "cavalry"}},
	{"Silver Springs", DesertUnion, 1300, 3, 5, []string{"Copper Ridge", "Riverbend", "Mesa Verde", "Lost Canyon"}, []string{"militia", "militia"}},
	{"Mesa Verde", CanyonSyndicate, 1000, 3, 5, []string{"Dry Gulch", "Silver Springs", "Lost Canyon"}, []string{"militia", "militia"}},
	{"Lost Canyon", CanyonSyndicate, 800, 2, 6, []string{"Silver Springs", "Mesa Verde"}, []string{"militia", "artillery"}},
}

// DefaultWorld builds the six-territory frontier using units from catalog.
func DefaultWorld(catalog map[string]*UnitTemplate) (*World, error) {
	w := NewWorld()
	w.AddFaction(NewFaction(FrontierLeague, 500))
	w.AddFaction(NewFaction(DesertUnion, 450))
	w.AddFaction(NewFaction(CanyonSyndicate, 400))

	for _, seed := range defaultTerritories {
		s := NewSettlement(seed.name, seed.population, seed.prosperity, seed.defenses)
		garrison, err := ArmyFromTemplates(defaultGuardName, catalog, seed.garrison)
		if err != nil {
			return nil, err
		}
		s.Garrison = garrison
		t := &Territory{
			Name:       seed.name,
			Settlement: s,
			Neighbors:  append([]string(nil), seed.neighbors...),
		}
		if err := w.AddTerritory(t, seed.owner); err != nil {
			return nil, err
		}
	}
	return w, nil
}
