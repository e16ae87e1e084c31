package frontier

import "sort"

// Standing is one faction's line in the league table.
type Standing struct {
	Faction     string `json:"faction"`
	Territories int    `json:"territories"`
	Treasury    int    `json:"treasury"`
}

// Standings ranks every faction by territory count (desc), treasury (desc),
// then name (asc).
func (gs *GameState) Standings() []Standing {
	out := make([]Standing, 0, len(gs.World.Factions))
	for _, f := range gs.World.Factions {
		out = append(out, Standing{Faction: f.Name, Territories: len(f.Territories), Treasury: f.Treasury})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Territories != b.Territories {
			return a.Territories > b.Territories
		}
		if a.Treasury != b.Treasury {
			return a.Treasury > b.Treasury
		}
		return a.Faction < b.Faction
	})
	return out
}

// StructureView is a built structure in a snapshot.
type StructureView struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// TerritoryView is a read-only copy of one territory.
type TerritoryView struct {
	Name       string          `json:"name"`
	Owner      string          `json:"owner"`
	Neighbors  []string        `json:"neighbors"`
	Population int             `json:"population"`
	Prosperity int             `json:"prosperity"`
	Defenses   int             `json:"defenses"`
	Income     int             `json:"income"`
	Garrison   int             `json:"garrison"`
	Strength   int             `json:"strength"`
	Structures []StructureView `json:"structures,omitempty"`
}

// Snapshot is a detached, serialisable view of a game. Presentation layers
// read snapshots; nothing in a snapshot points back into the live state.
type Snapshot struct {
	Turn        int             `json:"turn"`
	MaxTurns    int             `json:"max_turns"`
	Player      string          `json:"player"`
	Treasury    int             `json:"treasury"`
	Prosperity  int             `json:"prosperity"`
	Income      int             `json:"income"`
	Upkeep      int             `json:"upkeep"`
	GameOver    bool            `json:"game_over"`
	Victor      Outcome         `json:"victor,omitempty"`
	Territories []TerritoryView `json:"territories"`
	Standings   []Standing      `json:"standings"`
	Events      []string        `json:"events"`
}

// Snapshot copies the current state. Territories are sorted by name.
func (gs *GameState) Snapshot() Snapshot {
	player := gs.CurrentFaction()
	snap := Snapshot{
		Turn:       gs.Turn,
		MaxTurns:   gs.Config.MaxTurns,
		Player:     gs.PlayerFaction,
		Treasury:   player.Treasury,
		Prosperity: player.Prosperity(),
		Income:     player.Income(),
		Upkeep:     player.Upkeep(),
		GameOver:   gs.GameOver,
		Victor:     gs.Victor,
		Standings:  gs.Standings(),
		Events:     gs.Events(),
	}
	for _, name := range gs.World.TerritoryNames() {
		t := gs.World.Territories[name]
		s := t.Settlement
		view := TerritoryView{
			Name:       t.Name,
			Owner:      t.ControllingFaction,
			Neighbors:  append([]string(nil), t.Neighbors...),
			Population: s.Population,
			Prosperity: s.Prosperity,
			Defenses:   s.Defenses,
			Income:     s.Income(),
			Garrison:   len(s.Garrison.Units),
			Strength:   s.Garrison.Strength(),
		}
		keys := make([]string, 0, len(s.Structures))
		for k := range s.Structures {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			st := s.Structures[k]
			view.Structures = append(view.Structures, StructureView{Key: k, Name: st.Blueprint.Name, Level: st.Level})
		}
		snap.Territories = append(snap.Territories, view)
	}
	return snap
}

// PlayerTerritories returns the snapshot territories owned by the player.
func (s Snapshot) PlayerTerritories() []TerritoryView {
	var out []TerritoryView
	for _, t := range s.Territories {
		if t.Owner == s.Player {
			out = append(out, t)
		}
	}
	return out
}
