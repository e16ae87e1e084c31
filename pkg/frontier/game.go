package frontier

import (
	"fmt"
	"math/rand"
)

// GameState is the mutable root of one session. It owns the only random
// stream of the session; battles and AI choices all draw from it, so a fixed
// seed replays the whole campaign.
type GameState struct {
	World         *World
	PlayerFaction string
	Turn          int
	Config        Config
	GameOver      bool
	Victor        Outcome

	events []string
	rng    *rand.Rand
}

// NewGame creates a session at turn 1 on the given world.
func NewGame(cfg Config, world *World, player string, seed int64) (*GameState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := world.Validate(); err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	if _, err := world.Faction(player); err != nil {
		return nil, err
	}
	return &GameState{
		World:         world,
		PlayerFaction: player,
		Turn:          1,
		Config:        cfg,
		rng:           rand.New(rand.NewSource(seed)),
	}, nil
}

// NewDefaultGame starts the built-in frontier scenario for the Frontier League.
func NewDefaultGame(seed int64) (*GameState, error) {
	cfg := DefaultConfig()
	world, err := DefaultWorld(cfg.Units)
	if err != nil {
		return nil, err
	}
	return NewGame(cfg, world, DefaultPlayer, seed)
}

// CurrentFaction returns the player's faction.
func (gs *GameState) CurrentFaction() *Faction {
	return gs.World.Factions[gs.PlayerFaction]
}

// AvailableRecruits returns the unit catalog.
func (gs *GameState) AvailableRecruits() map[string]*UnitTemplate {
	return gs.Config.Units
}

// AvailableStructures returns the structure catalog.
func (gs *GameState) AvailableStructures() map[string]*StructureBlueprint {
	return gs.Config.Structures
}

// CollectIncome credits the player's settlement income to its treasury and
// returns the amount.
func (gs *GameState) CollectIncome() int {
	if gs.GameOver {
		return 0
	}
	return gs.collectIncome(gs.CurrentFaction())
}

func (gs *GameState) collectIncome(f *Faction) int {
	income := f.Income()
	f.Treasury += income
	gs.logEvent(fmt.Sprintf("%s collected $%d in taxes and trade.", f.Name, income))
	return income
}

// Recruit buys quantity units of a template into the named territory's
// garrison and returns the total cost.
func (gs *GameState) Recruit(territory, templateKey string, quantity int) (int, error) {
	if gs.GameOver {
		return 0, nil
	}
	return gs.recruit(gs.CurrentFaction(), territory, templateKey, quantity)
}

func (gs *GameState) recruit(f *Faction, territory, templateKey string, quantity int) (int, error) {
	tpl, ok := gs.Config.Units[templateKey]
	if !ok {
		return 0, notFound("unknown unit template %q", templateKey)
	}
	if quantity < 1 {
		return 0, invalid("quantity must be at least 1, got %d", quantity)
	}
	t, ok := f.Territories[territory]
	if !ok {
		return 0, invalid("%s does not control %s", f.Name, territory)
	}
	total := tpl.Cost * quantity
	if f.Treasury < total {
		return 0, invalid("insufficient funds: %d %s cost $%d, treasury $%d", quantity, tpl.Name, total, f.Treasury)
	}

	f.Treasury -= total
	t.Settlement.Recruit(tpl, quantity)
	gs.logEvent(fmt.Sprintf("%s recruited %d %s at %s for $%d.", f.Name, quantity, tpl.Name, territory, total))
	return total, nil
}

// BuildStructure upgrades a structure in one of the player's settlements and
// returns its new level.
func (gs *GameState) BuildStructure(territory, structureKey string) (int, error) {
	if gs.GameOver {
		return 0, nil
	}
	f := gs.CurrentFaction()
	bp, ok := gs.Config.Structures[structureKey]
	if !ok {
		return 0, notFound("unknown structure %q", structureKey)
	}
	t, ok := f.Territories[territory]
	if !ok {
		return 0, invalid("%s does not control %s", f.Name, territory)
	}
	if f.Treasury < bp.Cost {
		return 0, invalid("insufficient funds: %s costs $%d, treasury $%d", bp.Name, bp.Cost, f.Treasury)
	}

	f.Treasury -= bp.Cost
	level := t.Settlement.ImproveStructure(bp)
	gs.logEvent(fmt.Sprintf("%s upgraded the %s to level %d.", territory, bp.Name, level))
	return level, nil
}

// Attack sends the garrison of one of the player's territories against an
// adjacent enemy territory. Victory is evaluated afterwards.
func (gs *GameState) Attack(from, to string) (BattleReport, error) {
	if gs.GameOver {
		return BattleReport{}, nil
	}
	report, err := gs.attack(gs.CurrentFaction(), from, to)
	if err != nil {
		return report, err
	}
	gs.evaluateVictory()
	return report, nil
}

// attack is shared by the player and the AI so both follow identical rules.
func (gs *GameState) attack(f *Faction, from, to string) (BattleReport, error) {
	origin, ok := f.Territories[from]
	if !ok {
		return BattleReport{}, invalid("%s may only attack from its own territories, not %s", f.Name, from)
	}
	target, err := gs.World.Territory(to)
	if err != nil {
		return BattleReport{}, err
	}
	if target.ControllingFaction == f.Name {
		return BattleReport{}, invalid("%s already controls %s", f.Name, to)
	}
	if !origin.IsNeighbor(to) {
		return BattleReport{}, invalid("%s and %s are not adjacent", from, to)
	}
	if !origin.Settlement.Garrison.HasUnits() {
		return BattleReport{}, invalid("%s has no troops to attack with", from)
	}
	defender := target.ControllingFaction
	if _, err := gs.World.Faction(defender); err != nil {
		return BattleReport{}, err
	}

	report := Resolve(origin.Settlement.Garrison, target.Settlement.Garrison, gs.rng)
	if !report.AttackerWon {
		gs.logEvent(fmt.Sprintf("%s was repelled at %s after %d rounds (lost %d, killed %d).",
			f.Name, to, report.Rounds, report.AttackerLosses, report.DefenderLosses))
		return report, nil
	}

	if err := gs.World.TransferTerritory(to, f.Name); err != nil {
		// Unreachable after the checks above; the battle itself stands.
		return report, err
	}
	gs.seedConquestGarrison(target.Settlement)
	gs.logEvent(fmt.Sprintf("%s captured %s from %s (lost %d, killed %d).",
		f.Name, to, defender, report.AttackerLosses, report.DefenderLosses))
	return report, nil
}

func (gs *GameState) seedConquestGarrison(s *Settlement) {
	s.Garrison.Clear()
	seed := gs.Config.ConquestGarrison
	if tpl, ok := gs.Config.Units[seed.Template]; ok && seed.Count > 0 {
		s.Recruit(tpl, seed.Count)
	}
}

// EndTurn charges the player's upkeep, tidies its garrisons, lets every rival
// act, advances the turn and evaluates victory.
func (gs *GameState) EndTurn() {
	if gs.GameOver {
		return
	}
	f := gs.CurrentFaction()
	paid := f.PayUpkeep()
	f.ReinforceGarrisons()
	for _, a := range f.Armies {
		a.ConsumeSupplies()
	}
	gs.logEvent(fmt.Sprintf("%s paid $%d in upkeep.", f.Name, paid))

	for _, name := range gs.World.FactionNames() {
		if name == gs.PlayerFaction {
			continue
		}
		gs.runAITurn(gs.World.Factions[name])
	}

	gs.Turn++
	gs.evaluateVictory()
}

// Quit ends the campaign early. An already decided result is kept.
func (gs *GameState) Quit() {
	if gs.GameOver {
		return
	}
	gs.GameOver = true
	gs.Victor = OutcomeRetired
	gs.logEvent("You chose to retire from the campaign.")
}

// Events returns a copy of the event log, oldest first.
func (gs *GameState) Events() []string {
	return append([]string(nil), gs.events...)
}

// RecentEvents returns up to n of the most recent events, oldest first.
func (gs *GameState) RecentEvents(n int) []string {
	if n <= 0 {
		return nil
	}
	start := max(0, len(gs.events)-n)
	return append([]string(nil), gs.events[start:]...)
}

func (gs *GameState) logEvent(msg string) {
	gs.events = append(gs.events, msg)
	if limit := gs.Config.EventLogSize; len(gs.events) > limit {
		gs.events = append(gs.events[:0:0], gs.events[len(gs.events)-limit:]...)
	}
}
