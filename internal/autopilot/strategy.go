// Package autopilot plays the player's faction without a human, so whole
// campaigns can be run unattended, archived and watched by spectators.
package autopilot

import (
	"sort"

	"github.com/freeeve/frontier-dominion/pkg/frontier"
)

// Strategy takes the player's actions for one turn. It must not end the turn;
// the runner does that. Strategies are deterministic given the game state.
type Strategy interface {
	Name() string
	PlayTurn(gs *frontier.GameState)
}

// StrategyNames lists the built-in strategies.
var StrategyNames = []string{"passive", "builder", "raider"}

// StrategyForName returns the named strategy, or nil for an unknown name.
func StrategyForName(name string) Strategy {
	switch name {
	case "passive":
		return PassiveStrategy{}
	case "builder":
		return BuilderStrategy{}
	case "raider":
		return RaiderStrategy{}
	default:
		return nil
	}
}

// --- PassiveStrategy ---

// PassiveStrategy collects taxes and nothing else.
type PassiveStrategy struct{}

func (PassiveStrategy) Name() string { return "passive" }

func (PassiveStrategy) PlayTurn(gs *frontier.GameState) {
	gs.CollectIncome()
}

// --- BuilderStrategy ---

// BuilderStrategy keeps every garrison manned with the cheapest unit, then
// spends the rest on the cheapest structure in its least developed territory.
type BuilderStrategy struct{}

func (BuilderStrategy) Name() string { return "builder" }

func (BuilderStrategy) PlayTurn(gs *frontier.GameState) {
	gs.CollectIncome()
	f := gs.CurrentFaction()

	if key := gs.Config.CheapestUnit(); key != "" {
		for _, name := range f.TerritoryNames() {
			if f.Territories[name].Settlement.Garrison.HasUnits() {
				continue
			}
			gs.Recruit(name, key, 1)
		}
	}

	key := cheapestStructure(gs.AvailableStructures())
	if key == "" {
		return
	}
	bp := gs.AvailableStructures()[key]
	// Keep enough back for next turn's upkeep.
	if f.Treasury-bp.Cost < f.Upkeep() {
		return
	}
	if target := leastDeveloped(f, key); target != "" {
		gs.BuildStructure(target, key)
	}
}

func cheapestStructure(catalog map[string]*frontier.StructureBlueprint) string {
	best := ""
	for key, bp := range catalog {
		if best == "" || bp.Cost < catalog[best].Cost || (bp.Cost == catalog[best].Cost && key < best) {
			best = key
		}
	}
	return best
}

// leastDeveloped picks the owned territory with the lowest level of the
// structure, ties broken by name.
func leastDeveloped(f *frontier.Faction, key string) string {
	best, bestLevel := "", 0
	for _, name := range f.TerritoryNames() {
		level := f.Territories[name].Settlement.StructureLevel(key)
		if best == "" || level < bestLevel {
			best, bestLevel = name, level
		}
	}
	return best
}

// --- RaiderStrategy ---

// maxRaiderRecruits caps how many units the raider buys per turn.
const maxRaiderRecruits = 3

// RaiderStrategy builds up its border garrisons with the hardest-hitting unit
// it can afford and attacks the weakest adjacent enemy it outguns.
type RaiderStrategy struct{}

func (RaiderStrategy) Name() string { return "raider" }

func (RaiderStrategy) PlayTurn(gs *frontier.GameState) {
	gs.CollectIncome()
	f := gs.CurrentFaction()

	if front := frontline(gs, f); front != "" {
		if key := strongestAffordable(gs.AvailableRecruits(), f.Treasury); key != "" {
			cost := gs.AvailableRecruits()[key].Cost
			qty := maxRaiderRecruits
			if cost > 0 {
				qty = min(maxRaiderRecruits, f.Treasury/cost)
			}
			gs.Recruit(front, key, qty)
		}
	}

	if from, to, ok := pickRaid(gs, f); ok {
		gs.Attack(from, to)
	}
}

// frontline is the owned border territory with the strongest garrison, ties
// broken by name. It returns "" when nothing borders an enemy.
func frontline(gs *frontier.GameState, f *frontier.Faction) string {
	best, bestStrength := "", -1
	for _, name := range f.TerritoryNames() {
		t := f.Territories[name]
		if !bordersEnemy(gs, t, f.Name) {
			continue
		}
		if s := t.Settlement.Garrison.Strength(); s > bestStrength {
			best, bestStrength = name, s
		}
	}
	return best
}

func bordersEnemy(gs *frontier.GameState, t *frontier.Territory, faction string) bool {
	for _, n := range t.Neighbors {
		if other, ok := gs.World.Territories[n]; ok && other.ControllingFaction != faction {
			return true
		}
	}
	return false
}

// strongestAffordable returns the unit with the highest attack the treasury
// can buy at least one of, ties broken by lower cost then key.
func strongestAffordable(catalog map[string]*frontier.UnitTemplate, treasury int) string {
	keys := make([]string, 0, len(catalog))
	for k := range catalog {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := ""
	for _, k := range keys {
		tpl := catalog[k]
		if tpl.Cost > treasury {
			continue
		}
		if best == "" {
			best = k
			continue
		}
		cur := catalog[best]
		if tpl.Attack > cur.Attack || (tpl.Attack == cur.Attack && tpl.Cost < cur.Cost) {
			best = k
		}
	}
	return best
}

// pickRaid finds the weakest adjacent enemy territory whose garrison is
// weaker than the attacking one.
func pickRaid(gs *frontier.GameState, f *frontier.Faction) (from, to string, ok bool) {
	bestMargin := 0
	for _, name := range f.TerritoryNames() {
		origin := f.Territories[name]
		own := origin.Settlement.Garrison.Strength()
		if own == 0 {
			continue
		}
		neighbors := append([]string(nil), origin.Neighbors...)
		sort.Strings(neighbors)
		for _, n := range neighbors {
			target, exists := gs.World.Territories[n]
			if !exists || target.ControllingFaction == f.Name {
				continue
			}
			margin := own - target.Settlement.Garrison.Strength()
			if margin > bestMargin {
				from, to, bestMargin, ok = name, n, margin, true
			}
		}
	}
	return from, to, ok
}
