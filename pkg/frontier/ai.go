package frontier

import (
	"fmt"
	"sort"
)

// maxAIRecruits caps how many units a rival buys in one turn.
const maxAIRecruits = 3

// attackOption is a legal (origin, target) pair for an AI attack.
type attackOption struct {
	from, to string
}

// runAITurn plays one decision cycle for a rival faction: collect income,
// maybe recruit, maybe attack. Every random draw comes from the session
// stream in a fixed order.
func (gs *GameState) runAITurn(f *Faction) {
	gs.collectIncome(f)

	if gs.rng.Float64() < gs.Config.AIRecruitChance {
		gs.aiRecruit(f)
	}
	if gs.rng.Float64() < gs.Config.AIAttackChance {
		gs.aiAttack(f)
	}
}

func (gs *GameState) aiRecruit(f *Faction) {
	home := richestSettlement(f)
	if home == nil {
		return
	}
	keys := gs.Config.UnitKeys()
	tpl := gs.Config.Units[keys[gs.rng.Intn(len(keys))]]

	quantity := maxAIRecruits
	if tpl.Cost > 0 {
		quantity = min(maxAIRecruits, max(1, f.Treasury/tpl.Cost))
	}
	if tpl.Cost*quantity > f.Treasury {
		return
	}
	// Validated above; recruit cannot fail here.
	_, _ = gs.recruit(f, home.Name, tpl.Key, quantity)
}

// richestSettlement picks the owned territory with the highest population,
// ties broken by name.
func richestSettlement(f *Faction) *Territory {
	var best *Territory
	for _, name := range f.TerritoryNames() {
		t := f.Territories[name]
		if best == nil || t.Settlement.Population > best.Settlement.Population {
			best = t
		}
	}
	return best
}

func (gs *GameState) aiAttack(f *Faction) {
	options := gs.attackOptions(f)
	if len(options) == 0 {
		return
	}
	choice := options[gs.rng.Intn(len(options))]
	if _, err := gs.attack(f, choice.from, choice.to); err != nil {
		gs.logEvent(fmt.Sprintf("%s called off the raid on %s: %v", f.Name, choice.to, err))
	}
}

// attackOptions lists every legal attack for f in name order.
func (gs *GameState) attackOptions(f *Faction) []attackOption {
	var options []attackOption
	for _, name := range f.TerritoryNames() {
		origin := f.Territories[name]
		if !origin.Settlement.Garrison.HasUnits() {
			continue
		}
		neighbors := append([]string(nil), origin.Neighbors...)
		sort.Strings(neighbors)
		for _, n := range neighbors {
			target, ok := gs.World.Territories[n]
			if !ok || target.ControllingFaction == f.Name {
				continue
			}
			options = append(options, attackOption{from: name, to: n})
		}
	}
	return options
}
