package frontier

import "fmt"

// Outcome is the campaign result once the game is over.
type Outcome string

const (
	OutcomeNone    Outcome = ""
	OutcomeVictory Outcome = "Victory"
	OutcomeDefeat  Outcome = "Defeat"
	OutcomeRetired Outcome = "Retired"
)

// RivalTerritoryCount sums the territories held by every non-player faction.
func (gs *GameState) RivalTerritoryCount() int {
	total := 0
	for _, name := range gs.World.FactionNames() {
		if name != gs.PlayerFaction {
			total += gs.World.TerritoryCount(name)
		}
	}
	return total
}

// IsTurnLimitReached reports whether the turn counter has passed the maximum.
func (gs *GameState) IsTurnLimitReached() bool {
	return gs.Turn > gs.Config.MaxTurns
}

// evaluateVictory moves an active game into a terminal outcome when a
// condition holds. Terminal states are never left.
func (gs *GameState) evaluateVictory() {
	if gs.GameOver {
		return
	}
	player := gs.World.TerritoryCount(gs.PlayerFaction)
	rivals := gs.RivalTerritoryCount()

	switch {
	case player == 0:
		gs.finish(OutcomeDefeat, "The Frontier has fallen. Your faction holds no territory.")
	case rivals == 0:
		gs.finish(OutcomeVictory, "Every rival has been driven from the frontier.")
	case gs.IsTurnLimitReached():
		if player >= rivals {
			gs.finish(OutcomeVictory, fmt.Sprintf("The season ends with you holding %d territories against %d.", player, rivals))
		} else {
			gs.finish(OutcomeDefeat, fmt.Sprintf("The season ends with rivals holding %d territories against your %d.", rivals, player))
		}
	}
}

func (gs *GameState) finish(outcome Outcome, msg string) {
	gs.GameOver = true
	gs.Victor = outcome
	gs.logEvent(msg)
}
