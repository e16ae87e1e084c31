package frontier

import "math/rand"

// MaxBattleRounds caps the length of a single battle.
const MaxBattleRounds = 20

// Per-unit damage noise is drawn uniformly from [-damageNoise, +damageNoise].
const damageNoise = 3

// BattleReport is the outcome of one resolved battle.
type BattleReport struct {
	AttackerLosses int  `json:"attacker_losses"`
	DefenderLosses int  `json:"defender_losses"`
	AttackerWon    bool `json:"attacker_won"`
	Rounds         int  `json:"rounds"`
}

// ResolveSeeded resolves a battle with a fresh random stream built from seed.
// Two calls with the same seed and identical armies produce identical results.
func ResolveSeeded(attacker, defender *Army, seed int64) BattleReport {
	return Resolve(attacker, defender, rand.New(rand.NewSource(seed)))
}

// Resolve fights rounds until one side has no alive units or the round cap is
// reached. Damage within a round is simultaneous. The only side effects are
// on the two armies: unit health drops and dead units are purged before
// returning. If the cap is hit with both sides standing, the defender holds.
func Resolve(attacker, defender *Army, rng *rand.Rand) BattleReport {
	var report BattleReport

	for attacker.HasUnits() && defender.HasUnits() && report.Rounds < MaxBattleRounds {
		report.Rounds++
		atkDamage := roundDamage(attacker, rng)
		defDamage := roundDamage(defender, rng)
		report.DefenderLosses += applyDamage(defender, atkDamage)
		report.AttackerLosses += applyDamage(attacker, defDamage)
	}

	report.AttackerWon = !defender.HasUnits() && attacker.HasUnits()
	defender.RemoveDead()
	attacker.RemoveDead()
	return report
}

// roundDamage sums noisy attack over every unit in the army, in order. Units
// killed earlier in the battle have zero attack but still draw noise.
func roundDamage(a *Army, rng *rand.Rand) int {
	total := 0
	for _, u := range a.Units {
		noise := rng.Intn(2*damageNoise+1) - damageNoise
		total += max(0, u.Attack()+noise)
	}
	return total
}

// applyDamage hits every alive unit with the full round damage, less its own
// defense, and returns how many units died this round.
func applyDamage(a *Army, damage int) int {
	losses := 0
	for _, u := range a.Units {
		if !u.Alive() {
			continue
		}
		mitigated := max(0, damage-u.Defense())
		u.Health = max(0, u.Health-mitigated)
		if u.Health == 0 {
			losses++
		}
	}
	return losses
}
