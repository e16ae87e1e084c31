package frontier

import (
	"math/rand"
	"testing"
)

func mustArmy(t *testing.T, name string, keys ...string) *Army {
	t.Helper()
	a, err := ArmyFromTemplates(name, DefaultTemplates(), keys)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func healths(a *Army) []int {
	out := make([]int, len(a.Units))
	for i, u := range a.Units {
		out[i] = u.Health
	}
	return out
}

func TestBattleResolvesWithSeed(t *testing.T) {
	attackers := mustArmy(t, "Attackers", "militia", "cavalry")
	defenders := mustArmy(t, "Defenders", "militia")
	report := ResolveSeeded(attackers, defenders, 42)
	if !report.AttackerWon {
		t.Error("expected attackers to win")
	}
	if report.Rounds > MaxBattleRounds {
		t.Errorf("rounds %d exceed cap", report.Rounds)
	}
	if report.DefenderLosses != 1 {
		t.Errorf("expected 1 defender loss, got %d", report.DefenderLosses)
	}
	if len(defenders.Units) != 0 {
		t.Errorf("dead defenders should be purged, %d remain", len(defenders.Units))
	}
}

func TestBattleDeterministicForSeed(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		a1 := mustArmy(t, "A", "militia", "cavalry", "militia")
		d1 := mustArmy(t, "D", "artillery", "militia", "militia")
		a2 := mustArmy(t, "A", "militia", "cavalry", "militia")
		d2 := mustArmy(t, "D", "artillery", "militia", "militia")

		r1 := ResolveSeeded(a1, d1, seed)
		r2 := ResolveSeeded(a2, d2, seed)
		if r1 != r2 {
			t.Fatalf("seed %d: reports differ: %+v vs %+v", seed, r1, r2)
		}
		h1, h2 := healths(a1), healths(a2)
		if len(h1) != len(h2) {
			t.Fatalf("seed %d: attacker survivors differ", seed)
		}
		for i := range h1 {
			if h1[i] != h2[i] {
				t.Fatalf("seed %d: attacker unit %d health %d vs %d", seed, i, h1[i], h2[i])
			}
		}
		g1, g2 := healths(d1), healths(d2)
		if len(g1) != len(g2) {
			t.Fatalf("seed %d: defender survivors differ", seed)
		}
		for i := range g1 {
			if g1[i] != g2[i] {
				t.Fatalf("seed %d: defender unit %d health %d vs %d", seed, i, g1[i], g2[i])
			}
		}
	}
}

func TestBattleInvariantsAcrossSeeds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	keys := []string{"militia", "cavalry", "artillery"}
	for i := 0; i < 200; i++ {
		var ak, dk []string
		for n := rng.Intn(4) + 1; n > 0; n-- {
			ak = append(ak, keys[rng.Intn(len(keys))])
		}
		for n := rng.Intn(4) + 1; n > 0; n-- {
			dk = append(dk, keys[rng.Intn(len(keys))])
		}
		att := mustArmy(t, "A", ak...)
		def := mustArmy(t, "D", dk...)
		report := Resolve(att, def, rng)

		if report.Rounds > MaxBattleRounds {
			t.Fatalf("rounds %d exceed cap", report.Rounds)
		}
		if report.AttackerWon && def.HasUnits() {
			t.Fatal("attacker won but defender still has units")
		}
		if report.AttackerWon && !att.HasUnits() {
			t.Fatal("attacker won with no survivors")
		}
		for _, u := range append(att.Units, def.Units...) {
			if !u.Alive() {
				t.Fatal("dead units must be purged after a battle")
			}
		}
		if report.AttackerLosses+len(att.Units) != len(ak) {
			t.Fatalf("attacker losses %d + survivors %d != %d", report.AttackerLosses, len(att.Units), len(ak))
		}
		if report.DefenderLosses+len(def.Units) != len(dk) {
			t.Fatalf("defender losses %d + survivors %d != %d", report.DefenderLosses, len(def.Units), len(dk))
		}
	}
}

func TestBattleRoundCapDefenderHolds(t *testing.T) {
	// Attack 0 with at most +3 noise never beats defense 10.
	wall := &UnitTemplate{Key: "wall", Name: "Stockade", Class: Infantry, Attack: 0, Defense: 10}
	att := &Army{Units: []*Unit{NewUnit(wall)}}
	def := &Army{Units: []*Unit{NewUnit(wall), NewUnit(wall)}}

	report := ResolveSeeded(att, def, 1)
	if report.Rounds != MaxBattleRounds {
		t.Errorf("expected %d rounds, got %d", MaxBattleRounds, report.Rounds)
	}
	if report.AttackerWon {
		t.Error("defender should hold when the cap is exhausted")
	}
	if !att.HasUnits() || !def.HasUnits() {
		t.Error("both sides should still stand")
	}
	if report.AttackerLosses != 0 || report.DefenderLosses != 0 {
		t.Errorf("expected no losses, got %+v", report)
	}
}

func TestBattleEmptyArmies(t *testing.T) {
	att := mustArmy(t, "A", "militia")
	report := ResolveSeeded(att, NewArmy("Nobody"), 3)
	if !report.AttackerWon || report.Rounds != 0 {
		t.Errorf("attacking an empty garrison should win in 0 rounds: %+v", report)
	}

	def := mustArmy(t, "D", "militia")
	report = ResolveSeeded(NewArmy("Nobody"), def, 3)
	if report.AttackerWon || report.Rounds != 0 {
		t.Errorf("an empty attacker cannot win: %+v", report)
	}
	if len(def.Units) != 1 || def.Units[0].Health != FullHealth {
		t.Error("defender should be untouched")
	}
}

func TestBattleSimultaneousDamage(t *testing.T) {
	// Two glass cannons kill each other in the same round: nobody wins.
	glass := &UnitTemplate{Key: "glass", Name: "Glass Cannon", Class: Artillery, Attack: 200, Defense: 0}
	att := &Army{Units: []*Unit{NewUnit(glass)}}
	def := &Army{Units: []*Unit{NewUnit(glass)}}
	report := ResolveSeeded(att, def, 9)
	if report.Rounds != 1 {
		t.Errorf("expected 1 round, got %d", report.Rounds)
	}
	if report.AttackerWon {
		t.Error("mutual destruction is not an attacker win")
	}
	if report.AttackerLosses != 1 || report.DefenderLosses != 1 {
		t.Errorf("expected one loss each, got %+v", report)
	}
}

func TestBattleFallenUnitsStillDrawNoise(t *testing.T) {
	// The scout dies in round 1. The wall and the fort can never hurt each
	// other, so the battle runs to the cap and every round draws two attacker
	// values and one defender value.
	wall := &UnitTemplate{Key: "wall", Name: "Stockade", Class: Infantry, Attack: 0, Defense: 50}
	scout := &UnitTemplate{Key: "scout", Name: "Scout", Class: Cavalry, Attack: 0, Defense: 0}
	fort := &UnitTemplate{Key: "fort", Name: "Fort", Class: Artillery, Attack: 40, Defense: 100}

	doomed := NewUnit(scout)
	doomed.Health = 10
	att := &Army{Units: []*Unit{doomed, NewUnit(wall)}}
	def := &Army{Units: []*Unit{NewUnit(fort)}}

	rng := rand.New(rand.NewSource(11))
	report := Resolve(att, def, rng)
	if report.Rounds != MaxBattleRounds || report.AttackerWon {
		t.Fatalf("expected the fort to hold for %d rounds, got %+v", MaxBattleRounds, report)
	}
	if report.AttackerLosses != 1 || len(att.Units) != 1 {
		t.Fatalf("expected the scout to fall and be purged, got %+v", report)
	}

	ref := rand.New(rand.NewSource(11))
	for i := 0; i < MaxBattleRounds*3; i++ {
		ref.Intn(2*damageNoise + 1)
	}
	if rng.Int63() != ref.Int63() {
		t.Error("a fallen unit should keep drawing noise until the battle ends")
	}
}

func TestRoundDamageCountsFallenUnits(t *testing.T) {
	veteran := &UnitTemplate{Key: "vet", Name: "Veteran", Class: Infantry, Attack: 12, Defense: 4}
	a := &Army{}
	for i := 0; i < 30; i++ {
		u := NewUnit(veteran)
		u.Health = 0
		a.Units = append(a.Units, u)
	}

	for seed := int64(0); seed < 20; seed++ {
		ref := rand.New(rand.NewSource(seed))
		want := 0
		for range a.Units {
			want += max(0, ref.Intn(2*damageNoise+1)-damageNoise)
		}
		if got := roundDamage(a, rand.New(rand.NewSource(seed))); got != want {
			t.Fatalf("seed %d: round damage %d, want %d", seed, got, want)
		}
	}
}

func TestBattleFallenNoiseCanBreakDefender(t *testing.T) {
	// A lone unarmed survivor backed by thirty fallen comrades still wears
	// down an undefended outpost.
	wall := &UnitTemplate{Key: "wall", Name: "Stockade", Class: Infantry, Attack: 0, Defense: 10}
	tent := &UnitTemplate{Key: "tent", Name: "Tent", Class: Infantry, Attack: 0, Defense: 0}
	att := &Army{Units: []*Unit{NewUnit(wall)}}
	for i := 0; i < 30; i++ {
		u := NewUnit(wall)
		u.Health = 0
		att.Units = append(att.Units, u)
	}
	def := &Army{Units: []*Unit{NewUnit(tent)}}

	report := ResolveSeeded(att, def, 7)
	if !report.AttackerWon {
		t.Fatalf("expected the outpost to fall, got %+v", report)
	}
	if report.Rounds >= MaxBattleRounds {
		t.Errorf("expected a quick win, took %d rounds", report.Rounds)
	}
	if report.AttackerLosses != 0 || len(att.Units) != 1 {
		t.Errorf("only the survivor should remain, got %d units (%+v)", len(att.Units), report)
	}
}
