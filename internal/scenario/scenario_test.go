package scenario

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/freeeve/frontier-dominion/pkg/frontier"
)

func TestLoadMatchesBuiltInFrontier(t *testing.T) {
	loaded, err := Load("testdata/frontier.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	builtIn, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	a, err := loaded.NewGame(99)
	if err != nil {
		t.Fatal(err)
	}
	b, err := builtIn.NewGame(99)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 6; i++ {
		a.EndTurn()
		b.EndTurn()
	}
	if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
		t.Error("YAML frontier and built-in frontier diverged under the same seed")
	}
}

func TestParseAppliesDefaultsAndReserves(t *testing.T) {
	s, err := Load("testdata/badlands.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Name != "Badlands Duel" || s.Player != "Rustlers" {
		t.Errorf("unexpected header: %q %q", s.Name, s.Player)
	}
	if s.Config.MaxTurns != 8 {
		t.Errorf("expected 8 turns, got %d", s.Config.MaxTurns)
	}
	if s.Config.AIAttackChance != 0 {
		t.Errorf("explicit zero attack chance must be kept, got %v", s.Config.AIAttackChance)
	}
	if s.Config.AIRecruitChance != frontier.DefaultAIRecruitChance {
		t.Errorf("unset recruit chance should default, got %v", s.Config.AIRecruitChance)
	}
	if len(s.Config.Units) != 3 {
		t.Errorf("expected default unit catalog, got %d units", len(s.Config.Units))
	}

	rustlers := s.World.Factions["Rustlers"]
	riders, ok := rustlers.Armies["Night Riders"]
	if !ok || len(riders.Units) != 2 || riders.Supplies != 6 {
		t.Fatalf("reserve not built: %+v", riders)
	}
	// cavalry garrison 5 + two cavalry reserves 10
	if got := rustlers.Upkeep(); got != 15 {
		t.Errorf("expected upkeep 15, got %d", got)
	}
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"missing territories", "factions: [{name: A, treasury: 1}]"},
		{"negative treasury", `
factions: [{name: A, treasury: -5}]
territories: [{name: X, owner: A, neighbors: [], population: 1}]`},
		{"unknown field", `
factions: [{name: A, treasury: 5}]
territories: [{name: X, owner: A, neighbors: [], population: 1, gold: 3}]`},
		{"bad class", `
units: [{key: ninja, name: Ninja, class: stealth, attack: 1, defense: 1, cost: 1, upkeep: 1}]
factions: [{name: A, treasury: 5}]
territories: [{name: X, owner: A, neighbors: [], population: 1}]`},
		{"chance out of range", `
settings: {ai_attack_chance: 1.5}
factions: [{name: A, treasury: 5}]
territories: [{name: X, owner: A, neighbors: [], population: 1}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseRejectsBrokenWorld(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantSub string
	}{
		{"one-way road", `
factions: [{name: A, treasury: 5}, {name: B, treasury: 5}]
territories:
  - {name: X, owner: A, neighbors: [Y], population: 1}
  - {name: Y, owner: B, neighbors: [], population: 1}`, "no reverse"},
		{"unknown owner", `
factions: [{name: A, treasury: 5}]
territories: [{name: X, owner: Z, neighbors: [], population: 1}]`, "territory X"},
		{"unknown garrison unit", `
factions: [{name: A, treasury: 5}]
territories: [{name: X, owner: A, neighbors: [], population: 1, garrison: [dragoon]}]`, "garrison"},
		{"unknown player", `
player: Ghost
factions: [{name: A, treasury: 5}]
territories: [{name: X, owner: A, neighbors: [], population: 1}]`, "player"},
		{"bad conquest template", `
settings: {conquest_garrison: {template: dragoon, count: 1}}
factions: [{name: A, treasury: 5}]
territories: [{name: X, owner: A, neighbors: [], population: 1}]`, "settings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("expected %q in %v", tt.wantSub, err)
			}
		})
	}
}

func TestParseDefaultsPlayerToFirstFaction(t *testing.T) {
	s, err := Parse([]byte(`
factions: [{name: Homesteaders, treasury: 100}, {name: Railroad, treasury: 100}]
territories:
  - {name: X, owner: Homesteaders, neighbors: [Y], population: 100}
  - {name: Y, owner: Railroad, neighbors: [X], population: 100}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.Player != "Homesteaders" {
		t.Errorf("expected Homesteaders, got %s", s.Player)
	}
	if s.Name != "Untitled Frontier" {
		t.Errorf("unexpected name %q", s.Name)
	}
}

func TestWithPlayer(t *testing.T) {
	s, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	if err := s.WithPlayer(""); err != nil || s.Player != frontier.FrontierLeague {
		t.Errorf("empty name should keep player, got %s %v", s.Player, err)
	}
	if err := s.WithPlayer(frontier.CanyonSyndicate); err != nil {
		t.Fatal(err)
	}
	gs, err := s.NewGame(1)
	if err != nil {
		t.Fatal(err)
	}
	if gs.CurrentFaction().Name != frontier.CanyonSyndicate {
		t.Errorf("expected Canyon Syndicate, got %s", gs.CurrentFaction().Name)
	}
	if err := s.WithPlayer("Pinkertons"); !errors.Is(err, frontier.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("testdata/nope.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
