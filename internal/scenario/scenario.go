// Package scenario loads campaign setups from YAML. A scenario document is
// checked against an embedded JSON Schema, converted into an engine config
// and world, and the world graph is validated before a game can start.
package scenario

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/freeeve/frontier-dominion/pkg/frontier"
)

//go:embed scenario.schema.json
var schemaJSON string

const schemaURL = "scenario.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Document is the YAML shape of a scenario file.
type Document struct {
	Name        string          `yaml:"name"`
	Player      string          `yaml:"player"`
	Settings    Settings        `yaml:"settings"`
	Units       []UnitSpec      `yaml:"units"`
	Structures  []StructureSpec `yaml:"structures"`
	Factions    []FactionSpec   `yaml:"factions"`
	Territories []TerritorySpec `yaml:"territories"`
}

// Settings overrides engine tuning. Unset values keep the engine defaults.
type Settings struct {
	MaxTurns         int           `yaml:"max_turns"`
	AIRecruitChance  *float64      `yaml:"ai_recruit_chance"`
	AIAttackChance   *float64      `yaml:"ai_attack_chance"`
	EventLogSize     int           `yaml:"event_log_size"`
	ConquestGarrison *GarrisonSpec `yaml:"conquest_garrison"`
}

type GarrisonSpec struct {
	Template string `yaml:"template"`
	Count    int    `yaml:"count"`
}

type UnitSpec struct {
	Key     string `yaml:"key"`
	Name    string `yaml:"name"`
	Class   string `yaml:"class"`
	Attack  int    `yaml:"attack"`
	Defense int    `yaml:"defense"`
	Cost    int    `yaml:"cost"`
	Upkeep  int    `yaml:"upkeep"`
}

type StructureSpec struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Cost        int    `yaml:"cost"`
	IncomeBonus int    `yaml:"income_bonus"`
}

type FactionSpec struct {
	Name     string        `yaml:"name"`
	Treasury int           `yaml:"treasury"`
	Reserves []ReserveSpec `yaml:"reserves"`
}

// ReserveSpec is a field army held outside any garrison. It costs upkeep
// but never fights.
type ReserveSpec struct {
	Name     string   `yaml:"name"`
	Units    []string `yaml:"units"`
	Supplies int      `yaml:"supplies"`
}

type TerritorySpec struct {
	Name       string   `yaml:"name"`
	Owner      string   `yaml:"owner"`
	Neighbors  []string `yaml:"neighbors"`
	Population int      `yaml:"population"`
	Prosperity int      `yaml:"prosperity"`
	Defenses   int      `yaml:"defenses"`
	Garrison   []string `yaml:"garrison"`
}

// Scenario is a ready-to-play setup.
type Scenario struct {
	Name   string
	Player string
	Config frontier.Config
	World  *frontier.World
}

// Default returns the built-in six-territory frontier.
func Default() (*Scenario, error) {
	cfg := frontier.DefaultConfig()
	w, err := frontier.DefaultWorld(cfg.Units)
	if err != nil {
		return nil, err
	}
	return &Scenario{Name: "The Frontier", Player: frontier.DefaultPlayer, Config: cfg, World: w}, nil
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse validates a YAML scenario document and builds the engine objects.
func Parse(data []byte) (*Scenario, error) {
	if err := validateDocument(data); err != nil {
		return nil, err
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	return doc.Build()
}

// validateDocument checks raw YAML against the schema. The schema library
// validates JSON values, so the document takes a detour through JSON.
func validateDocument(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode scenario: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("scenario is empty")
	}
	js, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("scenario is not representable as JSON: %w", err)
	}
	var v any
	if err := json.Unmarshal(js, &v); err != nil {
		return err
	}
	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}
	return nil
}

// Build converts the document into a config and a validated world.
func (d *Document) Build() (*Scenario, error) {
	cfg := frontier.DefaultConfig()
	if len(d.Units) > 0 {
		cfg.Units = make(map[string]*frontier.UnitTemplate, len(d.Units))
		for _, u := range d.Units {
			if _, dup := cfg.Units[u.Key]; dup {
				return nil, fmt.Errorf("duplicate unit %q", u.Key)
			}
			cfg.Units[u.Key] = &frontier.UnitTemplate{
				Key: u.Key, Name: u.Name, Class: frontier.UnitClass(u.Class),
				Attack: u.Attack, Defense: u.Defense, Cost: u.Cost, Upkeep: u.Upkeep,
			}
		}
	}
	if len(d.Structures) > 0 {
		cfg.Structures = make(map[string]*frontier.StructureBlueprint, len(d.Structures))
		for _, s := range d.Structures {
			if _, dup := cfg.Structures[s.Key]; dup {
				return nil, fmt.Errorf("duplicate structure %q", s.Key)
			}
			cfg.Structures[s.Key] = &frontier.StructureBlueprint{
				Key: s.Key, Name: s.Name, Description: s.Description,
				Cost: s.Cost, IncomeBonus: s.IncomeBonus,
			}
		}
	}
	d.Settings.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}

	w := frontier.NewWorld()
	for _, f := range d.Factions {
		if _, dup := w.Factions[f.Name]; dup {
			return nil, fmt.Errorf("duplicate faction %q", f.Name)
		}
		faction := frontier.NewFaction(f.Name, f.Treasury)
		for _, r := range f.Reserves {
			army, err := frontier.ArmyFromTemplates(r.Name, cfg.Units, r.Units)
			if err != nil {
				return nil, fmt.Errorf("faction %s reserve %s: %w", f.Name, r.Name, err)
			}
			army.Supplies = r.Supplies
			faction.Armies[r.Name] = army
		}
		w.AddFaction(faction)
	}
	for _, t := range d.Territories {
		s := frontier.NewSettlement(t.Name, t.Population, t.Prosperity, t.Defenses)
		if len(t.Garrison) > 0 {
			garrison, err := frontier.ArmyFromTemplates(s.Garrison.Name, cfg.Units, t.Garrison)
			if err != nil {
				return nil, fmt.Errorf("territory %s garrison: %w", t.Name, err)
			}
			s.Garrison = garrison
		}
		terr := &frontier.Territory{
			Name:       t.Name,
			Settlement: s,
			Neighbors:  append([]string(nil), t.Neighbors...),
		}
		if err := w.AddTerritory(terr, t.Owner); err != nil {
			return nil, fmt.Errorf("territory %s: %w", t.Name, err)
		}
	}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}

	player := d.Player
	if player == "" {
		player = d.Factions[0].Name
	}
	if _, err := w.Faction(player); err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}

	name := d.Name
	if name == "" {
		name = "Untitled Frontier"
	}
	return &Scenario{Name: name, Player: player, Config: cfg, World: w}, nil
}

func (s Settings) apply(cfg *frontier.Config) {
	if s.MaxTurns > 0 {
		cfg.MaxTurns = s.MaxTurns
	}
	if s.AIRecruitChance != nil {
		cfg.AIRecruitChance = *s.AIRecruitChance
	}
	if s.AIAttackChance != nil {
		cfg.AIAttackChance = *s.AIAttackChance
	}
	if s.EventLogSize > 0 {
		cfg.EventLogSize = s.EventLogSize
	}
	if s.ConquestGarrison != nil {
		cfg.ConquestGarrison = frontier.GarrisonSeed{
			Template: s.ConquestGarrison.Template,
			Count:    s.ConquestGarrison.Count,
		}
	}
}

// NewGame starts a session on this scenario. The scenario's world is used
// directly, so call NewGame once per loaded scenario.
func (s *Scenario) NewGame(seed int64) (*frontier.GameState, error) {
	return frontier.NewGame(s.Config, s.World, s.Player, seed)
}

// WithPlayer switches the human faction. An empty name keeps the current one.
func (s *Scenario) WithPlayer(name string) error {
	if name == "" {
		return nil
	}
	if _, err := s.World.Faction(name); err != nil {
		return err
	}
	s.Player = name
	return nil
}
