package frontier

import (
	"fmt"
	"sort"
)

// Defaults used by DefaultConfig.
const (
	DefaultMaxTurns        = 25
	DefaultAIRecruitChance = 0.7
	DefaultAIAttackChance  = 0.4
	DefaultEventLogSize    = 15
)

// GarrisonSeed describes the token garrison placed in a freshly conquered
// settlement so it is never left empty.
type GarrisonSeed struct {
	Template string
	Count    int
}

// Config is injected once at game creation. The engine reads catalog entries
// and tuning values only from here.
type Config struct {
	MaxTurns         int
	Units            map[string]*UnitTemplate
	Structures       map[string]*StructureBlueprint
	AIRecruitChance  float64
	AIAttackChance   float64
	ConquestGarrison GarrisonSeed
	EventLogSize     int
}

// DefaultConfig returns the standard frontier rules and catalogs.
func DefaultConfig() Config {
	return Config{
		MaxTurns:         DefaultMaxTurns,
		Units:            DefaultTemplates(),
		Structures:       DefaultStructures(),
		AIRecruitChance:  DefaultAIRecruitChance,
		AIAttackChance:   DefaultAIAttackChance,
		ConquestGarrison: GarrisonSeed{Template: "militia", Count: 1},
		EventLogSize:     DefaultEventLogSize,
	}
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if c.MaxTurns < 1 {
		return fmt.Errorf("max turns must be at least 1, got %d", c.MaxTurns)
	}
	if len(c.Units) == 0 {
		return fmt.Errorf("unit catalog is empty")
	}
	for key, tpl := range c.Units {
		if tpl == nil || tpl.Key != key {
			return fmt.Errorf("unit template %q is mis-keyed", key)
		}
		if tpl.Attack < 0 || tpl.Defense < 0 || tpl.Cost < 0 || tpl.Upkeep < 0 {
			return fmt.Errorf("unit template %q has negative stats", key)
		}
	}
	for key, bp := range c.Structures {
		if bp == nil || bp.Key != key {
			return fmt.Errorf("structure %q is mis-keyed", key)
		}
		if bp.Cost < 0 {
			return fmt.Errorf("structure %q has negative cost", key)
		}
	}
	if c.AIRecruitChance < 0 || c.AIRecruitChance > 1 {
		return fmt.Errorf("AI recruit chance %v out of range", c.AIRecruitChance)
	}
	if c.AIAttackChance < 0 || c.AIAttackChance > 1 {
		return fmt.Errorf("AI attack chance %v out of range", c.AIAttackChance)
	}
	if c.ConquestGarrison.Count > 0 {
		if _, ok := c.Units[c.ConquestGarrison.Template]; !ok {
			return fmt.Errorf("conquest garrison template %q not in unit catalog", c.ConquestGarrison.Template)
		}
	}
	if c.EventLogSize < 1 {
		return fmt.Errorf("event log size must be at least 1, got %d", c.EventLogSize)
	}
	return nil
}

// UnitKeys returns the unit catalog keys in ascending order.
func (c Config) UnitKeys() []string {
	keys := make([]string, 0, len(c.Units))
	for k := range c.Units {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StructureKeys returns the structure catalog keys in ascending order.
func (c Config) StructureKeys() []string {
	keys := make([]string, 0, len(c.Structures))
	for k := range c.Structures {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CheapestUnit returns the key of the lowest-cost template, ties broken by key.
func (c Config) CheapestUnit() string {
	best := ""
	for _, k := range c.UnitKeys() {
		if best == "" || c.Units[k].Cost < c.Units[best].Cost {
			best = k
		}
	}
	return best
}
