// Package render turns engine snapshots into terminal text.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/freeeve/frontier-dominion/pkg/frontier"
)

const (
	playerSymbol = "★"
	otherSymbol  = "✦"
)

var factionSymbols = map[string]string{
	frontier.DesertUnion:     "♞",
	frontier.CanyonSyndicate: "♠",
}

// Money formats a dollar amount with thousands separators.
func Money(n int) string {
	if n < 0 {
		return "-$" + humanize.Comma(int64(-n))
	}
	return "$" + humanize.Comma(int64(n))
}

// Symbol returns the map marker for a faction as seen by player.
func Symbol(faction, player string) string {
	if faction == player {
		return playerSymbol
	}
	if s, ok := factionSymbols[faction]; ok {
		return s
	}
	return otherSymbol
}

// Badge is a territory label with its owner marker.
func Badge(t frontier.TerritoryView, player string) string {
	return fmt.Sprintf("%s %s (%s)", t.Name, Symbol(t.Owner, player), t.Owner)
}

// StatusPanel is the per-turn overview shown above the action menu.
func StatusPanel(s frontier.Snapshot, eventCount int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== Turn %d/%d | Treasury: %s | Prosperity: %d ===\n",
		s.Turn, s.MaxTurns, Money(s.Treasury), s.Prosperity)

	b.WriteString("-- Territories --\n")
	for _, t := range s.PlayerTerritories() {
		fmt.Fprintf(&b, "%s: pop %s, prosperity %d, garrison %d units\n",
			t.Name, humanize.Comma(int64(t.Population)), t.Prosperity, t.Garrison)
	}

	b.WriteString("\n-- Factions --\n")
	for _, st := range s.Standings {
		fmt.Fprintf(&b, "%s %s: territories %d, treasury %s\n",
			Symbol(st.Faction, s.Player), st.Faction, st.Territories, Money(st.Treasury))
	}

	b.WriteString("\n-- Recent Events --\n")
	events := s.Events
	if eventCount > 0 && len(events) > eventCount {
		events = events[len(events)-eventCount:]
	}
	if len(events) == 0 {
		b.WriteString("No major events yet.\n")
	}
	for _, e := range events {
		b.WriteString(e + "\n")
	}

	if s.GameOver && s.Victor != frontier.OutcomeNone {
		fmt.Fprintf(&b, "\nCampaign Result: %s!\n", s.Victor)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Report is the detailed view of the player's holdings.
func Report(s frontier.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Turn %d of %d\n", s.Turn, s.MaxTurns)
	fmt.Fprintf(&b, "Faction: %s\n", s.Player)
	fmt.Fprintf(&b, "Treasury: %s (income %s, upkeep %s per turn)\n",
		Money(s.Treasury), Money(s.Income), Money(s.Upkeep))
	b.WriteString("Territories:\n")
	for _, t := range s.PlayerTerritories() {
		fmt.Fprintf(&b, "- %s: pop %s, prosperity %d, defenses %d, income %s, garrison %d units (strength %d)\n",
			t.Name, humanize.Comma(int64(t.Population)), t.Prosperity, t.Defenses,
			Money(t.Income), t.Garrison, t.Strength)
		for _, st := range t.Structures {
			fmt.Fprintf(&b, "    %s Lv.%d\n", st.Name, st.Level)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// builtInLayout lists the territories the drawn frontier map expects.
var builtInLayout = []string{"Dry Gulch", "Copper Ridge", "Riverbend", "Mesa Verde", "Silver Springs", "Lost Canyon"}

// Map renders the world. The built-in frontier gets its drawn layout; any
// other scenario is listed as an adjacency table.
func Map(s frontier.Snapshot) string {
	byName := make(map[string]frontier.TerritoryView, len(s.Territories))
	for _, t := range s.Territories {
		byName[t.Name] = t
	}

	var lines []string
	if len(byName) == len(builtInLayout) && hasAll(byName, builtInLayout) {
		badge := func(name string) string { return Badge(byName[name], s.Player) }
		dg, cr, rb := badge("Dry Gulch"), badge("Copper Ridge"), badge("Riverbend")
		mv, ss, lc := badge("Mesa Verde"), badge("Silver Springs"), badge("Lost Canyon")
		lines = []string{
			fmt.Sprintf("%s─── %s─── %s", pad(dg, 32), pad(cr, 32), rb),
			strings.Repeat(" ", 14) + "\\" + strings.Repeat(" ", 27) + "/",
			fmt.Sprintf("%s%s─── %s", strings.Repeat(" ", 15), pad(mv, 32), ss),
			strings.Repeat(" ", 52) + "│",
			strings.Repeat(" ", 49) + lc,
		}
	} else {
		for _, t := range s.Territories {
			neighbors := append([]string(nil), t.Neighbors...)
			sort.Strings(neighbors)
			lines = append(lines, fmt.Sprintf("%s ── %s", Badge(t, s.Player), strings.Join(neighbors, ", ")))
		}
	}
	lines = append(lines, "", legend(s))
	return strings.Join(lines, "\n")
}

func legend(s frontier.Snapshot) string {
	parts := []string{playerSymbol + " You"}
	other := false
	for _, st := range s.Standings {
		if st.Faction == s.Player {
			continue
		}
		if sym, ok := factionSymbols[st.Faction]; ok {
			parts = append(parts, sym+" "+st.Faction)
		} else {
			other = true
		}
	}
	sort.Strings(parts[1:])
	if other {
		parts = append(parts, otherSymbol+" Other faction")
	}
	return "Legend: " + strings.Join(parts, " | ")
}

func hasAll(m map[string]frontier.TerritoryView, names []string) bool {
	for _, n := range names {
		if _, ok := m[n]; !ok {
			return false
		}
	}
	return true
}

// pad right-pads to a display width counted in runes, since the faction
// markers are multi-byte.
func pad(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// UnitLine describes a recruitable template for menus.
func UnitLine(tpl *frontier.UnitTemplate) string {
	class := string(tpl.Class)
	if class != "" {
		class = strings.ToUpper(class[:1]) + class[1:]
	}
	return fmt.Sprintf("%s (%s) - Atk %d / Def %d, Cost %s, Upkeep %s",
		tpl.Name, class, tpl.Attack, tpl.Defense, Money(tpl.Cost), Money(tpl.Upkeep))
}

// StructureLine describes a blueprint and its current level for menus.
func StructureLine(bp *frontier.StructureBlueprint, level int) string {
	return fmt.Sprintf("%s (Lv.%d) - Cost %s: %s", bp.Name, level, Money(bp.Cost), bp.Description)
}

// BattleLine summarises a battle for the player.
func BattleLine(r frontier.BattleReport) string {
	if r.AttackerWon {
		return fmt.Sprintf("Victory! Lost %d units, killed %d in %d rounds.", r.AttackerLosses, r.DefenderLosses, r.Rounds)
	}
	return fmt.Sprintf("Defeat. Lost %d units, killed %d in %d rounds.", r.AttackerLosses, r.DefenderLosses, r.Rounds)
}
