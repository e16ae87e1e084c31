package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/freeeve/frontier-dominion/internal/render"
	"github.com/freeeve/frontier-dominion/pkg/frontier"
)

// statusEvents is how many recent events the status panel shows.
const statusEvents = 5

var errInvalidSelection = errors.New("invalid selection")

type action struct {
	key  string
	desc string
	run  func(*cli) error
}

var actions = []action{
	{"v", "View detailed report", (*cli).viewState},
	{"m", "View frontier map", (*cli).viewMap},
	{"c", "Collect income", (*cli).collectIncome},
	{"r", "Recruit units", (*cli).recruit},
	{"b", "Develop settlement", (*cli).build},
	{"a", "Attack neighboring territory", (*cli).attack},
	{"e", "End turn", (*cli).endTurn},
	{"q", "Quit", (*cli).quit},
}

// cli drives one session from a line-oriented reader. It owns no game rules;
// every decision goes through the GameState command surface.
type cli struct {
	gs  *frontier.GameState
	in  *bufio.Scanner
	out io.Writer

	// onTurnEnd is called with a fresh snapshot after every completed turn.
	onTurnEnd func(frontier.Snapshot)
	// closedOnEndTurn is set when EndTurn decided the game.
	closedOnEndTurn bool
}

func newCLI(gs *frontier.GameState, in io.Reader, out io.Writer) *cli {
	return &cli{gs: gs, in: bufio.NewScanner(in), out: out}
}

func (c *cli) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// readLine returns the next trimmed input line. End of input retires the
// campaign so a closed stdin never spins.
func (c *cli) readLine(prompt string) (string, bool) {
	c.printf("%s", prompt)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

// choose lists options and returns the zero-based index picked.
func (c *cli) choose(header, prompt string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, errInvalidSelection
	}
	c.printf("%s\n", header)
	for i, o := range options {
		c.printf("  %d. %s\n", i+1, o)
	}
	line, ok := c.readLine(prompt)
	if !ok {
		return 0, io.EOF
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(options) {
		return 0, errInvalidSelection
	}
	return n - 1, nil
}

func (c *cli) run() {
	c.printf("Welcome to Frontier Dominion! Lead the %s to victory.\n", c.gs.PlayerFaction)
	for !c.gs.GameOver {
		c.printf("\n%s\n\n", render.StatusPanel(c.gs.Snapshot(), statusEvents))
		a, ok := c.promptAction()
		if !ok {
			c.gs.Quit()
			break
		}
		if err := a.run(c); err != nil {
			if errors.Is(err, io.EOF) {
				c.gs.Quit()
				break
			}
			c.printf("Action failed: %v\n", err)
		}
	}
	snap := c.gs.Snapshot()
	c.printf("\n%s\n\n%s\n", render.StatusPanel(snap, statusEvents), render.Map(snap))
	c.printf("Frontier Dominion concluded. Share your legend with the townsfolk!\n")
}

func (c *cli) promptAction() (action, bool) {
	for {
		c.printf("Choose an action:\n")
		for _, a := range actions {
			c.printf("  [%s] %s\n", a.key, a.desc)
		}
		line, ok := c.readLine("> ")
		if !ok {
			return action{}, false
		}
		choice := strings.ToLower(line)
		for _, a := range actions {
			if a.key == choice {
				return a, true
			}
		}
		c.printf("Please choose a valid option.\n")
	}
}

func (c *cli) viewState() error {
	c.printf("%s\n", render.Report(c.gs.Snapshot()))
	return nil
}

func (c *cli) viewMap() error {
	c.printf("%s\n", render.Map(c.gs.Snapshot()))
	return nil
}

func (c *cli) collectIncome() error {
	income := c.gs.CollectIncome()
	c.printf("Collected %s in taxes and trade.\n", render.Money(income))
	return nil
}

func (c *cli) recruit() error {
	territories := c.gs.CurrentFaction().TerritoryNames()
	if len(territories) == 0 {
		c.printf("You do not control any settlements to recruit in.\n")
		return nil
	}
	ti, err := c.choose("Available settlements:", "Select settlement: ", territories)
	if err != nil {
		return err
	}

	catalog := c.gs.AvailableRecruits()
	keys := c.gs.Config.UnitKeys()
	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = render.UnitLine(catalog[k])
	}
	ui, err := c.choose("Available recruits:", "Select unit type: ", lines)
	if err != nil {
		return err
	}

	line, ok := c.readLine("Quantity: ")
	if !ok {
		return io.EOF
	}
	qty, err := strconv.Atoi(line)
	if err != nil {
		return errInvalidSelection
	}
	cost, err := c.gs.Recruit(territories[ti], keys[ui], qty)
	if err != nil {
		return err
	}
	c.printf("Recruited %d units of %s for %s.\n", qty, catalog[keys[ui]].Name, render.Money(cost))
	return nil
}

func (c *cli) build() error {
	f := c.gs.CurrentFaction()
	territories := f.TerritoryNames()
	if len(territories) == 0 {
		c.printf("You do not control any settlements to develop.\n")
		return nil
	}
	ti, err := c.choose("Develop which settlement?", "Select settlement: ", territories)
	if err != nil {
		return err
	}
	settlement := f.Territories[territories[ti]].Settlement

	catalog := c.gs.AvailableStructures()
	keys := c.gs.Config.StructureKeys()
	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = render.StructureLine(catalog[k], settlement.StructureLevel(k))
	}
	si, err := c.choose("Available structures:", "Build which structure: ", lines)
	if err != nil {
		return err
	}

	level, err := c.gs.BuildStructure(territories[ti], keys[si])
	if err != nil {
		return err
	}
	c.printf("%s upgraded the %s to level %d.\n", territories[ti], catalog[keys[si]].Name, level)
	return nil
}

func (c *cli) attack() error {
	f := c.gs.CurrentFaction()
	territories := f.TerritoryNames()
	if len(territories) == 0 {
		c.printf("You have nowhere to attack from.\n")
		return nil
	}
	fi, err := c.choose("Your territories:", "Attack from: ", territories)
	if err != nil {
		return err
	}
	origin := f.Territories[territories[fi]]
	targets := append([]string(nil), origin.Neighbors...)
	ti, err := c.choose("Targets:", "Attack which territory: ", targets)
	if err != nil {
		return err
	}

	report, err := c.gs.Attack(origin.Name, targets[ti])
	if err != nil {
		return err
	}
	c.printf("%s\n", render.BattleLine(report))
	return nil
}

func (c *cli) endTurn() error {
	c.gs.EndTurn()
	c.closedOnEndTurn = c.gs.GameOver
	c.printf("Turn ended.\n")
	if c.onTurnEnd != nil {
		c.onTurnEnd(c.gs.Snapshot())
	}
	return nil
}

// turnsPlayed counts the turns the player started.
func (c *cli) turnsPlayed() int {
	if c.closedOnEndTurn {
		return c.gs.Turn - 1
	}
	return c.gs.Turn
}

func (c *cli) quit() error {
	c.gs.Quit()
	c.printf("You ride off into the sunset. Thanks for playing!\n")
	return nil
}
