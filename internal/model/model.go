package model

import (
	"sort"
	"time"
)

// Campaign is the archived outcome of a finished session. It records the
// result only; a campaign cannot be resumed from it.
type Campaign struct {
	ID         string          `json:"id" db:"id"`
	Name       string          `json:"name" db:"name"`
	Scenario   string          `json:"scenario" db:"scenario"`
	Seed       int64           `json:"seed" db:"seed"`
	Strategy   string          `json:"strategy" db:"strategy"`
	Player     string          `json:"player" db:"player"`
	Victor     string          `json:"victor" db:"victor"` // Victory, Defeat, Retired
	Turns      int             `json:"turns" db:"turns"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	FinishedAt time.Time       `json:"finished_at" db:"finished_at"`
	Standings  []FactionResult `json:"standings,omitempty" db:"-"`
}

// FactionResult is one faction's final position in a campaign.
type FactionResult struct {
	CampaignID  string `json:"-" db:"campaign_id"`
	Rank        int    `json:"rank" db:"rank"`
	Faction     string `json:"faction" db:"faction"`
	Territories int    `json:"territories" db:"territories"`
	Treasury    int    `json:"treasury" db:"treasury"`
}

// ScoreEntry is one line of the leaderboard.
type ScoreEntry struct {
	CampaignID string  `json:"campaign_id"`
	Score      float64 `json:"score"`
}

// Score ranks a finished campaign for the leaderboard: the player's final
// territories dominate, treasury breaks ties, and a win adds a flat bonus.
func (c *Campaign) Score() float64 {
	var player FactionResult
	for _, s := range c.Standings {
		if s.Faction == c.Player {
			player = s
			break
		}
	}
	score := float64(player.Territories*1000 + player.Treasury)
	if c.Victor == "Victory" {
		score += 5000
	}
	return score
}

// SortStandings orders standings by rank.
func (c *Campaign) SortStandings() {
	sort.Slice(c.Standings, func(i, j int) bool { return c.Standings[i].Rank < c.Standings[j].Rank })
}
