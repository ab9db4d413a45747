// Package importer implements the data-entry JSON import pipeline: decoding
// the three-array payload, and writing it into the
// database idempotently — games are keyed by their tagpro_eu id and skipped
// whenever one is already on file.
package importer

import (
	"io"

	"github.com/goccy/go-json"
)

// TeamSeasonEntry is one teamSeasons[] element of the data-entry payload.
type TeamSeasonEntry struct {
	Season    string `json:"season"`
	Franchise string `json:"franchise"`
	Name      string `json:"name"`
	Abbr      string `json:"abbr"`
}

// PlayerSeasonEntry is one playerSeasons[] element. Team is omitted for an
// unrostered player.
type PlayerSeasonEntry struct {
	Season    string  `json:"season"`
	Team      *string `json:"team,omitempty"`
	Player    string  `json:"player"`
	PlayingAs string  `json:"playing_as"`
}

// GamePlayerEntry is one players[] element of a GameEntry.
type GamePlayerEntry struct {
	Team         string `json:"team"`
	PlayerSeason string `json:"player_season"`
	PlayingAs    string `json:"playing_as"`
}

// GameEntry is one games[] element of a MatchEntry.
type GameEntry struct {
	TagproEU    int               `json:"tagpro_eu"`
	MapName     string            `json:"map_name"`
	MapID       *int              `json:"map_id,omitempty"`
	RedTeam     string            `json:"red_team"`
	BlueTeam    string            `json:"blue_team"`
	Team1Score  int               `json:"team1_score"`
	Team2Score  int               `json:"team2_score"`
	Players     []GamePlayerEntry `json:"players"`
}

// MatchEntry is one matches[] element of the data-entry payload.
type MatchEntry struct {
	Season string      `json:"season"`
	Date   string      `json:"date"` // YYYY-MM-DD, parsed on import
	Week   string      `json:"week"`
	Team1  string      `json:"team1"`
	Team2  string      `json:"team2"`
	Games  []GameEntry `json:"games"`
}

// Payload is the full data-entry JSON document: its three
// top-level arrays.
type Payload struct {
	TeamSeasons   []TeamSeasonEntry   `json:"teamSeasons"`
	PlayerSeasons []PlayerSeasonEntry `json:"playerSeasons"`
	Matches       []MatchEntry        `json:"matches"`
}

// DecodePayload reads a data-entry JSON document from r.
func DecodePayload(r io.Reader) (Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Payload{}, err
	}
	return p, nil
}
