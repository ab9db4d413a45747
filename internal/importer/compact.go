package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// MarshalCompact renders payload the way an operator hand-reviewing a
// data-entry file wants to see it: every scalar-only object collapses to
// one line, while any object or array holding further structure stays
// multi-line and indented. Grounded on
// original_source/reference/views/data_entry.py's format_compact_json,
// rewritten against Payload's known shape instead of reflecting over a
// generic decoded value — Go's map ordering isn't stable, so this keeps
// exactly the field order the struct tags declare.
func MarshalCompact(p Payload) (string, error) {
	var b strings.Builder
	b.WriteString("{\n")

	b.WriteString(`  "teamSeasons": `)
	writeArray(&b, 1, len(p.TeamSeasons), func(i int) string { return teamSeasonLine(p.TeamSeasons[i]) })
	b.WriteString(",\n")

	b.WriteString(`  "playerSeasons": `)
	writeArray(&b, 1, len(p.PlayerSeasons), func(i int) string { return playerSeasonLine(p.PlayerSeasons[i]) })
	b.WriteString(",\n")

	b.WriteString(`  "matches": `)
	if len(p.Matches) == 0 {
		b.WriteString("[]")
	} else {
		b.WriteString("[\n")
		for i, m := range p.Matches {
			b.WriteString("    ")
			writeMatch(&b, m)
			if i < len(p.Matches)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString("  ]")
	}
	b.WriteString("\n}")

	return b.String(), nil
}

func writeArray(b *strings.Builder, indent int, n int, line func(i int) string) {
	if n == 0 {
		b.WriteString("[]")
		return
	}
	pad := strings.Repeat("  ", indent)
	b.WriteString("[\n")
	for i := 0; i < n; i++ {
		b.WriteString(pad + "  " + line(i))
		if i < n-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(pad + "]")
}

func teamSeasonLine(ts TeamSeasonEntry) string {
	return fmt.Sprintf(`{ "season": %s, "franchise": %s, "name": %s, "abbr": %s }`,
		jsonString(ts.Season), jsonString(ts.Franchise), jsonString(ts.Name), jsonString(ts.Abbr))
}

func playerSeasonLine(ps PlayerSeasonEntry) string {
	team := "null"
	if ps.Team != nil {
		team = jsonString(*ps.Team)
	}
	return fmt.Sprintf(`{ "season": %s, "team": %s, "player": %s, "playing_as": %s }`,
		jsonString(ps.Season), team, jsonString(ps.Player), jsonString(ps.PlayingAs))
}

func writeMatch(b *strings.Builder, m MatchEntry) {
	b.WriteString("{\n")
	fmt.Fprintf(b, `      "season": %s, "date": %s, "week": %s, "team1": %s, "team2": %s,`+"\n",
		jsonString(m.Season), jsonString(m.Date), jsonString(m.Week), jsonString(m.Team1), jsonString(m.Team2))
	b.WriteString(`      "games": `)
	if len(m.Games) == 0 {
		b.WriteString("[]")
	} else {
		b.WriteString("[\n")
		for i, g := range m.Games {
			b.WriteString("        ")
			writeGame(b, g)
			if i < len(m.Games)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString("      ]")
	}
	b.WriteString("\n    }")
}

func writeGame(b *strings.Builder, g GameEntry) {
	mapID := "null"
	if g.MapID != nil {
		mapID = strconv.Itoa(*g.MapID)
	}
	b.WriteString("{\n")
	fmt.Fprintf(b, `          "tagpro_eu": %d, "map_name": %s, "map_id": %s,`+"\n",
		g.TagproEU, jsonString(g.MapName), mapID)
	fmt.Fprintf(b, `          "red_team": %s, "blue_team": %s, "team1_score": %d, "team2_score": %d,`+"\n",
		jsonString(g.RedTeam), jsonString(g.BlueTeam), g.Team1Score, g.Team2Score)
	b.WriteString(`          "players": `)
	writeArray(b, 5, len(g.Players), func(i int) string { return gamePlayerLine(g.Players[i]) })
	b.WriteString("\n        }")
}

func gamePlayerLine(p GamePlayerEntry) string {
	return fmt.Sprintf(`{ "team": %s, "player_season": %s, "playing_as": %s }`,
		jsonString(p.Team), jsonString(p.PlayerSeason), jsonString(p.PlayingAs))
}

func jsonString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}
