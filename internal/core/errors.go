package core

import "fmt"

// NotFoundError represents a resource that could not be found.
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// IsNotFound checks if an error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*NotFoundError)
	return ok
}

// MissingTimelineError is returned when a game's timeline could not be
// located in the archive and has no live-fetch fallback available.
type MissingTimelineError struct {
	GameID string
}

func (e *MissingTimelineError) Error() string {
	return fmt.Sprintf("no timeline found for game %s", e.GameID)
}

// IsMissingTimeline reports whether err is a MissingTimelineError.
func IsMissingTimeline(err error) bool {
	_, ok := err.(*MissingTimelineError)
	return ok
}

// UnresolvedTeamError is fatal to a single game's processing: a player
// appeared in the timeline but never joined a side the interpreter can
// map to red or blue.
type UnresolvedTeamError struct {
	GameID string
	Player string
}

func (e *UnresolvedTeamError) Error() string {
	return fmt.Sprintf("player %q in game %s has no resolvable team", e.Player, e.GameID)
}

// IsUnresolvedTeam reports whether err is an UnresolvedTeamError.
func IsUnresolvedTeam(err error) bool {
	_, ok := err.(*UnresolvedTeamError)
	return ok
}

// ReferentialGapError is raised by the JSON importer when a record
// references a season/team/player-season absent from the database. The
// affected game is skipped; it is not fatal to the rest of the import.
type ReferentialGapError struct {
	Kind string // "season", "team", "player_season"
	Key  string
}

func (e *ReferentialGapError) Error() string {
	return fmt.Sprintf("referential gap: %s %q not found", e.Kind, e.Key)
}

// IsReferentialGap reports whether err is a ReferentialGapError.
func IsReferentialGap(err error) bool {
	_, ok := err.(*ReferentialGapError)
	return ok
}
