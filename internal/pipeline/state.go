package pipeline

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// ErrUndefinedTeam is returned when a row needs a team before any row has
// named one.
var ErrUndefinedTeam = errors.New("undefined team")

// UndefinedTeamError carries the row that had no team context.
type UndefinedTeamError struct {
	Row int
}

func (e *UndefinedTeamError) Error() string {
	return fmt.Sprintf("row %d: %s: the TEAM NAMES column is empty and no earlier row named a team", e.Row, ErrUndefinedTeam)
}

func (e *UndefinedTeamError) Is(target error) bool {
	return target == ErrUndefinedTeam
}

// ErrorKind classifies the error for CLI hints.
func (e *UndefinedTeamError) ErrorKind() string {
	return "validation"
}

// State is the team context carried from one row to the next.
// The zero value means no team has been established yet.
type State struct {
	Team string
}

// Established reports whether a team is active.
func (s State) Established() bool {
	return s.Team != ""
}

// Advance applies one row's team column to s. A value whose first character
// is a word character (letter, number or underscore) starts a new team and is
// used verbatim; anything else keeps the current team. started reports
// whether the row opened a new team group.
func Advance(s State, teamField string, row int) (next State, started bool, err error) {
	if startsTeam(teamField) {
		return State{Team: teamField}, true, nil
	}
	if !s.Established() {
		return s, false, &UndefinedTeamError{Row: row}
	}
	return s, false, nil
}

func startsTeam(value string) bool {
	r, size := utf8.DecodeRuneInString(value)
	if size == 0 || r == utf8.RuneError {
		return false
	}
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
