package fleet

import (
	"github.com/pkg/errors"
)

// Team identifies a ship side, resolved from scene names at load time
type Team uint8

// NoTeam is carried by cannonballs that have not been fired
const NoTeam Team = 0

var (
	ErrDuplicateTeam = errors.New("duplicate team name")
	ErrRosterFull    = errors.New("too many teams")
)

// Roster is the closed set of team names known to a scene
type Roster struct {
	names  []string
	byName map[string]Team
}

// NewRoster assigns teams 1..n to names in order
func NewRoster(names ...string) (*Roster, error) {
	if len(names) > 254 {
		return nil, errors.Wrapf(ErrRosterFull, "%d names", len(names))
	}
	r := &Roster{
		names:  append([]string{""}, names...),
		byName: make(map[string]Team, len(names)),
	}
	for i, n := range names {
		if _, dup := r.byName[n]; dup {
			return nil, errors.Wrap(ErrDuplicateTeam, n)
		}
		r.byName[n] = Team(i + 1)
	}
	return r, nil
}

// Resolve returns the team of a scene name
func (r *Roster) Resolve(name string) (Team, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Name returns the scene name of a team, empty for NoTeam and unknown teams
func (r *Roster) Name(t Team) string {
	if r == nil || int(t) >= len(r.names) {
		return ""
	}
	return r.names[t]
}

// Len returns the number of teams
func (r *Roster) Len() int {
	return len(r.names) - 1
}
