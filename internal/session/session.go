package session

import (
	"github.com/google/uuid"

	"txlens/internal/compare"
	"txlens/internal/report"
)

// Session carries one user's selection state: the loaded repository
// snapshot, the chosen baseline and the match mode. There is no ambient
// global state; every command builds a Session and operates on it, so
// concurrent sessions never share mutable data.
//
// State-changing operations return a new Session value and leave the
// receiver untouched. A failed reload therefore keeps the previous snapshot
// usable for retry.
type Session struct {
	ID         string
	Dir        string
	Repo       *report.Repository
	BaselineID string
	Mode       compare.MatchMode
	Thresholds compare.Thresholds
}

// New loads the reports directory and returns a fresh session snapshot.
func New(dir string, opts report.Options, thresholds compare.Thresholds) (Session, error) {
	repo, err := report.Load(dir, opts)
	if err != nil {
		return Session{}, err
	}
	return Session{
		ID:         uuid.NewString(),
		Dir:        dir,
		Repo:       repo,
		Mode:       compare.MatchByName,
		Thresholds: thresholds,
	}, nil
}

// Reload re-scans the directory into a new session with the same selections.
func (s Session) Reload(opts report.Options) (Session, error) {
	fresh, err := New(s.Dir, opts, s.Thresholds)
	if err != nil {
		return Session{}, err
	}
	fresh.BaselineID = s.BaselineID
	fresh.Mode = s.Mode
	return fresh, nil
}

// SelectBaseline returns a session with the baseline set. The ID is not
// validated here; Match reports NoBaselineError for unknown baselines.
func (s Session) SelectBaseline(id string) Session {
	s.BaselineID = id
	return s
}

// SetMode returns a session with the match mode set.
func (s Session) SetMode(mode compare.MatchMode) Session {
	s.Mode = mode
	return s
}

// Match builds the candidate set for the current baseline and mode.
func (s Session) Match() (*compare.MatchSet, error) {
	return compare.Match(s.Repo, s.BaselineID, s.Mode)
}

// Compare matches and diffs in one step, using the session thresholds.
func (s Session) Compare() (*compare.MatchSet, []compare.DeltaResult, error) {
	set, err := s.Match()
	if err != nil {
		return nil, nil, err
	}
	return set, compare.Compare(set, s.Thresholds), nil
}
