package compare

import (
	"fmt"

	"txlens/internal/report"
)

// MatchMode selects how candidate runs are picked relative to a baseline.
type MatchMode string

const (
	// MatchByName selects runs sharing the baseline's workload name.
	MatchByName MatchMode = "name"
	// MatchByHash selects runs whose workload config hash is byte-equal to
	// the baseline's, for comparisons that require identical configuration.
	MatchByHash MatchMode = "hash"
	// MatchManual marks a caller-curated candidate list; no predicate is
	// enforced.
	MatchManual MatchMode = "manual"
)

// ParseMode validates a user-supplied match mode string.
func ParseMode(s string) (MatchMode, error) {
	switch MatchMode(s) {
	case MatchByName, MatchByHash, MatchManual:
		return MatchMode(s), nil
	}
	return "", fmt.Errorf("unknown match mode %q (want name, hash or manual)", s)
}

// NoBaselineError is returned when a comparison is requested without a
// usable baseline run.
type NoBaselineError struct {
	ID string
}

func (e *NoBaselineError) Error() string {
	if e.ID == "" {
		return "no baseline run selected"
	}
	return fmt.Sprintf("baseline run %q not found", e.ID)
}

// MatchSet is the baseline plus its candidate runs, in repository order
// (most recent first). An empty candidate list is a valid result, not an
// error; it means no comparable runs exist.
type MatchSet struct {
	Baseline   report.Run
	Candidates []report.Run
	Mode       MatchMode
}

// Match selects candidates from repo for the given baseline and mode. The
// baseline itself is always excluded. MatchManual yields an empty set that
// the caller populates via Include.
func Match(repo *report.Repository, baselineID string, mode MatchMode) (*MatchSet, error) {
	if baselineID == "" {
		return nil, &NoBaselineError{}
	}
	baseline, ok := repo.FindByID(baselineID)
	if !ok {
		return nil, &NoBaselineError{ID: baselineID}
	}

	set := &MatchSet{Baseline: baseline, Mode: mode}
	if mode == MatchManual {
		return set, nil
	}
	for _, r := range repo.Runs {
		if r.ID == baseline.ID {
			continue
		}
		switch mode {
		case MatchByName:
			if r.WorkloadName == baseline.WorkloadName {
				set.Candidates = append(set.Candidates, r)
			}
		case MatchByHash:
			if r.WorkloadConfigHash == baseline.WorkloadConfigHash {
				set.Candidates = append(set.Candidates, r)
			}
		default:
			return nil, fmt.Errorf("unknown match mode %q", mode)
		}
	}
	return set, nil
}

// ManualSet builds a caller-curated match set: the candidates are exactly
// the given run IDs, in the given order. Unknown IDs fail.
func ManualSet(repo *report.Repository, baselineID string, ids []string) (*MatchSet, error) {
	set, err := Match(repo, baselineID, MatchManual)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		r, ok := repo.FindByID(id)
		if !ok {
			return nil, fmt.Errorf("run %q not found", id)
		}
		if r.ID == set.Baseline.ID {
			continue
		}
		set.Candidates = append(set.Candidates, r)
	}
	return set, nil
}

// Exclude removes the given run IDs from the candidates.
func (s *MatchSet) Exclude(ids ...string) {
	drop := map[string]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	kept := s.Candidates[:0]
	for _, r := range s.Candidates {
		if !drop[r.ID] {
			kept = append(kept, r)
		}
	}
	s.Candidates = kept
}

// Include appends a run regardless of the match predicate and marks the set
// as manually curated. Duplicates and the baseline are ignored.
func (s *MatchSet) Include(run report.Run) {
	if run.ID == s.Baseline.ID {
		return
	}
	for _, r := range s.Candidates {
		if r.ID == run.ID {
			return
		}
	}
	s.Candidates = append(s.Candidates, run)
	s.Mode = MatchManual
}

// Limit truncates the candidate list to at most n runs.
func (s *MatchSet) Limit(n int) {
	if n >= 0 && n < len(s.Candidates) {
		s.Candidates = s.Candidates[:n]
	}
}
