package interval

import "fmt"

// InsufficientReplicatesError reports a term with too few usable
// replicate estimates to form an interval.
type InsufficientReplicatesError struct {
	Term   string
	Method string
	Got    int
}

func (e *InsufficientReplicatesError) Error() string {
	return fmt.Sprintf("interval: %s needs at least 2 replicate estimates for term %q, got %d",
		e.Method, e.Term, e.Got)
}

// MissingApparentReplicateError reports a method that anchors on the
// original-data fit being handed results without one.
type MissingApparentReplicateError struct {
	Method string
}

func (e *MissingApparentReplicateError) Error() string {
	return fmt.Sprintf("interval: %s requires an apparent replicate", e.Method)
}

// MissingStandardErrorError reports a studentized interval over a
// replicate that carries no standard error.
type MissingStandardErrorError struct {
	Term        string
	ReplicateID int64
}

func (e *MissingStandardErrorError) Error() string {
	return fmt.Sprintf("interval: replicate %d has no standard error for term %q",
		e.ReplicateID, e.Term)
}

// DegenerateJackknifeError reports an undefined acceleration constant:
// every leave-one-out estimate was identical, or the dataset is too
// small to jackknife.
type DegenerateJackknifeError struct {
	Term string
}

func (e *DegenerateJackknifeError) Error() string {
	if e.Term == "" {
		return "interval: jackknife needs at least 2 rows"
	}
	return fmt.Sprintf("interval: jackknife estimates for term %q have zero variance", e.Term)
}

// ExtremeQuantileError reports a BCa-adjusted quantile position that
// left (0, 1): too few replicates or a pathological statistic.
type ExtremeQuantileError struct {
	Term     string
	Position float64
}

func (e *ExtremeQuantileError) Error() string {
	return fmt.Sprintf("interval: adjusted quantile position %v for term %q is outside (0, 1)",
		e.Position, e.Term)
}
