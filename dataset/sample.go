package dataset

// Sample is a read-only row selection over a Dataset. Bootstrap
// replicates and jackknife folds are both Samples, so estimators see a
// single input type. A nil index slice means the identity selection
// (every source row, in order).
type Sample struct {
	source  *Dataset
	indices []int
}

// NewSample builds a view over d selecting the given source rows.
// The index slice is owned by the Sample after the call.
func NewSample(d *Dataset, indices []int) *Sample {
	return &Sample{source: d, indices: indices}
}

// Identity returns the unsampled view of the whole dataset.
func (d *Dataset) Identity() *Sample {
	return &Sample{source: d}
}

func (s *Sample) Len() int {
	if s.indices == nil {
		return s.source.rows
	}
	return len(s.indices)
}

func (s *Sample) Fields() []string {
	return s.source.Fields()
}

func (s *Sample) Value(field string, row int) (float64, bool) {
	if s.indices == nil {
		return s.source.Value(field, row)
	}
	return s.source.Value(field, s.indices[row])
}

// Column materializes the named column under the sample's row
// selection.
func (s *Sample) Column(field string) ([]float64, bool) {
	col, ok := s.source.columns[field]
	if !ok {
		return nil, false
	}
	if s.indices == nil {
		out := make([]float64, len(col))
		copy(out, col)
		return out, true
	}
	out := make([]float64, len(s.indices))
	for i, idx := range s.indices {
		out[i] = col[idx]
	}
	return out, true
}

// Indices returns a copy of the selected source row indices. Identity
// samples report 0..Len()-1.
func (s *Sample) Indices() []int {
	out := make([]int, s.Len())
	if s.indices == nil {
		for i := range out {
			out[i] = i
		}
		return out
	}
	copy(out, s.indices)
	return out
}
