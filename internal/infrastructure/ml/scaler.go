package ml

import "gonum.org/v1/gonum/stat"

// Scaler standardizes the statistical block column-wise using the
// training set's mean and population standard deviation.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

func NewScaler() *Scaler {
	return &Scaler{}
}

// Fitted reports whether Fit has run
func (s *Scaler) Fitted() bool {
	return len(s.Mean) > 0
}

// Fit learns per-column statistics from the training block
func (s *Scaler) Fit(rows [][]float64) error {
	if len(rows) == 0 {
		return ErrNoTrainingData
	}
	cols := len(rows[0])
	s.Mean = make([]float64, cols)
	s.Std = make([]float64, cols)

	col := make([]float64, len(rows))
	for j := 0; j < cols; j++ {
		for i, row := range rows {
			col[i] = row[j]
		}
		s.Mean[j] = stat.Mean(col, nil)
		s.Std[j] = stat.PopStdDev(col, nil)
	}
	return nil
}

// Transform standardizes each row as (x - mean) / std per column.
// Zero-variance columns map every input to 0 rather than dividing by
// zero.
func (s *Scaler) Transform(rows [][]float64) ([][]float64, error) {
	if !s.Fitted() {
		return nil, ErrScalerNotFitted
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(s.Mean) {
			return nil, ErrDimensionMismatch
		}
		scaled := make([]float64, len(row))
		for j, x := range row {
			if s.Std[j] == 0 {
				continue
			}
			scaled[j] = (x - s.Mean[j]) / s.Std[j]
		}
		out[i] = scaled
	}
	return out, nil
}
