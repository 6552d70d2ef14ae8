package ml

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrNotFitted is returned when Transform is called before Fit.
var ErrNotFitted = errors.New("scaler has not been fitted")

// ScalerState holds per-column statistics observed at fit time.
type ScalerState struct {
	Min []float64 `json:"min"`
	Max []float64 `json:"max"`
}

// MinMaxScaler rescales each column into [0,1] using the column's
// observed min and max. A column whose min equals its max maps to 0.
type MinMaxScaler struct {
	state *ScalerState
}

// NewMinMaxScaler creates an unfitted scaler
func NewMinMaxScaler() *MinMaxScaler {
	return &MinMaxScaler{}
}

// Fit computes column statistics over every row of raw.
func (s *MinMaxScaler) Fit(raw mat.Matrix) (ScalerState, error) {
	rows, cols := raw.Dims()
	if rows == 0 || cols == 0 {
		return ScalerState{}, fmt.Errorf("cannot fit scaler on %dx%d matrix", rows, cols)
	}

	state := ScalerState{
		Min: make([]float64, cols),
		Max: make([]float64, cols),
	}
	for j := 0; j < cols; j++ {
		state.Min[j] = raw.At(0, j)
		state.Max[j] = raw.At(0, j)
		for i := 1; i < rows; i++ {
			v := raw.At(i, j)
			if v < state.Min[j] {
				state.Min[j] = v
			}
			if v > state.Max[j] {
				state.Max[j] = v
			}
		}
	}

	s.state = &state
	return state, nil
}

// Transform rescales raw with the fitted statistics. Values outside the
// fitted range are not clipped.
func (s *MinMaxScaler) Transform(raw mat.Matrix) (*mat.Dense, error) {
	if s.state == nil {
		return nil, ErrNotFitted
	}

	rows, cols := raw.Dims()
	if cols != len(s.state.Min) {
		return nil, fmt.Errorf("column mismatch: scaler fitted on %d columns, got %d", len(s.state.Min), cols)
	}

	out := mat.NewDense(rows, cols, nil)
	for j := 0; j < cols; j++ {
		span := s.state.Max[j] - s.state.Min[j]
		for i := 0; i < rows; i++ {
			if span == 0 {
				out.Set(i, j, 0)
				continue
			}
			out.Set(i, j, (raw.At(i, j)-s.state.Min[j])/span)
		}
	}

	return out, nil
}

// FitTransform fits on raw and returns its rescaled copy.
func (s *MinMaxScaler) FitTransform(raw mat.Matrix) (*mat.Dense, ScalerState, error) {
	state, err := s.Fit(raw)
	if err != nil {
		return nil, ScalerState{}, err
	}

	normalized, err := s.Transform(raw)
	if err != nil {
		return nil, ScalerState{}, err
	}

	return normalized, state, nil
}

// State returns the fitted statistics, if any.
func (s *MinMaxScaler) State() (ScalerState, bool) {
	if s.state == nil {
		return ScalerState{}, false
	}
	return *s.state, true
}
