package scoring

import (
	"encoding/json"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// modelVersion is stamped into every saved artifact.
const modelVersion = "1.0"

// ridgeLambda regularizes the normal-equations solve. Training sets here
// are tiny (a user's completed tasks), so a collinear or constant feature
// column would otherwise make the system singular.
const ridgeLambda = 1e-3

// Regressor is a linear model fit in a single full-batch call. Each
// training run replaces the state entirely; it never continues from a
// previous partial fit.
type Regressor struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// Fit solves the ridge-regularized least-squares problem for the given
// feature matrix and target vector.
func (r *Regressor) Fit(features [][]float64, targets []float64) error {
	n := len(features)
	if n == 0 {
		return errors.New("empty feature matrix")
	}
	if len(targets) != n {
		return fmt.Errorf("feature/target length mismatch: %d vs %d", n, len(targets))
	}

	cols := len(features[0])
	if cols == 0 {
		return errors.New("empty feature rows")
	}

	// Bias column first, then the features.
	x := mat.NewDense(n, cols+1, nil)
	for i, row := range features {
		if len(row) != cols {
			return fmt.Errorf("ragged feature matrix at row %d", i)
		}
		x.Set(i, 0, 1)
		for j, v := range row {
			x.Set(i, j+1, v)
		}
	}
	y := mat.NewVecDense(n, targets)

	// (XᵀX + λI) w = Xᵀy
	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for i := 0; i < cols+1; i++ {
		xtx.Set(i, i, xtx.At(i, i)+ridgeLambda)
	}
	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	var w mat.VecDense
	if err := w.SolveVec(&xtx, &xty); err != nil {
		return fmt.Errorf("least squares solve: %w", err)
	}

	r.Intercept = w.AtVec(0)
	r.Weights = make([]float64, cols)
	for j := 0; j < cols; j++ {
		r.Weights[j] = w.AtVec(j + 1)
	}
	return nil
}

// Predict returns the model output for one feature vector.
func (r *Regressor) Predict(features []float64) (float64, error) {
	if len(r.Weights) == 0 {
		return 0, errors.New("regressor is not fitted")
	}
	if len(features) != len(r.Weights) {
		return 0, fmt.Errorf("feature width mismatch: got %d, want %d", len(features), len(r.Weights))
	}
	score := r.Intercept
	for i, v := range features {
		score += r.Weights[i] * v
	}
	return score, nil
}

// PriorityModel bundles the fitted regressor with the categorical encoders
// it was trained with. The encoders must travel with the regressor: an
// encoding scheme is not guaranteed stable across training runs, so mixing
// a new regressor with old encoders (or vice versa) produces garbage.
type PriorityModel struct {
	Version   string           `json:"version"`
	Regressor Regressor        `json:"regressor"`
	Features  FeatureExtractor `json:"features"`
}

// Marshal serializes the model for storage as an opaque blob.
func (m *PriorityModel) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// UnmarshalPriorityModel restores a model from its stored blob.
func UnmarshalPriorityModel(data []byte) (*PriorityModel, error) {
	if len(data) == 0 {
		return nil, errors.New("empty model data")
	}
	var m PriorityModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if len(m.Regressor.Weights) == 0 {
		return nil, errors.New("model has no fitted weights")
	}
	return &m, nil
}
