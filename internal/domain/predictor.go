package domain

import "context"

// Predictor produces an on-demand forecast for a (region, period) pair that
// has no recorded row. historicalMean is the region's mean predicted value
// from the table, or the dataset-wide mean when the region has no history.
//
// The predictor is an optional collaborator: callers must tolerate a nil
// Predictor and treat any error as "no estimate available".
type Predictor interface {
	Predict(ctx context.Context, region string, p Period, historicalMean float64) (float64, error)
}
