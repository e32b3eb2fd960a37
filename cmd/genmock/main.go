// Command genmock generates a synthetic prediction snapshot covering every
// state over a run of months. It uses the actual domain and snapshot packages
// so the fixture matches what the service loads in production.
//
// Usage:
//
//	go run ./cmd/genmock -out data/predictions_snapshot.csv -start 2025-01 -months 12
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"

	"github.com/cerradowatch/fire-risk-chat/internal/adapter/snapshot"
	"github.com/cerradowatch/fire-risk-chat/internal/domain"
)

// futureMonths at the end of the run have predictions but no observed counts.
const futureMonths = 2

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/predictions_snapshot.csv", "output path for the snapshot CSV")
	start := flag.String("start", "2025-01", "first month, YYYY-MM")
	months := flag.Int("months", 12, "number of months to generate")
	seed := flag.Int64("seed", 42, "random seed for reproducible fixtures")
	flag.Parse()

	first, err := domain.ParsePeriod(*start)
	if err != nil {
		return err
	}
	if *months < 1 {
		return fmt.Errorf("months must be at least 1, got %d", *months)
	}

	rows := generate(first, *months, rand.New(rand.NewSource(*seed)))

	if err := snapshot.WriteFile(*out, rows); err != nil {
		return err
	}
	log.Printf("wrote %d rows to %s", len(rows), *out)
	return nil
}

// generate produces one row per (state, month). Each state gets a stable
// baseline plus a dry-season bump peaking around September, so rankings and
// growth queries have realistic structure.
func generate(first domain.Period, months int, rng *rand.Rand) []domain.ForecastRow {
	regions := domain.NewRegionDirectory()

	baselines := make(map[string]float64)
	for _, code := range regions.Codes() {
		baselines[code] = 100 + rng.Float64()*1900
	}

	var rows []domain.ForecastRow
	for i := 0; i < months; i++ {
		p := first.AddMonths(i)
		seasonal := 1 + 0.8*math.Sin(float64(p.Month-6)/12*2*math.Pi)
		for _, code := range regions.Codes() {
			predicted := math.Round(baselines[code] * seasonal * (0.9 + rng.Float64()*0.2))
			row := domain.ForecastRow{Region: code, Period: p, Predicted: predicted}
			if i < months-futureMonths {
				actual := math.Round(predicted * (0.8 + rng.Float64()*0.4))
				row.Actual = &actual
			}
			rows = append(rows, row)
		}
	}
	return rows
}
