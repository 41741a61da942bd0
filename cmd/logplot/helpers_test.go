package main

import (
	"testing"

	"github.com/GKD-RM-Lab/logplot/src/config"
	"github.com/GKD-RM-Lab/logplot/src/logparse"
	"github.com/GKD-RM-Lab/logplot/src/series"
	"github.com/GKD-RM-Lab/logplot/src/variant"
)

// synthDataset builds an n-sample trigger dataset with the given window size.
func synthDataset(t *testing.T, n, window int) *dataset {
	t.Helper()
	v, err := variant.Lookup("trigger")
	if err != nil {
		t.Fatal(err)
	}
	recs := make([]logparse.Record, 0, n)
	for i := 0; i < n; i++ {
		recs = append(recs, logparse.NewRecord(v.FieldNames(), []float64{float64(i % 7), float64(i)}))
	}
	set, err := series.Ingest(recs, v.FieldNames(), v.Table())
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.WindowSize = window
	return &dataset{cfg: cfg, variant: v, logPath: "trigger_log.txt", set: set}
}
