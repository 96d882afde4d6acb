package app

import (
	"encoding/json"
	"os"
	"time"

	"sensorfuse/domain/core"
)

// Manifest is the run's audit record, written beside the output tables.
type Manifest struct {
	RunID       core.RunID     `json:"run_id"`
	Fingerprint string         `json:"fingerprint"`
	Channels    []core.Channel `json:"channels"`
	Target      core.Channel   `json:"target"`
	AlignedRows int            `json:"aligned_rows"`
	Aggregates  map[string]int `json:"aggregate_rows"`
	Warnings    []string       `json:"warnings,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  time.Time      `json:"finished_at"`
}

// NewManifest assembles the manifest for a completed run.
func NewManifest(res *Result, target core.Channel) *Manifest {
	m := &Manifest{
		RunID:       res.RunID,
		Fingerprint: res.Fingerprint,
		Channels:    res.Channels,
		Target:      target,
		AlignedRows: res.Aligned.NumRows(),
		Aggregates:  make(map[string]int, len(res.Aggregates)),
		Warnings:    res.Warnings,
		StartedAt:   res.StartedAt,
		FinishedAt:  res.FinishedAt,
	}
	for _, agg := range res.Aggregates {
		m.Aggregates[intervalLabel(agg.Interval)] = agg.Table.NumRows()
	}
	return m
}

// Write stores the manifest as pretty-printed JSON.
func (m *Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
