// Package export serializes a finalized result view to the CSV and JSON
// schemas at rest. Exports are pure file operations: no network activity,
// no aggregator mutation, and byte-identical output for identical input.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/nsweep/NSweep-core/probe"
)

// csvHeader is the fixed schema for both the success and the failure file.
var csvHeader = []string{"Address", "Latency(ms)", "Status"}

// record is the JSON shape of one entry. Field order is fixed by declaration
// order; LatencyMS is null for failures.
type record struct {
	Address   string   `json:"address"`
	LatencyMS *float64 `json:"latency_ms"`
	Status    string   `json:"status"`
}

// WriteCSV writes a header row followed by one row per entry, overwriting
// path. Failure rows leave the latency column blank.
func WriteCSV(path string, entries []probe.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		_ = f.Close()
		return err
	}
	for _, r := range entries {
		latency := ""
		if r.OK() {
			latency = fmt.Sprintf("%.2f", r.LatencyMS())
		}
		if err := w.Write([]string{r.Address, latency, string(r.Outcome)}); err != nil {
			_ = f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteJSON writes entries as an array of {address, latency_ms, status}
// records, overwriting path. Number formatting is the two-decimal rounding
// performed by Result.LatencyMS, so repeated exports are byte-identical.
func WriteJSON(path string, entries []probe.Result) error {
	records := make([]record, 0, len(entries))
	for _, r := range entries {
		rec := record{Address: r.Address, Status: string(r.Outcome)}
		if r.OK() {
			ms := r.LatencyMS()
			rec.LatencyMS = &ms
		}
		records = append(records, rec)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Precheck verifies that path can be created for writing without destroying
// existing content. Output destinations are checked before the worker pool
// launches; an unwritable path is a startup-time fatal condition.
func Precheck(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}
