// Package report renders sweep and inspection outcomes for the console.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"seedsweep/app"
	"seedsweep/domain/datareadiness/profiling"
	"seedsweep/domain/search"
	"seedsweep/domain/stats"
	"seedsweep/internal/config"
	"seedsweep/internal/errors"

	"gopkg.in/yaml.v3"
)

// SweepReport is the serialized form of a sweep
type SweepReport struct {
	RunID     string       `json:"run_id" yaml:"run_id"`
	StartedAt string       `json:"started_at" yaml:"started_at"`
	Success   bool         `json:"success" yaml:"success"`
	RuntimeMs int64        `json:"runtime_ms" yaml:"runtime_ms"`
	Passes    []PassReport `json:"passes" yaml:"passes"`
	Error     string       `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorCode string       `json:"error_code,omitempty" yaml:"error_code,omitempty"`
}

// PassReport summarizes one pass
type PassReport struct {
	Target      string        `json:"target" yaml:"target"`
	Variant     string        `json:"variant" yaml:"variant"`
	Predicate   string        `json:"predicate" yaml:"predicate"`
	MinCount    int           `json:"min_count" yaml:"min_count"`
	SeedMax     int64         `json:"seed_max" yaml:"seed_max"`
	Found       bool          `json:"found" yaml:"found"`
	Seed        *int64        `json:"seed,omitempty" yaml:"seed,omitempty"`
	SeedsTried  int64         `json:"seeds_tried" yaml:"seeds_tried"`
	LastSeed    int64         `json:"last_seed" yaml:"last_seed"`
	MatchCount  int           `json:"match_count" yaml:"match_count"`
	Vector      []EntryReport `json:"vector,omitempty" yaml:"vector,omitempty"`
	Fingerprint string        `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
}

// EntryReport is one correlation-vector entry. Value is nil when undefined,
// since JSON has no NaN.
type EntryReport struct {
	Column     string   `json:"column" yaml:"column"`
	Value      *float64 `json:"value" yaml:"value"`
	SampleSize int      `json:"sample_size" yaml:"sample_size"`
	Match      bool     `json:"match" yaml:"match"`
}

// InspectReport is the serialized form of a fixed-seed inspection
type InspectReport struct {
	Target  string        `json:"target" yaml:"target"`
	Seed    int64         `json:"seed" yaml:"seed"`
	Variant string        `json:"variant" yaml:"variant"`
	Vector  []EntryReport `json:"vector" yaml:"vector"`
}

// Reporter writes reports in one output format
type Reporter struct {
	w      io.Writer
	format string
}

// NewReporter creates a reporter. Unknown formats fall back to text.
func NewReporter(w io.Writer, format string) *Reporter {
	switch format {
	case config.FormatJSON, config.FormatYAML:
	default:
		format = config.FormatText
	}
	return &Reporter{w: w, format: format}
}

// BuildSweepReport converts a sweep result, and the error that ended it if any.
func BuildSweepReport(result *app.SweepResult, runErr error) SweepReport {
	var rep SweepReport
	if result != nil {
		rep.RunID = result.RunID.String()
		rep.StartedAt = result.StartedAt.String()
		rep.Success = result.Success
		rep.RuntimeMs = result.RuntimeMs
		for _, outcome := range result.Passes {
			rep.Passes = append(rep.Passes, buildPassReport(outcome))
		}
	}
	if runErr != nil {
		rep.Success = false
		rep.Error = runErr.Error()
		rep.ErrorCode = errors.GetCode(runErr)
	}
	return rep
}

func buildPassReport(o app.PassOutcome) PassReport {
	rep := PassReport{
		Target:     o.Pass.Target,
		Variant:    string(o.Pass.Variant),
		Predicate:  o.Pass.Predicate.String(),
		MinCount:   o.Pass.MinCount,
		SeedMax:    o.Pass.SeedMax,
		Found:      o.Found,
		SeedsTried: o.SeedsTried,
		LastSeed:   o.LastSeed,
		MatchCount: len(o.Matches),
	}
	if o.Found {
		seed := o.Seed
		rep.Seed = &seed
		rep.Vector = buildEntries(o.Vector, &o.Pass.Predicate)
		rep.Fingerprint = o.Fingerprint.String()
	}
	return rep
}

func buildEntries(v stats.CorrelationVector, predicate *search.Predicate) []EntryReport {
	entries := make([]EntryReport, len(v.Entries))
	for i, e := range v.Entries {
		entry := EntryReport{Column: e.Column, SampleSize: e.SampleSize}
		if e.IsDefined() && !math.IsInf(e.Value, 0) {
			value := e.Value
			entry.Value = &value
		}
		if predicate != nil {
			entry.Match = predicate.Match(e.Value)
		}
		entries[i] = entry
	}
	return entries
}

// WriteSweep renders a sweep outcome.
func (r *Reporter) WriteSweep(result *app.SweepResult, runErr error) error {
	rep := BuildSweepReport(result, runErr)
	switch r.format {
	case config.FormatJSON:
		return r.writeJSON(rep)
	case config.FormatYAML:
		return r.writeYAML(rep)
	}
	return r.writeSweepText(rep)
}

// WriteInspect renders the absolute correlation vector for one fixed seed.
func (r *Reporter) WriteInspect(v stats.CorrelationVector, seed int64) error {
	rep := InspectReport{
		Target:  v.Target,
		Seed:    seed,
		Variant: string(v.Variant),
		Vector:  buildEntries(v.Abs(), nil),
	}
	switch r.format {
	case config.FormatJSON:
		return r.writeJSON(rep)
	case config.FormatYAML:
		return r.writeYAML(rep)
	}

	fmt.Fprintf(r.w, "absolute %s values against %s, seed %d\n", rep.Variant, rep.Target, rep.Seed)
	r.writeEntries(rep.Vector, false)
	return nil
}

func (r *Reporter) writeJSON(v interface{}) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Reporter) writeYAML(v interface{}) error {
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (r *Reporter) writeSweepText(rep SweepReport) error {
	fmt.Fprintf(r.w, "SEED SWEEP %s\n", rep.RunID)

	for i, p := range rep.Passes {
		fmt.Fprintf(r.w, "\nPass %d: %s (%s, %s, count > %d, seeds [0,%d))\n",
			i+1, p.Target, p.Variant, p.Predicate, p.MinCount, p.SeedMax)
		if !p.Found {
			fmt.Fprintf(r.w, "  no qualifying seed; last seed tried: %d\n", p.LastSeed)
			continue
		}
		fmt.Fprintf(r.w, "  seed: %d (after %d seeds)\n", *p.Seed, p.SeedsTried)
		fmt.Fprintf(r.w, "  entries matching %s: %d\n", p.Predicate, p.MatchCount)
		r.writeEntries(p.Vector, true)
	}

	fmt.Fprintln(r.w)
	if rep.Error != "" {
		fmt.Fprintf(r.w, "FAILED [%s]: %s\n", rep.ErrorCode, rep.Error)
		return nil
	}
	fmt.Fprintf(r.w, "OK in %dms\n", rep.RuntimeMs)
	return nil
}

func (r *Reporter) writeEntries(entries []EntryReport, markMatches bool) {
	width := 0
	for _, e := range entries {
		if len(e.Column) > width {
			width = len(e.Column)
		}
	}
	for _, e := range entries {
		value := "NaN"
		if e.Value != nil {
			value = fmt.Sprintf("%.6f", *e.Value)
		}
		marker := ""
		if markMatches && e.Match {
			marker = " *"
		}
		fmt.Fprintf(r.w, "  %s%s  %12s%s\n", e.Column, strings.Repeat(" ", width-len(e.Column)), value, marker)
	}
}

// WriteProfile renders a column profile of the cleaned base table.
func (r *Reporter) WriteProfile(profile *profiling.TableProfile) error {
	switch r.format {
	case config.FormatJSON:
		return r.writeJSON(profile)
	case config.FormatYAML:
		return r.writeYAML(profile)
	}

	fmt.Fprintf(r.w, "%d rows, %d columns\n", profile.Rows, len(profile.Columns))
	for _, col := range profile.Columns {
		fmt.Fprintf(r.w, "\n%s (%s) missing %d, quality %.2f\n", col.Name, col.Type, col.Missing, col.QualityScore)
		switch {
		case col.Numeric != nil:
			n := col.Numeric
			fmt.Fprintf(r.w, "  mean %.4g  sd %.4g  min %.4g  max %.4g\n", n.Mean, n.StdDev, n.Min, n.Max)
		case col.Categorical != nil:
			c := col.Categorical
			fmt.Fprintf(r.w, "  %d distinct, mode %q (%d)\n", c.Distinct, c.Mode, c.ModeFrequency)
		}
	}
	return nil
}
