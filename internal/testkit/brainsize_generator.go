package testkit

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strconv"

	"seedsweep/domain/dataset"
)

// BrainSizeColumns is the header of the brain-size dataset. The leading blank
// cell is the index column written by dataframe exporters.
var BrainSizeColumns = []string{"", "Gender", "FSIQ", "VIQ", "PIQ", "Weight", "Height", "MRI_Count"}

// BrainSizeConfig configures the brain-size data generator
type BrainSizeConfig struct {
	Rows          int    `json:"rows"`
	Seed          int64  `json:"seed"`
	MissingWeight int    `json:"missing_weight"` // cells written as Sentinel
	MissingHeight int    `json:"missing_height"`
	Sentinel      string `json:"sentinel"`
}

// DefaultBrainSizeConfig matches the shape of the public brain-size study:
// 40 subjects, two missing weights and one missing height.
func DefaultBrainSizeConfig() BrainSizeConfig {
	return BrainSizeConfig{
		Rows:          40,
		Seed:          42,
		MissingWeight: 2,
		MissingHeight: 1,
		Sentinel:      ".",
	}
}

// BrainSizeGenerator produces a synthetic semicolon dataset with plausible
// correlations between IQ scores, body size and MRI counts
type BrainSizeGenerator struct {
	config BrainSizeConfig
}

// NewBrainSizeGenerator creates a new generator
func NewBrainSizeGenerator(config BrainSizeConfig) *BrainSizeGenerator {
	if config.Sentinel == "" {
		config.Sentinel = "."
	}
	return &BrainSizeGenerator{config: config}
}

// Records returns the header plus one row per subject. The same config always
// yields the same records.
func (g *BrainSizeGenerator) Records() ([][]string, error) {
	cfg := g.config
	if cfg.Rows < 1 {
		return nil, fmt.Errorf("rows must be positive, got %d", cfg.Rows)
	}
	if cfg.MissingWeight > cfg.Rows || cfg.MissingHeight > cfg.Rows {
		return nil, fmt.Errorf("more missing cells than rows")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	missingWeight := pickRows(rng, cfg.Rows, cfg.MissingWeight)
	missingHeight := pickRows(rng, cfg.Rows, cfg.MissingHeight)

	records := make([][]string, 0, cfg.Rows+1)
	records = append(records, append([]string(nil), BrainSizeColumns...))

	for i := 0; i < cfg.Rows; i++ {
		male := i%2 == 1

		fsiq := clamp(113+24*rng.NormFloat64(), 77, 144)
		viq := clamp(fsiq+8*rng.NormFloat64(), 71, 150)
		piq := clamp(fsiq+9*rng.NormFloat64(), 72, 150)

		weight, height, mri := 137+18*rng.NormFloat64(), 65.8+2.3*rng.NormFloat64(), 862000+(fsiq-113)*900+40000*rng.NormFloat64()
		gender := "Female"
		if male {
			gender = "Male"
			weight += 29
			height += 5.6
			mri += 92000
		}

		weightCell := strconv.FormatFloat(math.Round(weight), 'f', -1, 64)
		if missingWeight[i] {
			weightCell = cfg.Sentinel
		}
		heightCell := strconv.FormatFloat(math.Round(height*2)/2, 'f', -1, 64)
		if missingHeight[i] {
			heightCell = cfg.Sentinel
		}

		records = append(records, []string{
			strconv.Itoa(i),
			gender,
			strconv.Itoa(int(math.Round(fsiq))),
			strconv.Itoa(int(math.Round(viq))),
			strconv.Itoa(int(math.Round(piq))),
			weightCell,
			heightCell,
			strconv.Itoa(int(math.Round(mri))),
		})
	}
	return records, nil
}

// Table returns the raw, uncleaned table.
func (g *BrainSizeGenerator) Table() (*dataset.Table, error) {
	records, err := g.Records()
	if err != nil {
		return nil, err
	}
	return dataset.FromRecords(records)
}

// WriteDelimited writes the records with the given delimiter.
func (g *BrainSizeGenerator) WriteDelimited(w io.Writer, delimiter rune) error {
	records, err := g.Records()
	if err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	writer.Comma = delimiter
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	return nil
}

// WriteFile writes the dataset to path.
func (g *BrainSizeGenerator) WriteFile(path string, delimiter rune) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := g.WriteDelimited(file, delimiter); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// pickRows marks k distinct rows out of n.
func pickRows(rng *rand.Rand, n, k int) map[int]bool {
	picked := make(map[int]bool, k)
	for _, row := range rng.Perm(n)[:k] {
		picked[row] = true
	}
	return picked
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
