package config

import (
	"bytes"
	"fmt"
	"os"

	"seedsweep/domain/search"
	"seedsweep/domain/stats"
	"seedsweep/internal/errors"

	"gopkg.in/yaml.v3"
)

// PlanFile is the on-disk form of a search plan:
//
//	seed_max: 100000
//	passes:
//	  - target: partY
//	    variant: plain
//	    predicate: abs<0.05
//	    min_count: 5
type PlanFile struct {
	SeedMax int64      `yaml:"seed_max"`
	Passes  []PassSpec `yaml:"passes"`
}

// PassSpec describes one pass. SeedMax falls back to the plan's value.
type PassSpec struct {
	Target    string `yaml:"target"`
	Variant   string `yaml:"variant"`
	Predicate string `yaml:"predicate"`
	MinCount  int    `yaml:"min_count"`
	SeedMax   int64  `yaml:"seed_max,omitempty"`
}

// LoadPlan reads a YAML plan file. defaultSeedMax applies when neither the
// plan nor a pass sets a budget.
func LoadPlan(path string, defaultSeedMax int64) ([]search.Pass, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("read plan %s", path), err)
	}
	return ParsePlan(data, defaultSeedMax)
}

// ParsePlan decodes and validates a YAML plan. Unknown keys are rejected.
func ParsePlan(data []byte, defaultSeedMax int64) ([]search.Pass, error) {
	var file PlanFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("decode plan: %w", err))
	}
	if len(file.Passes) == 0 {
		return nil, errors.ConfigInvalid("plan has no passes")
	}

	planSeedMax := defaultSeedMax
	if file.SeedMax > 0 {
		planSeedMax = file.SeedMax
	}

	passes := make([]search.Pass, 0, len(file.Passes))
	for i, spec := range file.Passes {
		pass, err := spec.toPass(planSeedMax)
		if err != nil {
			return nil, errors.Wrapf(err, "pass %d", i+1)
		}
		passes = append(passes, pass)
	}
	return passes, nil
}

// MarshalPlan renders passes back to YAML.
func MarshalPlan(passes []search.Pass) ([]byte, error) {
	file := PlanFile{Passes: make([]PassSpec, len(passes))}
	for i, p := range passes {
		file.Passes[i] = PassSpec{
			Target:    p.Target,
			Variant:   string(p.Variant),
			Predicate: p.Predicate.String(),
			MinCount:  p.MinCount,
			SeedMax:   p.SeedMax,
		}
	}
	return yaml.Marshal(file)
}

func (s PassSpec) toPass(seedMax int64) (search.Pass, error) {
	variant, err := stats.ParseVariant(s.Variant)
	if err != nil {
		return search.Pass{}, err
	}
	predicate, err := search.ParsePredicate(s.Predicate)
	if err != nil {
		return search.Pass{}, err
	}
	if s.SeedMax > 0 {
		seedMax = s.SeedMax
	}

	pass := search.Pass{
		Target:    s.Target,
		Variant:   variant,
		Predicate: predicate,
		MinCount:  s.MinCount,
		SeedMax:   seedMax,
	}
	if err := pass.Validate(); err != nil {
		return search.Pass{}, err
	}
	return pass, nil
}
