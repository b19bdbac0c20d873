package core

import "github.com/huangsam/chartmap/internal/contract"

// Options controls how a grid run is scheduled.
type Options struct {
	Workers      int // row workers; defaults to contract.DefaultWorkers
	ProgressStep int // percent of rows between progress reports; defaults to 5
	Label        string
}

// OptionsFromConfig builds run options from a validated config.
func OptionsFromConfig(cfg *contract.Config, label string) Options {
	return Options{Workers: cfg.Workers, ProgressStep: cfg.ProgressStep, Label: label}
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = contract.DefaultWorkers
	}
	if o.ProgressStep <= 0 {
		o.ProgressStep = contract.DefaultProgressStep
	}
	return o
}
