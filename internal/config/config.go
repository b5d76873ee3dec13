// Package config handles application configuration and setup
package config

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrohex/internal/format"
	"github.com/retroenv/retrohex/internal/format/intel"
	"github.com/retroenv/retrohex/internal/format/motorola"
	"github.com/retroenv/retrohex/internal/format/signetics"
	"github.com/retroenv/retrohex/internal/options"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateEncoder creates the stream encoder for the chosen format.
// nolint: ireturn
func CreateEncoder(enc options.Encoding) (format.Encoder, error) {
	switch enc.Format {
	case format.Intel:
		return intel.NewEncoder(intel.Config{
			Address:      enc.Address,
			Exec:         enc.Exec,
			RecordLength: enc.RecordLength,
		})

	case format.Motorola:
		return motorola.NewEncoder(motorola.Config{
			Header:       enc.Header,
			Address:      enc.Address,
			Exec:         enc.Exec,
			RecordLength: enc.RecordLength,
		})

	case format.Signetics:
		return signetics.NewEncoder(signetics.Config{
			Address:      enc.Address,
			Exec:         enc.Exec,
			RecordLength: enc.RecordLength,
		})

	default:
		return nil, fmt.Errorf("unsupported format '%s'", enc.Format)
	}
}

// CreateParser returns the record parser function for the chosen format.
func CreateParser(formatName string) (func(string) (format.Record, error), error) {
	switch formatName {
	case format.Intel:
		return intel.ParseRecord, nil
	case format.Motorola:
		return motorola.ParseRecord, nil
	case format.Signetics:
		return signetics.ParseRecord, nil
	default:
		return nil, fmt.Errorf("unsupported format '%s'", formatName)
	}
}
