// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/retrohex/internal/format"
	"github.com/retroenv/retrohex/internal/options"
)

// ParseFlags parses command line flags and returns program and encoding options
func ParseFlags() (options.Program, options.Encoding, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) == 0 {
		return opts, options.Encoding{}, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Encoding{}, err
	}

	opts.Input = args[0]

	enc, err := normalizeOptions(&opts)
	if err != nil {
		return opts, options.Encoding{}, err
	}

	return opts, enc, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrohex [options] <file to convert>\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after file to convert, please pass the file to convert as last argument", arg),
			}
		}
	}
	return nil
}

// formatAliases maps accepted format name spellings to the canonical names.
var formatAliases = map[string]string{
	"intel":     format.Intel,
	"ihex":      format.Intel,
	"hex":       format.Intel,
	"srec":      format.Motorola,
	"motorola":  format.Motorola,
	"s19":       format.Motorola,
	"sig":       format.Signetics,
	"signetics": format.Signetics,
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) (options.Encoding, error) {
	name, ok := formatAliases[strings.ToLower(opts.Format)]
	if !ok {
		valid := []string{format.Intel, format.Motorola, format.Signetics}
		return options.Encoding{}, fmt.Errorf("unsupported format: %s. Valid options: %s",
			opts.Format, strings.Join(valid, ", "))
	}
	opts.Format = name

	address, err := parseAddress(opts.Address)
	if err != nil {
		return options.Encoding{}, fmt.Errorf("parsing address: %w", err)
	}
	exec, err := parseAddress(opts.Exec)
	if err != nil {
		return options.Encoding{}, fmt.Errorf("parsing exec address: %w", err)
	}

	return options.Encoding{
		Format:       name,
		Address:      address,
		Exec:         exec,
		RecordLength: opts.RecordLength,
		Header:       opts.Header,
	}, nil
}

// parseAddress parses a decimal or 0x prefixed hexadecimal address.
func parseAddress(s string) (uint32, error) {
	if s == "" {
		return 0, nil
	}
	value, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address '%s': %w", s, err)
	}
	return uint32(value), nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Output, "o", "", "name of the output file, printed on console if no name given")
	flags.StringVar(&opts.Format, "f", "intel", "hex record format: intel, srec, sig")
	flags.BoolVar(&opts.Decode, "d", false, "decode a hex record file back to a flat binary image")
	flags.StringVar(&opts.Address, "a", "", "load address of the first data byte, decimal or 0x prefixed")
	flags.StringVar(&opts.Exec, "e", "", "exec address placed in the trailer records")
	flags.IntVar(&opts.RecordLength, "l", 0, "payload bytes per data record, 0 uses the format default")
	flags.StringVar(&opts.Header, "header", "", "header text for the S0 record of the srec format")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
