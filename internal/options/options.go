// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input  string
	Output string
}

// Flags contains behavior options.
type Flags struct {
	Format string
	Decode bool

	Address      string
	Exec         string
	RecordLength int
	Header       string

	Debug bool
	Quiet bool
}

// Program options of the converter.
type Program struct {
	Parameters
	Flags
}

// Encoding contains validated settings for the stream encoders, derived
// from the program options by the cli package.
type Encoding struct {
	Format       string // format name as defined in the format package
	Address      uint32 // load address of the first data byte
	Exec         uint32 // exec address for the trailer records
	RecordLength int    // payload bytes per data record, 0 selects the format default
	Header       string // S-record header text
}
