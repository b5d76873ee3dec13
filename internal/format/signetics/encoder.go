package signetics

import (
	"bytes"
	"fmt"

	"github.com/retroenv/retrohex/internal/format"
)

// DefaultRecordLength is the payload length of full data records if not configured.
const DefaultRecordLength = 32

// one past the highest address the 4 digit address field can hold
const addressSpace = 1 << 16

// Config contains the encoder settings.
type Config struct {
	Address      uint32 // load address of the first data byte
	Exec         uint32 // address placed in the end-of-file record
	RecordLength int    // payload bytes per data record, 0 selects the default
}

// Encoder converts a byte stream into Signetics records. The format has no
// typed records, every data record uses the same layout.
type Encoder struct {
	fifo     bytes.Buffer
	pointer  uint64 // load address of the next data byte
	exec     uint32
	length   int
	finished bool
}

// NewEncoder creates a new encoder, validating the configuration.
func NewEncoder(cfg Config) (*Encoder, error) {
	if cfg.RecordLength == 0 {
		cfg.RecordLength = DefaultRecordLength
	}
	if cfg.RecordLength < 1 || cfg.RecordLength > 0xff {
		return nil, fmt.Errorf("%w: record length %d not in range 1-255",
			format.ErrConfiguration, cfg.RecordLength)
	}
	if cfg.Address >= addressSpace {
		return nil, fmt.Errorf("%w: address 0x%X exceeds 16 bit address space",
			format.ErrConfiguration, cfg.Address)
	}
	if cfg.Exec >= addressSpace {
		return nil, fmt.Errorf("%w: exec address 0x%X exceeds 16 bit address space",
			format.ErrConfiguration, cfg.Exec)
	}

	return &Encoder{
		pointer: uint64(cfg.Address),
		exec:    cfg.Exec,
		length:  cfg.RecordLength,
	}, nil
}

// Feed buffers p and returns all full data records that became available.
func (e *Encoder) Feed(p []byte) ([]string, error) {
	if e.finished {
		return nil, fmt.Errorf("%w: feed after finish", format.ErrFinished)
	}

	e.fifo.Write(p)

	var out []string
	for e.fifo.Len() >= e.length {
		if err := e.emitData(&out, e.fifo.Next(e.length)); err != nil {
			return out, err
		}
	}
	return out, nil
}

// Finish flushes the remaining partial data record and emits the short
// end-of-file record carrying the exec address.
func (e *Encoder) Finish() ([]string, error) {
	if e.finished {
		return nil, fmt.Errorf("%w: finish called twice", format.ErrFinished)
	}
	e.finished = true

	var out []string
	if e.fifo.Len() > 0 {
		if err := e.emitData(&out, e.fifo.Next(e.fifo.Len())); err != nil {
			return out, err
		}
	}

	rec, err := BuildRecord(e.exec, nil)
	if err != nil {
		return out, err
	}
	return append(out, rec+"\n"), nil
}

func (e *Encoder) emitData(out *[]string, data []byte) error {
	if e.pointer+uint64(len(data)) > addressSpace {
		return fmt.Errorf("%w: 0x%X exceeds 16 bit address space",
			format.ErrAddressOverflow, e.pointer+uint64(len(data)))
	}

	rec, err := BuildRecord(uint32(e.pointer), data)
	if err != nil {
		return err
	}
	*out = append(*out, rec+"\n")

	e.pointer += uint64(len(data))
	return nil
}
