package motorola

import (
	"bytes"
	"fmt"

	"github.com/retroenv/retrohex/internal/format"
)

// DefaultRecordLength is the payload length of full data records if not configured.
const DefaultRecordLength = 32

// MaxRecordLength keeps the byte count below 256 with 32 bit addressing.
const MaxRecordLength = 0xff - 4 - 1

// one past the highest address reachable with S3 records
const addressSpace = 1 << 32

// Config contains the encoder settings.
type Config struct {
	Header       string // emitted as S0 record if not empty
	Address      uint32 // load address of the first data byte
	Exec         uint32 // address placed in the termination record
	RecordLength int    // payload bytes per data record, 0 selects the default
}

// Encoder converts a byte stream into S-records. The data, count and
// termination record types escalate with the magnitude of the address
// pointer, record counter and exec address.
type Encoder struct {
	fifo    bytes.Buffer
	pointer uint64 // load address of the next data byte
	exec    uint32
	length  int
	count   uint64 // emitted data records

	header   string
	pending  bool // header record not yet emitted
	finished bool
}

// NewEncoder creates a new encoder, validating the configuration.
func NewEncoder(cfg Config) (*Encoder, error) {
	if cfg.RecordLength == 0 {
		cfg.RecordLength = DefaultRecordLength
	}
	if cfg.RecordLength < 1 || cfg.RecordLength > MaxRecordLength {
		return nil, fmt.Errorf("%w: record length %d not in range 1-%d",
			format.ErrConfiguration, cfg.RecordLength, MaxRecordLength)
	}
	if len(cfg.Header) > cfg.RecordLength {
		return nil, fmt.Errorf("%w: header of %d bytes exceeds record length %d",
			format.ErrConfiguration, len(cfg.Header), cfg.RecordLength)
	}

	return &Encoder{
		pointer: uint64(cfg.Address),
		exec:    cfg.Exec,
		length:  cfg.RecordLength,
		header:  cfg.Header,
		pending: cfg.Header != "",
	}, nil
}

// Feed buffers p and returns all full data records that became available,
// preceded by the S0 header record on the first call.
func (e *Encoder) Feed(p []byte) ([]string, error) {
	if e.finished {
		return nil, fmt.Errorf("%w: feed after finish", format.ErrFinished)
	}

	e.fifo.Write(p)

	var out []string
	if err := e.emitHeader(&out); err != nil {
		return out, err
	}
	for e.fifo.Len() >= e.length {
		if err := e.emitData(&out, e.fifo.Next(e.length)); err != nil {
			return out, err
		}
	}
	return out, nil
}

// Finish flushes the remaining partial data record and emits the trailer
// records: an S5/S6 count record if data records were emitted and the count
// fits into 24 bits, followed by the S7/S8/S9 termination record.
func (e *Encoder) Finish() ([]string, error) {
	if e.finished {
		return nil, fmt.Errorf("%w: finish called twice", format.ErrFinished)
	}
	e.finished = true

	var out []string
	if err := e.emitHeader(&out); err != nil {
		return out, err
	}
	if e.fifo.Len() > 0 {
		if err := e.emitData(&out, e.fifo.Next(e.fifo.Len())); err != nil {
			return out, err
		}
	}

	if e.count > 0 && e.count <= 0xffffff {
		typ := TypeCount16
		if e.count > 0xffff {
			typ = TypeCount24
		}
		rec, err := BuildRecord(typ, uint32(e.count), nil)
		if err != nil {
			return out, err
		}
		out = append(out, rec+"\n")
	}

	typ := TypeStart16
	switch {
	case e.exec > 0xffffff:
		typ = TypeStart32
	case e.exec > 0xffff:
		typ = TypeStart24
	}
	rec, err := BuildRecord(typ, e.exec, nil)
	if err != nil {
		return out, err
	}
	return append(out, rec+"\n"), nil
}

func (e *Encoder) emitHeader(out *[]string) error {
	if !e.pending {
		return nil
	}
	e.pending = false

	rec, err := BuildRecord(TypeHeader, 0, []byte(e.header))
	if err != nil {
		return err
	}
	*out = append(*out, rec+"\n")
	return nil
}

func (e *Encoder) emitData(out *[]string, data []byte) error {
	if e.pointer+uint64(len(data)) > addressSpace {
		return fmt.Errorf("%w: 0x%X exceeds 32 bit address space",
			format.ErrAddressOverflow, e.pointer+uint64(len(data)))
	}

	typ := TypeData16
	switch {
	case e.pointer > 0xffffff:
		typ = TypeData32
	case e.pointer > 0xffff:
		typ = TypeData24
	}

	rec, err := BuildRecord(typ, uint32(e.pointer), data)
	if err != nil {
		return err
	}
	*out = append(*out, rec+"\n")

	e.pointer += uint64(len(data))
	e.count++
	return nil
}
