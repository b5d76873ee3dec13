package intel

import (
	"bytes"
	"fmt"

	"github.com/retroenv/retrohex/internal/format"
)

// DefaultRecordLength is the payload length of full data records if not configured.
const DefaultRecordLength = 32

// one past the highest address reachable with extended linear addressing
const addressSpace = 1 << 32

// Config contains the encoder settings.
type Config struct {
	Address      uint32 // load address of the first data byte
	Exec         uint32 // start linear address, 0 emits no type 5 record
	RecordLength int    // payload bytes per data record, 0 selects the default
}

// Encoder converts a byte stream into Intel HEX records.
type Encoder struct {
	fifo    bytes.Buffer
	pointer uint64 // load address of the next data byte
	exec    uint32
	length  int

	segment   uint32 // last announced upper 16 address bits
	announced bool
	finished  bool
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

	return &Encoder{
		pointer: uint64(cfg.Address),
		exec:    cfg.Exec,
		length:  cfg.RecordLength,
	}, nil
}

// Feed buffers p and returns all full data records that became available.
// A type 4 extended linear address record is emitted before the first data
// record and whenever a data record starts in a new 64KB segment.
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

// Finish flushes the remaining partial data record and emits the trailer
// records: a type 5 start linear address record if an exec address is
// configured and the type 1 end-of-file record.
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

	if e.exec != 0 {
		exec := []byte{byte(e.exec >> 24), byte(e.exec >> 16), byte(e.exec >> 8), byte(e.exec)}
		rec, err := BuildRecord(TypeStartLinearAddress, 0, exec)
		if err != nil {
			return out, err
		}
		out = append(out, rec+"\n")
	}

	rec, err := BuildRecord(TypeEndOfFile, 0, nil)
	if err != nil {
		return out, err
	}
	return append(out, rec+"\n"), nil
}

func (e *Encoder) emitData(out *[]string, data []byte) error {
	if e.pointer+uint64(len(data)) > addressSpace {
		return fmt.Errorf("%w: 0x%X exceeds 32 bit address space",
			format.ErrAddressOverflow, e.pointer+uint64(len(data)))
	}

	if segment := uint32(e.pointer >> 16); !e.announced || segment != e.segment {
		rec, err := BuildRecord(TypeExtendedLinearAddress, 0,
			[]byte{byte(segment >> 8), byte(segment)})
		if err != nil {
			return err
		}
		*out = append(*out, rec+"\n")
		e.segment = segment
		e.announced = true
	}

	rec, err := BuildRecord(TypeData, uint32(e.pointer)&0xffff, data)
	if err != nil {
		return err
	}
	*out = append(*out, rec+"\n")

	e.pointer += uint64(len(data))
	return nil
}
