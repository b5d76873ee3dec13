// Package intel implements the Intel HEX record format.
package intel

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/retroenv/retrohex/internal/format"
)

// Record types defined by the Intel HEX specification.
const (
	TypeData = iota
	TypeEndOfFile
	TypeExtendedSegmentAddress
	TypeStartSegmentAddress
	TypeExtendedLinearAddress
	TypeStartLinearAddress
)

// record overhead in bytes: length, 2 address, type, checksum
const overhead = 5

// BuildRecord builds one Intel HEX record. The address is masked to 16 bits,
// extended addressing is handled by separate type 2/4 records.
func BuildRecord(typ int, address uint32, data []byte) (string, error) {
	if typ < 0 || typ > 0xff {
		return "", fmt.Errorf("%w: %d", format.ErrUnsupportedType, typ)
	}
	if len(data) > 0xff {
		return "", fmt.Errorf("%w: payload of %d bytes exceeds 255", format.ErrLengthMismatch, len(data))
	}

	buf := make([]byte, 0, len(data)+overhead)
	buf = append(buf, byte(len(data)), byte(address>>8), byte(address), byte(typ))
	buf = append(buf, data...)
	buf = append(buf, checksum(buf))

	return ":" + strings.ToUpper(hex.EncodeToString(buf)), nil
}

// ParseRecord parses one Intel HEX record line.
func ParseRecord(line string) (format.Record, error) {
	if len(line) < 1+2*overhead || line[0] != ':' || len(line)%2 == 0 {
		return format.Record{}, fmt.Errorf("%w: '%s'", format.ErrInvalidSyntax, line)
	}

	raw, err := hex.DecodeString(line[1:])
	if err != nil {
		return format.Record{}, fmt.Errorf("%w: %s", format.ErrInvalidSyntax, err)
	}

	if int(raw[0]) != len(raw)-overhead {
		return format.Record{}, fmt.Errorf("%w: declared %d, actual %d",
			format.ErrLengthMismatch, raw[0], len(raw)-overhead)
	}

	// the sum of all record bytes including the checksum byte is 0 mod 256
	var sum byte
	for _, b := range raw {
		sum += b
	}
	if sum != 0 {
		return format.Record{}, fmt.Errorf("%w: record sums to 0x%02X", format.ErrChecksumMismatch, sum)
	}

	rec := format.Record{
		Type:    int(raw[3]),
		Address: uint32(raw[1])<<8 | uint32(raw[2]),
		Data:    append([]byte{}, raw[4:len(raw)-1]...),
	}
	return rec, nil
}

// checksum is the two's complement of the sum of all record bytes.
func checksum(buf []byte) byte {
	var sum byte
	for _, b := range buf {
		sum += b
	}
	return -sum
}
