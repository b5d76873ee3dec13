// Package motorola implements the Motorola S-record format.
package motorola

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/retroenv/retrohex/internal/format"
)

// Record types defined by the S-record specification, S4 is not defined.
const (
	TypeHeader = iota // S0
	TypeData16        // S1
	TypeData24        // S2
	TypeData32        // S3
	_
	TypeCount16 // S5
	TypeCount24 // S6
	TypeStart32 // S7
	TypeStart24 // S8
	TypeStart16 // S9
)

// addressBytes maps a record type to the width of its address field.
var addressBytes = map[int]int{
	TypeHeader:  2,
	TypeData16:  2,
	TypeData24:  3,
	TypeData32:  4,
	TypeCount16: 2,
	TypeCount24: 3,
	TypeStart32: 4,
	TypeStart24: 3,
	TypeStart16: 2,
}

// BuildRecord builds one S-record. The address is masked to the address
// field width of the given record type.
func BuildRecord(typ int, address uint32, data []byte) (string, error) {
	addrLen, ok := addressBytes[typ]
	if !ok {
		return "", fmt.Errorf("%w: S%d", format.ErrUnsupportedType, typ)
	}

	// byte count covers address, data and checksum
	count := len(data) + addrLen + 1
	if count > 0xff {
		return "", fmt.Errorf("%w: payload of %d bytes exceeds S%d record",
			format.ErrLengthMismatch, len(data), typ)
	}

	buf := make([]byte, 0, count+1)
	buf = append(buf, byte(count))
	for i := addrLen - 1; i >= 0; i-- {
		buf = append(buf, byte(address>>(8*i)))
	}
	buf = append(buf, data...)
	buf = append(buf, checksum(buf))

	return fmt.Sprintf("S%d%s", typ, strings.ToUpper(hex.EncodeToString(buf))), nil
}

// ParseRecord parses one S-record line. The bare string "S9" is accepted as
// a shortened end-of-file record. The checksum is enforced, records written
// by historical tools that relied on parsers never verifying it are rejected.
func ParseRecord(line string) (format.Record, error) {
	if line == "S9" {
		return format.Record{Type: TypeStart16, Data: []byte{}}, nil
	}

	if len(line) < 4 || line[0] != 'S' || line[1] < '0' || line[1] > '9' {
		return format.Record{}, fmt.Errorf("%w: '%s'", format.ErrInvalidSyntax, line)
	}

	typ := int(line[1] - '0')
	addrLen, ok := addressBytes[typ]
	if !ok {
		return format.Record{}, fmt.Errorf("%w: S%d", format.ErrUnsupportedType, typ)
	}

	raw, err := hex.DecodeString(line[2:])
	if err != nil {
		return format.Record{}, fmt.Errorf("%w: %s", format.ErrInvalidSyntax, err)
	}

	// the byte count field covers every byte following it
	if int(raw[0]) != len(raw)-1 || len(raw) < addrLen+2 {
		return format.Record{}, fmt.Errorf("%w: declared %d, actual %d",
			format.ErrLengthMismatch, raw[0], len(raw)-1)
	}

	if sum := checksum(raw[:len(raw)-1]); sum != raw[len(raw)-1] {
		return format.Record{}, fmt.Errorf("%w: expected 0x%02X, record has 0x%02X",
			format.ErrChecksumMismatch, sum, raw[len(raw)-1])
	}

	var address uint32
	for _, b := range raw[1 : 1+addrLen] {
		address = address<<8 | uint32(b)
	}

	rec := format.Record{
		Type:    typ,
		Address: address,
		Data:    append([]byte{}, raw[1+addrLen:len(raw)-1]...),
	}
	return rec, nil
}

// checksum is the one's complement of the sum of the byte count, address
// and data bytes.
func checksum(buf []byte) byte {
	var sum byte
	for _, b := range buf {
		sum += b
	}
	return ^sum
}
