// Package signetics implements the Signetics absolute object format.
package signetics

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/retroenv/retrohex/internal/format"
)

// shortest full record: ':' address(4) count(2) bcc(2) data(2) bcc(2)
const minRecordLength = 13

// BuildRecord builds one Signetics record. The address is masked to 16 bits.
// An empty payload builds the short end-of-file form that carries no
// checksums.
func BuildRecord(address uint32, data []byte) (string, error) {
	address &= 0xffff
	if len(data) == 0 {
		return fmt.Sprintf(":%04X00", address), nil
	}
	if len(data) > 0xff {
		return "", fmt.Errorf("%w: payload of %d bytes exceeds 255", format.ErrLengthMismatch, len(data))
	}

	head := []byte{byte(address >> 8), byte(address), byte(len(data))}
	return fmt.Sprintf(":%04X%02X%02X%s%02X", address, len(data), bcc(head),
		strings.ToUpper(hex.EncodeToString(data)), bcc(data)), nil
}

// ParseRecord parses one Signetics record line. The short end-of-file form
// is recognized first, full records verify both block control characters.
func ParseRecord(line string) (format.Record, error) {
	if len(line) == 7 && line[0] == ':' && line[5:7] == "00" {
		address, err := strconv.ParseUint(line[1:5], 16, 16)
		if err != nil {
			return format.Record{}, fmt.Errorf("%w: %s", format.ErrInvalidSyntax, err)
		}
		return format.Record{Type: format.NoType, Address: uint32(address), Data: []byte{}}, nil
	}

	if len(line) < minRecordLength || line[0] != ':' || len(line)%2 == 0 {
		return format.Record{}, fmt.Errorf("%w: '%s'", format.ErrInvalidSyntax, line)
	}

	address, err := strconv.ParseUint(line[1:5], 16, 16)
	if err != nil {
		return format.Record{}, fmt.Errorf("%w: %s", format.ErrInvalidSyntax, err)
	}
	count, err := strconv.ParseUint(line[5:7], 16, 8)
	if err != nil {
		return format.Record{}, fmt.Errorf("%w: %s", format.ErrInvalidSyntax, err)
	}

	if actual := (len(line) - 11) / 2; int(count) != actual {
		return format.Record{}, fmt.Errorf("%w: declared %d, actual %d",
			format.ErrLengthMismatch, count, actual)
	}

	addrBcc, err := strconv.ParseUint(line[7:9], 16, 8)
	if err != nil {
		return format.Record{}, fmt.Errorf("%w: %s", format.ErrInvalidSyntax, err)
	}
	head := []byte{byte(address >> 8), byte(address), byte(count)}
	if sum := bcc(head); sum != byte(addrBcc) {
		return format.Record{}, fmt.Errorf("%w: address bcc expected 0x%02X, record has 0x%02X",
			format.ErrChecksumMismatch, sum, addrBcc)
	}

	data, err := hex.DecodeString(line[9 : len(line)-2])
	if err != nil {
		return format.Record{}, fmt.Errorf("%w: %s", format.ErrInvalidSyntax, err)
	}
	dataBcc, err := strconv.ParseUint(line[len(line)-2:], 16, 8)
	if err != nil {
		return format.Record{}, fmt.Errorf("%w: %s", format.ErrInvalidSyntax, err)
	}
	if sum := bcc(data); sum != byte(dataBcc) {
		return format.Record{}, fmt.Errorf("%w: data bcc expected 0x%02X, record has 0x%02X",
			format.ErrChecksumMismatch, sum, dataBcc)
	}

	return format.Record{Type: format.NoType, Address: uint32(address), Data: data}, nil
}

// bcc folds each byte into the block control character by an XOR followed
// by a left rotation.
func bcc(data []byte) byte {
	var acc byte
	for _, b := range data {
		acc ^= b
		acc = acc<<1 | acc>>7
	}
	return acc
}
