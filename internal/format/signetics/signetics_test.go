package signetics

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrohex/internal/format"
)

func TestBuildRecord(t *testing.T) {
	tests := []struct {
		name    string
		address uint32
		data    []byte
		want    string
	}{
		{
			name:    "end of file record",
			address: 0x0500,
			want:    ":050000",
		},
		{
			name:    "data record",
			address: 0x0010,
			data:    []byte("address gap"),
			want:    ":00100B5661646472657373206761707C",
		},
		{
			name:    "single byte record",
			address: 0x0500,
			data:    []byte{0xaa},
			want:    ":0500012AAA55",
		},
		{
			name:    "address masked to 16 bit",
			address: 0x12340500,
			want:    ":050000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildRecord(tt.address, tt.data)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildRecordErrors(t *testing.T) {
	_, err := BuildRecord(0, make([]byte, 256))
	assert.True(t, errors.Is(err, format.ErrLengthMismatch))
}

func TestParseRecordShortEOF(t *testing.T) {
	rec, err := ParseRecord(":050000")
	assert.NoError(t, err)
	assert.Equal(t, format.NoType, rec.Type)
	assert.Equal(t, uint32(0x0500), rec.Address)
	assert.Len(t, rec.Data, 0)
}

func TestParseRecordRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		address uint32
		data    []byte
	}{
		{name: "empty payload", address: 0x1000},
		{name: "single byte", address: 0xffff, data: []byte{0x42}},
		{name: "text payload", address: 0x0010, data: []byte("address gap")},
		{name: "full length payload", address: 0, data: make([]byte, 255)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := BuildRecord(tt.address, tt.data)
			assert.NoError(t, err)

			rec, err := ParseRecord(line)
			assert.NoError(t, err)
			assert.Equal(t, format.NoType, rec.Type)
			assert.Equal(t, tt.address, rec.Address)
			assert.Equal(t, len(tt.data), len(rec.Data))
			for i := range tt.data {
				assert.Equal(t, tt.data[i], rec.Data[i])
			}
		})
	}
}

func TestParseRecordErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want error
	}{
		{name: "empty line", line: "", want: format.ErrInvalidSyntax},
		{name: "missing start code", line: "00100B5661646472657373206761707C", want: format.ErrInvalidSyntax},
		{name: "odd digit count", line: ":00100B5661646472657373206761707", want: format.ErrInvalidSyntax},
		{name: "non hex address", line: ":00ZZ0B5661646472657373206761707C", want: format.ErrInvalidSyntax},
		{name: "truncated record", line: ":00100B56", want: format.ErrInvalidSyntax},
		{name: "tampered eof count field", line: ":050001", want: format.ErrInvalidSyntax},
		{name: "declared length wrong", line: ":00100C5661646472657373206761707C", want: format.ErrLengthMismatch},
		{name: "address checksum wrong", line: ":00100B5761646472657373206761707C", want: format.ErrChecksumMismatch},
		{name: "data checksum wrong", line: ":00100B5661646472657373206761707D", want: format.ErrChecksumMismatch},
		{name: "corrupted payload", line: ":00100B5662646472657373206761707C", want: format.ErrChecksumMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecord(tt.line)
			assert.True(t, errors.Is(err, tt.want))
		})
	}
}

// the address and data block control characters fail with distinct messages
func TestParseRecordChecksumMessages(t *testing.T) {
	_, err := ParseRecord(":00100B5761646472657373206761707C")
	assert.ErrorContains(t, err, "address bcc")

	_, err = ParseRecord(":00100B5661646472657373206761707D")
	assert.ErrorContains(t, err, "data bcc")
}

func TestParseRecordTamperSensitivity(t *testing.T) {
	line, err := BuildRecord(0x0010, []byte("address gap"))
	assert.NoError(t, err)

	for i := 1; i < len(line); i++ {
		tampered := []byte(line)
		if tampered[i] == '0' {
			tampered[i] = '1'
		} else {
			tampered[i] = '0'
		}

		_, err := ParseRecord(string(tampered))
		assert.True(t, errors.Is(err, format.ErrChecksumMismatch) ||
			errors.Is(err, format.ErrLengthMismatch), "tampered digit %d not detected", i)
	}
}
