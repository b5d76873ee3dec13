package signetics

import (
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrohex/internal/format"
)

func TestNewEncoderValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "defaults", cfg: Config{}},
		{name: "maximum record length", cfg: Config{RecordLength: 255}},
		{name: "negative record length", cfg: Config{RecordLength: -1}, wantErr: true},
		{name: "record length too large", cfg: Config{RecordLength: 256}, wantErr: true},
		{name: "address too large", cfg: Config{Address: 0x10000}, wantErr: true},
		{name: "exec address too large", cfg: Config{Exec: 0x10000}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoder, err := NewEncoder(tt.cfg)
			if tt.wantErr {
				assert.True(t, errors.Is(err, format.ErrConfiguration))
				assert.Nil(t, encoder)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, encoder)
			}
		})
	}
}

func TestEncoderFeedAndFinish(t *testing.T) {
	encoder, err := NewEncoder(Config{Address: 0x0500, Exec: 0x0500, RecordLength: 1})
	assert.NoError(t, err)

	records, err := encoder.Feed([]byte{0xaa})
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, ":0500012AAA55\n", records[0])

	records, err = encoder.Finish()
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, ":050000\n", records[0])
}

func TestEncoderStreamingCompleteness(t *testing.T) {
	input := []byte("the quick brown fox jumps over the lazy dog")

	encoder, err := NewEncoder(Config{RecordLength: 8})
	assert.NoError(t, err)

	var records []string
	for i := 0; i < len(input); i += 5 {
		end := i + 5
		if end > len(input) {
			end = len(input)
		}
		recs, err := encoder.Feed(input[i:end])
		assert.NoError(t, err)
		records = append(records, recs...)
	}
	recs, err := encoder.Finish()
	assert.NoError(t, err)
	records = append(records, recs...)

	var output []byte
	var address uint32
	for _, record := range records {
		rec, err := ParseRecord(strings.TrimSuffix(record, "\n"))
		assert.NoError(t, err)
		if len(rec.Data) == 0 {
			continue // end-of-file record
		}
		assert.Equal(t, address, rec.Address)
		address += uint32(len(rec.Data))
		output = append(output, rec.Data...)
	}

	assert.Equal(t, string(input), string(output))
}

func TestEncoderAddressOverflow(t *testing.T) {
	encoder, err := NewEncoder(Config{Address: 0xfff8, RecordLength: 8})
	assert.NoError(t, err)

	records, err := encoder.Feed(make([]byte, 8))
	assert.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = encoder.Feed(make([]byte, 8))
	assert.True(t, errors.Is(err, format.ErrAddressOverflow))
}

func TestEncoderFinished(t *testing.T) {
	encoder, err := NewEncoder(Config{})
	assert.NoError(t, err)

	_, err = encoder.Finish()
	assert.NoError(t, err)

	_, err = encoder.Finish()
	assert.True(t, errors.Is(err, format.ErrFinished))

	_, err = encoder.Feed([]byte{1})
	assert.True(t, errors.Is(err, format.ErrFinished))
}
