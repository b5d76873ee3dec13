package config

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrohex/internal/format"
	"github.com/retroenv/retrohex/internal/options"
)

func TestCreateEncoder(t *testing.T) {
	for _, formatName := range []string{format.Intel, format.Motorola, format.Signetics} {
		encoder, err := CreateEncoder(options.Encoding{Format: formatName})
		assert.NoError(t, err)
		assert.NotNil(t, encoder)
	}

	_, err := CreateEncoder(options.Encoding{Format: "tektronix"})
	assert.ErrorContains(t, err, "unsupported format")
}

func TestCreateEncoderInvalidConfiguration(t *testing.T) {
	_, err := CreateEncoder(options.Encoding{Format: format.Intel, RecordLength: 300})
	assert.True(t, errors.Is(err, format.ErrConfiguration))

	_, err = CreateEncoder(options.Encoding{Format: format.Signetics, Address: 0x10000})
	assert.True(t, errors.Is(err, format.ErrConfiguration))
}

func TestCreateParser(t *testing.T) {
	for _, formatName := range []string{format.Intel, format.Motorola, format.Signetics} {
		parse, err := CreateParser(formatName)
		assert.NoError(t, err)
		assert.NotNil(t, parse)
	}

	_, err := CreateParser("tektronix")
	assert.ErrorContains(t, err, "unsupported format")
}
