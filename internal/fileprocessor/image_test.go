package fileprocessor

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestImageRender(t *testing.T) {
	img := &image{}
	img.add(0x0104, []byte{5, 6})
	img.add(0x0100, []byte{1, 2})

	data, base, err := img.render()
	assert.NoError(t, err)
	assert.Equal(t, uint32(0x0100), base)
	assert.Len(t, data, 6)

	// gap between the records is filled like erased EPROM cells
	want := []byte{1, 2, 0xff, 0xff, 5, 6}
	for i := range want {
		assert.Equal(t, want[i], data[i])
	}
}

func TestImageRenderEmpty(t *testing.T) {
	img := &image{}

	data, base, err := img.render()
	assert.NoError(t, err)
	assert.Equal(t, uint32(0), base)
	assert.Len(t, data, 0)
}

func TestImageRenderOverlap(t *testing.T) {
	img := &image{}
	img.add(0x0100, []byte{1, 2, 3})
	img.add(0x0102, []byte{4})

	_, _, err := img.render()
	assert.ErrorContains(t, err, "overlap")
}

func TestImageRenderSparse(t *testing.T) {
	img := &image{}
	img.add(0, []byte{1})
	img.add(0x40000000, []byte{2})

	_, _, err := img.render()
	assert.ErrorContains(t, err, "limit")
}
