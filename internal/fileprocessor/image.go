package fileprocessor

import (
	"fmt"
	"sort"
)

// fill byte for address gaps between data records, matching erased EPROM cells
const gapFill = 0xff

// limit for sparse record files, keeps a stray high address from allocating gigabytes
const maxImageSize = 1 << 28

type chunk struct {
	address uint32
	data    []byte
}

// image assembles the payload bytes of decoded data records into one
// contiguous binary image starting at the lowest seen address.
type image struct {
	chunks []chunk

	start    uint32 // exec address from a start or end-of-file record
	hasStart bool

	intelBase   uint32 // segment base set by intel extended address records
	dataRecords uint64 // seen data records, verified against S5/S6 count records
}

func (i *image) add(address uint32, data []byte) {
	if len(data) == 0 {
		return
	}
	i.chunks = append(i.chunks, chunk{address: address, data: data})
}

func (i *image) setStart(address uint32) {
	i.start = address
	i.hasStart = true
}

// render returns the flat binary image and its base address. Gaps between
// records are filled, overlapping records are an error.
func (i *image) render() ([]byte, uint32, error) {
	if len(i.chunks) == 0 {
		return nil, 0, nil
	}

	sort.SliceStable(i.chunks, func(a, b int) bool {
		return i.chunks[a].address < i.chunks[b].address
	})

	base := i.chunks[0].address
	last := i.chunks[len(i.chunks)-1]
	size := uint64(last.address) + uint64(len(last.data)) - uint64(base)
	if size > maxImageSize {
		return nil, 0, fmt.Errorf("image of %d bytes exceeds the %d byte limit", size, maxImageSize)
	}

	buf := make([]byte, size)
	for index := range buf {
		buf[index] = gapFill
	}

	end := uint64(base)
	for _, c := range i.chunks {
		if uint64(c.address) < end {
			return nil, 0, fmt.Errorf("data records overlap at address 0x%04X", c.address)
		}
		copy(buf[c.address-base:], c.data)
		end = uint64(c.address) + uint64(len(c.data))
	}

	return buf, base, nil
}
