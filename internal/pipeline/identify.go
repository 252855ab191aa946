package pipeline

import (
	"fmt"

	"github.com/spffcodec/spff"
)

// ChannelStats summarises the samples stored for one channel.
type ChannelStats struct {
	Count int
	Zeros int // samples the legacy decoder will treat as missing
	Mean  float64
}

// Info describes an SPFF file without decoding it.
type Info struct {
	Header      spff.Header
	FileSize    int
	PayloadSize int
	Compressed  bool
	Channels    [3]ChannelStats
}

// Identify validates data and gathers per-channel statistics. maxPixels caps
// the image size as in DecoderOptions.
func Identify(data []byte, maxPixels int) (*Info, error) {
	info := &Info{FileSize: len(data)}
	if spff.IsCompressed(data) {
		plain, err := spff.Decompress(data, maxPixels)
		if err != nil {
			return nil, err
		}
		data = plain
		info.Compressed = true
	}

	h, err := spff.ParseHeader(data)
	if err != nil {
		return nil, err
	}
	info.Header = h
	if err := h.Validate(maxPixels); err != nil {
		return info, err
	}
	info.PayloadSize = len(data) - spff.HeaderSize
	if info.PayloadSize != h.PayloadSize() {
		return info, fmt.Errorf("identify: %w", &spff.SizeError{Want: h.PayloadSize(), Got: info.PayloadSize})
	}

	var sums [3]int
	payload := data[spff.HeaderSize:]
	for row := 0; row < h.Height; row++ {
		for col := 0; col < h.Width; col++ {
			c := spff.SelectChannel(row, col)
			v := payload[row*h.Width+col]
			info.Channels[c].Count++
			sums[c] += int(v)
			if v == 0 {
				info.Channels[c].Zeros++
			}
		}
	}
	for c := range info.Channels {
		if n := info.Channels[c].Count; n > 0 {
			info.Channels[c].Mean = float64(sums[c]) / float64(n)
		}
	}
	return info, nil
}
