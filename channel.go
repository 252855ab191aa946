// SPFF is a lossy still-image codec. Every pixel keeps a single 8-bit color
// channel, picked by a fixed spatial pattern, so an image costs one byte per
// pixel plus an 8-byte header. The decoder rebuilds the two missing channels
// of each pixel from the channels its 8 neighbours stored.

package spff

// Channel identifies one of the three color channels of an RGB pixel.
type Channel uint8

const (
	Red Channel = iota
	Green
	Blue
)

func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	}
	return "unknown"
}

// SelectChannel returns the channel stored for the pixel at (row, col).
//
// Channels cycle red, green, blue along a row; odd rows are shifted by two
// positions so that equal channels line up along the diagonals. Encoder and
// decoder must agree on this pattern, the stream does not record it.
func SelectChannel(row, col int) Channel {
	return Channel((col + (row%2)*2) % 3)
}

// Sample is the value stored for one pixel together with the channel it
// belongs to.
type Sample struct {
	Channel Channel
	Value   uint8
}
