package spff

import "testing"

func TestParseReconstruction(t *testing.T) {
	for in, want := range map[string]Reconstruction{"": Mean, "mean": Mean, "Legacy": Legacy, " legacy ": Legacy} {
		got, err := ParseReconstruction(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if got != want {
			t.Errorf("%q: got %v want %v", in, got, want)
		}
	}
	if _, err := ParseReconstruction("bilinear"); err == nil {
		t.Fatalf("expected error for unknown reconstruction")
	}
}

func TestMosaic_Neighbours(t *testing.T) {
	m := mosaic{pix: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}, w: 3, h: 3}

	var values []uint8
	for _, s := range m.neighbours(nil, 1, 1) {
		values = append(values, s.Value)
	}
	want := []uint8{4, 1, 7, 6, 3, 9, 2, 8}
	if string(values) != string(want) {
		t.Fatalf("centre neighbours: got %v want %v", values, want)
	}

	values = values[:0]
	for _, s := range m.neighbours(nil, 2, 2) {
		values = append(values, s.Value)
	}
	want = []uint8{8, 5, 6}
	if string(values) != string(want) {
		t.Fatalf("corner neighbours: got %v want %v", values, want)
	}
}

func TestFoldLegacy_HalvesTowardEachValue(t *testing.T) {
	self := Sample{Channel: Green, Value: 9}
	got := foldLegacy(self, []Sample{
		{Channel: Red, Value: 200},
		{Channel: Red, Value: 200},
		{Channel: Red, Value: 200},
		{Channel: Blue, Value: 101},
	})
	// 0 -> 100 -> 150 -> 175 for red, 0 -> 50 for blue.
	if want := [3]uint8{175, 9, 50}; got != want {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestFold_ZeroIsIndistinguishableFromAbsentInLegacy(t *testing.T) {
	// Centre pixel (1,1) stores red; its left neighbour (1,0) stores blue,
	// legitimately zero here.
	m := mosaic{pix: []byte{10, 20, 30, 0, 50, 60, 70, 80, 90}, w: 3, h: 3}
	self, _ := m.at(1, 1)
	all := m.neighbours(nil, 1, 1)
	if all[0].Channel != Blue || all[0].Value != 0 {
		t.Fatalf("unexpected left neighbour %+v", all[0])
	}
	withoutLeft := all[1:]

	if a, b := foldLegacy(self, all), foldLegacy(self, withoutLeft); a != b {
		t.Fatalf("legacy: zero neighbour changed the result: %v vs %v", a, b)
	}
	if a, b := foldMean(self, all), foldMean(self, withoutLeft); a == b {
		t.Fatalf("mean: zero neighbour should pull blue down, both gave %v", a)
	}

	// A stored zero on the pixel itself is likewise lost in legacy mode.
	zeroSelf := Sample{Channel: Red, Value: 0}
	if got := foldLegacy(zeroSelf, []Sample{{Channel: Red, Value: 80}}); got[Red] != 40 {
		t.Fatalf("legacy: stored zero should be replaced by neighbours, got %v", got)
	}
	if got := foldMean(zeroSelf, []Sample{{Channel: Red, Value: 80}}); got[Red] != 0 {
		t.Fatalf("mean: stored zero should be kept, got %v", got)
	}
}

func TestDecode_ZeroAmbiguity(t *testing.T) {
	// Two images differing only in a stored zero: legacy cannot tell the
	// black pixel's channel from a missing one, so its own red comes from
	// the neighbours in both cases.
	base := Header{Width: 3, Height: 1}.AppendTo(nil)
	zero := append(append([]byte{}, base...), 0, 40, 50)

	img, err := NewDecoder(DecoderOptions{Reconstruction: Legacy}).Decode(zero)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	// Pixel (0,0) stores red 0; its only neighbour stores green 40.
	if got := img.RGBAAt(0, 0); got != rgb(0, 20, 0) {
		t.Fatalf("legacy: got %v", got)
	}
	// Pixel (0,1) never sees a red contribution, the same as if (0,0) were absent.
	if got := img.RGBAAt(1, 0); got.R != 0 {
		t.Fatalf("legacy: red leaked from a zero sample: %v", got)
	}
}

func TestFoldMean_Rounding(t *testing.T) {
	got := foldMean(Sample{Channel: Red, Value: 1}, []Sample{
		{Channel: Green, Value: 1},
		{Channel: Green, Value: 2},
		{Channel: Blue, Value: 255},
		{Channel: Blue, Value: 254},
		{Channel: Blue, Value: 254},
	})
	if want := [3]uint8{1, 2, 254}; got != want {
		t.Fatalf("got %v want %v", got, want)
	}
}
