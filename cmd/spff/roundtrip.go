package main

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/spffcodec/spff"
	"github.com/spffcodec/spff/internal/config"
)

var roundtripCmd = &cobra.Command{
	Use:   "roundtrip",
	Short: "Measure how well each reconstruction recovers an image",
	RunE:  runRoundtrip,
}

func init() {
	roundtripCmd.Flags().StringP("input", "i", "", "Input image")
	config.AddEncodeFlags(roundtripCmd.Flags())
	roundtripCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(roundtripCmd)
}

func runRoundtrip(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")

	input, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	modes := []spff.Reconstruction{spff.Mean, spff.Legacy}
	res, err := pipe.RoundTrip(input, encodeOptions(), modes...)
	if err != nil {
		return fmt.Errorf("round trip %s: %w", inputPath, err)
	}

	fmt.Printf("Image:   %dx%d, %d bytes encoded\n", res.Width, res.Height, res.EncodedSize)
	for _, mode := range modes {
		f := res.Fidelity[mode]
		fmt.Printf("  %-6s  R %s  G %s  B %s  overall %s\n", mode, db(f.R), db(f.G), db(f.B), db(f.Overall))
	}
	return nil
}

func db(v float64) string {
	if math.IsInf(v, 1) {
		return "   exact"
	}
	return fmt.Sprintf("%5.2f dB", v)
}
