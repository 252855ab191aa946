package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spffcodec/spff"
	"github.com/spffcodec/spff/internal/config"
	"github.com/spffcodec/spff/internal/imageio"
	"github.com/spffcodec/spff/internal/pipeline"
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode an SPFF file to PNG, BMP or TIFF",
	RunE:  runDecode,
}

func init() {
	decodeCmd.Flags().StringP("input", "i", "", "Input SPFF file")
	decodeCmd.Flags().StringP("output", "o", "", "Output image; the extension picks the format")
	config.AddDecodeFlags(decodeCmd.Flags())
	decodeCmd.MarkFlagRequired("input")
	decodeCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")

	mode, err := spff.ParseReconstruction(cfg.Decode.Reconstruction)
	if err != nil {
		return err
	}
	format := cfg.Decode.Format
	if !cmd.Flags().Changed("format") {
		format = imageio.FormatFromPath(outputPath, format)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	res, err := pipe.Decode(data, pipeline.DecodeOptions{
		Reconstruction: mode,
		Workers:        cfg.Decode.Workers,
		MaxPixels:      cfg.Decode.MaxPixels,
		Format:         format,
	})
	if err != nil {
		return fmt.Errorf("decoding %s: %w", inputPath, err)
	}

	if err := os.WriteFile(outputPath, res.Data, 0644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	b := res.Image.Bounds()
	fmt.Printf("Decoded %dx%d (%s) → %s (%s, %d bytes)\n", b.Dx(), b.Dy(), mode, outputPath, format, len(res.Data))
	return nil
}
