package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spffcodec/spff/internal/config"
	"github.com/spffcodec/spff/internal/pipeline"
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode a PNG/JPEG/GIF/BMP/TIFF/WebP image to SPFF",
	RunE:  runEncode,
}

func init() {
	encodeCmd.Flags().StringP("input", "i", "", "Input image")
	encodeCmd.Flags().StringP("output", "o", "", "Output SPFF file")
	config.AddEncodeFlags(encodeCmd.Flags())
	encodeCmd.MarkFlagRequired("input")
	encodeCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(encodeCmd)
}

func encodeOptions() pipeline.EncodeOptions {
	return pipeline.EncodeOptions{
		MaxPixels:    cfg.Encode.MaxPixels,
		ResizeWidth:  cfg.Encode.Resize.Width,
		ResizeHeight: cfg.Encode.Resize.Height,
		Kernel:       cfg.Encode.Resize.Kernel,
		Compress:     cfg.Compress.Enabled,
		Level:        cfg.Compress.Level,
	}
}

func runEncode(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")

	input, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	res, err := pipe.Encode(input, encodeOptions())
	if err != nil {
		return fmt.Errorf("encoding %s: %w", inputPath, err)
	}

	if err := os.WriteFile(outputPath, res.Data, 0644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	envelope := ""
	if res.Compressed {
		envelope = ", zstd"
	}
	fmt.Printf("Encoded %s %dx%d → %s %dx%d (%d bytes%s)\n",
		res.SrcFormat, res.SrcWidth, res.SrcHeight, outputPath, res.Width, res.Height, len(res.Data), envelope)
	return nil
}
