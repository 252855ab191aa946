package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spffcodec/spff"
	"github.com/spffcodec/spff/internal/pipeline"
)

var identifyCmd = &cobra.Command{
	Use:   "identify [file]",
	Short: "Inspect an SPFF file without decoding it",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)
}

func runIdentify(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	info, err := pipeline.Identify(data, cfg.Decode.MaxPixels)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	fmt.Printf("File:       %s\n", path)
	fmt.Printf("Dimensions: %d x %d\n", info.Header.Width, info.Header.Height)
	fmt.Printf("File size:  %d bytes\n", info.FileSize)
	fmt.Printf("Payload:    %d bytes\n", info.PayloadSize)
	if info.Compressed {
		fmt.Println("Envelope:   zstd")
	} else {
		fmt.Println("Envelope:   none")
	}
	for c, s := range info.Channels {
		fmt.Printf("  %-5s  samples %-10d zeros %-10d mean %.2f\n", spff.Channel(c), s.Count, s.Zeros, s.Mean)
	}
	return nil
}
