package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/lab-hue-mcp/internal/imaging"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print the color at a pixel, including CIE L*a*b*",
	RunE:  runSample,
}

func init() {
	sampleCmd.Flags().StringP("input", "i", "", "Input image file")
	sampleCmd.Flags().Int("x", 0, "X coordinate (0-based)")
	sampleCmd.Flags().Int("y", 0, "Y coordinate (0-based)")
	sampleCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(sampleCmd)
}

func runSample(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	x, _ := cmd.Flags().GetInt("x")
	y, _ := cmd.Flags().GetInt("y")

	pic, err := imaging.NewImageCache().Load(inputPath)
	if err != nil {
		return err
	}
	c, err := imaging.SampleColor(pic.Image, x, y)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
