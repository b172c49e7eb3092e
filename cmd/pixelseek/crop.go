package main

import (
	"fmt"
	"image"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pixelseek/pixelseek/internal/imaging"
)

func newCropCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crop <input> <output> <x1> <y1> <x2> <y2>",
		Short: "Crop a rectangle out of an image file",
		Long: `Crop the rectangle (x1,y1)-(x2,y2) out of an image and save it as PNG.
Useful for cutting template images out of screenshots.`,
		Args: cobra.ExactArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			coords := make([]int, 4)
			for i, arg := range args[2:] {
				n, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid coordinate %q: %w", arg, err)
				}
				coords[i] = n
			}

			rect := image.Rect(coords[0], coords[1], coords[2], coords[3])
			if err := imaging.CropFile(args[0], args[1], rect); err != nil {
				return err
			}

			fmt.Printf("cropped %s to %s (%dx%d)\n", args[0], args[1], rect.Dx(), rect.Dy())
			return nil
		},
	}

	return cmd
}
