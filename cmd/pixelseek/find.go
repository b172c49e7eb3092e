package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pixelseek/pixelseek/internal/cv"
	"github.com/pixelseek/pixelseek/internal/imaging"
)

func newFindCmd(a *app) *cobra.Command {
	var (
		threshold float64
		region    string
	)

	cmd := &cobra.Command{
		Use:   "find <source-image> <template-image>",
		Short: "Search an image file for a template image",
		Long: `Search a source image pixel by pixel for a template image and print the
first match in raster order. Transparent template pixels match anything.
Exits with status 1 when the template is not present.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := imaging.Load(args[0])
			if err != nil {
				return fmt.Errorf("loading source image: %w", err)
			}
			tmpl, err := imaging.Load(args[1])
			if err != nil {
				return fmt.Errorf("loading template image: %w", err)
			}

			config, err := a.matchOptions(threshold, region)
			if err != nil {
				return err
			}
			if config == nil {
				// File-based matching has no template manifest to fall back
				// on, so the configured default threshold applies directly.
				config = cv.NewMatchConfig(cv.WithThreshold(a.cfg.Threshold))
			}

			result := cv.FindTemplate(source, tmpl, config)
			if !result.Found {
				return fmt.Errorf("template %s not found in %s", args[1], args[0])
			}

			loc := result.Location()
			center := result.Center()
			fmt.Printf("found at (%d, %d), size %dx%d, center (%d, %d)\n",
				loc.X, loc.Y, result.Bounds.Dx(), result.Bounds.Dy(), center.X, center.Y)
			return nil
		},
	}

	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "per-channel similarity threshold, 0.1 to 1.0 (default 1.0)")
	cmd.Flags().StringVarP(&region, "region", "r", "", "restrict the search to \"x1,y1,x2,y2\"")

	return cmd
}
