package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pixelseek/pixelseek/internal/screen"
)

func newClickCmd(a *app) *cobra.Command {
	var (
		threshold float64
		region    string
		timeout   time.Duration
		double    bool
		right     bool
	)

	cmd := &cobra.Command{
		Use:   "click <template-name>",
		Short: "Find a registered template on screen and click its center",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, capturer, err := a.newService()
			if err != nil {
				return err
			}

			config, err := a.matchOptions(threshold, region)
			if err != nil {
				return err
			}

			result, err := svc.WaitForTemplate(args[0], config, timeout)
			if err != nil {
				return err
			}

			opts := screen.DefaultClickOptions()
			opts.DelayMs = a.cfg.ClickDelayMs
			opts.Double = double
			if right {
				opts.Button = "right"
			}
			screen.ClickMatch(result, capturer.Offset(), opts)

			center := result.Center().Add(capturer.Offset())
			fmt.Printf("clicked %s at (%d, %d)\n", args[0], center.X, center.Y)
			return nil
		},
	}

	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "per-channel similarity threshold, 0.1 to 1.0")
	cmd.Flags().StringVarP(&region, "region", "r", "", "restrict the search to \"x1,y1,x2,y2\"")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "how long to keep polling")
	cmd.Flags().BoolVar(&double, "double", false, "double click")
	cmd.Flags().BoolVar(&right, "right", false, "right click")

	return cmd
}
