package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newWaitCmd(a *app) *cobra.Command {
	var (
		threshold float64
		region    string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "wait <template-name>",
		Short: "Wait until a registered template appears on screen",
		Long: `Poll the screen until the named template from the template directory
appears, or the timeout elapses. Prints the match location on success.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := a.newService()
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

			loc := result.Location()
			fmt.Printf("found %s at (%d, %d)\n", args[0], loc.X, loc.Y)
			return nil
		},
	}

	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "per-channel similarity threshold, 0.1 to 1.0")
	cmd.Flags().StringVarP(&region, "region", "r", "", "restrict the search to \"x1,y1,x2,y2\"")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "how long to keep polling")

	return cmd
}
