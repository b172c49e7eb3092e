package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTemplatesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the templates registered in the template directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := a.loadRegistry()
			if err != nil {
				return err
			}

			names := registry.List()
			if len(names) == 0 {
				fmt.Printf("no templates registered in %s\n", a.cfg.TemplateDir)
				return nil
			}

			for _, name := range names {
				tmpl := registry.MustGet(name)
				line := fmt.Sprintf("%-24s %s (threshold %.2f", name, tmpl.Path, tmpl.Threshold)
				if tmpl.Region != nil {
					line += fmt.Sprintf(", region %s", tmpl.Region)
				}
				fmt.Println(line + ")")
			}
			fmt.Printf("%d templates\n", registry.Count())
			return nil
		},
	}

	return cmd
}
