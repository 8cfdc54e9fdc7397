package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newProvidersCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List configured providers in fallback order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := ctx.dependencies(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				type providerView struct {
					Position     int    `json:"position"`
					Name         string `json:"name"`
					Model        string `json:"model"`
					PricingModel string `json:"pricing_model"`
				}
				views := make([]providerView, len(deps.Providers))
				for i, p := range deps.Providers {
					views[i] = providerView{Position: i + 1, Name: p.Name, Model: p.Model, PricingModel: p.PricingModel}
				}
				return writeJSON(cmd, views)
			}

			rows := make([][]string, len(deps.Providers))
			for i, p := range deps.Providers {
				rows[i] = []string{strconv.Itoa(i + 1), p.Name, p.Model, p.PricingModel}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Provider", "Model", "Pricing Model"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print providers as JSON")
	return cmd
}
