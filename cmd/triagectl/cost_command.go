package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/upb/ticket-triage/services/providers"
)

func newCostCommand() *cobra.Command {
	var model string
	var inputTokens, outputTokens int

	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Estimate the USD cost of a call from its token counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputTokens < 0 || outputTokens < 0 {
				return errors.New("token counts must be non-negative")
			}

			pricing := model
			if !providers.IsKnownPricingModel(model) {
				pricing = providers.DefaultPricingModel
			}

			cost := providers.EstimateCost(model, inputTokens, outputTokens)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Model", "Pricing", "Input", "Output", "Cost (USD)"},
				[][]string{{
					model,
					pricing,
					strconv.Itoa(inputTokens),
					strconv.Itoa(outputTokens),
					strconv.FormatFloat(cost, 'f', 6, 64),
				}},
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Pricing model identifier")
	cmd.Flags().IntVar(&inputTokens, "input", 0, "Input token count")
	cmd.Flags().IntVar(&outputTokens, "output", 0, "Output token count")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}
