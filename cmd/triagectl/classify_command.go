package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/upb/ticket-triage/models"
	"github.com/upb/ticket-triage/services"
)

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var input models.TicketInput
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a single ticket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Subject = strings.TrimSpace(input.Subject)
			input.Body = strings.TrimSpace(input.Body)

			deps, err := ctx.dependencies(cmd.Context())
			if err != nil {
				return err
			}

			result, err := deps.TriageService.TriageTicket(cmd.Context(), input)
			if err != nil {
				return userFacingError(err)
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderResult(result))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input.Subject, "subject", "s", "", "Ticket subject")
	cmd.Flags().StringVarP(&input.Body, "body", "b", "", "Ticket body")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")

	return cmd
}

// userFacingError keeps only the error kind's static message
func userFacingError(err error) error {
	switch {
	case services.IsValidationError(err):
		return fmt.Errorf("%s: %s", services.MessageValidationFailed, formatFields(services.GetErrorDetails(err)))
	case services.IsInvalidResponseError(err):
		return errors.New(services.MessageInvalidLLMResponse)
	case services.IsProviderFailureError(err):
		return errors.New(services.MessageProviderFailure)
	default:
		return errors.New(services.MessageInternalError)
	}
}

func renderResult(result *models.TriageResult) string {
	rows := [][]string{
		{"category", string(result.Category)},
		{"priority", string(result.Priority)},
		{"requires_human", strconv.FormatBool(result.Flags.RequiresHuman)},
		{"is_abusive", strconv.FormatBool(result.Flags.IsAbusive)},
		{"missing_info", strconv.FormatBool(result.Flags.MissingInfo)},
		{"is_vip_customer", strconv.FormatBool(result.Flags.IsVIPCustomer)},
		{"model", result.Usage.Model},
		{"input_tokens", strconv.Itoa(result.Usage.InputTokens)},
		{"output_tokens", strconv.Itoa(result.Usage.OutputTokens)},
		{"cost_usd", strconv.FormatFloat(result.Usage.CostUSD, 'f', 6, 64)},
	}
	return renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignLeft})
}

func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return "invalid input"
	}
	msgs := make([]string, 0, len(fields))
	for _, key := range []string{"subject", "body"} {
		if msg, ok := fields[key]; ok {
			msgs = append(msgs, fmt.Sprint(msg))
		}
	}
	return strings.Join(msgs, ", ")
}
