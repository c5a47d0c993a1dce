package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/famscope/famscope/pkg/client"
)

// NewConsultarCmd creates the "consultar" subcommand, which resolves a DNI
// and prints the subject's identity plus the report download link.
func NewConsultarCmd() *cobra.Command {
	var dni string

	cmd := &cobra.Command{
		Use:   "consultar",
		Short: "Consult the family tree for a DNI",
		Long:  "Resolve a person by DNI against the famscope service and print the\nsubject's name, report status, and PDF download link.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return runConsultar(cmd, cliCtx, dni)
		},
	}

	cmd.Flags().StringVar(&dni, "dni", "", "document number of the subject (required)")
	cmd.MarkFlagRequired("dni")

	return cmd
}

func runConsultar(cmd *cobra.Command, cliCtx *CLIContext, dni string) error {
	summary, err := cliCtx.Client.Consultar(cmd.Context(), dni)
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.IsNotFound() {
			return fmt.Errorf("no records found for DNI %s", dni)
		}
		return err
	}

	if cliCtx.OutputFormat == "json" {
		return PrintResult(cmd, summary)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "DNI:     %s\n", summary.DNI)
	fmt.Fprintf(cmd.OutOrStdout(), "Nombres: %s\n", summary.Nombres)
	fmt.Fprintf(cmd.OutOrStdout(), "Estado:  %s\n", summary.Estado)
	fmt.Fprintf(cmd.OutOrStdout(), "Archivo: %s\n", summary.Archivo.URL)
	return nil
}
