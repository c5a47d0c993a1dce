package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// NewReportCmd creates the "report" subcommand, which downloads the generated
// PDF report for a DNI and writes it to a local file.
func NewReportCmd() *cobra.Command {
	var (
		dni     string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Download the genealogy PDF report for a DNI",
		Long:  "Generate (or fetch from the artifact cache) the genealogy PDF report for\na DNI and save it to a local file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return runReport(cmd, cliCtx, dni, outPath)
		},
	}

	cmd.Flags().StringVar(&dni, "dni", "", "document number of the subject (required)")
	cmd.Flags().StringVarP(&outPath, "file", "f", "", "output file path (default: server-provided filename)")
	cmd.MarkFlagRequired("dni")

	return cmd
}

func runReport(cmd *cobra.Command, cliCtx *CLIContext, dni, outPath string) error {
	tmp, err := os.CreateTemp("", "famscope-*.pdf")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	filename, err := cliCtx.Client.DescargarPDF(cmd.Context(), dni, tmp)
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	if outPath == "" {
		outPath = filename
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.Rename(tmpName, outPath); err != nil {
		// Rename fails across filesystems; fall back to a copy.
		data, readErr := os.ReadFile(tmpName)
		if readErr != nil {
			return fmt.Errorf("saving report: %w", err)
		}
		if writeErr := os.WriteFile(outPath, data, 0o644); writeErr != nil {
			return fmt.Errorf("saving report: %w", writeErr)
		}
	}

	PrintSuccess(cmd, fmt.Sprintf("report saved to %s", outPath))
	return nil
}
