package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/warp/maturity-engine/batch"
	"github.com/warp/maturity-engine/maturity"
)

var runFlags struct {
	outputDir string
	quiet     bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Value all stored policies and write the results document",
	Long: `Fetch every stored policy, calculate its maturity value and write
MaturityDataResults.xml to the configured output directory.

The calculated values are printed even when the export fails; the command
then exits non-zero.

Examples:
  # Use config.yaml and environment overrides
  maturity run

  # Write somewhere else
  maturity run --output-dir /tmp/results`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.outputDir, "output-dir", "o", "", "override output directory")
	runCmd.Flags().BoolVarP(&runFlags.quiet, "quiet", "q", false, "do not print the value table")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if runFlags.outputDir != "" {
		cfg.Output.Dir = runFlags.outputDir
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	// Nothing scrapes a one-shot process; serve carries the metrics.
	runner := batch.NewRunner(store, cfg.Output.Dir, cfg.Output.Filename, logger, nil)
	res, runErr := runner.Run(cmd.Context())
	if res == nil {
		return runErr
	}

	if !runFlags.quiet {
		printRecords(res.Records)
	}
	if runErr != nil {
		return runErr
	}
	fmt.Fprintf(os.Stdout, "✓ %d policies written to %s\n", len(res.Records), res.ExportPath)
	return nil
}

func printRecords(records []maturity.Record) {
	if len(records) == 0 {
		fmt.Fprintln(os.Stdout, "no policies stored")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "POLICY\tTYPE\tFEE %\tBONUS\tMATURITY VALUE")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n",
			r.PolicyNumber,
			r.PolicyType,
			r.ManagementFeePercentage,
			r.BonusEligible,
			r.MaturityValue.StringFixed(maturity.ValuePlaces),
		)
	}
	tw.Flush()
}
