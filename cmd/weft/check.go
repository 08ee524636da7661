package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"weft/internal/diag"
	"weft/internal/observ"
	"weft/internal/render"
	"weft/internal/rules"
)

var checkCmd = &cobra.Command{
	Use:   "check [directory]",
	Short: "Scan the workspace and report findings",
	Long:  "Load the workspace snapshot, run every registered rule, and print the resulting diagnostics.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Bool("notes", true, "show secondary notes")
}

func runCheck(cmd *cobra.Command, args []string) error {
	startDir := "."
	if len(args) == 1 {
		startDir = args[0]
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	showNotes, err := cmd.Flags().GetBool("notes")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	loadPhase := timer.Begin("load")
	ws, err := loadWorkspace(cmd, startDir)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}
	timer.End(loadPhase, fmt.Sprintf("%d documents", ws.Graph.Len()))

	bag := diag.NewBag(maxDiagnostics)
	reporter := diag.NewDedupReporter(diag.NewBagReporter(bag))

	scanPhase := timer.Begin("scan")
	if err := rules.Default().Scan(cmd.Context(), ws, reporter); err != nil {
		return fmt.Errorf("check: %w", err)
	}
	timer.End(scanPhase, fmt.Sprintf("%d findings", bag.Len()))

	bag.Sort()
	opts := render.Options{
		Color:     useColor(cmd),
		ShowNotes: showNotes,
	}
	if format == "json" {
		if err := render.JSON(cmd.OutOrStdout(), bag, ws.Graph, opts); err != nil {
			return err
		}
	} else {
		render.Pretty(cmd.OutOrStdout(), bag, ws.Graph, opts)
	}

	if showTimings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	if !quiet && format == "pretty" {
		fmt.Fprintf(cmd.OutOrStdout(), "%d finding(s) in %d document(s)\n", bag.Len(), ws.Graph.Len())
	}
	if bag.HasErrors() {
		return fmt.Errorf("check: %d finding(s)", bag.Len())
	}
	return nil
}
