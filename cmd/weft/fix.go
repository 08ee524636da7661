package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"weft/internal/diag"
	"weft/internal/observ"
	"weft/internal/rules"
	"weft/internal/source"
	"weft/internal/ui"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

var fixCmd = &cobra.Command{
	Use:   "fix [directory]",
	Short: "Apply available fixes to the workspace",
	Long:  "Run diagnostics, surface available fixes, and apply them according to the chosen strategy.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply every available fix")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply the fix with a specific identifier")
	fixCmd.Flags().BoolP("interactive", "i", false, "pick the fix to apply interactively")
}

type fixCandidate struct {
	id    string
	diag  diag.Diagnostic
	fixer rules.Fixer
}

func runFix(cmd *cobra.Command, args []string) error {
	startDir := "."
	if len(args) == 1 {
		startDir = args[0]
	}

	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	interactive, err := cmd.Flags().GetBool("interactive")
	if err != nil {
		return err
	}
	if targetID != "" && (applyAll || applyOnce || interactive) {
		return fmt.Errorf("--id cannot be combined with --all, --once or --interactive")
	}
	if applyAll && applyOnce {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}
	if interactive && applyAll {
		return fmt.Errorf("--interactive and --all are mutually exclusive")
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	loadPhase := timer.Begin("load")
	ws, err := loadWorkspace(cmd, startDir)
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	timer.End(loadPhase, fmt.Sprintf("%d documents", ws.Graph.Len()))

	registry := rules.Default()

	bag := diag.NewBag(maxDiagnostics)
	scanPhase := timer.Begin("scan")
	if err := registry.Scan(cmd.Context(), ws, diag.NewDedupReporter(diag.NewBagReporter(bag))); err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	bag.Sort()
	timer.End(scanPhase, fmt.Sprintf("%d findings", bag.Len()))

	candidates := gatherCandidates(ws, registry, bag)
	if len(candidates) == 0 {
		return ErrNoFixes
	}

	selected, err := selectCandidates(ws, candidates, targetID, applyAll, interactive)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return ErrNoFixes
	}

	before := ws.Graph
	fixPhase := timer.Begin("fix")
	applied, skipped := applyCandidates(cmd, ws, selected)
	timer.End(fixPhase, fmt.Sprintf("%d applied", applied))

	writePhase := timer.Begin("write")
	written, err := writeChanged(before, ws.Graph)
	timer.End(writePhase, fmt.Sprintf("%d files", len(written)))
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}

	reportFiles(cmd, written)
	if showTimings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	if applied == 0 {
		if skipped > 0 {
			return fmt.Errorf("%w (%d skipped)", ErrNoFixes, skipped)
		}
		return ErrNoFixes
	}
	return nil
}

// gatherCandidates pairs each diagnostic with its registered fixer, skipping
// codes with no code-fix. The bag is already sorted, so candidate order is
// deterministic.
func gatherCandidates(ws *rules.Workspace, registry *rules.Registry, bag *diag.Bag) []fixCandidate {
	var out []fixCandidate
	for _, d := range bag.Items() {
		fixer, ok := registry.FixerFor(d.Code)
		if !ok {
			continue
		}
		out = append(out, fixCandidate{
			id:    fmt.Sprintf("%s-%d-%d", d.Code.ID(), d.Primary.Doc, d.Primary.Start),
			diag:  d,
			fixer: fixer,
		})
	}
	return out
}

func selectCandidates(ws *rules.Workspace, candidates []fixCandidate, targetID string, applyAll, interactive bool) ([]fixCandidate, error) {
	switch {
	case targetID != "":
		for _, cand := range candidates {
			if cand.id == targetID {
				return []fixCandidate{cand}, nil
			}
		}
		return nil, fmt.Errorf("fix id %q not found", targetID)
	case interactive:
		items := make([]ui.FixItem, len(candidates))
		for i, cand := range candidates {
			items[i] = ui.FixItem{
				ID:       cand.id,
				Headline: fmt.Sprintf("[%s] %s", cand.diag.Code.ID(), cand.diag.Code.Title()),
				Location: describeLocation(ws.Graph, cand.diag),
			}
		}
		idx, err := ui.PickFix(items)
		if err != nil {
			return nil, err
		}
		if idx < 0 {
			return nil, nil
		}
		return []fixCandidate{candidates[idx]}, nil
	case applyAll:
		return candidates, nil
	default:
		return candidates[:1], nil
	}
}

// applyCandidates runs the fixers in order against the evolving graph. A fix
// whose edits no longer match the current document content is skipped; the
// rest proceed.
func applyCandidates(cmd *cobra.Command, ws *rules.Workspace, selected []fixCandidate) (applied, skipped int) {
	colored := useColor(cmd)
	okMark := "applied"
	skipMark := "skipped"
	if colored {
		okMark = color.New(color.FgGreen).Sprint(okMark)
		skipMark = color.New(color.FgYellow).Sprint(skipMark)
	}

	for _, cand := range selected {
		res, err := cand.fixer.Fix(cmd.Context(), ws, cand.diag)
		if res.Graph != nil {
			ws.Graph = res.Graph
		}
		switch {
		case err != nil:
			skipped++
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %v\n", skipMark, cand.id, err)
		case !res.Applied:
			skipped++
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: fix not applicable\n", skipMark, cand.id)
		default:
			applied++
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s (%d edit(s))\n", okMark, cand.id, res.Title, res.Edits)
			for _, site := range res.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s call site at %s: %s\n", skipMark, site.Span, site.Reason)
			}
		}
	}
	return applied, skipped
}

// writeChanged persists every document whose content diverged from the
// original snapshot, preserving file modes and skipping virtual documents.
func writeChanged(before, after *source.Graph) ([]string, error) {
	if before == after {
		return nil, nil
	}
	var written []string
	var firstErr error
	after.Docs(func(doc *source.Document) bool {
		orig := before.Document(doc.ID)
		if orig == nil || orig.Hash == doc.Hash {
			return true
		}
		if doc.Flags&source.DocVirtual != 0 {
			return true
		}
		path := filepath.FromSlash(doc.Path)
		mode := os.FileMode(0o644)
		if info, err := os.Stat(path); err == nil {
			mode = info.Mode()
		}
		if err := os.WriteFile(path, doc.Content, mode); err != nil {
			firstErr = fmt.Errorf("write %s: %w", path, err)
			return false
		}
		written = append(written, source.RelPath(after.BaseDir(), doc.Path))
		return true
	})
	return written, firstErr
}

func reportFiles(cmd *cobra.Command, written []string) {
	for _, path := range written {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	}
}

func describeLocation(graph *source.Graph, d diag.Diagnostic) string {
	doc := graph.Document(d.Primary.Doc)
	if doc == nil {
		return d.Message
	}
	lc := doc.LineCol(d.Primary.Start)
	return fmt.Sprintf("%s:%d:%d  %s", source.RelPath(graph.BaseDir(), doc.Path), lc.Line, lc.Col, d.Message)
}
