package render

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"weft/internal/diag"
	"weft/internal/source"
)

// Pretty formats diagnostics for terminals. Expects bag.Sort() to have been
// called. For each diagnostic it prints
//
//	<path>:<line>:<col>: <SEV> [<CODE>]: <message>
//
// followed by the source line with a ^~~~ underline for the primary span,
// then notes in the same shape.
func Pretty(w io.Writer, bag *diag.Bag, graph *source.Graph, opts Options) {
	for _, d := range bag.Items() {
		printHeadline(w, graph, d, opts)
		printContext(w, graph, d.Primary, opts)
		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(w, "  note: %s: %s\n", location(graph, n.Span, opts), n.Msg)
			}
		}
	}
}

func printHeadline(w io.Writer, graph *source.Graph, d diag.Diagnostic, opts Options) {
	fmt.Fprintf(w, "%s: %s [%s]: %s\n",
		location(graph, d.Primary, opts),
		sevLabel(d.Severity, opts.Color),
		d.Code.ID(),
		d.Message,
	)
}

// printContext prints the first line the span touches with a caret
// underline aligned by display width.
func printContext(w io.Writer, graph *source.Graph, sp source.Span, opts Options) {
	doc := graph.Document(sp.Doc)
	if doc == nil || int(sp.Start) > len(doc.Content) {
		return
	}
	lc := doc.LineCol(sp.Start)
	lineStart, lineEnd := lineBounds(doc, lc.Line)
	line := strings.TrimRight(string(doc.Content[lineStart:lineEnd]), "\n")

	gutter := fmt.Sprintf("%5d", lc.Line)
	fmt.Fprintf(w, "%s | %s\n", gutter, line)

	// Align the caret under the span using display widths, so wide runes
	// before the span do not skew the underline.
	prefix := string(doc.Content[lineStart:sp.Start])
	pad := runewidth.StringWidth(prefix)
	length := int(sp.Len())
	if end := int(lineEnd) - int(sp.Start); length > end {
		length = end
	}
	if length < 1 {
		length = 1
	}
	marker := "^" + strings.Repeat("~", length-1)
	if opts.Color {
		marker = color.New(color.FgGreen, color.Bold).Sprint(marker)
	}
	fmt.Fprintf(w, "%s | %s%s\n", strings.Repeat(" ", len(gutter)), strings.Repeat(" ", pad), marker)
}

// lineBounds returns the [start, end) byte offsets of a 1-based line.
func lineBounds(doc *source.Document, line uint32) (uint32, uint32) {
	var start uint32
	if line > 1 && int(line-2) < len(doc.LineIdx) {
		start = doc.LineIdx[line-2] + 1
	}
	end := uint32(len(doc.Content))
	if int(line-1) < len(doc.LineIdx) {
		end = doc.LineIdx[line-1]
	}
	return start, end
}

func location(graph *source.Graph, sp source.Span, opts Options) string {
	doc := graph.Document(sp.Doc)
	if doc == nil {
		return "<unknown>"
	}
	lc := doc.LineCol(sp.Start)
	return fmt.Sprintf("%s:%d:%d", displayPath(graph, doc, opts.PathMode), lc.Line, lc.Col)
}

func displayPath(graph *source.Graph, doc *source.Document, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return doc.Path
	case PathModeBasename:
		return filepath.Base(doc.Path)
	case PathModeRelative:
		return source.RelPath(graph.BaseDir(), doc.Path)
	default:
		rel := source.RelPath(graph.BaseDir(), doc.Path)
		if strings.HasPrefix(rel, "..") {
			return doc.Path
		}
		return rel
	}
}

func sevLabel(sev diag.Severity, colored bool) string {
	if !colored {
		return sev.String()
	}
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold).Sprint(sev.String())
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold).Sprint(sev.String())
	default:
		return color.New(color.FgCyan).Sprint(sev.String())
	}
}
