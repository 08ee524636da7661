package render

import (
	"encoding/json"
	"io"

	"weft/internal/diag"
	"weft/internal/source"
)

type jsonNote struct {
	Path    string `json:"path,omitempty"`
	Line    uint32 `json:"line,omitempty"`
	Col     uint32 `json:"col,omitempty"`
	Message string `json:"message"`
}

type jsonDiagnostic struct {
	Severity string     `json:"severity"`
	Code     string     `json:"code"`
	Message  string     `json:"message"`
	Path     string     `json:"path,omitempty"`
	Line     uint32     `json:"line,omitempty"`
	Col      uint32     `json:"col,omitempty"`
	Notes    []jsonNote `json:"notes,omitempty"`
}

// JSON writes the bag as a JSON array, one object per diagnostic.
func JSON(w io.Writer, bag *diag.Bag, graph *source.Graph, opts Options) error {
	out := make([]jsonDiagnostic, 0, bag.Len())
	for _, d := range bag.Items() {
		jd := jsonDiagnostic{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
		}
		fillPosition(graph, d.Primary, opts, &jd.Path, &jd.Line, &jd.Col)
		if opts.ShowNotes {
			for _, n := range d.Notes {
				jn := jsonNote{Message: n.Msg}
				fillPosition(graph, n.Span, opts, &jn.Path, &jn.Line, &jn.Col)
				jd.Notes = append(jd.Notes, jn)
			}
		}
		out = append(out, jd)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func fillPosition(graph *source.Graph, sp source.Span, opts Options, path *string, line, col *uint32) {
	doc := graph.Document(sp.Doc)
	if doc == nil {
		return
	}
	lc := doc.LineCol(sp.Start)
	*path = displayPath(graph, doc, opts.PathMode)
	*line = lc.Line
	*col = lc.Col
}
