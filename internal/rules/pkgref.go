package rules

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"weft/internal/diag"
	"weft/internal/edit"
	"weft/internal/project"
	"weft/internal/source"
)

// PkgRef checks that every project declares the required analyzer package
// references. The fix is a single textual add to the project's reference
// list in the manifest.
type PkgRef struct{}

func (*PkgRef) Name() string { return "pkgref" }

func (*PkgRef) Code() diag.Code { return diag.RefMissingAnalyzer }

// manifestDoc finds the manifest document inside the graph, when the host
// included it.
func manifestDoc(ws *Workspace) *source.Document {
	var found *source.Document
	ws.Graph.Docs(func(d *source.Document) bool {
		if d.Flags&source.DocManifest != 0 {
			found = d
			return false
		}
		return true
	})
	return found
}

// projectAnchor returns the span of the project's name line inside the
// manifest document, or a zero span when it cannot be located.
func projectAnchor(doc *source.Document, name string) source.Span {
	if doc == nil {
		return source.Span{}
	}
	needle := fmt.Sprintf("name = %q", name)
	idx := bytes.Index(doc.Content, []byte(needle))
	if idx < 0 {
		return source.Span{}
	}
	return source.Span{Doc: doc.ID, Start: uint32(idx), End: uint32(idx + len(needle))}
}

func (*PkgRef) Scan(ctx context.Context, ws *Workspace, rep diag.Reporter) error {
	required := ws.Manifest.Config.Rules.PkgRef.Required
	if len(required) == 0 {
		return nil
	}
	doc := manifestDoc(ws)

	for _, p := range ws.Manifest.Config.Projects {
		if err := ctx.Err(); err != nil {
			return err
		}
		declared := make(map[string]int, len(p.References))
		for _, ref := range p.References {
			declared[ref]++
		}
		anchor := projectAnchor(doc, p.Name)
		for _, want := range required {
			if declared[want] == 0 {
				msg := fmt.Sprintf("project %s is missing required package reference %s", p.Name, want)
				rep.Report(diag.RefMissingAnalyzer, diag.SevWarning, anchor, msg, nil)
			}
		}
		for ref, n := range declared {
			if n > 1 {
				msg := fmt.Sprintf("project %s declares package reference %s %d times", p.Name, ref, n)
				rep.Report(diag.RefDuplicate, diag.SevInfo, anchor, msg, nil)
			}
		}
	}
	return nil
}

// Fix appends the missing required references to the diagnosed project's
// reference list in the manifest document.
func (r *PkgRef) Fix(ctx context.Context, ws *Workspace, d diag.Diagnostic) (FixResult, error) {
	doc := manifestDoc(ws)
	if doc == nil || d.Primary.Doc != doc.ID {
		// Manifest not part of the editable graph: fix unavailable.
		return FixResult{Graph: ws.Graph}, nil
	}

	proj := projectAt(ws, doc, d.Primary)
	if proj == nil {
		return FixResult{Graph: ws.Graph}, nil
	}
	missing := missingRefs(ws, proj)
	if len(missing) == 0 {
		return FixResult{Graph: ws.Graph}, nil
	}

	sess := edit.NewSession(ws.Graph)
	if err := queueReferenceAdd(sess, doc, proj.Name, missing); err != nil {
		return FixResult{Graph: ws.Graph}, err
	}
	next, err := sess.Materialize(ctx)
	if err != nil {
		return FixResult{Graph: ws.Graph}, err
	}
	return FixResult{
		Graph:   next,
		Applied: true,
		Title:   fmt.Sprintf("add package reference %s to %s", strings.Join(missing, ", "), proj.Name),
		Edits:   1,
	}, nil
}

// projectAt maps the diagnostic anchor back to the manifest project it was
// reported for.
func projectAt(ws *Workspace, doc *source.Document, primary source.Span) *project.ProjectConfig {
	for i := range ws.Manifest.Config.Projects {
		p := &ws.Manifest.Config.Projects[i]
		anchor := projectAnchor(doc, p.Name)
		if anchor.Doc == primary.Doc && anchor.Start == primary.Start && !anchor.Empty() {
			return p
		}
	}
	return nil
}

func missingRefs(ws *Workspace, proj *project.ProjectConfig) []string {
	declared := make(map[string]bool, len(proj.References))
	for _, ref := range proj.References {
		declared[ref] = true
	}
	var missing []string
	for _, want := range ws.Manifest.Config.Rules.PkgRef.Required {
		if !declared[want] {
			missing = append(missing, want)
		}
	}
	return missing
}

// queueReferenceAdd queues one insert that extends (or creates) the
// project's references array in the manifest text.
func queueReferenceAdd(sess *edit.Session, doc *source.Document, projName string, refs []string) error {
	anchor := projectAnchor(doc, projName)
	if anchor.Empty() {
		return fmt.Errorf("project %s not found in manifest", projName)
	}

	// The project section runs from the name line to the next [[project]]
	// header or end of file.
	sectionStart := int(anchor.End)
	sectionEnd := len(doc.Content)
	if next := bytes.Index(doc.Content[sectionStart:], []byte("[[project]]")); next >= 0 {
		sectionEnd = sectionStart + next
	}
	section := doc.Content[sectionStart:sectionEnd]

	quoted := make([]string, len(refs))
	for i, ref := range refs {
		quoted[i] = fmt.Sprintf("%q", ref)
	}

	refIdx := bytes.Index(section, []byte("references"))
	if refIdx < 0 {
		// No references key: add one right after the name line.
		text := fmt.Sprintf("\nreferences = [%s]", strings.Join(quoted, ", "))
		return sess.QueueInsert(doc.ID, anchor.End, text)
	}

	open := bytes.IndexByte(section[refIdx:], '[')
	if open < 0 {
		return fmt.Errorf("project %s: malformed references array", projName)
	}
	open += refIdx
	closing := bytes.IndexByte(section[open:], ']')
	if closing < 0 {
		return fmt.Errorf("project %s: unterminated references array", projName)
	}
	closing += open

	text := strings.Join(quoted, ", ")
	if len(bytes.TrimSpace(section[open+1:closing])) > 0 {
		text = ", " + text
	}
	return sess.QueueInsert(doc.ID, uint32(sectionStart+closing), text)
}
