package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"sort"

	"fortio.org/safecast"
)

// Project groups documents that are analyzed and compiled together, plus the
// package references declared for the group.
type Project struct {
	Name       string
	Docs       []DocID
	References []string
}

// Graph is an immutable snapshot of every document visible to a fix, across
// all projects. Documents are addressed by DocID; IDs stay stable across
// derived snapshots so edits can pair a replacement with the original
// identity.
type Graph struct {
	docs     []*Document
	index    map[string]DocID // path -> id
	projects []Project
	baseDir  string
}

// NewGraph creates an empty graph rooted at baseDir. baseDir is used for
// relative path rendering; empty means the current working directory.
func NewGraph(baseDir string) *Graph {
	return &Graph{
		docs:    make([]*Document, 1), // slot 0 reserved for NoDocID
		index:   make(map[string]DocID),
		baseDir: baseDir,
	}
}

// BaseDir returns the directory relative paths are resolved against.
func (g *Graph) BaseDir() string {
	if g.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return g.baseDir
}

// Add stores a document from normalized bytes, computes its line index and
// hash, and returns a fresh DocID.
func (g *Graph) Add(path string, content []byte, flags DocFlags) DocID {
	lenDocs, err := safecast.Conv[uint32](len(g.docs))
	if err != nil {
		panic(fmt.Errorf("document count overflow: %w", err))
	}
	id := DocID(lenDocs)
	normalized := normalizePath(path)
	g.docs = append(g.docs, &Document{
		ID:      id,
		Path:    normalized,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	g.index[normalized] = id
	return id
}

// Load reads a file from disk, normalizes CRLF/BOM, and calls Add.
func (g *Graph) Load(path string) (DocID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return NoDocID, err
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := DocFlags(0)
	if hadBOM {
		flags |= DocHadBOM
	}
	if hadCRLF {
		flags |= DocNormalizedCRLF
	}
	return g.Add(path, content, flags), nil
}

// AddVirtual adds an in-memory document (test, stdin, or generated).
func (g *Graph) AddVirtual(name string, content []byte) DocID {
	return g.Add(name, content, DocVirtual)
}

// Document returns the document for id, or nil when the id is out of range
// or the document was deliberately excluded from this snapshot.
func (g *Graph) Document(id DocID) *Document {
	if !id.IsValid() || int(id) >= len(g.docs) {
		return nil
	}
	return g.docs[id]
}

// ByPath returns the document registered under path, if any.
func (g *Graph) ByPath(path string) (*Document, bool) {
	if id, ok := g.index[normalizePath(path)]; ok {
		return g.docs[id], true
	}
	return nil, false
}

// Len returns the number of registered documents.
func (g *Graph) Len() int {
	return len(g.docs) - 1
}

// Docs iterates registered documents in DocID order.
func (g *Graph) Docs(yield func(*Document) bool) {
	for _, d := range g.docs[1:] {
		if d == nil {
			continue
		}
		if !yield(d) {
			return
		}
	}
}

// DocIDs returns every registered DocID in ascending order.
func (g *Graph) DocIDs() []DocID {
	out := make([]DocID, 0, len(g.docs)-1)
	for i := 1; i < len(g.docs); i++ {
		if g.docs[i] != nil {
			out = append(out, DocID(i))
		}
	}
	return out
}

// AddProject registers a project grouping. Ordering of projects is the
// registration order.
func (g *Graph) AddProject(p Project) {
	g.projects = append(g.projects, p)
}

// Projects returns the registered projects. The slice must not be modified.
func (g *Graph) Projects() []Project {
	return g.projects
}

// Exclude returns a derived snapshot with the given documents removed.
// Remaining documents keep their identity and are shared by reference; spans
// referring to an excluded document simply no longer resolve.
func (g *Graph) Exclude(ids ...DocID) *Graph {
	excluded := make(map[DocID]bool, len(ids))
	for _, id := range ids {
		excluded[id] = true
	}
	out := &Graph{
		docs:     make([]*Document, len(g.docs)),
		index:    make(map[string]DocID, len(g.index)),
		projects: g.projects,
		baseDir:  g.baseDir,
	}
	for i, d := range g.docs {
		if d == nil || excluded[d.ID] {
			continue
		}
		out.docs[i] = d
		out.index[d.Path] = d.ID
	}
	return out
}

// WithDocuments returns a derived snapshot where each replacement document
// substitutes the document with the same ID. Untouched documents are shared
// by reference with the receiver. Replacements for unknown IDs are rejected.
func (g *Graph) WithDocuments(replacements []*Document) (*Graph, error) {
	if len(replacements) == 0 {
		return g, nil
	}
	out := &Graph{
		docs:     make([]*Document, len(g.docs)),
		index:    make(map[string]DocID, len(g.index)),
		projects: g.projects,
		baseDir:  g.baseDir,
	}
	copy(out.docs, g.docs)
	for _, repl := range replacements {
		if repl == nil {
			return nil, fmt.Errorf("nil replacement document")
		}
		if !repl.ID.IsValid() || int(repl.ID) >= len(out.docs) || out.docs[repl.ID] == nil {
			return nil, fmt.Errorf("replacement for unknown document %d", repl.ID)
		}
		out.docs[repl.ID] = repl
	}
	for _, d := range out.docs {
		if d != nil && d.ID.IsValid() {
			out.index[d.Path] = d.ID
		}
	}
	return out, nil
}

// SortedPaths returns every registered path sorted lexicographically.
// Intended for deterministic reporting.
func (g *Graph) SortedPaths() []string {
	paths := make([]string, 0, len(g.index))
	for p := range g.index {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
