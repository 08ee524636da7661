package source

import (
	"crypto/sha256"
)

type (
	// DocID uniquely identifies a document within a Graph.
	DocID uint32
	// DocFlags encodes metadata about a document.
	DocFlags uint8
)

const (
	// NoDocID marks the absence of a document reference.
	NoDocID DocID = 0
)

// IsValid reports whether the ID refers to a registered document.
func (id DocID) IsValid() bool { return id != NoDocID }

const (
	// DocVirtual indicates the document was added from memory (test, stdin, etc.).
	DocVirtual DocFlags = 1 << iota
	// DocHadBOM indicates a UTF-8 BOM was stripped on load.
	DocHadBOM
	// DocNormalizedCRLF indicates CRLF line endings were normalized on load.
	DocNormalizedCRLF
	// DocManifest marks the project manifest when it participates in the graph.
	DocManifest
)

// Document captures metadata and content for a single source file.
// Documents are immutable: edits never mutate one in place, they produce a
// replacement paired with the same DocID.
type Document struct {
	ID      DocID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   DocFlags
}

// Replace derives a new document carrying the same identity (ID, path,
// flags) with different content. The receiver is left untouched.
func (d *Document) Replace(content []byte) *Document {
	return &Document{
		ID:      d.ID,
		Path:    d.Path,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   d.Flags,
	}
}

// LineCol represents a human-readable position in a document.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// LineCol converts a byte offset into a 1-based line/column pair.
func (d *Document) LineCol(off uint32) LineCol {
	return toLineCol(d.LineIdx, off)
}

// Text returns the content slice covered by span. The result aliases the
// document content and must not be modified.
func (d *Document) Text(sp Span) []byte {
	if sp.Doc != d.ID || sp.Start > sp.End || int(sp.End) > len(d.Content) {
		return nil
	}
	return d.Content[sp.Start:sp.End]
}
