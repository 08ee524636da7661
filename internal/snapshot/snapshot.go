// Package snapshot reads and writes the semantic snapshot the frontend
// emits: document contents plus the node trees, operation trees, and symbol
// table derived from them. The payload is msgpack with an explicit schema
// version, invalidated wholesale when the format changes.
package snapshot

import (
	"errors"
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"weft/internal/ast"
	"weft/internal/sema"
	"weft/internal/source"
)

// SchemaVersion is bumped whenever the payload format changes.
const SchemaVersion uint16 = 1

// ErrSchema is returned when the payload carries a different schema version.
var ErrSchema = errors.New("snapshot schema version mismatch")

// Payload is the serialized form of one workspace snapshot. IDs are 1-based
// arena handles: document i in Docs gets DocID i+1, node j in a document
// gets NodeID j+1, and so on. Parents must precede children.
type Payload struct {
	Schema   uint16
	Docs     []DocPayload
	Projects []ProjectPayload
	Symbols  []SymbolPayload
}

// DocPayload is one document plus its derived trees.
type DocPayload struct {
	Path    string
	Content []byte
	Virtual bool
	Nodes   []NodePayload
	Ops     []OpPayload
}

// NodePayload is one syntax node; spans are byte offsets into Content.
type NodePayload struct {
	Kind   uint8
	Start  uint32
	End    uint32
	Parent uint32
}

// OpPayload is one semantic operation.
type OpPayload struct {
	Kind         uint8
	Node         uint32
	Parent       uint32
	Sym          uint32
	TypeSym      uint32
	TypeNullable bool
}

// SymbolPayload is one symbol table entry.
type SymbolPayload struct {
	Name         string
	Kind         uint8
	Flags        uint16
	Owner        uint32
	TypeSym      uint32
	TypeNullable bool
	Base         uint32
	DeclDoc      uint32
	DeclNode     uint32
	Params       []uint32
}

// ProjectPayload groups documents by 1-based payload index.
type ProjectPayload struct {
	Name       string
	Docs       []uint32
	References []string
}

// Load reads and decodes the snapshot at path into a graph and model.
func Load(path, baseDir string) (*source.Graph, *sema.Model, error) {
	// #nosec G304 -- path comes from the manifest or CLI
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var payload Payload
	if err := msgpack.Unmarshal(raw, &payload); err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if payload.Schema != SchemaVersion {
		return nil, nil, fmt.Errorf("%w: got %d, want %d", ErrSchema, payload.Schema, SchemaVersion)
	}
	return Build(&payload, baseDir)
}

// Build assembles the in-memory graph and model from a decoded payload.
func Build(payload *Payload, baseDir string) (*source.Graph, *sema.Model, error) {
	graph := source.NewGraph(baseDir)
	model := sema.NewModel(nil)

	for i := range payload.Docs {
		dp := &payload.Docs[i]
		flags := source.DocFlags(0)
		if dp.Virtual {
			flags |= source.DocVirtual
		}
		doc := graph.Add(dp.Path, dp.Content, flags)
		if doc != source.DocID(i+1) {
			return nil, nil, fmt.Errorf("document %s: id drift (%d != %d)", dp.Path, doc, i+1)
		}

		tree := ast.NewTree(doc, uint(len(dp.Nodes)))
		for j, np := range dp.Nodes {
			sp := source.Span{Doc: doc, Start: np.Start, End: np.End}
			id := tree.Add(ast.NodeKind(np.Kind), sp, ast.NodeID(np.Parent))
			if id != ast.NodeID(j+1) {
				return nil, nil, fmt.Errorf("document %s: node id drift", dp.Path)
			}
		}
		model.AddTree(tree)

		ops := sema.NewOpTree(doc, uint(len(dp.Ops)))
		for j, op := range dp.Ops {
			id := ops.Add(
				sema.OpKind(op.Kind),
				ast.NodeID(op.Node),
				sema.OperID(op.Parent),
				sema.SymbolID(op.Sym),
				sema.TypeRef{Sym: sema.SymbolID(op.TypeSym), Nullable: op.TypeNullable},
			)
			if id != sema.OperID(j+1) {
				return nil, nil, fmt.Errorf("document %s: operation id drift", dp.Path)
			}
		}
		model.AddOps(ops)
	}

	for _, sp := range payload.Symbols {
		params := make([]sema.SymbolID, len(sp.Params))
		for i, p := range sp.Params {
			params[i] = sema.SymbolID(p)
		}
		model.Symbols.New(sema.Symbol{
			Name:  model.Symbols.Strings.Intern(sp.Name),
			Kind:  sema.SymbolKind(sp.Kind),
			Flags: sema.SymbolFlags(sp.Flags),
			Owner: sema.SymbolID(sp.Owner),
			Type:  sema.TypeRef{Sym: sema.SymbolID(sp.TypeSym), Nullable: sp.TypeNullable},
			Base:  sema.SymbolID(sp.Base),
			Decl: sema.DeclRef{
				Doc:  source.DocID(sp.DeclDoc),
				Node: ast.NodeID(sp.DeclNode),
			},
			Params: params,
		})
	}

	for _, pp := range payload.Projects {
		docs := make([]source.DocID, len(pp.Docs))
		for i, d := range pp.Docs {
			docs[i] = source.DocID(d)
		}
		graph.AddProject(source.Project{
			Name:       pp.Name,
			Docs:       docs,
			References: pp.References,
		})
	}

	return graph, model, nil
}

// Save encodes a payload and writes it to path.
func Save(path string, payload *Payload) error {
	payload.Schema = SchemaVersion
	raw, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
