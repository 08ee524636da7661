package sema

import (
	"weft/internal/ast"
	"weft/internal/source"
)

// OpKind classifies a semantic operation.
type OpKind uint8

const (
	OpInvalid OpKind = iota
	OpInvocation
	OpPropertyReference
	OpFieldReference
	OpParameterReference
	OpAssignment
	OpObjectCreation
	OpMethodBody
	OpAccessorBody
	OpConstructorBody
	OpLambdaBody
	OpBlock
)

func (k OpKind) String() string {
	switch k {
	case OpInvocation:
		return "invocation"
	case OpPropertyReference:
		return "property-reference"
	case OpFieldReference:
		return "field-reference"
	case OpParameterReference:
		return "parameter-reference"
	case OpAssignment:
		return "assignment"
	case OpObjectCreation:
		return "object-creation"
	case OpMethodBody:
		return "method-body"
	case OpAccessorBody:
		return "accessor-body"
	case OpConstructorBody:
		return "constructor-body"
	case OpLambdaBody:
		return "lambda-body"
	case OpBlock:
		return "block"
	default:
		return "invalid"
	}
}

// IsBody reports whether the kind is the body of a declared executable unit
// (including lambda bodies, which most enclosing predicates reject).
func (k OpKind) IsBody() bool {
	switch k {
	case OpMethodBody, OpAccessorBody, OpConstructorBody, OpLambdaBody:
		return true
	default:
		return false
	}
}

// Operation is a typed semantic fact attached to a syntax node. Node and
// Parent are back-references; the operation tree forms a second, coarser
// tree over the same source.
type Operation struct {
	Kind   OpKind
	Node   ast.NodeID
	Parent OperID
	Sym    SymbolID // symbol the operation concerns, when resolved
	Type   TypeRef  // result or declared type, when known
}

// OpTree holds the operation arena of one document.
type OpTree struct {
	Doc    source.DocID
	ops    *ast.Arena[Operation]
	root   OperID
	byNode map[ast.NodeID]OperID
}

// NewOpTree creates an empty operation tree for doc.
func NewOpTree(doc source.DocID, capHint uint) *OpTree {
	return &OpTree{
		Doc:    doc,
		ops:    ast.NewArena[Operation](capHint),
		byNode: make(map[ast.NodeID]OperID, capHint),
	}
}

// Add allocates an operation attached to node under parent (NoOperID for
// the root).
func (t *OpTree) Add(kind OpKind, node ast.NodeID, parent OperID, sym SymbolID, typ TypeRef) OperID {
	id := OperID(t.ops.Allocate(Operation{
		Kind:   kind,
		Node:   node,
		Parent: parent,
		Sym:    sym,
		Type:   typ,
	}))
	if node.IsValid() {
		if _, taken := t.byNode[node]; !taken {
			t.byNode[node] = id
		}
	}
	if !parent.IsValid() && !t.root.IsValid() {
		t.root = id
	}
	return id
}

// Get returns the operation for id, or nil for the sentinel.
func (t *OpTree) Get(id OperID) *Operation {
	if t == nil {
		return nil
	}
	return t.ops.Get(uint32(id))
}

// Root returns the root operation ID.
func (t *OpTree) Root() OperID { return t.root }

// Len returns the number of allocated operations.
func (t *OpTree) Len() uint32 { return t.ops.Len() }

// Parent returns the parent operation of id.
func (t *OpTree) Parent(id OperID) OperID {
	op := t.Get(id)
	if op == nil {
		return NoOperID
	}
	return op.Parent
}

// ForNode returns the operation directly attached to node, if any.
func (t *OpTree) ForNode(node ast.NodeID) OperID {
	if t == nil {
		return NoOperID
	}
	return t.byNode[node]
}

// Enclosing resolves the nearest operation for node, walking the syntactic
// parent chain until a node with an attached operation is found.
func (t *OpTree) Enclosing(tree *ast.Tree, node ast.NodeID) OperID {
	for cur := node; cur.IsValid(); cur = tree.Parent(cur) {
		if id := t.ForNode(cur); id.IsValid() {
			return id
		}
	}
	return NoOperID
}

// All iterates allocated operation IDs in allocation order.
func (t *OpTree) All(yield func(OperID, *Operation) bool) {
	data := t.ops.Slice()
	for i := range data {
		if !yield(OperID(i+1), &data[i]) {
			return
		}
	}
}
