package ast

// NodeID identifies a node inside one document's tree arena (1-based).
type NodeID uint32

// NoNodeID marks the absence of a node reference.
const NoNodeID NodeID = 0

// IsValid reports whether the ID refers to an allocated node.
func (id NodeID) IsValid() bool { return id != NoNodeID }

// NodeKind tags the syntactic shape of a node.
type NodeKind uint8

const (
	NodeInvalid NodeKind = iota
	NodeCompilationUnit
	NodeTypeDecl
	NodeBaseList
	NodeMethodDecl
	NodeAccessorDecl
	NodeConstructorDecl
	NodeLambda
	NodeParameterList
	NodeParameter
	NodeBlock
	NodeInvocation
	NodeArgumentList
	NodeArgument
	NodeMemberAccess
	NodeIdentifier
	NodeTypeName
	NodeAssignment
	NodeObjectCreation
	NodeFieldDecl
	NodeReferenceEntry
)

func (k NodeKind) String() string {
	switch k {
	case NodeCompilationUnit:
		return "compilation-unit"
	case NodeTypeDecl:
		return "type-decl"
	case NodeBaseList:
		return "base-list"
	case NodeMethodDecl:
		return "method-decl"
	case NodeAccessorDecl:
		return "accessor-decl"
	case NodeConstructorDecl:
		return "constructor-decl"
	case NodeLambda:
		return "lambda"
	case NodeParameterList:
		return "parameter-list"
	case NodeParameter:
		return "parameter"
	case NodeBlock:
		return "block"
	case NodeInvocation:
		return "invocation"
	case NodeArgumentList:
		return "argument-list"
	case NodeArgument:
		return "argument"
	case NodeMemberAccess:
		return "member-access"
	case NodeIdentifier:
		return "identifier"
	case NodeTypeName:
		return "type-name"
	case NodeAssignment:
		return "assignment"
	case NodeObjectCreation:
		return "object-creation"
	case NodeFieldDecl:
		return "field-decl"
	case NodeReferenceEntry:
		return "reference-entry"
	default:
		return "invalid"
	}
}

// IsDeclaration reports whether the kind declares an enclosing executable
// unit (something a parameter can be added to).
func (k NodeKind) IsDeclaration() bool {
	switch k {
	case NodeMethodDecl, NodeAccessorDecl, NodeConstructorDecl:
		return true
	default:
		return false
	}
}
