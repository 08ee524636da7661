package diag

import (
	"fmt"
)

// Code is a compact rule identifier with a stable string form. Codes are the
// key the fixer registry uses to pick a code-fix for a diagnostic.
type Code uint16

const (
	// UnknownCode is the fallback for unclassified findings.
	UnknownCode Code = 0

	// Project reference rules.
	RefInfo            Code = 1000
	RefMissingAnalyzer Code = 1001
	RefDuplicate       Code = 1002

	// Declaration rules.
	DeclInfo         Code = 2000
	DeclObsoleteBase Code = 2001

	// Ambient-state rules.
	CtxInfo            Code = 3000
	CtxAmbientRead     Code = 3001
	CtxSkippedCallSite Code = 3002

	// Snapshot / input shape problems.
	IOInfo            Code = 4000
	IOSnapshotSchema  Code = 4001
	IOSnapshotCorrupt Code = 4002
	IOManifestInvalid Code = 4003
)

var codeDescription = map[Code]string{
	UnknownCode:        "unknown finding",
	RefInfo:            "reference note",
	RefMissingAnalyzer: "project is missing the analyzer package reference",
	RefDuplicate:       "project declares a duplicate package reference",
	DeclInfo:           "declaration note",
	DeclObsoleteBase:   "declaration extends an obsolete base type",
	CtxInfo:            "ambient-state note",
	CtxAmbientRead:     "method body reads cross-cutting ambient state",
	CtxSkippedCallSite: "call site skipped: document not in graph",
	IOInfo:             "input note",
	IOSnapshotSchema:   "snapshot schema version mismatch",
	IOSnapshotCorrupt:  "snapshot payload cannot be decoded",
	IOManifestInvalid:  "manifest cannot be parsed",
}

// ID returns the rendered identifier, e.g. "CTX3001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("REF%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("DECL%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("CTX%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "W0000"
}

// Title returns the short human description for the code.
func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
