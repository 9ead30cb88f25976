// Package naslrewrite implements the source-to-source call rewriter
// (spec §4.5): given a list of ReplaceCommands, it finds matching
// Call/Include/Exit/FunctionDeclaration statements in NASL source text
// and splices in a renamed callee, a removed statement, or a parameter
// edit, tracking the running byte offset every prior edit introduces so
// later statements' recorded positions stay valid against the mutated
// buffer. Grounded on
// original_source/rust/feed/src/transpile/mod.rs, whose
// range_with_offset/replace_range bookkeeping (including its
// asymmetric shrink/growth offset-recording rule) is carried over
// unchanged.
package naslrewrite

import "fmt"

// FindParameter narrows a Find to statements whose parameter list
// contains a specific entry.
type FindParameter struct {
	Kind  FindParameterKind
	Name  string
	Value string // only set for NameValue
	Index int    // only set for Index
}

type FindParameterKind int

const (
	FindParameterName FindParameterKind = iota
	FindParameterNameValue
	FindParameterIndex
)

func ByName(name string) FindParameter { return FindParameter{Kind: FindParameterName, Name: name} }
func ByNameValue(name, value string) FindParameter {
	return FindParameter{Kind: FindParameterNameValue, Name: name, Value: value}
}
func ByIndex(i int) FindParameter { return FindParameter{Kind: FindParameterIndex, Index: i} }

// Find selects the statements a ReplaceCommand operates on.
type Find struct {
	Kind      FindKind
	Name      string
	Parameter []FindParameter
}

type FindKind int

const (
	FindFunctionByName FindKind = iota
	FindFunctionByParameter
	FindFunctionByNameAndParameter
)

func FunctionByName(name string) Find { return Find{Kind: FindFunctionByName, Name: name} }
func FunctionByParameter(p []FindParameter) Find {
	return Find{Kind: FindFunctionByParameter, Parameter: p}
}
func FunctionByNameAndParameter(name string, p []FindParameter) Find {
	return Find{Kind: FindFunctionByNameAndParameter, Name: name, Parameter: p}
}

// Parameter describes a parameter to push or insert.
type Parameter struct {
	Named bool
	Name  string
	Value string // the literal source text of the value (or the anon expression text)
}

func NamedParameter(name, value string) Parameter { return Parameter{Named: true, Name: name, Value: value} }
func AnonParameter(expr string) Parameter          { return Parameter{Named: false, Value: expr} }

func (p Parameter) String() string {
	if p.Named {
		return fmt.Sprintf("NamedParameter(%s, %s)", p.Name, p.Value)
	}
	return fmt.Sprintf("Parameter(%s)", p.Value)
}

// ParameterOperation describes how to manipulate a statement's
// parameter list.
type ParameterOperation struct {
	Kind     ParameterOpKind
	Index    int
	Name     string // RemoveNamed / Rename.Previous
	New      string // Rename.New
	Param    Parameter
}

type ParameterOpKind int

const (
	ParamPush ParameterOpKind = iota
	ParamAdd
	ParamRemoveNamed
	ParamRemove
	ParamRemoveAll
	ParamRename
)

func Push(p Parameter) ParameterOperation { return ParameterOperation{Kind: ParamPush, Param: p} }
func Add(i int, p Parameter) ParameterOperation {
	return ParameterOperation{Kind: ParamAdd, Index: i, Param: p}
}
func RemoveNamed(name string) ParameterOperation {
	return ParameterOperation{Kind: ParamRemoveNamed, Name: name}
}
func RemoveIndex(i int) ParameterOperation { return ParameterOperation{Kind: ParamRemove, Index: i} }
func RemoveAll() ParameterOperation         { return ParameterOperation{Kind: ParamRemoveAll} }
func Rename(previous, newName string) ParameterOperation {
	return ParameterOperation{Kind: ParamRename, Name: previous, New: newName}
}

func (op ParameterOperation) String() string {
	switch op.Kind {
	case ParamPush:
		return fmt.Sprintf("Push %s", op.Param)
	case ParamAdd:
		return fmt.Sprintf("Add %s to index %d", op.Param, op.Index)
	case ParamRemoveNamed:
		return fmt.Sprintf("Remove %s", op.Name)
	case ParamRemove:
		return fmt.Sprintf("Remove %d", op.Index)
	case ParamRename:
		return fmt.Sprintf("Rename %s to %s", op.Name, op.New)
	case ParamRemoveAll:
		return "Remove all parameter."
	default:
		return "unknown parameter operation"
	}
}

// Replace describes what to do with a statement Find matched.
type Replace struct {
	Kind      ReplaceKind
	Name      string // ReplaceName
	Parameter ParameterOperation
}

type ReplaceKind int

const (
	ReplaceName ReplaceKind = iota
	ReplaceRemove
	ReplaceParameter
)

func NameReplacement(name string) Replace { return Replace{Kind: ReplaceName, Name: name} }
func RemoveReplacement() Replace           { return Replace{Kind: ReplaceRemove} }
func ParameterReplacement(op ParameterOperation) Replace {
	return Replace{Kind: ReplaceParameter, Parameter: op}
}

func (r Replace) String() string {
	switch r.Kind {
	case ReplaceName:
		return fmt.Sprintf("Replace: %s", r.Name)
	case ReplaceParameter:
		return fmt.Sprintf("Replace parameter: %s", r.Parameter)
	case ReplaceRemove:
		return "Remove found statement"
	default:
		return "unknown replace"
	}
}

// ReplaceCommand pairs a Find with the Replace to apply to every match.
type ReplaceCommand struct {
	Find Find
	With Replace
}

// UnsupportedError reports a Replace applied to a statement kind it
// cannot act on (e.g. a Parameter op against a Block).
type UnsupportedError struct {
	With      Replace
	StmtRange string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("operation %s not allowed on statement at %s", e.With, e.StmtRange)
}
