package naslrewrite

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// wireCommand is the human-editable shape ReplaceCommands are read from
// (spec §6: "a human-editable configuration document ... consumed
// through a generic structured-configuration deserialiser"). Field
// names are kept flat and lower-cased so the same document reads
// naturally as YAML or JSON.
type wireCommand struct {
	Find wireFind `yaml:"find"`
	With wireWith `yaml:"with"`
}

type wireFind struct {
	FunctionName string              `yaml:"function_name,omitempty"`
	Parameter    []wireFindParameter `yaml:"parameter,omitempty"`
}

type wireFindParameter struct {
	Name  string `yaml:"name,omitempty"`
	Value string `yaml:"value,omitempty"`
	Index *int   `yaml:"index,omitempty"`
}

type wireWith struct {
	Name      string           `yaml:"name,omitempty"`
	Remove    bool             `yaml:"remove,omitempty"`
	Parameter *wireParameterOp `yaml:"parameter,omitempty"`
}

type wireParameterOp struct {
	Push        *wireParameter `yaml:"push,omitempty"`
	Add         *wireAddOp     `yaml:"add,omitempty"`
	RemoveNamed string         `yaml:"remove_named,omitempty"`
	RemoveIndex *int           `yaml:"remove_index,omitempty"`
	RemoveAll   bool           `yaml:"remove_all,omitempty"`
	Rename      *wireRenameOp  `yaml:"rename,omitempty"`
}

type wireParameter struct {
	Name  string `yaml:"name,omitempty"`
	Value string `yaml:"value"`
}

type wireAddOp struct {
	Index     int           `yaml:"index"`
	Parameter wireParameter `yaml:"parameter"`
}

type wireRenameOp struct {
	Previous string `yaml:"previous"`
	New      string `yaml:"new"`
}

// DecodeCommands parses a YAML document of the ReplaceCommand wire
// format (spec §6) into the in-memory ReplaceCommand list Replace
// consumes.
func DecodeCommands(doc []byte) ([]ReplaceCommand, error) {
	var wire []wireCommand
	if err := yaml.Unmarshal(doc, &wire); err != nil {
		return nil, fmt.Errorf("decode replace commands: %w", err)
	}
	out := make([]ReplaceCommand, 0, len(wire))
	for i, w := range wire {
		cmd, err := w.toCommand()
		if err != nil {
			return nil, fmt.Errorf("replace command %d: %w", i, err)
		}
		out = append(out, cmd)
	}
	return out, nil
}

func (w wireCommand) toCommand() (ReplaceCommand, error) {
	find, err := w.Find.toFind()
	if err != nil {
		return ReplaceCommand{}, err
	}
	with, err := w.With.toReplace()
	if err != nil {
		return ReplaceCommand{}, err
	}
	return ReplaceCommand{Find: find, With: with}, nil
}

func (f wireFind) toFind() (Find, error) {
	params := make([]FindParameter, 0, len(f.Parameter))
	for _, p := range f.Parameter {
		switch {
		case p.Index != nil:
			params = append(params, ByIndex(*p.Index))
		case p.Value != "":
			params = append(params, ByNameValue(p.Name, p.Value))
		case p.Name != "":
			params = append(params, ByName(p.Name))
		default:
			return Find{}, fmt.Errorf("find parameter needs name, name+value, or index")
		}
	}
	switch {
	case f.FunctionName != "" && len(params) > 0:
		return FunctionByNameAndParameter(f.FunctionName, params), nil
	case f.FunctionName != "":
		return FunctionByName(f.FunctionName), nil
	case len(params) > 0:
		return FunctionByParameter(params), nil
	default:
		return Find{}, fmt.Errorf("find needs function_name and/or parameter")
	}
}

func (w wireWith) toReplace() (Replace, error) {
	switch {
	case w.Remove:
		return RemoveReplacement(), nil
	case w.Name != "":
		return NameReplacement(w.Name), nil
	case w.Parameter != nil:
		op, err := w.Parameter.toOp()
		if err != nil {
			return Replace{}, err
		}
		return ParameterReplacement(op), nil
	default:
		return Replace{}, fmt.Errorf("with needs name, remove, or parameter")
	}
}

func (p wireParameter) toParameter() Parameter {
	if p.Name != "" {
		return NamedParameter(p.Name, p.Value)
	}
	return AnonParameter(p.Value)
}

func (op wireParameterOp) toOp() (ParameterOperation, error) {
	switch {
	case op.Push != nil:
		return Push(op.Push.toParameter()), nil
	case op.Add != nil:
		return Add(op.Add.Index, op.Add.Parameter.toParameter()), nil
	case op.RemoveNamed != "":
		return RemoveNamed(op.RemoveNamed), nil
	case op.RemoveIndex != nil:
		return RemoveIndex(*op.RemoveIndex), nil
	case op.RemoveAll:
		return RemoveAll(), nil
	case op.Rename != nil:
		return Rename(op.Rename.Previous, op.Rename.New), nil
	default:
		return ParameterOperation{}, fmt.Errorf("parameter operation needs push, add, remove_named, remove_index, remove_all, or rename")
	}
}
