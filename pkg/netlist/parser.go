package netlist

import (
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/matzehuels/analogtopo/pkg/errors"
)

var spiceParser = participle.MustBuild[deck](
	participle.Lexer(spiceLexer),
	participle.Elide("Comment", "Whitespace", "Continuation"),
)

// maxParamDepth bounds chained {name} substitution.
const maxParamDepth = 8

// Parse reads a netlist from r.
func Parse(r io.Reader) (*Netlist, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read netlist")
	}
	return ParseNamed("", string(src))
}

// ParseString parses netlist text.
func ParseString(src string) (*Netlist, error) {
	return ParseNamed("", src)
}

// ParseFile reads and parses the netlist at path. A missing file is a
// FILE_NOT_FOUND error.
func ParseFile(path string) (*Netlist, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "netlist %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}
	return ParseNamed(path, string(src))
}

// ParseNamed parses netlist text, using name in error positions.
//
// The first line is the title, as in SPICE, unless it is blank, a comment or
// a directive. Syntax errors, a .subckt without .ends and an .ends without
// .subckt are INVALID_NETLIST errors. Lines after .end are ignored.
func ParseNamed(name, src string) (*Netlist, error) {
	title, body := splitTitle(src)
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}

	tree, err := spiceParser.ParseString(name, body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidNetlist, err, "parse %s", displayName(name))
	}

	nl, err := assemble(displayName(name), tree)
	if err != nil {
		return nil, err
	}
	nl.Title = title
	return nl, nil
}

func displayName(name string) string {
	if name == "" {
		return "<input>"
	}
	return name
}

// splitTitle detaches a SPICE title line. The title is replaced by an empty
// line so that line numbers in the body stay correct.
func splitTitle(src string) (title, body string) {
	first, rest, found := strings.Cut(src, "\n")
	t := strings.TrimSpace(first)
	if t == "" || t[0] == '*' || t[0] == '.' {
		return "", src
	}
	if !found {
		return t, ""
	}
	return t, "\n" + rest
}

// assemble walks the parse tree, opening and closing subcircuit scopes and
// collecting elements, parameters and other directives.
func assemble(name string, tree *deck) (*Netlist, error) {
	nl := &Netlist{Params: map[string]string{}}
	var open []int // indexes into nl.Subcircuits, innermost last

lines:
	for _, ln := range tree.Lines {
		switch {
		case ln.Directive != nil:
			d := ln.Directive
			switch strings.ToLower(d.Name) {
			case ".subckt":
				if len(d.Fields) == 0 || d.Fields[0].Value != nil {
					return nil, errors.New(errors.ErrCodeInvalidNetlist, "%s:%d: .subckt without a name", name, ln.Pos.Line)
				}
				sub := Subcircuit{Name: d.Fields[0].Key, Params: map[string]string{}, Line: ln.Pos.Line}
				for _, f := range d.Fields[1:] {
					if f.Value == nil {
						sub.Ports = append(sub.Ports, f.Key)
						continue
					}
					sub.Params[strings.ToLower(f.Key)] = *f.Value
				}
				nl.Subcircuits = append(nl.Subcircuits, sub)
				open = append(open, len(nl.Subcircuits)-1)

			case ".ends":
				if len(open) == 0 {
					return nil, errors.New(errors.ErrCodeInvalidNetlist, "%s:%d: .ends without .subckt", name, ln.Pos.Line)
				}
				current := nl.Subcircuits[open[len(open)-1]].Name
				if len(d.Fields) > 0 && !strings.EqualFold(d.Fields[0].Key, current) {
					return nil, errors.New(errors.ErrCodeInvalidNetlist, "%s:%d: .ends %s closes subcircuit %s", name, ln.Pos.Line, d.Fields[0].Key, current)
				}
				open = open[:len(open)-1]

			case ".param":
				target := nl.Params
				if len(open) > 0 {
					target = nl.Subcircuits[open[len(open)-1]].Params
				}
				for _, f := range d.Fields {
					if f.Value != nil {
						target[strings.ToLower(f.Key)] = *f.Value
					}
				}

			case ".end":
				break lines

			default:
				dir := Directive{Name: strings.ToLower(d.Name), Line: ln.Pos.Line}
				for _, f := range d.Fields {
					dir.Args = append(dir.Args, f.text())
				}
				nl.Directives = append(nl.Directives, dir)
			}

		case ln.Statement != nil:
			el := toElement(ln.Statement, ln.Pos.Line)
			if len(open) > 0 {
				sub := &nl.Subcircuits[open[len(open)-1]]
				sub.Elements = append(sub.Elements, el)
			} else {
				nl.Elements = append(nl.Elements, el)
			}
		}
	}

	if len(open) > 0 {
		sub := nl.Subcircuits[open[len(open)-1]]
		return nil, errors.New(errors.ErrCodeInvalidNetlist, "%s:%d: subcircuit %s is not closed by .ends", name, sub.Line, sub.Name)
	}

	resolveParams(nl)
	return nl, nil
}

func toElement(s *statement, lineNo int) Element {
	el := Element{Name: s.Name, Params: map[string]string{}, Line: lineNo}
	var positional []string
	for _, f := range s.Fields {
		if f.Value == nil {
			positional = append(positional, f.Key)
			continue
		}
		el.Params[strings.ToLower(f.Key)] = *f.Value
	}
	if n := len(positional); n > 0 {
		el.Model = positional[n-1]
		el.Nodes = positional[:n-1]
	}
	return el
}

func (f *field) text() string {
	if f.Value == nil {
		return f.Key
	}
	return f.Key + "=" + *f.Value
}

// resolveParams substitutes {name} and 'name' parameter values. Subcircuit
// parameters shadow global ones. Anything more complex than a bare name is
// left as written.
func resolveParams(nl *Netlist) {
	for i := range nl.Elements {
		substitute(nl.Elements[i].Params, nl.Params)
	}
	for i := range nl.Subcircuits {
		sub := &nl.Subcircuits[i]
		for j := range sub.Elements {
			substitute(sub.Elements[j].Params, sub.Params, nl.Params)
		}
	}
}

func substitute(params map[string]string, scopes ...map[string]string) {
	for key, value := range params {
		params[key] = lookup(value, scopes)
	}
}

func lookup(value string, scopes []map[string]string) string {
	for range maxParamDepth {
		ref, ok := paramRef(value)
		if !ok {
			return value
		}
		next, found := "", false
		for _, s := range scopes {
			if v, ok := s[strings.ToLower(ref)]; ok {
				next, found = v, true
				break
			}
		}
		if !found {
			return value
		}
		value = next
	}
	return value
}

// paramRef returns the parameter name of a {name} or 'name' value.
func paramRef(v string) (string, bool) {
	if len(v) < 3 {
		return "", false
	}
	open, closing := v[0], v[len(v)-1]
	if !(open == '{' && closing == '}') && !(open == '\'' && closing == '\'') {
		return "", false
	}
	name := strings.TrimSpace(v[1 : len(v)-1])
	if name == "" {
		return "", false
	}
	for i, r := range name {
		letter := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !letter && (i == 0 || r < '0' || r > '9') {
			return "", false
		}
	}
	return name, true
}
