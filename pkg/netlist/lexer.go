package netlist

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// spiceLexer tokenizes SPICE netlist text. Rules are tried in order, so
// Continuation must precede EOL and Comment must precede Word.
var spiceLexer = lexer.MustSimple([]lexer.SimpleRule{
	// "*" at the start of a token, and ";" or "$" anywhere a token could start,
	// run to the end of the line.
	{Name: "Comment", Pattern: `[*;$][^\n]*`},

	// A newline followed by a "+" line joins the next line onto the current
	// statement. Interleaved full-line comments are skipped.
	{Name: "Continuation", Pattern: `(?:\r?\n[ \t]*\*[^\n]*)*\r?\n[ \t]*\+`},

	{Name: "EOL", Pattern: `\r?\n`},
	{Name: "Whitespace", Pattern: `[ \t\f]+`},

	// Dot commands: .subckt, .ends, .param, .end, .model, ...
	{Name: "Directive", Pattern: `\.[A-Za-z_]+`},

	{Name: "Assign", Pattern: `=`},

	// Instance names, node names, model names and parameter values.
	{Name: "Word", Pattern: `[^\s=;]+`},
})
