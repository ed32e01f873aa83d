package netlist

import "github.com/alecthomas/participle/v2/lexer"

// deck is the raw parse tree: one entry per physical line, with continuation
// lines already folded into the statement they extend.
type deck struct {
	Lines []*line `@@*`
}

// line is a directive, an instance statement, or nothing (blank or comment).
type line struct {
	Pos lexer.Position

	Directive *directive `( @@`
	Statement *statement `| @@ )? EOL`
}

// directive is a dot command such as ".subckt OTA in out".
type directive struct {
	Name   string   `@Directive`
	Fields []*field `@@*`
}

// statement is an instance line such as "M1 d g s b nfet W=1u".
type statement struct {
	Name   string   `@Word`
	Fields []*field `@@*`
}

// field is a positional word, or a key=value parameter when Value is set.
type field struct {
	Key   string  `@Word`
	Value *string `( Assign @Word )?`
}
