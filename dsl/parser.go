// Package dsl implements a small fixture language for describing documents.
// The demo binary and benchmarks use it to construct layout inputs without
// depending on any external importer.
package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Number", Pattern: `\d+(?:\.\d+)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "LBrace", Pattern: `\{`},
		{Name: "RBrace", Pattern: `\}`},
	})

	fileParser = participle.MustBuild[File](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment"),
	)
)

// File is the root AST node for a fixture file.
type File struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"Newline* 'doc' @Ident '{' Newline*"`
	Stmts []*Stmt        `parser:"( @@ Newline* )* '}' Newline*"`
}

// Stmt is a single document-level statement.
type Stmt struct {
	Title   *StringLit   `parser:"  'title' @String"`
	Author  *StringLit   `parser:"| 'author' @String"`
	Heading *HeadingStmt `parser:"| @@"`
	Para    *ParaStmt    `parser:"| @@"`
	List    *ListStmt    `parser:"| @@"`
	Quote   *QuoteStmt   `parser:"| @@"`
	Code    *CodeStmt    `parser:"| @@"`
	Table   *TableStmt   `parser:"| @@"`
	Figure  *FigureStmt  `parser:"| @@"`
	Repeat  *RepeatStmt  `parser:"| @@"`
}

// HeadingStmt declares a heading with an explicit level.
type HeadingStmt struct {
	Level int       `parser:"'heading' @Number"`
	Text  StringLit `parser:"@String"`
}

// ParaStmt declares a paragraph.
type ParaStmt struct {
	Text StringLit `parser:"'para' @String"`
}

// ListStmt declares an ordered or unordered list.
type ListStmt struct {
	Ordered bool        `parser:"'list' @'ordered'?"`
	Items   []StringLit `parser:"'{' Newline* ( 'item' @String Newline* )* '}'"`
}

// QuoteStmt declares a quote block holding paragraphs.
type QuoteStmt struct {
	Paras []StringLit `parser:"'quote' '{' Newline* ( 'para' @String Newline* )* '}'"`
}

// CodeStmt declares a code block; the language tag is optional.
type CodeStmt struct {
	Lang string    `parser:"'code' @Ident?"`
	Body StringLit `parser:"@String"`
}

// TableStmt declares a table as a list of rows.
type TableStmt struct {
	Rows []*RowStmt `parser:"'table' '{' Newline* ( @@ Newline* )* '}'"`
}

// RowStmt is one table row.
type RowStmt struct {
	Cells []StringLit `parser:"'row' '{' Newline* ( 'cell' @String Newline* )* '}'"`
}

// FigureStmt declares a figure with optional caption and display size.
type FigureStmt struct {
	URL     StringLit  `parser:"'figure' @String"`
	Caption *StringLit `parser:"( 'caption' @String )?"`
	Size    []float64  `parser:"( 'size' @Number @Number )?"`
}

// RepeatStmt expands its body N times; the loop variable `i` (1-based)
// is available to ${...} interpolation inside the body.
type RepeatStmt struct {
	Count int     `parser:"'repeat' @Number"`
	Body  []*Stmt `parser:"'{' Newline* ( @@ Newline* )* '}'"`
}

// StringLit unquotes Go-style strings on capture.
type StringLit string

// Capture implements participle.Capture.
func (s *StringLit) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLit(val)
	return nil
}

// Parse parses fixture content from an io.Reader.
func Parse(r io.Reader) (*File, error) {
	return fileParser.Parse("", r)
}

// ParseString parses fixture content from a string.
func ParseString(input string) (*File, error) {
	return fileParser.ParseString("", input)
}
