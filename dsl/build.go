package dsl

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/DocInTardis/writing-agent/binding"
	"github.com/DocInTardis/writing-agent/document"
)

// Build converts a parsed fixture file into a document. Every ${...}
// placeholder in string literals is resolved against data; inside a
// repeat body the 1-based loop variable `i` shadows any data field of
// the same name.
func Build(file *File, data any) (*document.Document, error) {
	doc := document.New()
	for _, stmt := range file.Stmts {
		if err := buildStmt(doc, stmt, data); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func buildStmt(doc *document.Document, stmt *Stmt, data any) error {
	switch {
	case stmt.Title != nil:
		doc.Metadata.Title = interp(*stmt.Title, data)
	case stmt.Author != nil:
		doc.Metadata.Author = interp(*stmt.Author, data)
	case stmt.Heading != nil:
		level := stmt.Heading.Level
		if level < 1 || level > 6 {
			return fmt.Errorf("heading level %d out of range 1..6", level)
		}
		doc.Blocks = append(doc.Blocks, &document.Block{
			ID:      uuid.New(),
			Kind:    document.KindHeading,
			Level:   level,
			Content: document.PlainText(interp(stmt.Heading.Text, data)),
		})
	case stmt.Para != nil:
		doc.Blocks = append(doc.Blocks, &document.Block{
			ID:      uuid.New(),
			Kind:    document.KindParagraph,
			Content: document.PlainText(interp(stmt.Para.Text, data)),
		})
	case stmt.List != nil:
		items := make([]document.ListItem, 0, len(stmt.List.Items))
		for _, it := range stmt.List.Items {
			items = append(items, document.ListItem{
				ID:      uuid.New(),
				Content: document.PlainText(interp(it, data)),
			})
		}
		doc.Blocks = append(doc.Blocks, &document.Block{
			ID:      uuid.New(),
			Kind:    document.KindList,
			Ordered: stmt.List.Ordered,
			Items:   items,
		})
	case stmt.Quote != nil:
		children := make([]*document.Block, 0, len(stmt.Quote.Paras))
		for _, p := range stmt.Quote.Paras {
			children = append(children, &document.Block{
				ID:      uuid.New(),
				Kind:    document.KindParagraph,
				Content: document.PlainText(interp(p, data)),
			})
		}
		doc.Blocks = append(doc.Blocks, &document.Block{
			ID:       uuid.New(),
			Kind:     document.KindQuote,
			Children: children,
		})
	case stmt.Code != nil:
		doc.Blocks = append(doc.Blocks, &document.Block{
			ID:   uuid.New(),
			Kind: document.KindCode,
			Lang: stmt.Code.Lang,
			Code: interp(stmt.Code.Body, data),
		})
	case stmt.Table != nil:
		rows := make([][]document.Cell, 0, len(stmt.Table.Rows))
		for _, r := range stmt.Table.Rows {
			cells := make([]document.Cell, 0, len(r.Cells))
			for _, c := range r.Cells {
				cells = append(cells, document.Cell{Content: document.PlainText(interp(c, data))})
			}
			rows = append(rows, cells)
		}
		doc.Blocks = append(doc.Blocks, &document.Block{
			ID:   uuid.New(),
			Kind: document.KindTable,
			Rows: rows,
		})
	case stmt.Figure != nil:
		block := &document.Block{
			ID:   uuid.New(),
			Kind: document.KindFigure,
			URL:  interp(stmt.Figure.URL, data),
		}
		if stmt.Figure.Caption != nil {
			block.Caption = interp(*stmt.Figure.Caption, data)
		}
		if len(stmt.Figure.Size) == 2 {
			block.Size = &document.FigureSize{
				Width:  stmt.Figure.Size[0],
				Height: stmt.Figure.Size[1],
			}
		}
		doc.Blocks = append(doc.Blocks, block)
	case stmt.Repeat != nil:
		for n := 1; n <= stmt.Repeat.Count; n++ {
			scoped := binding.WithVar(data, "i", n)
			for _, inner := range stmt.Repeat.Body {
				if err := buildStmt(doc, inner, scoped); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func interp(s StringLit, data any) string {
	return binding.Interpolate(string(s), data)
}
