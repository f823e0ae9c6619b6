package dsl_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/DocInTardis/writing-agent/document"
	"github.com/DocInTardis/writing-agent/dsl"
)

const sampleFixture = `
doc sample {
  title "性能基准"
  author "排版组"

  heading 1 "引言"
  para "这是一些测试文本，用于布局性能评估。"

  list ordered {
    item "第一项"
    item "第二项"
  }

  list {
    item "无序条目"
  }

  quote {
    para "引文第一段"
    para "引文第二段"
  }

  code go "package main\n\nfunc main() {}\n"

  table {
    row {
      cell "名称"
      cell "数量"
    }
    row {
      cell "甲"
      cell "3"
    }
  }

  figure "assets/chart.png" caption "图一" size 320 180
}
`

func TestParseFixture(t *testing.T) {
	file, err := dsl.ParseString(sampleFixture)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if file.Name != "sample" {
		t.Fatalf("expected doc name sample, got %s", file.Name)
	}
	if len(file.Stmts) != 10 {
		t.Fatalf("expected 10 statements, got %d", len(file.Stmts))
	}

	if file.Stmts[0].Title == nil || string(*file.Stmts[0].Title) != "性能基准" {
		t.Fatalf("title statement wrong: %+v", file.Stmts[0])
	}

	heading := file.Stmts[2].Heading
	if heading == nil || heading.Level != 1 || string(heading.Text) != "引言" {
		t.Fatalf("heading statement wrong: %+v", file.Stmts[2])
	}

	ordered := file.Stmts[4].List
	if ordered == nil || !ordered.Ordered || len(ordered.Items) != 2 {
		t.Fatalf("ordered list wrong: %+v", file.Stmts[4])
	}
	unordered := file.Stmts[5].List
	if unordered == nil || unordered.Ordered {
		t.Fatalf("unordered list should not carry ordered flag: %+v", file.Stmts[5])
	}

	quote := file.Stmts[6].Quote
	if quote == nil || len(quote.Paras) != 2 {
		t.Fatalf("quote statement wrong: %+v", file.Stmts[6])
	}

	code := file.Stmts[7].Code
	if code == nil || code.Lang != "go" {
		t.Fatalf("code statement wrong: %+v", file.Stmts[7])
	}
	if string(code.Body) != "package main\n\nfunc main() {}\n" {
		t.Fatalf("code body escapes not applied: %q", string(code.Body))
	}

	table := file.Stmts[8].Table
	if table == nil || len(table.Rows) != 2 || len(table.Rows[0].Cells) != 2 {
		t.Fatalf("table statement wrong: %+v", file.Stmts[8])
	}

	figure := file.Stmts[9].Figure
	if figure == nil || string(figure.URL) != "assets/chart.png" {
		t.Fatalf("figure statement wrong: %+v", file.Stmts[9])
	}
	if figure.Caption == nil || string(*figure.Caption) != "图一" {
		t.Fatalf("figure caption wrong: %+v", figure)
	}
	if len(figure.Size) != 2 || figure.Size[0] != 320 || figure.Size[1] != 180 {
		t.Fatalf("figure size wrong: %+v", figure.Size)
	}
}

func TestParseComments(t *testing.T) {
	input := `
doc commented {
  // leading comment
  para "正文" // trailing comment
}
`
	file, err := dsl.ParseString(input)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(file.Stmts) != 1 || file.Stmts[0].Para == nil {
		t.Fatalf("comments should be elided: %+v", file.Stmts)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	if _, err := dsl.ParseString(`doc broken { para }`); err == nil {
		t.Fatal("expected parse error for para without literal")
	}
}

func TestBuildDocument(t *testing.T) {
	file, err := dsl.ParseString(sampleFixture)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	doc, err := dsl.Build(file, nil)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if doc.Metadata.Title != "性能基准" || doc.Metadata.Author != "排版组" {
		t.Fatalf("metadata not applied: %+v", doc.Metadata)
	}
	if len(doc.Blocks) != 8 {
		t.Fatalf("expected 8 blocks, got %d", len(doc.Blocks))
	}

	wantKinds := []document.BlockKind{
		document.KindHeading,
		document.KindParagraph,
		document.KindList,
		document.KindList,
		document.KindQuote,
		document.KindCode,
		document.KindTable,
		document.KindFigure,
	}
	for i, kind := range wantKinds {
		if doc.Blocks[i].Kind != kind {
			t.Fatalf("block %d kind = %v, want %v", i, doc.Blocks[i].Kind, kind)
		}
	}

	quote := doc.Blocks[4]
	if len(quote.Children) != 2 || quote.Children[0].Kind != document.KindParagraph {
		t.Fatalf("quote children wrong: %+v", quote.Children)
	}
	figure := doc.Blocks[7]
	if figure.Size == nil || figure.Size.Width != 320 || figure.Size.Height != 180 {
		t.Fatalf("figure size not carried: %+v", figure.Size)
	}
	for i, b := range doc.Blocks {
		if b.ID == uuid.Nil {
			t.Fatalf("block %d should receive a fresh ID", i)
		}
	}
}

func TestBuildInterpolatesData(t *testing.T) {
	file, err := dsl.ParseString(`
doc vars {
  para "作者：${meta.author}"
}
`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	data := map[string]interface{}{
		"meta": map[string]interface{}{"author": "李雷"},
	}
	doc, err := dsl.Build(file, data)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if got := document.Text(doc.Blocks[0].Content); got != "作者：李雷" {
		t.Fatalf("interpolation failed: %q", got)
	}
}

func TestBuildRepeat(t *testing.T) {
	file, err := dsl.ParseString(`
doc repeated {
  repeat 3 {
    para "第 ${i} 段"
  }
}
`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	doc, err := dsl.Build(file, nil)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if len(doc.Blocks) != 3 {
		t.Fatalf("repeat should expand to 3 blocks, got %d", len(doc.Blocks))
	}
	want := []string{"第 1 段", "第 2 段", "第 3 段"}
	for i, w := range want {
		if got := document.Text(doc.Blocks[i].Content); got != w {
			t.Fatalf("block %d text = %q, want %q", i, got, w)
		}
	}
}

func TestBuildRejectsBadHeadingLevel(t *testing.T) {
	file, err := dsl.ParseString(`
doc bad {
  heading 7 "过深"
}
`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if _, err := dsl.Build(file, nil); err == nil {
		t.Fatal("expected error for heading level out of range")
	}
}
