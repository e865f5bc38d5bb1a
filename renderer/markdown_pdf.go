package renderer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownPDF converts a markdown report, as produced by Ranking or
// RenderSleeves, into a PDF document. Headings, paragraphs, emphasis, lists
// and tables are supported.
func MarkdownPDF(w io.Writer, markdown string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	source := []byte(markdown)
	doc := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(source))

	r := &pdfRenderer{pdf: pdf, source: source, font: "Times", size: 10}
	// core fonts are cp1252 encoded
	r.tr = pdf.UnicodeTranslatorFromDescriptor("")
	r.updateFont()
	if err := ast.Walk(doc, r.walk); err != nil {
		return fmt.Errorf("cannot render markdown: %w", err)
	}
	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

type pdfRenderer struct {
	pdf       *fpdf.Fpdf
	source    []byte
	tr        func(string) string
	font      string
	size      float64
	bold      bool
	italic    bool
	listLevel int
}

func (r *pdfRenderer) updateFont() {
	style := ""
	if r.bold {
		style += "B"
	}
	if r.italic {
		style += "I"
	}
	r.pdf.SetFont(r.font, style, r.size)
}

func (r *pdfRenderer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n := n.(type) {
	case *ast.Heading:
		if entering {
			r.pdf.Ln(4)
			size := map[int]float64{1: 16, 2: 13, 3: 11}[n.Level]
			if size == 0 {
				size = 10
			}
			r.pdf.SetFont(r.font, "B", size)
			r.pdf.SetTextColor(Navy.R, Navy.G, Navy.B)
		} else {
			r.pdf.Ln(8)
			r.pdf.SetTextColor(0, 0, 0)
			r.updateFont()
		}
	case *ast.Paragraph:
		if !entering {
			r.pdf.Ln(6)
		}
	case *ast.Text:
		if entering {
			r.pdf.Write(5, r.tr(string(n.Segment.Value(r.source))))
			if n.SoftLineBreak() {
				r.pdf.Write(5, " ")
			}
		}
	case *ast.Emphasis:
		if n.Level == 2 {
			r.bold = entering
		} else {
			r.italic = entering
		}
		r.updateFont()
	case *ast.List:
		if entering {
			r.listLevel++
		} else {
			r.listLevel--
			r.pdf.Ln(2)
		}
	case *ast.ListItem:
		if entering {
			r.pdf.Ln(5)
			r.pdf.SetX(15 + float64(r.listLevel)*5)
			r.pdf.Write(5, "- ")
		}
	case *extast.Table:
		if entering {
			r.table(n)
			return ast.WalkSkipChildren, nil
		}
	}
	return ast.WalkContinue, nil
}

// table draws a markdown table, the header on a navy background.
func (r *pdfRenderer) table(n *extast.Table) {
	var rows [][]string
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		var cells []string
		for cell := child.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, r.tr(strings.TrimSpace(string(cellText(cell, r.source)))))
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}

	const pageWidth = 180.0
	cols := len(rows[0])
	widths := make([]float64, cols)
	r.pdf.SetFont(r.font, "B", 9)
	for _, row := range rows {
		for j, c := range row {
			if j < cols {
				widths[j] = max(widths[j], r.pdf.GetStringWidth(c)+4)
			}
		}
	}
	total := 0.0
	for _, w := range widths {
		total += w
	}
	if total > pageWidth {
		for j := range widths {
			widths[j] *= pageWidth / total
		}
	}

	r.pdf.Ln(2)
	for i, row := range rows {
		if i == 0 {
			r.pdf.SetFont(r.font, "B", 9)
			r.pdf.SetFillColor(Navy.R, Navy.G, Navy.B)
			r.pdf.SetTextColor(White.R, White.G, White.B)
		} else {
			fill := White
			if i%2 == 1 {
				fill = LightGrey
			}
			r.pdf.SetFont(r.font, "", 9)
			r.pdf.SetFillColor(fill.R, fill.G, fill.B)
			r.pdf.SetTextColor(0, 0, 0)
		}
		for j := 0; j < cols; j++ {
			c := ""
			if j < len(row) {
				c = row[j]
			}
			align := "R"
			if j == 0 || i == 0 {
				align = "L"
			}
			r.pdf.CellFormat(widths[j], 6, c, "1", 0, align, true, 0, "")
		}
		r.pdf.Ln(-1)
	}
	r.pdf.SetTextColor(0, 0, 0)
	r.updateFont()
	r.pdf.Ln(2)
}

// cellText concatenates the text segments below n.
func cellText(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := c.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.Bytes()
}
