package mt4

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// document is a flattened view of a parsed confirmation: every table in document
// order with its own rows (rows of nested tables belong to the nested table only).
type document struct {
	text   string
	tables []*table
}

type table struct {
	text string
	rows []row
}

type row struct {
	cells []string
	// nested is set when a cell holds a table of its own, as in layout wrappers.
	nested bool
}

// cell returns the trimmed text of cell i, or "" when the row is too short or i < 0.
func (r row) cell(i int) string {
	if i < 0 || i >= len(r.cells) {
		return ""
	}
	return r.cells[i]
}

// text joins the cells with tabs so label scans can tell cell boundaries apart.
func (r row) text() string {
	return strings.Join(r.cells, "\t")
}

func parseDocument(htmlDoc string) (*document, error) {
	root, err := html.Parse(strings.NewReader(htmlDoc))
	if err != nil {
		return nil, err
	}
	d := &document{text: nodeText(root)}
	collectTables(root, d)
	return d, nil
}

func collectTables(n *html.Node, d *document) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Table {
		t := &table{text: nodeText(n)}
		collectRows(n, t)
		d.tables = append(d.tables, t)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectTables(c, d)
	}
}

// collectRows gathers the rows owned by a table, skipping into thead/tbody/tfoot but
// not into nested tables.
func collectRows(n *html.Node, t *table) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Table:
			continue
		case atom.Tr:
			t.rows = append(t.rows, row{cells: rowCells(c), nested: containsTable(c)})
		default:
			collectRows(c, t)
		}
	}
}

func rowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
			cells = append(cells, nodeText(c))
		}
	}
	return cells
}

func containsTable(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Table || containsTable(c)) {
			return true
		}
	}
	return false
}

// nodeText renders the visible text below n with whitespace collapsed. Cell, row and
// line-break elements act as word separators.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Head:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Td, atom.Th, atom.Tr, atom.Br, atom.P, atom.Div, atom.Table, atom.Li:
				b.WriteByte(' ')
			}
		}
	}
	walk(n)
	return collapseSpace(b.String())
}

func collapseSpace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
