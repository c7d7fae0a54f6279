package normalize

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ParseHTMLTable extracts raw policy records from an already-fetched HTML
// fragment containing a policy table: one header row naming the fields,
// one row per policy. Fetching pages is a collaborator's responsibility;
// parsing a supplied fragment is the normalizer's.
func ParseHTMLTable(fragment string) ([]RawRecord, error) {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	table := findElement(doc, "table")
	if table == nil {
		return nil, fmt.Errorf("no table in fragment")
	}

	rows := findElements(table, "tr")
	if len(rows) < 2 {
		return nil, fmt.Errorf("table has no data rows")
	}

	headers := cellTexts(rows[0])
	if len(headers) == 0 {
		return nil, fmt.Errorf("table has no header cells")
	}

	records := make([]RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := cellTexts(row)
		if len(cells) == 0 {
			continue
		}

		fields := make(map[string]interface{}, len(headers))
		for i, header := range headers {
			if i >= len(cells) {
				break
			}
			if header == "" || cells[i] == "" {
				continue
			}
			fields[header] = cells[i]
		}

		if len(fields) == 0 {
			continue
		}
		records = append(records, RawRecord{Source: "scrape", Fields: fields})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("table has no usable rows")
	}

	return records, nil
}

// findElement returns the first element with the given tag, depth-first
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// findElements returns every element with the given tag under n
func findElements(n *html.Node, tag string) []*html.Node {
	var results []*html.Node

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == tag {
			results = append(results, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return results
}

// cellTexts collects the trimmed text of each th/td cell in a row
func cellTexts(row *html.Node) []string {
	var cells []string
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "th" || c.Data == "td") {
			cells = append(cells, nodeText(c))
		}
	}
	return cells
}

// nodeText flattens the visible text under a node
func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}

	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		part := nodeText(c)
		if part == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(part)
	}
	return buf.String()
}
