package ods

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// parseContent walks the XML token stream of content.xml and collects the
// rows of the first table:table element. Repeated cells are expanded into
// individual logical cells so callers can index by column.
func parseContent(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	doc := &Document{Rows: [][]Cell{}}

	var (
		inTable   bool
		tableSeen bool
		curRow    []Cell
		inRow     bool
		curCell   *Cell
		repeat    int
		textParts []string
		inP       bool
		pBuf      strings.Builder
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing content.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Space == nsTable && t.Name.Local == "table":
				if !tableSeen {
					inTable = true
					tableSeen = true
				}
			case inTable && t.Name.Space == nsTable && t.Name.Local == "table-row":
				inRow = true
				curRow = []Cell{}
			case inRow && t.Name.Space == nsTable && t.Name.Local == "table-cell":
				curCell = &Cell{}
				repeat = 1
				textParts = nil
				for _, attr := range t.Attr {
					switch {
					case attr.Name.Space == nsTable && attr.Name.Local == "number-columns-repeated":
						if n, err := strconv.Atoi(attr.Value); err == nil && n > 0 {
							repeat = n
						}
					case attr.Name.Space == nsOffice && attr.Name.Local == "value-type":
						curCell.ValueType = attr.Value
					case attr.Name.Space == nsOffice && attr.Name.Local == "value":
						curCell.Value = attr.Value
					}
				}
			case curCell != nil && t.Name.Space == nsText && t.Name.Local == "p":
				inP = true
				pBuf.Reset()
			}

		case xml.CharData:
			if inP {
				pBuf.Write(t)
			}

		case xml.EndElement:
			switch {
			case t.Name.Space == nsText && t.Name.Local == "p":
				if inP {
					textParts = append(textParts, strings.TrimSpace(pBuf.String()))
					inP = false
				}
			case t.Name.Space == nsTable && t.Name.Local == "table-cell":
				if curCell != nil {
					curCell.Text = strings.TrimSpace(strings.Join(textParts, " "))
					for i := 0; i < repeat; i++ {
						curRow = append(curRow, *curCell)
					}
					curCell = nil
				}
			case t.Name.Space == nsTable && t.Name.Local == "table-row":
				if inRow {
					doc.Rows = append(doc.Rows, curRow)
					inRow = false
				}
			case t.Name.Space == nsTable && t.Name.Local == "table":
				if inTable {
					// Only the first table of the first sheet matters.
					return doc, nil
				}
			}
		}
	}

	if !tableSeen {
		return nil, ErrNoTable
	}
	return doc, nil
}
