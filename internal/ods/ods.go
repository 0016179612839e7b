// Package ods reads the first sheet of an OpenDocument spreadsheet. An .ods
// file is a zip archive whose content.xml holds namespaced table:table-row /
// table:table-cell elements; cells may carry typed values in office:value and
// blank runs compressed with table:number-columns-repeated.
package ods

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"
)

const (
	nsTable  = "urn:oasis:names:tc:opendocument:xmlns:table:1.0"
	nsText   = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
	nsOffice = "urn:oasis:names:tc:opendocument:xmlns:office:1.0"
)

var (
	// ErrNoContent is returned when the archive lacks a content.xml entry.
	ErrNoContent = errors.New("content.xml not found in document")
	// ErrNoTable is returned when content.xml holds no table.
	ErrNoTable = errors.New("no table found in document")
)

// Cell is one logical cell after repeat expansion.
type Cell struct {
	ValueType string // office:value-type
	Value     string // office:value
	Text      string // joined text:p content
}

// serialEpoch is day zero of the spreadsheet date serial scheme.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// String returns the cell content preferring the typed value: date serials
// become yyyy-MM-dd text, floats keep their raw value, anything else falls
// back to the visible text.
func (c Cell) String() string {
	if c.Value != "" {
		switch c.ValueType {
		case "date":
			if days, err := strconv.ParseFloat(c.Value, 64); err == nil {
				return serialEpoch.AddDate(0, 0, int(days)).Format("2006-01-02")
			}
		case "float", "percentage":
			return c.Value
		}
	}
	return c.Text
}

// Document is the first table of the first sheet, rows of expanded cells.
type Document struct {
	Rows [][]Cell
}

// Read opens the spreadsheet at path and parses its first table.
func Read(path string) (*Document, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening document %s: %w", path, err)
	}
	defer archive.Close()
	return readArchive(&archive.Reader)
}

// ReadFrom parses a spreadsheet from an in-memory reader.
func ReadFrom(r io.ReaderAt, size int64) (*Document, error) {
	archive, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening document: %w", err)
	}
	return readArchive(archive)
}

func readArchive(archive *zip.Reader) (*Document, error) {
	var content *zip.File
	for _, f := range archive.File {
		if f.Name == "content.xml" {
			content = f
			break
		}
	}
	if content == nil {
		return nil, ErrNoContent
	}

	rc, err := content.Open()
	if err != nil {
		return nil, fmt.Errorf("opening content.xml: %w", err)
	}
	defer rc.Close()

	return parseContent(rc)
}
