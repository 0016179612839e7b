package ods

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contentHeader = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content
    xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
    xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0"
    xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0">
  <office:body><office:spreadsheet>`

const contentFooter = `</office:spreadsheet></office:body></office:document-content>`

func buildArchive(t *testing.T, entries map[string]string) (*bytes.Reader, int64) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return bytes.NewReader(buf.Bytes()), int64(buf.Len())
}

func parseTables(t *testing.T, tablesXML string) *Document {
	t.Helper()
	r, size := buildArchive(t, map[string]string{
		"mimetype":    "application/vnd.oasis.opendocument.spreadsheet",
		"content.xml": contentHeader + tablesXML + contentFooter,
	})
	doc, err := ReadFrom(r, size)
	require.NoError(t, err)
	return doc
}

func TestReadFromParsesRows(t *testing.T) {
	doc := parseTables(t, `<table:table table:name="Hoja1">
		<table:table-row>
			<table:table-cell office:value-type="string"><text:p>Nombre</text:p></table:table-cell>
			<table:table-cell office:value-type="string"><text:p>Edad</text:p></table:table-cell>
		</table:table-row>
		<table:table-row>
			<table:table-cell office:value-type="string"><text:p>Laura</text:p></table:table-cell>
			<table:table-cell office:value-type="float" office:value="29"><text:p>29</text:p></table:table-cell>
		</table:table-row>
	</table:table>`)

	require.Len(t, doc.Rows, 2)
	require.Len(t, doc.Rows[0], 2)
	assert.Equal(t, "Nombre", doc.Rows[0][0].String())
	assert.Equal(t, "Laura", doc.Rows[1][0].String())
	assert.Equal(t, "29", doc.Rows[1][1].String())
	assert.Equal(t, "float", doc.Rows[1][1].ValueType)
}

func TestOnlyFirstTableIsRead(t *testing.T) {
	doc := parseTables(t, `<table:table table:name="Primera">
		<table:table-row><table:table-cell><text:p>uno</text:p></table:table-cell></table:table-row>
	</table:table>
	<table:table table:name="Segunda">
		<table:table-row><table:table-cell><text:p>dos</text:p></table:table-cell></table:table-row>
	</table:table>`)

	require.Len(t, doc.Rows, 1)
	assert.Equal(t, "uno", doc.Rows[0][0].String())
}

func TestRepeatedCellsAreExpanded(t *testing.T) {
	doc := parseTables(t, `<table:table table:name="Hoja1">
		<table:table-row>
			<table:table-cell table:number-columns-repeated="3"><text:p></text:p></table:table-cell>
			<table:table-cell><text:p>D</text:p></table:table-cell>
		</table:table-row>
	</table:table>`)

	require.Len(t, doc.Rows, 1)
	require.Len(t, doc.Rows[0], 4)
	assert.Empty(t, doc.Rows[0][0].String())
	assert.Equal(t, "D", doc.Rows[0][3].String())
}

func TestMultipleParagraphsJoined(t *testing.T) {
	doc := parseTables(t, `<table:table table:name="Hoja1">
		<table:table-row>
			<table:table-cell><text:p>línea uno</text:p><text:p>línea dos</text:p></table:table-cell>
		</table:table-row>
	</table:table>`)

	require.Len(t, doc.Rows, 1)
	assert.Equal(t, "línea uno línea dos", doc.Rows[0][0].String())
}

func TestDateSerialRendering(t *testing.T) {
	// Serial 2 is two days after the 1899-12-30 epoch.
	cell := Cell{ValueType: "date", Value: "2", Text: "irrelevant"}
	assert.Equal(t, "1900-01-01", cell.String())

	// A non-numeric date value falls back to the visible text.
	cell = Cell{ValueType: "date", Value: "not-a-serial", Text: "2026-06-18"}
	assert.Equal(t, "2026-06-18", cell.String())
}

func TestMissingContentXML(t *testing.T) {
	r, size := buildArchive(t, map[string]string{"mimetype": "application/zip"})
	_, err := ReadFrom(r, size)
	assert.True(t, errors.Is(err, ErrNoContent))
}

func TestNoTableInContent(t *testing.T) {
	r, size := buildArchive(t, map[string]string{
		"content.xml": contentHeader + contentFooter,
	})
	_, err := ReadFrom(r, size)
	assert.True(t, errors.Is(err, ErrNoTable))
}
