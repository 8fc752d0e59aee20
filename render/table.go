package render

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/revelaction/sonarfn/stat"
)

const SheetName = "frequency"

// Header is the first row of every frequency table.
var Header = []string{"frame", "lemma", "pos", "count"}

// TableWriter writes the frequency table to a file.
type TableWriter interface {
	Write(path string, rows []stat.Row) error
}

type XLSXWriter struct{}

type CSVWriter struct {
	Comma rune
}

var _ TableWriter = XLSXWriter{}
var _ TableWriter = CSVWriter{}

// NewTableWriter returns the writer for the file extension of path:
// .xlsx, .csv or .tsv.
func NewTableWriter(path string) (TableWriter, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return XLSXWriter{}, nil
	case ".csv":
		return CSVWriter{Comma: ','}, nil
	case ".tsv":
		return CSVWriter{Comma: '\t'}, nil
	}
	return nil, fmt.Errorf("unsupported table format: %s", path)
}

// WriteTable writes rows to path in the format of its extension.
func WriteTable(path string, rows []stat.Row) error {
	w, err := NewTableWriter(path)
	if err != nil {
		return err
	}
	return w.Write(path, rows)
}

func (XLSXWriter) Write(path string, rows []stat.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{row.Frame, row.Lemma, row.Pos, row.Count}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (c CSVWriter) Write(path string, rows []stat.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = c.Comma

	if err := w.Write(Header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write([]string{row.Frame, row.Lemma, row.Pos, strconv.Itoa(row.Count)}); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
