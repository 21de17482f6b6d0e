// Package importer decodes payable accounts from delimited text files.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rocksti/pagafacil/internal/domain"
)

// ErrMissingHeader is returned when the input has no header row.
var ErrMissingHeader = errors.New("missing header row")

type column int

const (
	colDescription column = iota
	colAmount
	colDueDate
	numColumns
)

// headerAliases maps accepted header names (lowercased) to columns.
var headerAliases = map[string]column{
	"description":    colDescription,
	"descricao":      colDescription,
	"amount":         colAmount,
	"valor":          colAmount,
	"duedate":        colDueDate,
	"datavencimento": colDueDate,
}

var columnNames = [numColumns]string{"description", "amount", "dueDate"}

// Parse reads a header-mapped CSV and returns one record per data row, in order.
// Any failure aborts the whole parse.
func Parse(r io.Reader) ([]domain.ImportRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	records := []domain.ImportRecord{}
	for row := 2; ; row++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", row, err)
		}
		if isBlank(fields) {
			continue
		}

		rec, err := unmarshalRecord(fields, index)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func mapHeader(header []string) ([numColumns]int, error) {
	var index [numColumns]int
	for i := range index {
		index[i] = -1
	}

	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if col, ok := headerAliases[name]; ok && index[col] < 0 {
			index[col] = i
		}
	}

	var missing []string
	for col, i := range index {
		if i < 0 {
			missing = append(missing, columnNames[col])
		}
	}
	if len(missing) > 0 {
		return index, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return index, nil
}

func unmarshalRecord(fields []string, index [numColumns]int) (domain.ImportRecord, error) {
	get := func(col column) (string, error) {
		i := index[col]
		if i >= len(fields) {
			return "", fmt.Errorf("missing value for %s", columnNames[col])
		}
		return fields[i], nil
	}

	description, err := get(colDescription)
	if err != nil {
		return domain.ImportRecord{}, err
	}

	rawAmount, err := get(colAmount)
	if err != nil {
		return domain.ImportRecord{}, err
	}
	rawAmount = strings.TrimSpace(rawAmount)
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return domain.ImportRecord{}, fmt.Errorf("parsing amount %q: %w", rawAmount, err)
	}
	if amount.IsNegative() {
		return domain.ImportRecord{}, fmt.Errorf("negative amount %q", rawAmount)
	}

	rawDue, err := get(colDueDate)
	if err != nil {
		return domain.ImportRecord{}, err
	}
	rawDue = strings.TrimSpace(rawDue)
	dueDate, err := domain.ParseDate(rawDue)
	if err != nil {
		return domain.ImportRecord{}, fmt.Errorf("parsing dueDate %q: %w", rawDue, err)
	}

	return domain.ImportRecord{
		Description: description,
		Amount:      amount,
		DueDate:     dueDate,
	}, nil
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
