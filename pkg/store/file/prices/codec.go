package prices

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/price-atlas/pkg/models/domain"
	"github.com/de-tools/price-atlas/pkg/models/store"
	"github.com/de-tools/price-atlas/pkg/services/comparator"
	"github.com/parquet-go/parquet-go"
)

type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

var Columns = []string{
	"reference_date",
	"price",
	"category",
	"subcategory",
	"product_name",
	"vendor_group_name",
}

// ParquetRow is the on-disk layout of a price observation.
type ParquetRow struct {
	ReferenceDate   string   `parquet:"reference_date"`
	Price           *float64 `parquet:"price,optional"`
	Category        string   `parquet:"category,optional"`
	Subcategory     string   `parquet:"subcategory,optional"`
	ProductName     string   `parquet:"product_name,optional"`
	VendorGroupName string   `parquet:"vendor_group_name,optional"`
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatParquet:
		return f, nil
	}
	return "", fmt.Errorf("unsupported file format %q (expected csv or parquet)", s)
}

// DetectFormat picks the format from the file extension.
func DetectFormat(uri string) (Format, error) {
	ext := strings.TrimPrefix(path.Ext(uri), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot detect file format of %q", uri)
	}
	return ParseFormat(ext)
}

func Decode(r io.Reader, format Format) ([]store.PriceRecord, error) {
	switch format {
	case FormatCSV:
		return DecodeCSV(r)
	case FormatParquet:
		return DecodeParquet(r)
	}
	return nil, fmt.Errorf("unsupported file format %q", format)
}

// DecodeCSV reads a headed CSV file. Columns may come in any order, extra
// columns are ignored and an empty price is kept as NULL.
func DecodeCSV(r io.Reader) ([]store.PriceRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []store.PriceRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"reference_date", "price"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: csv header has no %s column", comparator.ErrInvalidDataset, required)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	records := make([]store.PriceRecord, 0)
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		record, err := newRecord(
			field(rec, "reference_date"),
			field(rec, "price"),
			field(rec, "category"),
			field(rec, "subcategory"),
			field(rec, "product_name"),
			field(rec, "vendor_group_name"),
		)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func DecodeParquet(r io.Reader) ([]store.PriceRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read parquet file: %w", err)
	}

	rows, err := parquet.Read[ParquetRow](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("decode parquet file: %w", err)
	}

	records := make([]store.PriceRecord, 0, len(rows))
	for i, row := range rows {
		date, err := parseDate(row.ReferenceDate)
		if err != nil {
			return nil, fmt.Errorf("parquet row %d: %w", i, err)
		}
		records = append(records, store.PriceRecord{
			ReferenceDate:   date,
			Price:           row.Price,
			Category:        row.Category,
			Subcategory:     row.Subcategory,
			ProductName:     row.ProductName,
			VendorGroupName: row.VendorGroupName,
		})
	}
	return records, nil
}

func Encode(w io.Writer, records []store.PriceRecord, format Format) error {
	switch format {
	case FormatCSV:
		return EncodeCSV(w, records)
	case FormatParquet:
		return EncodeParquet(w, records)
	}
	return fmt.Errorf("unsupported file format %q (expected csv or parquet)", format)
}

// EncodeParquet writes records in the layout DecodeParquet reads.
func EncodeParquet(w io.Writer, records []store.PriceRecord) error {
	rows := make([]ParquetRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, ParquetRow{
			ReferenceDate:   domain.Day(r.ReferenceDate).Format(domain.DateLayout),
			Price:           r.Price,
			Category:        r.Category,
			Subcategory:     r.Subcategory,
			ProductName:     r.ProductName,
			VendorGroupName: r.VendorGroupName,
		})
	}
	return parquet.Write(w, rows)
}

// EncodeCSV writes records with the header DecodeCSV expects.
func EncodeCSV(w io.Writer, records []store.PriceRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return err
	}
	for _, r := range records {
		price := ""
		if r.Price != nil {
			price = strconv.FormatFloat(*r.Price, 'f', -1, 64)
		}
		err := writer.Write([]string{
			domain.Day(r.ReferenceDate).Format(domain.DateLayout),
			price,
			r.Category,
			r.Subcategory,
			r.ProductName,
			r.VendorGroupName,
		})
		if err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func newRecord(date, price, category, subcategory, product, vendor string) (store.PriceRecord, error) {
	d, err := parseDate(date)
	if err != nil {
		return store.PriceRecord{}, err
	}

	record := store.PriceRecord{
		ReferenceDate:   d,
		Category:        category,
		Subcategory:     subcategory,
		ProductName:     product,
		VendorGroupName: vendor,
	}
	if price != "" {
		v, err := strconv.ParseFloat(price, 64)
		if err != nil {
			return store.PriceRecord{}, fmt.Errorf("%w: price %q is not a number", comparator.ErrInvalidDataset, price)
		}
		record.Price = &v
	}
	return record, nil
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: reference_date %q is not YYYY-MM-DD", comparator.ErrInvalidDataset, s)
	}
	return d, nil
}
