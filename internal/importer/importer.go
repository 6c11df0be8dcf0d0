package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type VoucherWriter interface {
	Upsert(ctx context.Context, v domain.Voucher) error
}

// CSVImporter reads voucher CSV exports and inserts/updates vouchers.
// Expected headers: number, kind, value, percentage, tax_rate, min_cart,
// effective_from, effective_to, max_uses, active. Amount columns hold decimal
// currency values ("10.00"), converted to cents.
type CSVImporter struct {
	reader      *csv.Reader
	voucherRepo VoucherWriter
}

func NewCSVImporter(r io.Reader, repo VoucherWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{reader: csvr, voucherRepo: repo}
}

// Run parses CSV rows and upserts vouchers by number.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		v, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if v == nil {
			continue
		}
		if err := i.voucherRepo.Upsert(ctx, *v); err != nil {
			return imported, fmt.Errorf("upsert voucher %q: %w", v.Number, err)
		}
		imported++
	}
	return imported, nil
}

func parseRow(record []string, index map[string]int) (*domain.Voucher, error) {
	number := pick(record, index, "number")
	if number == "" {
		return nil, nil
	}

	kind := strings.ToLower(pick(record, index, "kind"))
	switch kind {
	case domain.VoucherAbsolute, domain.VoucherPercentage:
	case "":
		kind = domain.VoucherAbsolute
	default:
		return nil, fmt.Errorf("invalid kind for voucher %q: %s", number, kind)
	}

	v := &domain.Voucher{Number: number, Kind: kind, Active: true}

	var err error
	if v.ValueCents, err = parseCents(pick(record, index, "value")); err != nil {
		return nil, fmt.Errorf("voucher %q value: %w", number, err)
	}
	if v.MinCartCents, err = parseCents(pick(record, index, "min_cart")); err != nil {
		return nil, fmt.Errorf("voucher %q min_cart: %w", number, err)
	}
	if s := pick(record, index, "percentage"); s != "" {
		if v.Percentage, err = strconv.ParseFloat(s, 64); err != nil {
			return nil, fmt.Errorf("voucher %q percentage: %w", number, err)
		}
	}
	if s := pick(record, index, "tax_rate"); s != "" {
		if v.TaxRate, err = strconv.ParseFloat(s, 64); err != nil {
			return nil, fmt.Errorf("voucher %q tax_rate: %w", number, err)
		}
	}
	if s := pick(record, index, "max_uses"); s != "" {
		if v.MaxUses, err = strconv.Atoi(s); err != nil {
			return nil, fmt.Errorf("voucher %q max_uses: %w", number, err)
		}
	}
	if s := pick(record, index, "active"); s != "" {
		if v.Active, err = strconv.ParseBool(s); err != nil {
			return nil, fmt.Errorf("voucher %q active: %w", number, err)
		}
	}
	if v.EffectiveFrom, err = parseDate(pick(record, index, "effective_from")); err != nil {
		return nil, fmt.Errorf("voucher %q effective_from: %w", number, err)
	}
	if v.EffectiveTo, err = parseDate(pick(record, index, "effective_to")); err != nil {
		return nil, fmt.Errorf("voucher %q effective_to: %w", number, err)
	}
	return v, nil
}

// parseCents converts a decimal currency string ("10.00") to cents.
func parseCents(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unparseable date %q", s)
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
