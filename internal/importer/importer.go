// Package importer reads merchant catalog CSV exports and upserts
// product aggregates: base rows, option values with price/weight
// deltas, and curated variants.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"shopcart/internal/domain"
)

type CatalogWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter parses row-typed catalog exports. A `product` row opens
// an aggregate; following `option` and `variant` rows attach to it
// until the next `product` row.
type CSVImporter struct {
	reader    *csv.Reader
	catalog   CatalogWriter
	storeCode string
}

func New(r io.Reader, catalog CatalogWriter, storeCode string) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:    csvr,
		catalog:   catalog,
		storeCode: storeCode,
	}
}

// Run parses CSV rows and upserts products. Returns the number of
// product aggregates imported.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var (
		current  *domain.Product
		imported int
	)

	flush := func() error {
		if current == nil {
			return nil
		}
		if _, err := i.catalog.Upsert(ctx, *current); err != nil {
			return fmt.Errorf("upsert product %s: %w", current.SKU, err)
		}
		imported++
		current = nil
		return nil
	}

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		switch strings.ToLower(field(record, index, "type")) {
		case "product":
			if err := flush(); err != nil {
				return imported, err
			}
			p, err := i.parseProduct(record, index)
			if err != nil {
				return imported, err
			}
			current = p
		case "option":
			if current == nil {
				return imported, errors.New("option row before any product row")
			}
			if err := attachOptionValue(current, record, index); err != nil {
				return imported, fmt.Errorf("product %s: %w", current.SKU, err)
			}
		case "variant":
			if current == nil {
				return imported, errors.New("variant row before any product row")
			}
			if err := attachVariant(current, record, index); err != nil {
				return imported, fmt.Errorf("product %s: %w", current.SKU, err)
			}
		case "":
			// blank separator row
		default:
			return imported, fmt.Errorf("unknown row type %q", field(record, index, "type"))
		}
	}

	if err := flush(); err != nil {
		return imported, err
	}
	return imported, nil
}

func (i *CSVImporter) parseProduct(record []string, index map[string]int) (*domain.Product, error) {
	sku := field(record, index, "sku")
	if sku == "" {
		return nil, errors.New("product row missing sku")
	}
	price, err := ParsePriceCents(field(record, index, "price"))
	if err != nil {
		return nil, fmt.Errorf("product %s: price: %w", sku, err)
	}
	weight, err := parseWeight(field(record, index, "weight"))
	if err != nil {
		return nil, fmt.Errorf("product %s: weight: %w", sku, err)
	}
	return &domain.Product{
		StoreCode:        i.storeCode,
		SKU:              sku,
		Name:             field(record, index, "name"),
		Description:      field(record, index, "description"),
		PriceCents:       price,
		Currency:         strings.ToUpper(field(record, index, "currency")),
		WeightGrams:      weight,
		VariantsRequired: strings.EqualFold(field(record, index, "variants_required"), "true"),
	}, nil
}

func attachOptionValue(p *domain.Product, record []string, index map[string]int) error {
	code := field(record, index, "option")
	valueCode := field(record, index, "value")
	if code == "" || valueCode == "" {
		return errors.New("option row missing option or value code")
	}
	priceDelta, err := ParsePriceCents(field(record, index, "price_delta"))
	if err != nil {
		return fmt.Errorf("option %s=%s: price delta: %w", code, valueCode, err)
	}
	weightDelta, err := parseWeight(field(record, index, "weight_delta"))
	if err != nil {
		return fmt.Errorf("option %s=%s: weight delta: %w", code, valueCode, err)
	}
	required := strings.EqualFold(field(record, index, "required"), "true")

	value := domain.OptionValue{
		OptionCode:       code,
		ValueCode:        valueCode,
		PriceDeltaCents:  priceDelta,
		WeightDeltaGrams: weightDelta,
	}
	for idx := range p.Options {
		if p.Options[idx].Code == code {
			p.Options[idx].Required = p.Options[idx].Required || required
			p.Options[idx].Values = append(p.Options[idx].Values, value)
			return nil
		}
	}
	p.Options = append(p.Options, domain.ProductOption{
		Code:     code,
		Required: required,
		Values:   []domain.OptionValue{value},
	})
	return nil
}

func attachVariant(p *domain.Product, record []string, index map[string]int) error {
	sku := field(record, index, "sku")
	if sku == "" {
		return errors.New("variant row missing sku")
	}
	price, err := ParsePriceCents(field(record, index, "price"))
	if err != nil {
		return fmt.Errorf("variant %s: price: %w", sku, err)
	}
	weight, err := parseWeight(field(record, index, "weight"))
	if err != nil {
		return fmt.Errorf("variant %s: weight: %w", sku, err)
	}

	// Bindings look like "SHOESIZE=ten;COLOR=red". The repository maps
	// the codes to option-value IDs on save; the IDs do not exist yet.
	var valueIDs []string
	for _, pair := range strings.Split(field(record, index, "values"), ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("variant %s: malformed binding %q", sku, pair)
		}
		valueIDs = append(valueIDs, parts[0]+"="+parts[1])
	}

	p.Variants = append(p.Variants, domain.ProductVariant{
		SKU:            sku,
		PriceCents:     price,
		WeightGrams:    weight,
		OptionValueIDs: valueIDs,
	})
	return nil
}

// ParsePriceCents converts a decimal money string like "99.99" to
// cents without going through floating point. A third fraction digit
// rounds half-up. Empty input is zero.
func ParsePriceCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole := s
	frac := ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		whole, frac = s[:idx], s[idx+1:]
	}
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed amount %q", s)
	}

	cents := units * 100
	if frac != "" {
		for _, r := range frac {
			if r < '0' || r > '9' {
				return 0, fmt.Errorf("malformed amount %q", s)
			}
		}
		padded := (frac + "00")[:2]
		f, _ := strconv.ParseInt(padded, 10, 64)
		cents += f
		if len(frac) > 2 && frac[2] >= '5' {
			cents++
		}
	}
	if negative {
		cents = -cents
	}
	return cents, nil
}

func parseWeight(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func field(record []string, index map[string]int, name string) string {
	idx, ok := index[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func headerIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return index
}
