package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CategoryWriter interface {
	Upsert(ctx context.Context, name string) (*domain.Category, error)
}

// CSVImporter reads catalog CSV files and inserts/updates products.
//
// Expected header: id,name,description,price,category,material,stock,image.
// A row with an image but no name adds another image to the product above it.
type CSVImporter struct {
	reader     *csv.Reader
	products   ProductWriter
	categories CategoryWriter
	logger     *zap.Logger

	categoryIDs map[string]string
}

func NewCSVImporter(r io.Reader, products ProductWriter, categories CategoryWriter, logger *zap.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVImporter{
		reader:      csvr,
		products:    products,
		categories:  categories,
		logger:      logger.Named("importer"),
		categoryIDs: map[string]string{},
	}
}

type csvRow struct {
	line     int
	ID       string
	Name     string
	Desc     string
	Price    string
	Category string
	Material string
	Stock    string
	Images   []string
}

// Run parses CSV rows and upserts one product per named row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["name"]; !ok {
		return 0, errors.New("header must contain a name column")
	}

	var (
		current  *csvRow
		imported int
		line     = 1
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return imported, fmt.Errorf("read row %d: %w", line, err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}
		row.line = line

		if row.Name != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		// Continuation rows (images) belong to the current product.
		if current != nil {
			current.Images = append(current.Images, row.Images...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	i.logger.Info("import finished", zap.Int("products", imported), zap.Int("categories", len(i.categoryIDs)))
	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.ID != "" {
		if _, err := uuid.Parse(row.ID); err != nil {
			return fmt.Errorf("row %d: invalid id %q", row.line, row.ID)
		}
	}
	price, err := decimal.NewFromString(row.Price)
	if err != nil || price.IsNegative() {
		return fmt.Errorf("row %d: invalid price %q for %q", row.line, row.Price, row.Name)
	}
	stock := 0
	if row.Stock != "" {
		stock, err = strconv.Atoi(row.Stock)
		if err != nil || stock < 0 {
			return fmt.Errorf("row %d: invalid stock %q for %q", row.line, row.Stock, row.Name)
		}
	}

	p := domain.Product{
		ID:            row.ID,
		Name:          row.Name,
		Description:   row.Desc,
		Price:         price,
		Images:        row.Images,
		Material:      row.Material,
		StockQuantity: stock,
	}
	if row.Category != "" {
		id, err := i.categoryID(ctx, row.Category)
		if err != nil {
			return fmt.Errorf("row %d: %w", row.line, err)
		}
		p.CategoryID = &id
	}

	if _, err := i.products.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.Name, err)
	}
	return nil
}

func (i *CSVImporter) categoryID(ctx context.Context, name string) (string, error) {
	if id, ok := i.categoryIDs[name]; ok {
		return id, nil
	}
	if i.categories == nil {
		return "", fmt.Errorf("category %q given but no category store configured", name)
	}
	c, err := i.categories.Upsert(ctx, name)
	if err != nil {
		return "", fmt.Errorf("upsert category %q: %w", name, err)
	}
	i.categoryIDs[name] = c.ID
	return c.ID, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	name := pick(record, index, "name")
	image := pick(record, index, "image")
	if name == "" && image == "" {
		return nil
	}

	row := &csvRow{
		ID:       pick(record, index, "id"),
		Name:     name,
		Desc:     pick(record, index, "description"),
		Price:    pick(record, index, "price"),
		Category: pick(record, index, "category"),
		Material: pick(record, index, "material"),
		Stock:    pick(record, index, "stock"),
	}
	for _, u := range strings.Split(image, ";") {
		if u = strings.TrimSpace(u); u != "" {
			row.Images = append(row.Images, u)
		}
	}
	return row
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
