package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/bookdolphin/catalog/internal/platform/database/schema"
	"github.com/bookdolphin/catalog/internal/platform/dberr"
	"github.com/bookdolphin/catalog/internal/platform/postgres"
	"github.com/bookdolphin/catalog/pkg/pagination"
)

// productStore implements the [ProductStore] interface using pgx.
type productStore struct {
	db postgres.Querier
}

// NewProductStore constructs a PostgreSQL backed product store.
func NewProductStore(db postgres.Querier) ProductStore {
	return &productStore{db: db}
}

// productColumns qualifies the shared SELECT list with a table alias.
func productColumns(alias string) string {
	t := schema.Product
	cols := []string{t.ID, t.Name, t.Slug, t.Price, t.Status, t.CreatedAt, t.UpdatedAt}
	for i, col := range cols {
		cols[i] = alias + "." + col
	}
	return strings.Join(cols, ", ")
}

// scanProduct hydrates one entity from the shared column list.
func scanProduct(row pgx.Row) (*Product, error) {
	product := &Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.Price,
		&product.Status,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (store *productStore) FindByID(ctx context.Context, id int64) (*Product, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s p WHERE p.%s = $1",
		productColumns("p"), schema.Product.Table, schema.Product.ID,
	)

	product, err := scanProduct(store.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: failed to find product by id: %w", err)
	}

	return product, nil
}

func (store *productStore) ListByCategory(ctx context.Context, categoryID int64, includeDescendants, activeOnly bool, params pagination.Params) ([]*Product, int, error) {

	// Direct attachments join the junction table alone; subtree searches go
	// through the closure table so every descendant category matches the
	// single ancestor predicate. DISTINCT guards against products attached
	// to several categories inside the same subtree.
	var fromClause string
	if includeDescendants {
		fromClause = fmt.Sprintf(
			"FROM %s p JOIN %s pc ON pc.%s = p.%s JOIN %s cc ON cc.%s = pc.%s WHERE cc.%s = $1",
			schema.Product.Table,
			schema.ProductCategory.Table, schema.ProductCategory.ProductID, schema.Product.ID,
			schema.CategoryClosure.Table, schema.CategoryClosure.DescendantID, schema.ProductCategory.CategoryID,
			schema.CategoryClosure.AncestorID,
		)
	} else {
		fromClause = fmt.Sprintf(
			"FROM %s p JOIN %s pc ON pc.%s = p.%s WHERE pc.%s = $1",
			schema.Product.Table,
			schema.ProductCategory.Table, schema.ProductCategory.ProductID, schema.Product.ID,
			schema.ProductCategory.CategoryID,
		)
	}

	args := []any{categoryID}
	if activeOnly {
		fromClause += fmt.Sprintf(" AND p.%s = $2", schema.Product.Status)
		args = append(args, StatusActive)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(DISTINCT p.%s) %s", schema.Product.ID, fromClause)

	var total int
	if err := store.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "product count")
	}
	if total == 0 {
		return []*Product{}, 0, nil
	}

	listQuery := fmt.Sprintf(
		"SELECT DISTINCT %s %s ORDER BY p.%s ASC, p.%s ASC LIMIT $%d OFFSET $%d",
		productColumns("p"), fromClause,
		schema.Product.Name, schema.Product.ID,
		len(args)+1, len(args)+2,
	)
	args = append(args, params.Limit, params.Offset())

	rows, err := store.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	return products, total, rows.Err()
}

func (store *productStore) Save(ctx context.Context, product *Product) error {
	t := schema.Product
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s, %s
	`,
		t.Table,
		t.Name, t.Slug, t.Price, t.Status,
		t.ID, t.CreatedAt, t.UpdatedAt,
	)

	err := store.db.QueryRow(ctx, query,
		product.Name,
		product.Slug,
		product.Price,
		product.Status,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "product insert")
	}

	return nil
}

func (store *productStore) CountInCategories(ctx context.Context, categoryIDs []int64) (int64, error) {
	if len(categoryIDs) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE %s = ANY($1)",
		schema.ProductCategory.Table, schema.ProductCategory.CategoryID,
	)

	var count int64
	if err := store.db.QueryRow(ctx, query, categoryIDs).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "product attachment count")
	}

	return count, nil
}

func (store *productStore) ReplaceCategories(ctx context.Context, productID int64, categoryIDs []int64) error {
	deleteQuery := fmt.Sprintf(
		"DELETE FROM %s WHERE %s = $1",
		schema.ProductCategory.Table, schema.ProductCategory.ProductID,
	)
	if _, err := store.db.Exec(ctx, deleteQuery, productID); err != nil {
		return dberr.Wrap(err, "product attachment delete")
	}

	if len(categoryIDs) == 0 {
		return nil
	}

	insertQuery := fmt.Sprintf(
		"INSERT INTO %s (%s, %s) VALUES ($1, $2)",
		schema.ProductCategory.Table, schema.ProductCategory.ProductID, schema.ProductCategory.CategoryID,
	)

	batch := &pgx.Batch{}
	for _, categoryID := range categoryIDs {
		batch.Queue(insertQuery, productID, categoryID)
	}

	results := store.db.SendBatch(ctx, batch)
	if err := results.Close(); err != nil {
		return dberr.Wrap(err, "product attachment insert")
	}

	return nil
}
