// PostgreSQL implementation of the tree's data access.
//
// It leans on the features the tree engine needs from Postgres:
//   - ANY($n) array binding for bulk id predicates without IN-list assembly.
//   - Closure-table joins for subtree and ancestor enumeration at any distance.
//   - GROUP BY aggregation for the mega-menu child-count badges in one round-trip.
//   - Unique indexes on (coalesce(parentid,-1), slug) and (path) as the
//     authoritative guard behind the engine's advisory preflight checks.
//
// All methods run on a [postgres.Querier], so the same implementation serves
// pooled reads and the transaction handles opened by the TxManager.

package category

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/bookdolphin/catalog/internal/platform/database/schema"
	"github.com/bookdolphin/catalog/internal/platform/dberr"
	"github.com/bookdolphin/catalog/internal/platform/postgres"
)

// categoryStore implements the [CategoryStore] interface using pgx.
type categoryStore struct {
	db postgres.Querier
}

// NewCategoryStore constructs a PostgreSQL backed category store.
func NewCategoryStore(db postgres.Querier) CategoryStore {
	return &categoryStore{db: db}
}

// categoryColumns is the shared SELECT list for hydrating a full entity.
func categoryColumns() string {
	t := schema.Category
	return strings.Join([]string{
		t.ID, t.ParentID, t.Name, t.Slug, t.Path, t.Depth, t.SortOrder, t.Status, t.ImageURL, t.CreatedAt, t.UpdatedAt,
	}, ", ")
}

// scanCategory hydrates one entity from the shared column list.
func scanCategory(row pgx.Row) (*Category, error) {
	category := &Category{}
	err := row.Scan(
		&category.ID,
		&category.ParentID,
		&category.Name,
		&category.Slug,
		&category.Path,
		&category.Depth,
		&category.SortOrder,
		&category.Status,
		&category.ImageURL,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return category, nil
}

// collectCategories drains a result set using the shared column list.
func collectCategories(rows pgx.Rows) ([]*Category, error) {
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

// # Predicate Queries

func (store *categoryStore) ExistsRootWithSlug(ctx context.Context, slug string) (bool, error) {
	query := fmt.Sprintf(
		"SELECT EXISTS (SELECT 1 FROM %s WHERE %s IS NULL AND %s = $1)",
		schema.Category.Table, schema.Category.ParentID, schema.Category.Slug,
	)

	var exists bool
	if err := store.db.QueryRow(ctx, query, slug).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "root slug check")
	}

	return exists, nil
}

func (store *categoryStore) ExistsChildOf(ctx context.Context, parentID int64, slug string) (bool, error) {
	query := fmt.Sprintf(
		"SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)",
		schema.Category.Table, schema.Category.ParentID, schema.Category.Slug,
	)

	var exists bool
	if err := store.db.QueryRow(ctx, query, parentID, slug).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "sibling slug check")
	}

	return exists, nil
}

func (store *categoryStore) ExistsPath(ctx context.Context, path string) (bool, error) {
	query := fmt.Sprintf(
		"SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)",
		schema.Category.Table, schema.Category.Path,
	)

	var exists bool
	if err := store.db.QueryRow(ctx, query, path).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "path check")
	}

	return exists, nil
}

func (store *categoryStore) ExistsPathOtherThan(ctx context.Context, newPath, oldPath string) (bool, error) {
	query := fmt.Sprintf(
		"SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s <> $2)",
		schema.Category.Table, schema.Category.Path, schema.Category.Path,
	)

	var exists bool
	if err := store.db.QueryRow(ctx, query, newPath, oldPath).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "path check")
	}

	return exists, nil
}

// # Entity Lookups

func (store *categoryStore) FindByID(ctx context.Context, id int64) (*Category, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		categoryColumns(), schema.Category.Table, schema.Category.ID,
	)

	category, err := scanCategory(store.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: failed to find category by id: %w", err)
	}

	return category, nil
}

func (store *categoryStore) FindOneForDetail(ctx context.Context, id int64, activeOnly bool) (*Category, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		categoryColumns(), schema.Category.Table, schema.Category.ID,
	)
	args := []any{id}

	if activeOnly {
		query += fmt.Sprintf(" AND %s = $2", schema.Category.Status)
		args = append(args, StatusActive)
	}

	category, err := scanCategory(store.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: failed to find category for detail: %w", err)
	}

	return category, nil
}

// # Listing Queries

func (store *categoryStore) FindRoots(ctx context.Context, activeOnly bool) ([]*Category, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s IS NULL",
		categoryColumns(), schema.Category.Table, schema.Category.ParentID,
	)
	var args []any

	if activeOnly {
		query += fmt.Sprintf(" AND %s = $1", schema.Category.Status)
		args = append(args, StatusActive)
	}

	query += fmt.Sprintf(" ORDER BY %s ASC, %s ASC", schema.Category.SortOrder, schema.Category.Name)

	rows, err := store.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list roots: %w", err)
	}

	return collectCategories(rows)
}

func (store *categoryStore) FindDirectChildren(ctx context.Context, parentID int64, activeOnly bool) ([]*Category, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		categoryColumns(), schema.Category.Table, schema.Category.ParentID,
	)
	args := []any{parentID}

	if activeOnly {
		query += fmt.Sprintf(" AND %s = $2", schema.Category.Status)
		args = append(args, StatusActive)
	}

	query += fmt.Sprintf(" ORDER BY %s ASC, %s ASC", schema.Category.SortOrder, schema.Category.Name)

	rows, err := store.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list children: %w", err)
	}

	return collectCategories(rows)
}

func (store *categoryStore) FindSiblings(ctx context.Context, parentID *int64, selfID int64, activeOnly bool) ([]*Category, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	// Nil parent selects the other roots; NULL never matches '=' so the two
	// sibling groups need distinct predicates.
	if parentID == nil {
		queryBuilder.WriteString(fmt.Sprintf(
			"SELECT %s FROM %s WHERE %s IS NULL",
			categoryColumns(), schema.Category.Table, schema.Category.ParentID,
		))
	} else {
		queryBuilder.WriteString(fmt.Sprintf(
			"SELECT %s FROM %s WHERE %s = $%d",
			categoryColumns(), schema.Category.Table, schema.Category.ParentID, argID,
		))
		args = append(args, *parentID)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" AND %s <> $%d", schema.Category.ID, argID))
	args = append(args, selfID)
	argID++

	if activeOnly {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.Category.Status, argID))
		args = append(args, StatusActive)
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s ASC, %s ASC", schema.Category.SortOrder, schema.Category.Name))

	rows, err := store.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list siblings: %w", err)
	}

	return collectCategories(rows)
}

func (store *categoryStore) FindBreadcrumbAncestors(ctx context.Context, descendantID int64, activeOnly bool) ([]*Category, error) {
	// Proper ancestors only (closure depth > 0), ordered root first: the
	// root carries the greatest distance to the descendant.
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s c
		JOIN %s cc ON cc.%s = c.%s
		WHERE cc.%s = $1 AND cc.%s > 0
	`,
		prefixColumns("c"),
		schema.Category.Table,
		schema.CategoryClosure.Table, schema.CategoryClosure.AncestorID, schema.Category.ID,
		schema.CategoryClosure.DescendantID, schema.CategoryClosure.Depth,
	)
	args := []any{descendantID}

	if activeOnly {
		query += fmt.Sprintf(" AND c.%s = $2", schema.Category.Status)
		args = append(args, StatusActive)
	}

	query += fmt.Sprintf(" ORDER BY cc.%s DESC", schema.CategoryClosure.Depth)

	rows, err := store.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list breadcrumb ancestors: %w", err)
	}

	return collectCategories(rows)
}

func (store *categoryStore) FindSubtreeDescendants(ctx context.Context, ancestorID int64) ([]*Category, error) {
	// Self-inclusive, closure depth ascending: the subtree root comes first
	// and every parent precedes its children. Move relies on this ordering
	// both for lock acquisition and for prefix rewriting.
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s c
		JOIN %s cc ON cc.%s = c.%s
		WHERE cc.%s = $1
		ORDER BY cc.%s ASC, c.%s ASC
	`,
		prefixColumns("c"),
		schema.Category.Table,
		schema.CategoryClosure.Table, schema.CategoryClosure.DescendantID, schema.Category.ID,
		schema.CategoryClosure.AncestorID,
		schema.CategoryClosure.Depth, schema.Category.ID,
	)

	rows, err := store.db.Query(ctx, query, ancestorID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list subtree: %w", err)
	}

	return collectCategories(rows)
}

func (store *categoryStore) FindMaxDepthOffsetInSubtree(ctx context.Context, ancestorID int64) (int, bool, error) {
	query := fmt.Sprintf(
		"SELECT MAX(%s) FROM %s WHERE %s = $1 AND %s > 0",
		schema.CategoryClosure.Depth, schema.CategoryClosure.Table,
		schema.CategoryClosure.AncestorID, schema.CategoryClosure.Depth,
	)

	var maxOffset *int
	if err := store.db.QueryRow(ctx, query, ancestorID).Scan(&maxOffset); err != nil {
		return 0, false, dberr.Wrap(err, "subtree depth lookup")
	}

	// NULL aggregate means the subtree is a single leaf.
	if maxOffset == nil {
		return 0, false, nil
	}

	return *maxOffset, true, nil
}

func (store *categoryStore) CountChildrenByParents(ctx context.Context, parentIDs []int64, activeOnly bool) (map[int64]int, error) {
	if len(parentIDs) == 0 {
		return map[int64]int{}, nil
	}

	query := fmt.Sprintf(
		"SELECT %s, COUNT(*) FROM %s WHERE %s = ANY($1)",
		schema.Category.ParentID, schema.Category.Table, schema.Category.ParentID,
	)
	args := []any{parentIDs}

	if activeOnly {
		query += fmt.Sprintf(" AND %s = $2", schema.Category.Status)
		args = append(args, StatusActive)
	}

	query += fmt.Sprintf(" GROUP BY %s", schema.Category.ParentID)

	rows, err := store.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to count children: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int, len(parentIDs))
	for rows.Next() {
		var parentID int64
		var count int
		if err := rows.Scan(&parentID, &count); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan child count: %w", err)
		}
		counts[parentID] = count
	}

	return counts, rows.Err()
}

// # Mutations

func (store *categoryStore) Save(ctx context.Context, category *Category) error {
	t := schema.Category
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s, %s, %s
	`,
		t.Table,
		t.ParentID, t.Name, t.Slug, t.Path, t.Depth, t.SortOrder, t.Status, t.ImageURL,
		t.ID, t.CreatedAt, t.UpdatedAt,
	)

	err := store.db.QueryRow(ctx, query,
		category.ParentID,
		category.Name,
		category.Slug,
		category.Path,
		category.Depth,
		category.SortOrder,
		category.Status,
		category.ImageURL,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "category insert")
	}

	return nil
}

func (store *categoryStore) Update(ctx context.Context, category *Category) error {
	t := schema.Category
	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = $1, %s = $2, %s = $3, %s = $4,
			%s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $8
	`,
		t.Table,
		t.ParentID, t.Name, t.Path, t.Depth,
		t.SortOrder, t.Status, t.ImageURL, t.UpdatedAt,
		t.ID,
	)

	result, err := store.db.Exec(ctx, query,
		category.ParentID,
		category.Name,
		category.Path,
		category.Depth,
		category.SortOrder,
		category.Status,
		category.ImageURL,
		category.ID,
	)
	if err != nil {
		return dberr.Wrap(err, "category update")
	}

	if result.RowsAffected() == 0 {
		return ErrCategoryNotFound(category.ID)
	}

	return nil
}

func (store *categoryStore) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(
		"DELETE FROM %s WHERE %s = ANY($1)",
		schema.Category.Table, schema.Category.ID,
	)

	result, err := store.db.Exec(ctx, query, ids)
	if err != nil {
		return 0, dberr.Wrap(err, "category delete")
	}

	return result.RowsAffected(), nil
}

// prefixColumns qualifies the shared column list with a table alias.
func prefixColumns(alias string) string {
	t := schema.Category
	cols := []string{t.ID, t.ParentID, t.Name, t.Slug, t.Path, t.Depth, t.SortOrder, t.Status, t.ImageURL, t.CreatedAt, t.UpdatedAt}
	for i, col := range cols {
		cols[i] = alias + "." + col
	}
	return strings.Join(cols, ", ")
}
