package category

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bookdolphin/catalog/internal/platform/database/schema"
	"github.com/bookdolphin/catalog/internal/platform/dberr"
	"github.com/bookdolphin/catalog/internal/platform/postgres"
)

// closureStore implements the [ClosureStore] interface using pgx.
type closureStore struct {
	db postgres.Querier
}

// NewClosureStore constructs a PostgreSQL backed closure store.
func NewClosureStore(db postgres.Querier) ClosureStore {
	return &closureStore{db: db}
}

func (store *closureStore) FindAncestorsWithDepth(ctx context.Context, descendantID int64) ([]AncestorLink, error) {
	query := fmt.Sprintf(
		"SELECT %s, %s FROM %s WHERE %s = $1 ORDER BY %s ASC",
		schema.CategoryClosure.AncestorID, schema.CategoryClosure.Depth,
		schema.CategoryClosure.Table,
		schema.CategoryClosure.DescendantID,
		schema.CategoryClosure.Depth,
	)

	rows, err := store.db.Query(ctx, query, descendantID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list ancestors: %w", err)
	}
	defer rows.Close()

	var links []AncestorLink
	for rows.Next() {
		var link AncestorLink
		if err := rows.Scan(&link.AncestorID, &link.Depth); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan ancestor link: %w", err)
		}
		links = append(links, link)
	}

	return links, rows.Err()
}

func (store *closureStore) FindSubtreeIDsWithDepthDesc(ctx context.Context, ancestorID int64) ([]SubtreeRef, error) {
	// Depth descending puts the leaves first, so batched deletes never
	// remove a parent before its children.
	query := fmt.Sprintf(
		"SELECT %s, %s FROM %s WHERE %s = $1 ORDER BY %s DESC",
		schema.CategoryClosure.DescendantID, schema.CategoryClosure.Depth,
		schema.CategoryClosure.Table,
		schema.CategoryClosure.AncestorID,
		schema.CategoryClosure.Depth,
	)

	rows, err := store.db.Query(ctx, query, ancestorID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list subtree ids: %w", err)
	}
	defer rows.Close()

	var refs []SubtreeRef
	for rows.Next() {
		var ref SubtreeRef
		if err := rows.Scan(&ref.ID, &ref.Depth); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan subtree ref: %w", err)
		}
		refs = append(refs, ref)
	}

	return refs, rows.Err()
}

func (store *closureStore) InsertMany(ctx context.Context, links []ClosureLink) error {
	if len(links) == 0 {
		return nil
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)",
		schema.CategoryClosure.Table,
		schema.CategoryClosure.AncestorID, schema.CategoryClosure.DescendantID, schema.CategoryClosure.Depth,
	)

	// pgx.Batch pipelines the inserts over a single round-trip.
	batch := &pgx.Batch{}
	for _, link := range links {
		batch.Queue(query, link.AncestorID, link.DescendantID, link.Depth)
	}

	results := store.db.SendBatch(ctx, batch)
	if err := results.Close(); err != nil {
		return dberr.Wrap(err, "closure insert")
	}

	return nil
}

func (store *closureStore) DeleteLinksOutsideSubtree(ctx context.Context, subtreeIDs []int64) (int64, error) {
	if len(subtreeIDs) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(
		"DELETE FROM %s WHERE %s = ANY($1) AND NOT (%s = ANY($1))",
		schema.CategoryClosure.Table,
		schema.CategoryClosure.DescendantID,
		schema.CategoryClosure.AncestorID,
	)

	result, err := store.db.Exec(ctx, query, subtreeIDs)
	if err != nil {
		return 0, dberr.Wrap(err, "closure external link delete")
	}

	return result.RowsAffected(), nil
}

func (store *closureStore) DeleteAllTouchingIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(
		"DELETE FROM %s WHERE %s = ANY($1) OR %s = ANY($1)",
		schema.CategoryClosure.Table,
		schema.CategoryClosure.AncestorID,
		schema.CategoryClosure.DescendantID,
	)

	result, err := store.db.Exec(ctx, query, ids)
	if err != nil {
		return 0, dberr.Wrap(err, "closure delete")
	}

	return result.RowsAffected(), nil
}
