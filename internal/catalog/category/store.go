package category

import "context"

// # Closure Table Types

// ClosureLink is a single (ancestor, descendant, depth) row.
// Depth 0 rows are self-links; depth k asserts the ancestor sits k edges
// above the descendant.
type ClosureLink struct {
	AncestorID   int64
	DescendantID int64
	Depth        int
}

// AncestorLink pairs an ancestor id with its distance to a fixed descendant.
type AncestorLink struct {
	AncestorID int64
	Depth      int
}

// SubtreeRef pairs a subtree member id with its distance from the subtree root.
type SubtreeRef struct {
	ID    int64
	Depth int
}

// # Category Data Access

// CategoryStore defines the persistence contract for category rows.
//
// Every operation participates in the caller's transaction. Lookup methods
// return (nil, nil) when the row is absent; listing methods return rows in
// sortorder ASC, name ASC order unless noted otherwise.
type CategoryStore interface {

	/*
		ExistsRootWithSlug reports whether some root category carries the slug.

		Parameters:
		  - ctx: context.Context
		  - slug: string (canonical slug)

		Returns:
		  - bool: true if a root with the slug exists
		  - error: Database retrieval failures
	*/
	ExistsRootWithSlug(ctx context.Context, slug string) (bool, error)

	/*
		ExistsChildOf reports whether the parent already has a child with the slug.
	*/
	ExistsChildOf(ctx context.Context, parentID int64, slug string) (bool, error)

	/*
		ExistsPath reports whether some category carries the exact path.
	*/
	ExistsPath(ctx context.Context, path string) (bool, error)

	/*
		ExistsPathOtherThan reports whether newPath exists on some row whose
		current path is not oldPath. Used by Move to ignore the subtree root's
		own row during the global path preflight.
	*/
	ExistsPathOtherThan(ctx context.Context, newPath, oldPath string) (bool, error)

	/*
		FindByID returns the category with the given id, or (nil, nil) if absent.
	*/
	FindByID(ctx context.Context, id int64) (*Category, error)

	/*
		FindOneForDetail returns the category for the detail view.

		Parameters:
		  - ctx: context.Context
		  - id: int64
		  - activeOnly: bool (when true, non-ACTIVE rows are treated as absent)

		Returns:
		  - *Category: The hydrated entity, or nil when missing or filtered out
		  - error: Database retrieval failures
	*/
	FindOneForDetail(ctx context.Context, id int64, activeOnly bool) (*Category, error)

	/*
		FindRoots returns all root categories.
	*/
	FindRoots(ctx context.Context, activeOnly bool) ([]*Category, error)

	/*
		FindDirectChildren returns the immediate children of a parent.
	*/
	FindDirectChildren(ctx context.Context, parentID int64, activeOnly bool) ([]*Category, error)

	/*
		FindSiblings returns the other categories sharing the same parent.
		A nil parentID selects the other roots. selfID is always excluded.
	*/
	FindSiblings(ctx context.Context, parentID *int64, selfID int64, activeOnly bool) ([]*Category, error)

	/*
		FindBreadcrumbAncestors returns the proper ancestors of a category
		ordered from root down to parent (closure depth descending, self-row
		skipped). With activeOnly, non-ACTIVE ancestors are omitted, which may
		produce a sparse breadcrumb on customer-facing views.
	*/
	FindBreadcrumbAncestors(ctx context.Context, descendantID int64, activeOnly bool) ([]*Category, error)

	/*
		FindSubtreeDescendants returns the subtree rooted at ancestorID,
		self-inclusive, ordered by closure depth ascending.
	*/
	FindSubtreeDescendants(ctx context.Context, ancestorID int64) ([]*Category, error)

	/*
		FindMaxDepthOffsetInSubtree returns the maximum closure depth under
		ancestorID.

		Returns:
		  - int: The offset to the deepest descendant
		  - bool: false when the subtree is a single leaf (no offset rows)
		  - error: Database retrieval failures
	*/
	FindMaxDepthOffsetInSubtree(ctx context.Context, ancestorID int64) (int, bool, error)

	/*
		CountChildrenByParents aggregates direct-child counts for a set of
		parents in one query. Parents with no children have no map entry.
	*/
	CountChildrenByParents(ctx context.Context, parentIDs []int64, activeOnly bool) (map[int64]int, error)

	/*
		Save persists a new category and assigns its id.
	*/
	Save(ctx context.Context, category *Category) error

	/*
		Update persists all mutable fields of an existing category, including
		the structural triple (parentid, path, depth) rewritten by Move.
	*/
	Update(ctx context.Context, category *Category) error

	/*
		DeleteByIDs removes the given rows and returns the number removed.
		Callers are expected to chunk large id sets.
	*/
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
}

// # Closure Data Access

// ClosureStore defines the persistence contract for the closure table.
type ClosureStore interface {

	/*
		FindAncestorsWithDepth returns every (ancestor, depth) pair for the
		descendant, self-row included, ordered by depth ascending.
	*/
	FindAncestorsWithDepth(ctx context.Context, descendantID int64) ([]AncestorLink, error)

	/*
		FindSubtreeIDsWithDepthDesc returns the subtree member ids with their
		distance from ancestorID, self-inclusive, ordered by depth descending.
		Used for leaves-first deletion.
	*/
	FindSubtreeIDsWithDepthDesc(ctx context.Context, ancestorID int64) ([]SubtreeRef, error)

	/*
		InsertMany bulk-inserts closure rows.
	*/
	InsertMany(ctx context.Context, links []ClosureLink) error

	/*
		DeleteLinksOutsideSubtree removes rows whose descendant is inside the
		subtree and whose ancestor is outside. Internal self and
		internal-internal rows are preserved; their depths are invariant
		under reparenting.
	*/
	DeleteLinksOutsideSubtree(ctx context.Context, subtreeIDs []int64) (int64, error)

	/*
		DeleteAllTouchingIDs removes every row referencing any of the ids on
		either side.
	*/
	DeleteAllTouchingIDs(ctx context.Context, ids []int64) (int64, error)
}

// # Transaction Boundary

// Stores bundles the per-transaction store set handed to [TxManager] callbacks.
type Stores struct {
	Categories CategoryStore
	Closures   ClosureStore
}

// TxManager runs a unit of work inside a single database transaction.
//
// The stores passed to fn are bound to that transaction; an error from fn
// rolls everything back. This is the engine's only transactional surface,
// which keeps the tree algorithms testable against in-memory stores.
type TxManager interface {
	InTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}

// ProductCounter is the delete-guard extension hook.
//
// When installed on the service, HardDeleteSubtree refuses to remove a
// subtree that products still reference. The default policy is no check.
type ProductCounter interface {
	CountInCategories(ctx context.Context, categoryIDs []int64) (int64, error)
}
