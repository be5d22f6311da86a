package category

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bookdolphin/catalog/internal/platform/dberr"
	"github.com/bookdolphin/catalog/internal/platform/validate"
	"github.com/bookdolphin/catalog/pkg/pointer"
	"github.com/bookdolphin/catalog/pkg/slice"
	"github.com/bookdolphin/catalog/pkg/slug"
)

// # Service Layer

// Service is the transactional tree engine. It coordinates the category and
// closure stores to keep the three tree representations consistent across
// Create, Move, HardDeleteSubtree, and UpdateBasic.
type Service struct {
	txManager TxManager
	products  ProductCounter // optional delete guard, nil = no check
	logger    *slog.Logger
}

// NewService constructs a new [Service].
//
// products may be nil; when set, HardDeleteSubtree refuses to remove
// subtrees that products still reference.
func NewService(txManager TxManager, products ProductCounter, logger *slog.Logger) *Service {
	return &Service{
		txManager: txManager,
		products:  products,
		logger:    logger,
	}
}

// Unique index names the commit-time error translation keys on.
const (
	constraintParentSlug = "uk_category_parent_slug"
	constraintPath       = "uk_category_path"
)

// translateUniqueViolation normalises a commit-time unique violation into the
// matching semantic error. The preflight checks catch most collisions first;
// this path handles the race where a conflicting write slips between the
// preflight and the insert.
func translateUniqueViolation(err error, parentID *int64, slugValue, path string) error {
	if !dberr.IsUniqueViolation(err) {
		return err
	}

	switch dberr.ConstraintName(err) {
	case constraintParentSlug:
		if parentID == nil {
			return ErrDuplicateSlugByRoot(slugValue)
		}
		return ErrDuplicateSlugByParent(*parentID, slugValue)
	case constraintPath:
		return ErrAlreadyPath(path)
	}

	return err
}

// # Create

/*
Create inserts a new category and its closure rows in one transaction.

Description: The new node is attached under the optional parent, its
materialised path is derived from the parent's, and the closure table gains
the self-row plus one row per ancestor. Sibling-slug and global-path
preflight checks give friendly errors; the unique indexes remain the
authoritative guard under concurrency.

Parameters:
  - ctx: context.Context
  - input: CreateInput (parent, raw name and slug, optional ordering/status/image)

Returns:
  - *CreateResult: The persisted state including the assigned id
  - error: One of the taxonomy kinds, or infrastructure failures
*/
func (service *Service) Create(ctx context.Context, input CreateInput) (*CreateResult, error) {

	// Boundary validation before any database work. The name limit counts
	// the code points that will actually be stored, so trim first.
	name := strings.TrimSpace(input.Name)
	validator := &validate.Validator{}
	validator.Required("name", name).MaxLen("name", name, NameMaxLength)
	validator.Required("slug", input.Slug).MaxLen("slug", input.Slug, 50)
	if input.ImageURL != nil {
		validator.MaxLen("image_url", *input.ImageURL, ImageURLMaxLength)
	}
	if input.SortOrder != nil {
		validator.Custom("sort_order", *input.SortOrder < 0, "Must not be negative")
	}
	if input.Status != nil {
		validator.Custom("status", !input.Status.IsValid(), "Must be one of: ACTIVE, READY, DISABLED")
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Canonicalise the slug; defaults are sortOrder=0 and status=READY
	canonicalSlug := slug.Normalize(input.Slug)
	if canonicalSlug == "" {
		return nil, ErrEmptySlug()
	}

	sortOrder := pointer.Fallback(input.SortOrder, 0)
	status := pointer.Fallback(input.Status, StatusReady)

	var result *CreateResult
	err := service.txManager.InTx(ctx, func(ctx context.Context, stores Stores) error {

		// 1. Load the parent when given
		var parent *Category
		if input.ParentID != nil {
			found, err := stores.Categories.FindByID(ctx, *input.ParentID)
			if err != nil {
				return err
			}
			if found == nil {
				return ErrParentCategoryNotFound(*input.ParentID)
			}
			parent = found
		}

		// 2. Depth bound: roots are 0, children are parent+1
		newDepth := 0
		if parent != nil {
			newDepth = parent.Depth + 1
		}
		if newDepth > MaxDepth {
			return ErrMaxDepthExceeded(MaxDepth)
		}

		// 3. Advisory uniqueness preflight (friendlier errors than 23505)
		path := "/" + canonicalSlug
		if parent != nil {
			path = parent.Path + "/" + canonicalSlug
		}
		if len(path) > PathMaxLength {
			return ErrPathLengthMaxOver()
		}

		if parent == nil {
			taken, err := stores.Categories.ExistsRootWithSlug(ctx, canonicalSlug)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateSlugByRoot(canonicalSlug)
			}
		} else {
			taken, err := stores.Categories.ExistsChildOf(ctx, parent.ID, canonicalSlug)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateSlugByParent(parent.ID, canonicalSlug)
			}
		}

		pathTaken, err := stores.Categories.ExistsPath(ctx, path)
		if err != nil {
			return err
		}
		if pathTaken {
			return ErrAlreadyPath(path)
		}

		// 4. Persist the node
		var node *Category
		if parent == nil {
			node = NewRoot(name, canonicalSlug, sortOrder, status, input.ImageURL)
		} else {
			node = NewChild(name, canonicalSlug, parent, sortOrder, status, input.ImageURL)
		}
		if err := stores.Categories.Save(ctx, node); err != nil {
			return translateUniqueViolation(err, input.ParentID, canonicalSlug, path)
		}

		// 5. Closure rows: self plus every parent ancestor shifted by one
		links := []ClosureLink{{AncestorID: node.ID, DescendantID: node.ID, Depth: 0}}
		if parent != nil {
			parentAncestors, err := stores.Closures.FindAncestorsWithDepth(ctx, parent.ID)
			if err != nil {
				return err
			}
			for _, ancestor := range parentAncestors {
				links = append(links, ClosureLink{
					AncestorID:   ancestor.AncestorID,
					DescendantID: node.ID,
					Depth:        ancestor.Depth + 1,
				})
			}
		}
		if err := stores.Closures.InsertMany(ctx, links); err != nil {
			return err
		}

		result = &CreateResult{
			ID:        node.ID,
			ParentID:  node.ParentID,
			Name:      node.Name,
			Slug:      node.Slug,
			Path:      node.Path,
			Depth:     node.Depth,
			SortOrder: node.SortOrder,
			Status:    node.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("category_created",
		slog.Int64("category_id", result.ID),
		slog.String("path", result.Path),
	)

	return result, nil
}

// # Move

/*
Move reparents a subtree, rewriting depths, paths, and closure links.

Description: The node keeps its slug; the whole subtree keeps its internal
shape. Only the links crossing the subtree boundary change: external
ancestor rows are purged and re-derived from the destination's ancestor
chain. Depths and paths shift uniformly, so a single prefix substitution
rewrites every member.

Parameters:
  - ctx: context.Context
  - id: int64 (the subtree root to move)
  - newParentID: *int64 (nil promotes to root)

Returns:
  - *MoveResult: The node's new position plus a fresh breadcrumb
  - error: One of the taxonomy kinds, or infrastructure failures
*/
func (service *Service) Move(ctx context.Context, id int64, newParentID *int64) (*MoveResult, error) {

	var result *MoveResult
	err := service.txManager.InTx(ctx, func(ctx context.Context, stores Stores) error {

		// 1. Load the node and the destination parent
		node, err := stores.Categories.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if node == nil {
			return ErrCategoryNotFound(id)
		}

		var newParent *Category
		if newParentID != nil {
			if *newParentID == id {
				return ErrInvalidReparentSelf()
			}
			found, err := stores.Categories.FindByID(ctx, *newParentID)
			if err != nil {
				return err
			}
			if found == nil {
				return ErrParentCategoryNotFound(*newParentID)
			}
			newParent = found
		}

		// 2. Cycle guard: the destination must not sit inside the subtree
		subtree, err := stores.Categories.FindSubtreeDescendants(ctx, id)
		if err != nil {
			return err
		}
		if newParent != nil {
			for _, member := range subtree {
				if member.ID == newParent.ID {
					return ErrInvalidReparentTarget(id, newParent.ID)
				}
			}
		}

		// 3. Sibling slug uniqueness at the destination, slug unchanged
		slugValue := node.Slug
		if newParent == nil {
			if node.ParentID != nil {
				taken, err := stores.Categories.ExistsRootWithSlug(ctx, slugValue)
				if err != nil {
					return err
				}
				if taken {
					return ErrDuplicateSlugByRoot(slugValue)
				}
			}
		} else if node.ParentID == nil || *node.ParentID != newParent.ID {
			taken, err := stores.Categories.ExistsChildOf(ctx, newParent.ID, slugValue)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateSlugByParent(newParent.ID, slugValue)
			}
		}

		// 4. Depth bound for the deepest subtree member at the destination
		subtreeMaxOffset, _, err := stores.Categories.FindMaxDepthOffsetInSubtree(ctx, id)
		if err != nil {
			return err
		}
		newParentDepth := -1 // base for root promotion
		if newParent != nil {
			newParentDepth = newParent.Depth
		}
		if newParentDepth+1+subtreeMaxOffset > MaxDepth {
			return ErrMaxDepthExceeded(MaxDepth)
		}

		// 5. Prefix substitution targets
		oldPrefix := node.Path
		newPrefix := "/" + slugValue
		if newParent != nil {
			newPrefix = newParent.Path + "/" + slugValue
		}
		if oldPrefix != newPrefix {
			taken, err := stores.Categories.ExistsPathOtherThan(ctx, newPrefix, oldPrefix)
			if err != nil {
				return err
			}
			if taken {
				return ErrAlreadyPath(newPrefix)
			}
		}

		// 6. Rewrite parent, depth, and path across the subtree.
		// The subtree arrives closure-depth ascending, so the node itself is
		// first and every parent is rewritten before its children.
		baseDepth := 0
		if newParent != nil {
			baseDepth = newParent.Depth + 1
		}
		nodeOldDepth := node.Depth

		var movedRoot *Category
		for _, member := range subtree {
			offset := member.Depth - nodeOldDepth
			if member.ID == node.ID {
				if err := member.Reparent(newParent); err != nil {
					return err
				}
				movedRoot = member
			}
			if err := member.SetDepth(baseDepth + offset); err != nil {
				return err
			}

			memberPath := member.Path
			if len(memberPath) < len(oldPrefix) || memberPath[:len(oldPrefix)] != oldPrefix {
				return ErrSubTreeInconsistency(memberPath)
			}
			newPath := newPrefix + memberPath[len(oldPrefix):]

			// Per-row collision defence; the unique index is the final gate
			if memberPath != newPath {
				taken, err := stores.Categories.ExistsPath(ctx, newPath)
				if err != nil {
					return err
				}
				if taken {
					return ErrAlreadyPath(newPath)
				}
			}
			if err := member.SetPath(newPath); err != nil {
				return err
			}

			if err := stores.Categories.Update(ctx, member); err != nil {
				return translateUniqueViolation(err, newParentID, slugValue, newPath)
			}
		}

		// 7. Closure repair: only boundary-crossing rows change.
		// 7a. Purge stale external ancestor links.
		subtreeIDs := slice.Map(subtree, func(member *Category) int64 { return member.ID })
		if _, err := stores.Closures.DeleteLinksOutsideSubtree(ctx, subtreeIDs); err != nil {
			return err
		}

		// 7b. Re-derive external links from the destination's ancestor chain
		// (self-inclusive, so the new parent itself is the depth-0 entry).
		if newParent != nil {
			ancestors, err := stores.Closures.FindAncestorsWithDepth(ctx, newParent.ID)
			if err != nil {
				return err
			}

			links := make([]ClosureLink, 0, len(ancestors)*len(subtree))
			for _, ancestor := range ancestors {
				for _, member := range subtree {
					offset := member.Depth - baseDepth
					links = append(links, ClosureLink{
						AncestorID:   ancestor.AncestorID,
						DescendantID: member.ID,
						Depth:        ancestor.Depth + 1 + offset,
					})
				}
			}
			if err := stores.Closures.InsertMany(ctx, links); err != nil {
				return err
			}
		}

		if movedRoot == nil {
			return ErrSubTreeInconsistency(node.Path)
		}

		// 8. Fresh breadcrumb for the response (admin view, no status filter)
		ancestors, err := stores.Categories.FindBreadcrumbAncestors(ctx, movedRoot.ID, false)
		if err != nil {
			return err
		}

		result = &MoveResult{
			ID:          movedRoot.ID,
			NewParentID: movedRoot.ParentID,
			Path:        movedRoot.Path,
			Depth:       movedRoot.Depth,
			Breadcrumb:  toBreadcrumb(ancestors),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("category_moved",
		slog.Int64("category_id", result.ID),
		slog.String("path", result.Path),
		slog.Int("depth", result.Depth),
	)

	return result, nil
}

// # Hard Delete

/*
HardDeleteSubtree removes a category and every descendant.

Description: The subtree is enumerated leaves-first via the closure table.
All closure rows touching any member are removed, then the category rows
are deleted depth by depth in bounded batches so child rows never outlive
their closure links and parameter lists stay within driver limits.

Parameters:
  - ctx: context.Context
  - id: int64 (the subtree root)

Returns:
  - int: The number of category rows removed
  - error: CATEGORY_NOT_FOUND, CATEGORY_IN_USE (with a guard), or infrastructure failures
*/
func (service *Service) HardDeleteSubtree(ctx context.Context, id int64) (int, error) {

	totalDeleted := 0
	err := service.txManager.InTx(ctx, func(ctx context.Context, stores Stores) error {

		// 1. Target must exist
		node, err := stores.Categories.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if node == nil {
			return ErrCategoryNotFound(id)
		}

		// 2. Subtree ids, deepest first
		refs, err := stores.Closures.FindSubtreeIDsWithDepthDesc(ctx, id)
		if err != nil {
			return err
		}
		if len(refs) == 0 {
			return nil
		}

		allIDs := slice.Map(refs, func(ref SubtreeRef) int64 { return ref.ID })

		// 3. Optional association guard
		if service.products != nil {
			count, err := service.products.CountInCategories(ctx, allIDs)
			if err != nil {
				return err
			}
			if count > 0 {
				return ErrCategoryInUse(count)
			}
		}

		// 4. Closure rows go first so no dangling links survive a partial batch
		if _, err := stores.Closures.DeleteAllTouchingIDs(ctx, allIDs); err != nil {
			return err
		}

		// 5. Category rows, one depth level at a time, children before parents
		byDepth := make(map[int][]int64)
		var depthOrder []int
		for _, ref := range refs {
			if _, seen := byDepth[ref.Depth]; !seen {
				depthOrder = append(depthOrder, ref.Depth)
			}
			byDepth[ref.Depth] = append(byDepth[ref.Depth], ref.ID)
		}

		for _, depth := range depthOrder {
			for _, batch := range slice.Chunk(byDepth[depth], DeleteBatchSize) {
				deleted, err := stores.Categories.DeleteByIDs(ctx, batch)
				if err != nil {
					return err
				}
				totalDeleted += int(deleted)
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	service.logger.Info("category_subtree_deleted",
		slog.Int64("category_id", id),
		slog.Int("deleted_count", totalDeleted),
	)

	return totalDeleted, nil
}

// # Partial Update

/*
UpdateBasic applies a partial attribute update to a single category.

Description: Nil fields are left untouched. Slug and path are immutable
here; changing position or identity requires Move or Create semantics.

Parameters:
  - ctx: context.Context
  - id: int64
  - input: UpdateInput (optional name, image, ordering, status)

Returns:
  - error: CATEGORY_NOT_FOUND, attribute violations, or infrastructure failures
*/
func (service *Service) UpdateBasic(ctx context.Context, id int64, input UpdateInput) error {

	// Length bounds are checked up front so an oversized value surfaces as a
	// validation error instead of a database truncation failure.
	validator := &validate.Validator{}
	if input.Name != nil {
		validator.MaxLen("name", strings.TrimSpace(*input.Name), NameMaxLength)
	}
	if input.ImageURL != nil {
		validator.MaxLen("image_url", *input.ImageURL, ImageURLMaxLength)
	}
	if err := validator.Err(); err != nil {
		return err
	}

	err := service.txManager.InTx(ctx, func(ctx context.Context, stores Stores) error {
		node, err := stores.Categories.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if node == nil {
			return ErrCategoryNotFound(id)
		}

		if err := node.ChangeName(input.Name); err != nil {
			return err
		}
		if err := node.ChangeImageURL(input.ImageURL); err != nil {
			return err
		}
		if err := node.ChangeSortOrder(input.SortOrder); err != nil {
			return err
		}
		if err := node.ChangeStatus(input.Status); err != nil {
			return err
		}

		return stores.Categories.Update(ctx, node)
	})
	if err != nil {
		return err
	}

	service.logger.Info("category_updated", slog.Int64("category_id", id))
	return nil
}
