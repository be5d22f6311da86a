package category

import (
	"net/http"

	"github.com/bookdolphin/catalog/internal/platform/apperr"
)

// # Error Taxonomy
//
// Closed set of failure kinds for the category tree. Each constructor renders
// a message template with its parameters and carries an HTTP status affinity;
// the translation to a response is done by the respond package.

// ErrParentCategoryNotFound signals that the referenced parent does not exist.
func ErrParentCategoryNotFound(parentID int64) *apperr.AppError {
	return apperr.New("PARENT_CATEGORY_NOT_FOUND", http.StatusNotFound,
		"category: parent category not found: %d", parentID)
}

// ErrCategoryNotFound signals that the target category does not exist.
func ErrCategoryNotFound(id int64) *apperr.AppError {
	return apperr.New("CATEGORY_NOT_FOUND", http.StatusNotFound,
		"category: category not found: %d", id)
}

// ErrDuplicateSlugByRoot signals a slug collision among root categories.
func ErrDuplicateSlugByRoot(slug string) *apperr.AppError {
	return apperr.New("DUPLICATE_SLUG_BY_ROOT", http.StatusConflict,
		"category: duplicate slug at root: %s", slug)
}

// ErrDuplicateSlugByParent signals a slug collision among siblings.
func ErrDuplicateSlugByParent(parentID int64, slug string) *apperr.AppError {
	return apperr.New("DUPLICATE_SLUG_BY_PARENT", http.StatusConflict,
		"category: slug already exists under parent %d: %s", parentID, slug)
}

// ErrEmptySlug signals that slug normalisation produced an empty result.
func ErrEmptySlug() *apperr.AppError {
	return apperr.New("EMPTY_SLUG", http.StatusBadRequest,
		"category: slug is empty")
}

// ErrMaxDepthExceeded signals that an operation would exceed [MaxDepth].
func ErrMaxDepthExceeded(maxDepth int) *apperr.AppError {
	return apperr.New("MAX_DEPTH_EXCEEDED", http.StatusBadRequest,
		"category: maximum depth exceeded, max depth: %d", maxDepth)
}

// ErrAlreadyPath signals a global materialised-path collision.
func ErrAlreadyPath(path string) *apperr.AppError {
	return apperr.New("ALREADY_PATH", http.StatusConflict,
		"category: path already exists: %s", path)
}

// ErrNameNotNull signals a blank display name.
func ErrNameNotNull() *apperr.AppError {
	return apperr.New("NAME_NOT_NULL", http.StatusBadRequest,
		"category: name must not be empty")
}

// ErrSortOrderGreaterOrEqualZero signals a negative ordering weight.
func ErrSortOrderGreaterOrEqualZero() *apperr.AppError {
	return apperr.New("SORT_ORDER_GREATER_OR_EQUAL_ZERO", http.StatusBadRequest,
		"category: sort order must be greater than or equal to 0")
}

// ErrInvalidReparentTarget signals an attempted move into the node's own subtree.
func ErrInvalidReparentTarget(id, newParentID int64) *apperr.AppError {
	return apperr.New("INVALID_REPARENT_TARGET", http.StatusBadRequest,
		"category: cannot move into own subtree: id=%d, newParentId=%d", id, newParentID)
}

// ErrInvalidReparentSelf signals a node set as its own parent.
func ErrInvalidReparentSelf() *apperr.AppError {
	return apperr.New("INVALID_REPARENT_SELF", http.StatusBadRequest,
		"category: cannot set a category as its own parent")
}

// ErrDepthGreaterOrEqualZero signals a negative computed depth.
func ErrDepthGreaterOrEqualZero() *apperr.AppError {
	return apperr.New("DEPTH_GREATER_OR_EQUAL_ZERO", http.StatusBadRequest,
		"category: depth must be greater than or equal to 0")
}

// ErrPathNotNull signals a blank materialised path.
func ErrPathNotNull() *apperr.AppError {
	return apperr.New("PATH_NOT_NULL", http.StatusBadRequest,
		"category: path must not be empty")
}

// ErrPathLengthMaxOver signals a materialised path beyond [PathMaxLength].
func ErrPathLengthMaxOver() *apperr.AppError {
	return apperr.New("PATH_LENGTH_MAX_OVER", http.StatusBadRequest,
		"category: path exceeds the maximum length")
}

// ErrSubTreeInconsistency signals a subtree row whose path does not share
// the subtree root's prefix. Indicates corrupted data, not bad input.
func ErrSubTreeInconsistency(path string) *apperr.AppError {
	return apperr.New("SUB_TREE_INCONSISTENCY", http.StatusBadRequest,
		"category: subtree is inconsistent: %s", path)
}

// ErrCategoryStatusNotAllowed signals an unrecognised status value.
func ErrCategoryStatusNotAllowed(status string) *apperr.AppError {
	return apperr.New("CATEGORY_STATUS_NOT_ALLOWED", http.StatusBadRequest,
		"category: status not allowed: %s", status)
}

// ErrCategoryInUse signals a delete blocked by product associations.
// Raised only when a delete-guard policy is installed on the service.
func ErrCategoryInUse(count int64) *apperr.AppError {
	return apperr.New("CATEGORY_IN_USE", http.StatusConflict,
		"category: %d products still reference this subtree", count)
}
