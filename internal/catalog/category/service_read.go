package category

import (
	"context"
)

// # Read Projections
//
// Read operations run inside a transaction too. The mega menu and the detail
// view each issue several queries, and a single snapshot keeps them from
// observing a half-applied move.

// Include section names accepted by [Service.GetDetail].
const (
	IncludeChildren = "children"
	IncludeSiblings = "siblings"
	IncludeRoots    = "roots"
)

/*
GetMegaMenu assembles the two-level navigation menu.

Description: Level one is the root list with direct-child-count badges.
Level two is the children of the selected root: the requested root when it
exists in the list, otherwise the first root. An empty forest yields an
empty payload rather than an error.

Parameters:
  - ctx: context.Context
  - rootID: *int64 (requested root, nil or unknown falls back to the first)
  - activeOnly: bool (storefront views hide non-ACTIVE rows)

Returns:
  - *MegaMenuResult: The assembled menu
  - error: Database retrieval failures
*/
func (service *Service) GetMegaMenu(ctx context.Context, rootID *int64, activeOnly bool) (*MegaMenuResult, error) {

	result := &MegaMenuResult{
		Roots:    []MegaMenuNode{},
		Children: []MegaMenuNode{},
	}

	err := service.txManager.InTx(ctx, func(ctx context.Context, stores Stores) error {
		roots, err := stores.Categories.FindRoots(ctx, activeOnly)
		if err != nil {
			return err
		}
		if len(roots) == 0 {
			return nil
		}

		// Child-count badges for level one, aggregated in a single query.
		// Roots with no counted children simply have no map entry.
		rootIDs := make([]int64, 0, len(roots))
		for _, root := range roots {
			rootIDs = append(rootIDs, root.ID)
		}
		counts, err := stores.Categories.CountChildrenByParents(ctx, rootIDs, activeOnly)
		if err != nil {
			return err
		}

		selected := roots[0]
		for _, root := range roots {
			count := counts[root.ID]
			result.Roots = append(result.Roots, MegaMenuNode{
				ID:         root.ID,
				Name:       root.Name,
				Slug:       root.Slug,
				ImageURL:   root.ImageURL,
				ChildCount: &count,
			})
			if rootID != nil && root.ID == *rootID {
				selected = root
			}
		}

		result.SelectedRoot = &MegaMenuSelectedRoot{
			ID:       selected.ID,
			Name:     selected.Name,
			Slug:     selected.Slug,
			ImageURL: selected.ImageURL,
		}

		children, err := stores.Categories.FindDirectChildren(ctx, selected.ID, activeOnly)
		if err != nil {
			return err
		}
		for _, child := range children {
			result.Children = append(result.Children, MegaMenuNode{
				ID:       child.ID,
				Name:     child.Name,
				Slug:     child.Slug,
				ImageURL: child.ImageURL,
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

/*
GetDetail assembles the category detail view.

Description: The target node and its breadcrumb are always included.
Children, siblings, and roots are opt-in via the include set; unrecognised
section names are ignored.

Parameters:
  - ctx: context.Context
  - id: int64
  - include: []string (any of "children", "siblings", "roots")
  - activeOnly: bool (storefront views hide non-ACTIVE rows)

Returns:
  - *DetailResult: The assembled detail view
  - error: CATEGORY_NOT_FOUND, or database retrieval failures
*/
func (service *Service) GetDetail(ctx context.Context, id int64, include []string, activeOnly bool) (*DetailResult, error) {

	wanted := make(map[string]bool, len(include))
	for _, section := range include {
		wanted[section] = true
	}

	result := &DetailResult{
		Breadcrumb: []BreadcrumbNode{},
		Children:   []Node{},
		Siblings:   []Node{},
		Roots:      []Node{},
	}

	err := service.txManager.InTx(ctx, func(ctx context.Context, stores Stores) error {
		node, err := stores.Categories.FindOneForDetail(ctx, id, activeOnly)
		if err != nil {
			return err
		}
		if node == nil {
			return ErrCategoryNotFound(id)
		}
		result.Category = toNode(node)

		ancestors, err := stores.Categories.FindBreadcrumbAncestors(ctx, id, activeOnly)
		if err != nil {
			return err
		}
		result.Breadcrumb = toBreadcrumb(ancestors)

		if wanted[IncludeChildren] {
			children, err := stores.Categories.FindDirectChildren(ctx, id, activeOnly)
			if err != nil {
				return err
			}
			for _, child := range children {
				result.Children = append(result.Children, toNode(child))
			}
		}

		if wanted[IncludeSiblings] {
			siblings, err := stores.Categories.FindSiblings(ctx, node.ParentID, node.ID, activeOnly)
			if err != nil {
				return err
			}
			for _, sibling := range siblings {
				result.Siblings = append(result.Siblings, toNode(sibling))
			}
		}

		if wanted[IncludeRoots] {
			roots, err := stores.Categories.FindRoots(ctx, activeOnly)
			if err != nil {
				return err
			}
			for _, root := range roots {
				result.Roots = append(result.Roots, toNode(root))
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
