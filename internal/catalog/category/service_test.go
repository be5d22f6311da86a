package category

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookdolphin/catalog/internal/platform/apperr"
)

// # In-Memory Fixture
//
// The fakes mirror the PostgreSQL stores' contracts closely enough for the
// tree algorithms: closure rows live under a composite key and inserting a
// duplicate pair fails the way a primary key violation would.

type memDB struct {
	categories map[int64]*Category
	closures   map[[2]int64]int
	nextID     int64
}

func newMemDB() *memDB {
	return &memDB{
		categories: make(map[int64]*Category),
		closures:   make(map[[2]int64]int),
		nextID:     1,
	}
}

func cloneCategory(category *Category) *Category {
	copied := *category
	if category.ParentID != nil {
		parentID := *category.ParentID
		copied.ParentID = &parentID
	}
	if category.ImageURL != nil {
		imageURL := *category.ImageURL
		copied.ImageURL = &imageURL
	}
	return &copied
}

type memCategoryStore struct{ db *memDB }

func (store *memCategoryStore) ExistsRootWithSlug(_ context.Context, slug string) (bool, error) {
	for _, category := range store.db.categories {
		if category.ParentID == nil && category.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (store *memCategoryStore) ExistsChildOf(_ context.Context, parentID int64, slug string) (bool, error) {
	for _, category := range store.db.categories {
		if category.ParentID != nil && *category.ParentID == parentID && category.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (store *memCategoryStore) ExistsPath(_ context.Context, path string) (bool, error) {
	for _, category := range store.db.categories {
		if category.Path == path {
			return true, nil
		}
	}
	return false, nil
}

func (store *memCategoryStore) ExistsPathOtherThan(_ context.Context, newPath, oldPath string) (bool, error) {
	for _, category := range store.db.categories {
		if category.Path == newPath && category.Path != oldPath {
			return true, nil
		}
	}
	return false, nil
}

func (store *memCategoryStore) FindByID(_ context.Context, id int64) (*Category, error) {
	category, found := store.db.categories[id]
	if !found {
		return nil, nil
	}
	return cloneCategory(category), nil
}

func (store *memCategoryStore) FindOneForDetail(_ context.Context, id int64, activeOnly bool) (*Category, error) {
	category, found := store.db.categories[id]
	if !found {
		return nil, nil
	}
	if activeOnly && category.Status != StatusActive {
		return nil, nil
	}
	return cloneCategory(category), nil
}

func (store *memCategoryStore) listWhere(activeOnly bool, keep func(*Category) bool) []*Category {
	var result []*Category
	for _, category := range store.db.categories {
		if activeOnly && category.Status != StatusActive {
			continue
		}
		if keep(category) {
			result = append(result, cloneCategory(category))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SortOrder != result[j].SortOrder {
			return result[i].SortOrder < result[j].SortOrder
		}
		return result[i].Name < result[j].Name
	})
	return result
}

func (store *memCategoryStore) FindRoots(_ context.Context, activeOnly bool) ([]*Category, error) {
	return store.listWhere(activeOnly, func(category *Category) bool {
		return category.ParentID == nil
	}), nil
}

func (store *memCategoryStore) FindDirectChildren(_ context.Context, parentID int64, activeOnly bool) ([]*Category, error) {
	return store.listWhere(activeOnly, func(category *Category) bool {
		return category.ParentID != nil && *category.ParentID == parentID
	}), nil
}

func (store *memCategoryStore) FindSiblings(_ context.Context, parentID *int64, selfID int64, activeOnly bool) ([]*Category, error) {
	return store.listWhere(activeOnly, func(category *Category) bool {
		if category.ID == selfID {
			return false
		}
		if parentID == nil {
			return category.ParentID == nil
		}
		return category.ParentID != nil && *category.ParentID == *parentID
	}), nil
}

func (store *memCategoryStore) FindBreadcrumbAncestors(_ context.Context, descendantID int64, activeOnly bool) ([]*Category, error) {
	type hop struct {
		category *Category
		depth    int
	}
	var hops []hop
	for key, depth := range store.db.closures {
		if key[1] != descendantID || depth == 0 {
			continue
		}
		ancestor, found := store.db.categories[key[0]]
		if !found {
			continue
		}
		if activeOnly && ancestor.Status != StatusActive {
			continue
		}
		hops = append(hops, hop{category: cloneCategory(ancestor), depth: depth})
	}
	sort.Slice(hops, func(i, j int) bool { return hops[i].depth > hops[j].depth })

	result := make([]*Category, 0, len(hops))
	for _, h := range hops {
		result = append(result, h.category)
	}
	return result, nil
}

func (store *memCategoryStore) FindSubtreeDescendants(_ context.Context, ancestorID int64) ([]*Category, error) {
	type member struct {
		category *Category
		depth    int
	}
	var members []member
	for key, depth := range store.db.closures {
		if key[0] != ancestorID {
			continue
		}
		category, found := store.db.categories[key[1]]
		if !found {
			continue
		}
		members = append(members, member{category: cloneCategory(category), depth: depth})
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].depth != members[j].depth {
			return members[i].depth < members[j].depth
		}
		return members[i].category.ID < members[j].category.ID
	})

	result := make([]*Category, 0, len(members))
	for _, m := range members {
		result = append(result, m.category)
	}
	return result, nil
}

func (store *memCategoryStore) FindMaxDepthOffsetInSubtree(_ context.Context, ancestorID int64) (int, bool, error) {
	maxOffset := 0
	found := false
	for key, depth := range store.db.closures {
		if key[0] == ancestorID && depth > 0 {
			found = true
			if depth > maxOffset {
				maxOffset = depth
			}
		}
	}
	return maxOffset, found, nil
}

func (store *memCategoryStore) CountChildrenByParents(_ context.Context, parentIDs []int64, activeOnly bool) (map[int64]int, error) {
	wanted := make(map[int64]bool, len(parentIDs))
	for _, id := range parentIDs {
		wanted[id] = true
	}

	counts := make(map[int64]int)
	for _, category := range store.db.categories {
		if category.ParentID == nil || !wanted[*category.ParentID] {
			continue
		}
		if activeOnly && category.Status != StatusActive {
			continue
		}
		counts[*category.ParentID]++
	}
	return counts, nil
}

func (store *memCategoryStore) Save(_ context.Context, category *Category) error {
	category.ID = store.db.nextID
	store.db.nextID++
	store.db.categories[category.ID] = cloneCategory(category)
	return nil
}

func (store *memCategoryStore) Update(_ context.Context, category *Category) error {
	if _, found := store.db.categories[category.ID]; !found {
		return ErrCategoryNotFound(category.ID)
	}
	store.db.categories[category.ID] = cloneCategory(category)
	return nil
}

func (store *memCategoryStore) DeleteByIDs(_ context.Context, ids []int64) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if _, found := store.db.categories[id]; found {
			delete(store.db.categories, id)
			deleted++
		}
	}
	return deleted, nil
}

type memClosureStore struct{ db *memDB }

func (store *memClosureStore) FindAncestorsWithDepth(_ context.Context, descendantID int64) ([]AncestorLink, error) {
	var links []AncestorLink
	for key, depth := range store.db.closures {
		if key[1] == descendantID {
			links = append(links, AncestorLink{AncestorID: key[0], Depth: depth})
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].Depth < links[j].Depth })
	return links, nil
}

func (store *memClosureStore) FindSubtreeIDsWithDepthDesc(_ context.Context, ancestorID int64) ([]SubtreeRef, error) {
	var refs []SubtreeRef
	for key, depth := range store.db.closures {
		if key[0] == ancestorID {
			refs = append(refs, SubtreeRef{ID: key[1], Depth: depth})
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Depth > refs[j].Depth })
	return refs, nil
}

func (store *memClosureStore) InsertMany(_ context.Context, links []ClosureLink) error {
	for _, link := range links {
		key := [2]int64{link.AncestorID, link.DescendantID}
		if _, exists := store.db.closures[key]; exists {
			return fmt.Errorf("duplicate closure row (%d, %d)", link.AncestorID, link.DescendantID)
		}
		store.db.closures[key] = link.Depth
	}
	return nil
}

func (store *memClosureStore) DeleteLinksOutsideSubtree(_ context.Context, subtreeIDs []int64) (int64, error) {
	inside := make(map[int64]bool, len(subtreeIDs))
	for _, id := range subtreeIDs {
		inside[id] = true
	}

	var deleted int64
	for key := range store.db.closures {
		if inside[key[1]] && !inside[key[0]] {
			delete(store.db.closures, key)
			deleted++
		}
	}
	return deleted, nil
}

func (store *memClosureStore) DeleteAllTouchingIDs(_ context.Context, ids []int64) (int64, error) {
	touched := make(map[int64]bool, len(ids))
	for _, id := range ids {
		touched[id] = true
	}

	var deleted int64
	for key := range store.db.closures {
		if touched[key[0]] || touched[key[1]] {
			delete(store.db.closures, key)
			deleted++
		}
	}
	return deleted, nil
}

type memTxManager struct{ db *memDB }

func (manager *memTxManager) InTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error {
	return fn(ctx, Stores{
		Categories: &memCategoryStore{db: manager.db},
		Closures:   &memClosureStore{db: manager.db},
	})
}

type stubProductCounter struct{ count int64 }

func (counter *stubProductCounter) CountInCategories(_ context.Context, _ []int64) (int64, error) {
	return counter.count, nil
}

func newTestService(db *memDB) *Service {
	return NewService(&memTxManager{db: db}, nil, slog.Default())
}

// mustCreate seeds one category through the real Create path so closure and
// path bookkeeping stay honest.
func mustCreate(t *testing.T, service *Service, parentID *int64, name, slug string) *CreateResult {
	t.Helper()
	active := StatusActive
	result, err := service.Create(context.Background(), CreateInput{
		ParentID: parentID,
		Name:     name,
		Slug:     slug,
		Status:   &active,
	})
	require.NoError(t, err)
	return result
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected AppError, got %v", err)
	assert.Equal(t, code, appError.Code)
}

// seedForest builds:
//
//	men (1)
//	└── top (2)
//	    └── knit (3)
//	women (4)
//	└── top (5)
func seedForest(t *testing.T, service *Service) (men, top, knit, women, womenTop *CreateResult) {
	t.Helper()
	men = mustCreate(t, service, nil, "Men", "men")
	top = mustCreate(t, service, &men.ID, "Top", "top")
	knit = mustCreate(t, service, &top.ID, "Knit", "knit")
	women = mustCreate(t, service, nil, "Women", "women")
	womenTop = mustCreate(t, service, &women.ID, "Top", "top")
	return
}

// # Create

func TestCreateRootAndChild(t *testing.T) {
	db := newMemDB()
	service := newTestService(db)

	root, err := service.Create(context.Background(), CreateInput{Name: "Men", Slug: "Men Fashion"})
	require.NoError(t, err)
	assert.Equal(t, "/men-fashion", root.Path)
	assert.Equal(t, 0, root.Depth)
	assert.Nil(t, root.ParentID)
	assert.Equal(t, StatusReady, root.Status)
	assert.Equal(t, 0, root.SortOrder)

	child, err := service.Create(context.Background(), CreateInput{ParentID: &root.ID, Name: "Top", Slug: "top"})
	require.NoError(t, err)
	assert.Equal(t, "/men-fashion/top", child.Path)
	assert.Equal(t, 1, child.Depth)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, root.ID, *child.ParentID)

	// Closure: self-rows for both plus the root→child link
	assert.Equal(t, 0, db.closures[[2]int64{root.ID, root.ID}])
	assert.Equal(t, 0, db.closures[[2]int64{child.ID, child.ID}])
	assert.Equal(t, 1, db.closures[[2]int64{root.ID, child.ID}])
	assert.Len(t, db.closures, 3)
}

func TestCreateSlugNormalization(t *testing.T) {
	service := newTestService(newMemDB())

	result, err := service.Create(context.Background(), CreateInput{Name: "Sale", Slug: "  Big--SALE  2026! "})
	require.NoError(t, err)
	assert.Equal(t, "big-sale-2026", result.Slug)
	assert.Equal(t, "/big-sale-2026", result.Path)
}

func TestCreateEmptySlugAfterNormalization(t *testing.T) {
	service := newTestService(newMemDB())

	_, err := service.Create(context.Background(), CreateInput{Name: "Weird", Slug: "!!!"})
	requireCode(t, err, "EMPTY_SLUG")
}

func TestCreateDuplicateSlugUnderSameParent(t *testing.T) {
	service := newTestService(newMemDB())
	men, _, _, _, _ := seedForest(t, service)

	_, err := service.Create(context.Background(), CreateInput{ParentID: &men.ID, Name: "Tops", Slug: "top"})
	requireCode(t, err, "DUPLICATE_SLUG_BY_PARENT")

	_, err = service.Create(context.Background(), CreateInput{Name: "Men Again", Slug: "men"})
	requireCode(t, err, "DUPLICATE_SLUG_BY_ROOT")
}

func TestCreateSameSlugUnderDifferentParents(t *testing.T) {
	// "top" exists under both men and women; only the paths must differ.
	service := newTestService(newMemDB())
	_, _, _, _, womenTop := seedForest(t, service)
	assert.Equal(t, "/women/top", womenTop.Path)
}

func TestCreateParentNotFound(t *testing.T) {
	service := newTestService(newMemDB())

	missing := int64(9999)
	_, err := service.Create(context.Background(), CreateInput{ParentID: &missing, Name: "X", Slug: "x"})
	requireCode(t, err, "PARENT_CATEGORY_NOT_FOUND")
}

func TestCreateMaxDepthExceeded(t *testing.T) {
	service := newTestService(newMemDB())

	parentID := (*int64)(nil)
	var last *CreateResult
	for depth := 0; depth <= MaxDepth; depth++ {
		last = mustCreate(t, service, parentID, fmt.Sprintf("Level %d", depth), fmt.Sprintf("level-%d", depth))
		assert.Equal(t, depth, last.Depth)
		parentID = &last.ID
	}

	_, err := service.Create(context.Background(), CreateInput{ParentID: &last.ID, Name: "Too Deep", Slug: "too-deep"})
	requireCode(t, err, "MAX_DEPTH_EXCEEDED")
}

func TestCreateValidationFailures(t *testing.T) {
	service := newTestService(newMemDB())

	_, err := service.Create(context.Background(), CreateInput{Name: "", Slug: "x"})
	requireCode(t, err, "VALIDATION_ERROR")

	negative := -1
	_, err = service.Create(context.Background(), CreateInput{Name: "X", Slug: "x", SortOrder: &negative})
	requireCode(t, err, "VALIDATION_ERROR")

	bogus := Status("HIDDEN")
	_, err = service.Create(context.Background(), CreateInput{Name: "X", Slug: "x", Status: &bogus})
	requireCode(t, err, "VALIDATION_ERROR")
}

func TestCreateNameLengthCountedAfterTrim(t *testing.T) {
	service := newTestService(newMemDB())

	// 52 raw characters that trim down to the 48 that get stored
	padded := "  " + strings.Repeat("n", 48) + "  "
	result, err := service.Create(context.Background(), CreateInput{Name: padded, Slug: "padded"})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("n", 48), result.Name)

	_, err = service.Create(context.Background(), CreateInput{Name: strings.Repeat("n", NameMaxLength+1), Slug: "overlong"})
	requireCode(t, err, "VALIDATION_ERROR")
}

// # Move

func TestMoveSubtreeUnderNewParent(t *testing.T) {
	db := newMemDB()
	service := newTestService(db)
	men, top, knit, women, _ := seedForest(t, service)

	// women already has a "top" child, so move "knit" instead
	result, err := service.Move(context.Background(), knit.ID, &women.ID)
	require.NoError(t, err)
	assert.Equal(t, "/women/knit", result.Path)
	assert.Equal(t, 1, result.Depth)
	require.NotNil(t, result.NewParentID)
	assert.Equal(t, women.ID, *result.NewParentID)

	require.Len(t, result.Breadcrumb, 1)
	assert.Equal(t, women.ID, result.Breadcrumb[0].ID)

	// Old external links are gone, new ones are in place
	_, stale := db.closures[[2]int64{men.ID, knit.ID}]
	assert.False(t, stale)
	_, stale = db.closures[[2]int64{top.ID, knit.ID}]
	assert.False(t, stale)
	assert.Equal(t, 1, db.closures[[2]int64{women.ID, knit.ID}])
	assert.Equal(t, 0, db.closures[[2]int64{knit.ID, knit.ID}])
}

func TestMoveDeepSubtreeRewritesDescendants(t *testing.T) {
	db := newMemDB()
	service := newTestService(db)
	men, top, knit, women, _ := seedForest(t, service)

	// Move the whole "top" subtree under a fresh root
	outlet := mustCreate(t, service, nil, "Outlet", "outlet")
	_, err := service.Move(context.Background(), top.ID, &outlet.ID)
	require.NoError(t, err)

	movedTop := db.categories[top.ID]
	assert.Equal(t, "/outlet/top", movedTop.Path)
	assert.Equal(t, 1, movedTop.Depth)

	movedKnit := db.categories[knit.ID]
	assert.Equal(t, "/outlet/top/knit", movedKnit.Path)
	assert.Equal(t, 2, movedKnit.Depth)
	require.NotNil(t, movedKnit.ParentID)
	assert.Equal(t, top.ID, *movedKnit.ParentID, "internal adjacency must not change")

	// Closure depths: outlet is 1 above top, 2 above knit, internal row intact
	assert.Equal(t, 1, db.closures[[2]int64{outlet.ID, top.ID}])
	assert.Equal(t, 2, db.closures[[2]int64{outlet.ID, knit.ID}])
	assert.Equal(t, 1, db.closures[[2]int64{top.ID, knit.ID}])

	_, stale := db.closures[[2]int64{men.ID, top.ID}]
	assert.False(t, stale)
	_, stale = db.closures[[2]int64{men.ID, knit.ID}]
	assert.False(t, stale)

	_ = women
}

func TestMovePromoteToRoot(t *testing.T) {
	db := newMemDB()
	service := newTestService(db)
	men, top, knit, _, _ := seedForest(t, service)

	result, err := service.Move(context.Background(), top.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "/top", result.Path)
	assert.Equal(t, 0, result.Depth)
	assert.Nil(t, result.NewParentID)
	assert.Empty(t, result.Breadcrumb)

	movedKnit := db.categories[knit.ID]
	assert.Equal(t, "/top/knit", movedKnit.Path)
	assert.Equal(t, 1, movedKnit.Depth)

	// No external ancestors remain above the promoted subtree
	_, stale := db.closures[[2]int64{men.ID, top.ID}]
	assert.False(t, stale)
}

func TestMoveIntoOwnSubtreeRejected(t *testing.T) {
	service := newTestService(newMemDB())
	_, top, knit, _, _ := seedForest(t, service)

	_, err := service.Move(context.Background(), top.ID, &knit.ID)
	requireCode(t, err, "INVALID_REPARENT_TARGET")

	_, err = service.Move(context.Background(), top.ID, &top.ID)
	requireCode(t, err, "INVALID_REPARENT_SELF")
}

func TestMoveNoOpSamePositionSucceeds(t *testing.T) {
	service := newTestService(newMemDB())
	men, top, _, _, _ := seedForest(t, service)

	result, err := service.Move(context.Background(), top.ID, &men.ID)
	require.NoError(t, err)
	assert.Equal(t, "/men/top", result.Path)
	assert.Equal(t, 1, result.Depth)
}

func TestMoveSiblingSlugConflict(t *testing.T) {
	service := newTestService(newMemDB())
	_, top, _, women, _ := seedForest(t, service)

	// women already has a child "top"
	_, err := service.Move(context.Background(), top.ID, &women.ID)
	requireCode(t, err, "DUPLICATE_SLUG_BY_PARENT")
}

func TestMoveDepthOverflowRejected(t *testing.T) {
	service := newTestService(newMemDB())

	// Chain at the depth limit: level-0 .. level-6
	parentID := (*int64)(nil)
	var chain []*CreateResult
	for depth := 0; depth <= MaxDepth; depth++ {
		node := mustCreate(t, service, parentID, fmt.Sprintf("Level %d", depth), fmt.Sprintf("level-%d", depth))
		chain = append(chain, node)
		parentID = &node.ID
	}

	// Moving a two-level subtree under the deepest node would exceed the limit
	other := mustCreate(t, service, nil, "Other", "other")
	otherChild := mustCreate(t, service, &other.ID, "Child", "child")
	_ = otherChild

	deepest := chain[len(chain)-1]
	_, err := service.Move(context.Background(), other.ID, &deepest.ID)
	requireCode(t, err, "MAX_DEPTH_EXCEEDED")
}

func TestMoveTargetNotFound(t *testing.T) {
	service := newTestService(newMemDB())
	men, _, _, _, _ := seedForest(t, service)

	_, err := service.Move(context.Background(), 9999, &men.ID)
	requireCode(t, err, "CATEGORY_NOT_FOUND")

	missing := int64(9999)
	_, err = service.Move(context.Background(), men.ID, &missing)
	requireCode(t, err, "PARENT_CATEGORY_NOT_FOUND")
}

// # Hard Delete

func TestHardDeleteSubtree(t *testing.T) {
	db := newMemDB()
	service := newTestService(db)
	men, top, knit, women, womenTop := seedForest(t, service)

	deleted, err := service.HardDeleteSubtree(context.Background(), top.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	_, topGone := db.categories[top.ID]
	_, knitGone := db.categories[knit.ID]
	assert.False(t, topGone)
	assert.False(t, knitGone)

	// The rest of the forest is untouched
	_, menAlive := db.categories[men.ID]
	_, womenAlive := db.categories[women.ID]
	_, womenTopAlive := db.categories[womenTop.ID]
	assert.True(t, menAlive)
	assert.True(t, womenAlive)
	assert.True(t, womenTopAlive)

	// No closure row references the deleted ids on either side
	for key := range db.closures {
		assert.NotEqual(t, top.ID, key[0])
		assert.NotEqual(t, top.ID, key[1])
		assert.NotEqual(t, knit.ID, key[0])
		assert.NotEqual(t, knit.ID, key[1])
	}
}

func TestHardDeleteNotFound(t *testing.T) {
	service := newTestService(newMemDB())

	_, err := service.HardDeleteSubtree(context.Background(), 42)
	requireCode(t, err, "CATEGORY_NOT_FOUND")
}

func TestHardDeleteBlockedByProducts(t *testing.T) {
	db := newMemDB()
	service := NewService(&memTxManager{db: db}, &stubProductCounter{count: 3}, slog.Default())
	men := mustCreate(t, service, nil, "Men", "men")

	_, err := service.HardDeleteSubtree(context.Background(), men.ID)
	requireCode(t, err, "CATEGORY_IN_USE")

	_, alive := db.categories[men.ID]
	assert.True(t, alive)
}

// # Partial Update

func TestUpdateBasicPartialFields(t *testing.T) {
	db := newMemDB()
	service := newTestService(db)
	men, _, _, _, _ := seedForest(t, service)

	name := "Menswear"
	order := 7
	disabled := StatusDisabled
	err := service.UpdateBasic(context.Background(), men.ID, UpdateInput{
		Name:      &name,
		SortOrder: &order,
		Status:    &disabled,
	})
	require.NoError(t, err)

	updated := db.categories[men.ID]
	assert.Equal(t, "Menswear", updated.Name)
	assert.Equal(t, 7, updated.SortOrder)
	assert.Equal(t, StatusDisabled, updated.Status)
	assert.Equal(t, "men", updated.Slug, "slug is immutable")
	assert.Equal(t, "/men", updated.Path, "path is immutable")
}

func TestUpdateBasicClearImage(t *testing.T) {
	db := newMemDB()
	service := newTestService(db)

	image := "https://cdn.bookdolphin.io/cat/men.jpg"
	men, err := service.Create(context.Background(), CreateInput{Name: "Men", Slug: "men", ImageURL: &image})
	require.NoError(t, err)

	empty := ""
	require.NoError(t, service.UpdateBasic(context.Background(), men.ID, UpdateInput{ImageURL: &empty}))
	assert.Nil(t, db.categories[men.ID].ImageURL)
}

func TestUpdateBasicRejections(t *testing.T) {
	service := newTestService(newMemDB())
	men, _, _, _, _ := seedForest(t, service)

	blank := "   "
	err := service.UpdateBasic(context.Background(), men.ID, UpdateInput{Name: &blank})
	requireCode(t, err, "NAME_NOT_NULL")

	negative := -5
	err = service.UpdateBasic(context.Background(), men.ID, UpdateInput{SortOrder: &negative})
	requireCode(t, err, "SORT_ORDER_GREATER_OR_EQUAL_ZERO")

	bogus := Status("HIDDEN")
	err = service.UpdateBasic(context.Background(), men.ID, UpdateInput{Status: &bogus})
	requireCode(t, err, "CATEGORY_STATUS_NOT_ALLOWED")

	err = service.UpdateBasic(context.Background(), 9999, UpdateInput{})
	requireCode(t, err, "CATEGORY_NOT_FOUND")
}

func TestUpdateBasicLengthBounds(t *testing.T) {
	service := newTestService(newMemDB())
	men, _, _, _, _ := seedForest(t, service)

	overlong := strings.Repeat("x", NameMaxLength+1)
	err := service.UpdateBasic(context.Background(), men.ID, UpdateInput{Name: &overlong})
	requireCode(t, err, "VALIDATION_ERROR")

	longURL := "https://cdn.bookdolphin.io/" + strings.Repeat("a", ImageURLMaxLength)
	err = service.UpdateBasic(context.Background(), men.ID, UpdateInput{ImageURL: &longURL})
	requireCode(t, err, "VALIDATION_ERROR")

	// Padding does not count against the limit
	padded := "  " + strings.Repeat("y", NameMaxLength) + "  "
	require.NoError(t, service.UpdateBasic(context.Background(), men.ID, UpdateInput{Name: &padded}))
}

// # Mega Menu

func TestMegaMenuEmptyForest(t *testing.T) {
	service := newTestService(newMemDB())

	result, err := service.GetMegaMenu(context.Background(), nil, true)
	require.NoError(t, err)
	assert.Empty(t, result.Roots)
	assert.Empty(t, result.Children)
	assert.Nil(t, result.SelectedRoot)
}

func TestMegaMenuDefaultsToFirstRoot(t *testing.T) {
	service := newTestService(newMemDB())
	men, top, _, women, _ := seedForest(t, service)

	result, err := service.GetMegaMenu(context.Background(), nil, true)
	require.NoError(t, err)
	require.Len(t, result.Roots, 2)

	// Roots sort by (sortorder, name): Men before Women
	assert.Equal(t, men.ID, result.Roots[0].ID)
	assert.Equal(t, women.ID, result.Roots[1].ID)

	require.NotNil(t, result.Roots[0].ChildCount)
	assert.Equal(t, 1, *result.Roots[0].ChildCount)

	require.NotNil(t, result.SelectedRoot)
	assert.Equal(t, men.ID, result.SelectedRoot.ID)
	require.Len(t, result.Children, 1)
	assert.Equal(t, top.ID, result.Children[0].ID)
	assert.Nil(t, result.Children[0].ChildCount, "level two carries no badge")
}

func TestMegaMenuSelectedRootAndUnknownFallback(t *testing.T) {
	service := newTestService(newMemDB())
	men, _, _, women, womenTop := seedForest(t, service)

	result, err := service.GetMegaMenu(context.Background(), &women.ID, true)
	require.NoError(t, err)
	require.NotNil(t, result.SelectedRoot)
	assert.Equal(t, women.ID, result.SelectedRoot.ID)
	require.Len(t, result.Children, 1)
	assert.Equal(t, womenTop.ID, result.Children[0].ID)

	// Unknown root id falls back to the first root instead of failing
	unknown := int64(9999)
	result, err = service.GetMegaMenu(context.Background(), &unknown, true)
	require.NoError(t, err)
	require.NotNil(t, result.SelectedRoot)
	assert.Equal(t, men.ID, result.SelectedRoot.ID)
}

func TestMegaMenuActiveOnlyFiltersRoots(t *testing.T) {
	db := newMemDB()
	service := newTestService(db)
	men, _, _, women, _ := seedForest(t, service)

	disabled := StatusDisabled
	require.NoError(t, service.UpdateBasic(context.Background(), men.ID, UpdateInput{Status: &disabled}))

	result, err := service.GetMegaMenu(context.Background(), nil, true)
	require.NoError(t, err)
	require.Len(t, result.Roots, 1)
	assert.Equal(t, women.ID, result.Roots[0].ID)
}

// # Detail

func TestDetailIncludesAndBreadcrumb(t *testing.T) {
	service := newTestService(newMemDB())
	men, top, knit, _, _ := seedForest(t, service)

	result, err := service.GetDetail(context.Background(), knit.ID,
		[]string{IncludeChildren, IncludeSiblings, IncludeRoots}, true)
	require.NoError(t, err)

	assert.Equal(t, knit.ID, result.Category.ID)
	assert.Equal(t, "/men/top/knit", result.Category.Path)

	// Breadcrumb is root-first
	require.Len(t, result.Breadcrumb, 2)
	assert.Equal(t, men.ID, result.Breadcrumb[0].ID)
	assert.Equal(t, top.ID, result.Breadcrumb[1].ID)

	assert.Empty(t, result.Children)
	assert.Empty(t, result.Siblings)
	assert.Len(t, result.Roots, 2)
}

func TestDetailOmitsUnrequestedSections(t *testing.T) {
	service := newTestService(newMemDB())
	_, top, knit, _, _ := seedForest(t, service)

	result, err := service.GetDetail(context.Background(), top.ID, []string{IncludeChildren}, true)
	require.NoError(t, err)
	require.Len(t, result.Children, 1)
	assert.Equal(t, knit.ID, result.Children[0].ID)
	assert.Empty(t, result.Siblings)
	assert.Empty(t, result.Roots)
}

func TestDetailNotFoundAndStatusFilter(t *testing.T) {
	service := newTestService(newMemDB())
	men, _, _, _, _ := seedForest(t, service)

	_, err := service.GetDetail(context.Background(), 9999, nil, true)
	requireCode(t, err, "CATEGORY_NOT_FOUND")

	disabled := StatusDisabled
	require.NoError(t, service.UpdateBasic(context.Background(), men.ID, UpdateInput{Status: &disabled}))

	// Hidden from the storefront, still visible to the back office
	_, err = service.GetDetail(context.Background(), men.ID, nil, true)
	requireCode(t, err, "CATEGORY_NOT_FOUND")

	result, err := service.GetDetail(context.Background(), men.ID, nil, false)
	require.NoError(t, err)
	assert.Equal(t, men.ID, result.Category.ID)
}

func TestDetailBreadcrumbSkipsInactiveAncestors(t *testing.T) {
	service := newTestService(newMemDB())
	men, top, knit, _, _ := seedForest(t, service)

	disabled := StatusDisabled
	require.NoError(t, service.UpdateBasic(context.Background(), top.ID, UpdateInput{Status: &disabled}))

	// Storefront view: the disabled mid-chain ancestor leaves a hole
	result, err := service.GetDetail(context.Background(), knit.ID, nil, true)
	require.NoError(t, err)
	require.Len(t, result.Breadcrumb, 1)
	assert.Equal(t, men.ID, result.Breadcrumb[0].ID)

	// Back-office view keeps the full chain
	result, err = service.GetDetail(context.Background(), knit.ID, nil, false)
	require.NoError(t, err)
	require.Len(t, result.Breadcrumb, 2)
	assert.Equal(t, men.ID, result.Breadcrumb[0].ID)
	assert.Equal(t, top.ID, result.Breadcrumb[1].ID)
}
