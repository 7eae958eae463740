package inventory_test

import (
	"context"
	"testing"

	"section-mirror/core/observable"
	"section-mirror/core/reconcile"
	"section-mirror/feature/inventory"
	"section-mirror/feature/inventory/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sectionEvents struct {
	inserted []int
	removed  []int
	// populated holds the item count of each section when its insert was observed.
	populated []int
}

func watchSections(svc *inventory.Service) *sectionEvents {
	ev := &sectionEvents{}
	svc.Mirror().Subscribe(func(e observable.Event[*reconcile.Section[*models.Item]]) {
		switch e.Kind {
		case observable.Insert:
			ev.inserted = append(ev.inserted, e.Index)
			ev.populated = append(ev.populated, e.Value.Len())
		case observable.Delete:
			ev.removed = append(ev.removed, e.Index)
		}
	})
	return ev
}

func watchItems(sec *reconcile.Section[*models.Item]) map[observable.Kind][]int {
	got := map[observable.Kind][]int{}
	sec.Subscribe(func(e observable.Event[*models.Item]) {
		got[e.Kind] = append(got[e.Kind], e.Index)
	})
	return got
}

func TestFetchedResults_InitialSnapshot(t *testing.T) {
	svc, _ := newService(t)

	views := svc.Sections()
	require.Equal(t, []string{"fruit", "veggie"}, sectionNames(views))
	assert.Equal(t, []string{"Apple", "Banana", "Cherry"}, names(views[0].Items))
	assert.Equal(t, []string{"Asparagus", "Broccoli", "Celery"}, names(views[1].Items))
	assert.Equal(t, 40, views[0].Items[2].Count)
}

func TestFetchedResults_UnknownStore(t *testing.T) {
	repo := seededRepo(t)

	svc, err := inventory.NewService(context.Background(), repo, "missing", nil, "", inventory.Config{}, zap.NewNop())

	assert.Nil(t, svc)
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestFetchedResults_DeleteLastSection(t *testing.T) {
	svc, _ := newService(t)
	ev := watchSections(svc)

	n, err := svc.DeleteItemsByType(context.Background(), "veggie")
	require.NoError(t, err)

	assert.EqualValues(t, 3, n)
	assert.Equal(t, []int{1}, ev.removed)
	assert.Equal(t, 1, svc.Mirror().Len())
}

func TestFetchedResults_DeleteAllItems(t *testing.T) {
	svc, _ := newService(t)
	ev := watchSections(svc)

	_, err := svc.DeleteItemsByType(context.Background(), "")
	require.NoError(t, err)

	assert.ElementsMatch(t, []int{0, 1}, ev.removed)
	assert.Equal(t, 0, svc.Mirror().Len())
}

func TestFetchedResults_DeleteFirstItem(t *testing.T) {
	svc, _ := newService(t)
	first := svc.Mirror().At(0)
	got := watchItems(first)

	require.NoError(t, svc.DeleteItem(context.Background(), first.At(0).UUID))

	assert.Equal(t, []int{0}, got[observable.Delete])
	assert.Equal(t, 2, svc.Mirror().Len())
	assert.Equal(t, 2, svc.Mirror().At(0).Len())
	assert.Equal(t, "Banana", svc.Mirror().At(0).At(0).Name)
}

func TestFetchedResults_InsertManyOutOfOrder(t *testing.T) {
	svc, _ := newService(t)
	got := watchItems(svc.Mirror().At(0))

	n, err := svc.Import(context.Background(), moreItems(t))
	require.NoError(t, err)

	assert.Equal(t, 6, n)
	assert.Equal(t, []int{3, 4, 5, 6, 7, 8}, got[observable.Insert])
	assert.Equal(t,
		[]string{"Apple", "Banana", "Cherry", "Date", "Elderberry", "Fig", "Grape", "Huckleberry", "Kiwi"},
		names(svc.Sections()[0].Items))
}

func TestFetchedResults_UpdateInPlace(t *testing.T) {
	svc, _ := newService(t)
	last := svc.Mirror().At(1)
	got := watchItems(last)
	item := last.At(1)
	count := item.Count - 1

	_, err := svc.UpdateItem(context.Background(), item.UUID, inventory.ItemPatch{Count: &count})
	require.NoError(t, err)

	assert.Equal(t, []int{1}, got[observable.Update])
	assert.Empty(t, got[observable.Insert])
	assert.Empty(t, got[observable.Delete])
	assert.Same(t, item, last.At(1))
	assert.Equal(t, count, item.Count)
}

func TestFetchedResults_InsertSectionInMiddle(t *testing.T) {
	svc, _ := newService(t)
	ev := watchSections(svc)

	_, err := svc.AddItem(context.Background(), models.Item{Name: "Ground beef", Count: 10, ItemType: "meat"})
	require.NoError(t, err)

	assert.Equal(t, []int{1}, ev.inserted)
	assert.Equal(t, []int{1}, ev.populated)
	assert.Equal(t, []string{"fruit", "meat", "veggie"}, sectionNames(svc.Sections()))
}

func TestFetchedResults_TypeChangeMovesAcrossSections(t *testing.T) {
	svc, _ := newService(t)
	fruit, veggie := svc.Mirror().At(0), svc.Mirror().At(1)
	fromFruit, toVeggie := watchItems(fruit), watchItems(veggie)
	banana := fruit.At(1)
	kind := "veggie"

	_, err := svc.UpdateItem(context.Background(), banana.UUID, inventory.ItemPatch{ItemType: &kind})
	require.NoError(t, err)

	assert.Equal(t, []int{1}, fromFruit[observable.Delete])
	assert.Equal(t, []int{1}, toVeggie[observable.Insert])
	assert.Same(t, banana, veggie.At(1))
	assert.Equal(t, []string{"Asparagus", "Banana", "Broccoli", "Celery"}, names(svc.Sections()[1].Items))
}

func TestFetchedResults_RenameReorders(t *testing.T) {
	svc, _ := newService(t)
	fruit := svc.Mirror().At(0)
	apple := fruit.At(0)
	name := "Zucchini apple"

	_, err := svc.UpdateItem(context.Background(), apple.UUID, inventory.ItemPatch{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, []string{"Banana", "Cherry", "Zucchini apple"}, names(svc.Sections()[0].Items))
	assert.Same(t, apple, fruit.At(2))
}

func TestFetchedResults_RefreshPicksUpExternalWrites(t *testing.T) {
	svc, repo := newService(t)
	count := 99
	celery := svc.Mirror().At(1).At(2)

	_, err := repo.UpdateItem(context.Background(), celery.UUID, inventory.ItemPatch{Count: &count})
	require.NoError(t, err)

	n, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 99, celery.Count)

	n, err = svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFetchedResults_NoDelegate(t *testing.T) {
	repo := seededRepo(t)
	src := inventory.NewFetchedResults(repo, groceryUUID, nil)

	snap, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, snap, 2)

	require.NoError(t, repo.DeleteItem(context.Background(), snap[0].Items[0].UUID))
	n, err := src.ProcessPendingChanges(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
