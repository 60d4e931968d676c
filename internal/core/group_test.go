package core

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func libEntities() []*Entity {
	return []*Entity{
		{ID: 1, Name: "401652.mp4"},
		{ID: 2, Name: "401652_cut_and_crop_9x16.mp4"},
		{ID: 3, Name: "401652_cut_and_crop_028_038_9x16.mp4"},
		{ID: 4, Name: "holiday_special.mp4"},
		{ID: 5, Name: "processed_1757774645603_orphanbase.mp4"},
	}
}

func TestGroupLibrary(t *testing.T) {
	t.Parallel()
	c := NewDerivativeClassifier()
	got := GroupLibrary(c, libEntities())

	wantRegular := []int{4}
	gotRegular := make([]int, 0, len(got.Regular))
	for _, e := range got.Regular {
		gotRegular = append(gotRegular, e.ID)
	}
	if diff := cmp.Diff(wantRegular, gotRegular); diff != "" {
		t.Errorf("GroupLibrary regular IDs mismatch (-want +got):\n%s", diff)
	}

	fam, ok := got.Families["401652.mp4"]
	if !ok {
		t.Fatalf("GroupLibrary missing family for 401652.mp4, have %v", familyKeys(got))
	}
	if fam.Original == nil || fam.Original.ID != 1 {
		t.Errorf("family original = %v, want entity 1", fam.Original)
	}
	if ids := entityIDs(fam.Derivatives); !cmp.Equal(ids, []int{2, 3}) {
		t.Errorf("family derivatives = %v, want [2 3]", ids)
	}

	// Orphaned derivative: no entity named orphanbase.mp4 exists, but the
	// derivative still forms a family instead of leaking into regular.
	orphan, ok := got.Families["orphanbase.mp4"]
	if !ok {
		t.Fatalf("GroupLibrary missing orphan family, have %v", familyKeys(got))
	}
	if orphan.Original != nil {
		t.Errorf("orphan family original = %v, want nil", orphan.Original)
	}
	if ids := entityIDs(orphan.Derivatives); !cmp.Equal(ids, []int{5}) {
		t.Errorf("orphan family derivatives = %v, want [5]", ids)
	}
}

// Shuffling the input must not change the grouping.
func TestGroupLibraryDeterministic(t *testing.T) {
	t.Parallel()
	c := NewDerivativeClassifier()
	want := GroupLibrary(c, libEntities())

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := libEntities()
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got := GroupLibrary(c, shuffled)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("GroupLibrary not deterministic under shuffle %d (-want +got):\n%s", i, diff)
		}
	}
}

// Linking requires an exact match between the recovered base name and the
// original's literal file name. An original that itself needs sanitization
// is not linked; this under-grouping is intended behavior.
func TestGroupLibraryLiteralMatchOnly(t *testing.T) {
	t.Parallel()
	c := NewDerivativeClassifier()
	entities := []*Entity{
		{ID: 1, Name: "my clip?.mp4"}, // sanitized form would be my clip.mp4
		{ID: 2, Name: "my clip_cut.mp4"},
	}
	got := GroupLibrary(c, entities)

	fam, ok := got.Families["my clip.mp4"]
	if !ok {
		t.Fatalf("GroupLibrary missing family for recovered base, have %v", familyKeys(got))
	}
	if fam.Original != nil {
		t.Errorf("family original = %v, want nil (candidate name is not re-sanitized)", fam.Original)
	}
	if ids := entityIDs(got.Regular); !cmp.Equal(ids, []int{1}) {
		t.Errorf("regular = %v, want [1]", ids)
	}
}

// A derivative entity never becomes another family's original, even when a
// derivative's recovered base equals its name.
func TestGroupLibraryDerivativeNeverOriginal(t *testing.T) {
	t.Parallel()
	c := NewDerivativeClassifier()
	entities := []*Entity{
		{ID: 1, Name: "clip_cut.mp4"},
		{ID: 2, Name: "clip_cut_crop.mp4"}, // base resolves to clip_cut.mp4
	}
	got := GroupLibrary(c, entities)

	for base, fam := range got.Families {
		if fam.Original != nil && c.IsDerivative(fam.Original.Name) {
			t.Errorf("family %q has derivative original %q", base, fam.Original.Name)
		}
	}
}

func entityIDs(entities []*Entity) []int {
	ids := make([]int, 0, len(entities))
	for _, e := range entities {
		ids = append(ids, e.ID)
	}
	return ids
}

func familyKeys(g Grouped) []string {
	keys := make([]string, 0, len(g.Families))
	for k := range g.Families {
		keys = append(keys, k)
	}
	return keys
}
