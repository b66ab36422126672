package tree

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/google/btree"
	"github.com/stretchr/testify/require"
)

var allFindTypes = []FindType{FindEqual, FindGT, FindLT, FindGE, FindLE}

// mirrorFind maps a find type onto its value-space equivalent under a
// reversed comparator: "greater" under the descending key means a smaller
// value.
func mirrorFind(typ FindType) FindType {
	switch typ {
	case FindGT:
		return FindLT
	case FindLT:
		return FindGT
	case FindGE:
		return FindLE
	case FindLE:
		return FindGE
	default:
		return typ
	}
}

// refFind is the oracle: binary search over the sorted distinct values
// with the same relational semantics as Tree.Find.
func refFind(sorted []int, v int, typ FindType) (int, bool) {
	i := sort.SearchInts(sorted, v) // first index with sorted[i] >= v
	switch typ {
	case FindEqual:
		if i < len(sorted) && sorted[i] == v {
			return v, true
		}
	case FindGE:
		if i < len(sorted) {
			return sorted[i], true
		}
	case FindGT:
		if i < len(sorted) && sorted[i] == v {
			i++
		}
		if i < len(sorted) {
			return sorted[i], true
		}
	case FindLE:
		if i < len(sorted) && sorted[i] == v {
			return v, true
		}
		if i > 0 {
			return sorted[i-1], true
		}
	case FindLT:
		if i > 0 {
			return sorted[i-1], true
		}
	}
	return 0, false
}

func TestFind_InvalidType(t *testing.T) {
	tr := newPairTree(t)
	mustAdd(t, tr, 1)
	for _, typ := range []FindType{-1, FindLE + 1, 99} {
		_, _, err := tr.Find(typ, 0, 1)
		var findErr *FindTypeError
		require.ErrorAs(t, err, &findErr, "Find(%d)", int(typ))
	}
}

func TestFind_TwoKeyScenario(t *testing.T) {
	tr := newPairTree(t)
	for _, v := range []int{5, 3, 5, 8, 1} {
		_, _, err := tr.Add(v)
		require.NoError(t, err)
	}
	require.Equal(t, 4, tr.Len())

	v, found, err := tr.Find(FindEqual, 0, 8)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 8, v)

	v, found, err = tr.Find(FindGT, 0, 5)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 8, v, "GT 5 under ascending key")

	v, found, err = tr.Find(FindGT, 1, 5)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 3, v, "GT 5 under descending key")
}

func TestFind_EmptyTree(t *testing.T) {
	tr := newPairTree(t)
	for _, typ := range allFindTypes {
		_, found, err := tr.Find(typ, 0, 5)
		require.NoError(t, err)
		require.False(t, found, "%s on empty tree", typ)
	}
}

// TestFind_AgainstReference cross-checks every find type on both keys
// against binary search over a reference sorted array, for present and
// absent probes alike.
func TestFind_AgainstReference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tr := newPairTree(t)
	present := make(map[int]bool)
	for i := 0; i < 400; i++ {
		v := rng.Intn(1000)
		_, _, err := tr.Add(v)
		require.NoError(t, err)
		present[v] = true
	}
	sorted := make([]int, 0, len(present))
	for v := range present {
		sorted = append(sorted, v)
	}
	sort.Ints(sorted)

	for probe := -1; probe <= 1000; probe++ {
		for _, typ := range allFindTypes {
			wantV, wantOK := refFind(sorted, probe, typ)
			gotV, gotOK, err := tr.Find(typ, 0, probe)
			require.NoError(t, err)
			require.Equal(t, wantOK, gotOK, "key 0 %s probe %d", typ, probe)
			if wantOK {
				require.Equal(t, wantV, gotV, "key 0 %s probe %d", typ, probe)
			}

			// The descending key must agree through the mirrored type.
			wantV, wantOK = refFind(sorted, probe, mirrorFind(typ))
			gotV, gotOK, err = tr.Find(typ, 1, probe)
			require.NoError(t, err)
			require.Equal(t, wantOK, gotOK, "key 1 %s probe %d", typ, probe)
			if wantOK {
				require.Equal(t, wantV, gotV, "key 1 %s probe %d", typ, probe)
			}
		}
	}
}

// TestFind_AgainstBTree checks relational finds against google/btree's
// range traversals over the same values.
func TestFind_AgainstBTree(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	tr := newPairTree(t)
	bt := btree.NewG(32, func(a, b int) bool { return a < b })
	for i := 0; i < 500; i++ {
		v := rng.Intn(2000)
		_, _, err := tr.Add(v)
		require.NoError(t, err)
		bt.ReplaceOrInsert(v)
	}

	btFind := func(v int, typ FindType) (int, bool) {
		var out int
		ok := false
		switch typ {
		case FindEqual:
			return bt.Get(v)
		case FindGE, FindGT:
			bt.AscendGreaterOrEqual(v, func(x int) bool {
				if typ == FindGT && x == v {
					return true
				}
				out, ok = x, true
				return false
			})
		case FindLE, FindLT:
			bt.DescendLessOrEqual(v, func(x int) bool {
				if typ == FindLT && x == v {
					return true
				}
				out, ok = x, true
				return false
			})
		}
		return out, ok
	}

	for i := 0; i < 2000; i++ {
		probe := rng.Intn(2200) - 100
		for _, typ := range allFindTypes {
			wantV, wantOK := btFind(probe, typ)
			gotV, gotOK, err := tr.Find(typ, 0, probe)
			require.NoError(t, err)
			require.Equal(t, wantOK, gotOK, "%s probe %d", typ, probe)
			if wantOK {
				require.Equal(t, wantV, gotV, "%s probe %d", typ, probe)
			}
		}
	}
}
