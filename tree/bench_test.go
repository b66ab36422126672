package tree

import (
	"math/rand"
	"testing"

	"github.com/google/btree"
)

// The benchmarks pit the two-key tree against google/btree to quantify the
// cost of maintaining a second ordering. A single-key fixture is included
// for a like-for-like comparison.

func benchValues(n int) []int {
	rng := rand.New(rand.NewSource(1))
	vals := make([]int, n)
	for i := range vals {
		vals[i] = rng.Int()
	}
	return vals
}

func BenchmarkAdd_TwoKeys(b *testing.B) {
	vals := benchValues(b.N)
	tr, _ := New([]CompareFunc[int, *testCtx]{ascInt, descInt}, &testCtx{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Add(vals[i])
	}
}

func BenchmarkAdd_OneKey(b *testing.B) {
	vals := benchValues(b.N)
	tr, _ := New([]CompareFunc[int, *testCtx]{ascInt}, &testCtx{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Add(vals[i])
	}
}

func BenchmarkAdd_GoogleBTree(b *testing.B) {
	vals := benchValues(b.N)
	bt := btree.NewG(32, func(a, b int) bool { return a < b })
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bt.ReplaceOrInsert(vals[i])
	}
}

func BenchmarkFindEqual(b *testing.B) {
	const n = 1 << 16
	vals := benchValues(n)
	tr, _ := New([]CompareFunc[int, *testCtx]{ascInt, descInt}, &testCtx{})
	for _, v := range vals {
		tr.Add(v)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Find(FindEqual, 0, vals[i%n])
	}
}

func BenchmarkFindEqual_GoogleBTree(b *testing.B) {
	const n = 1 << 16
	vals := benchValues(n)
	bt := btree.NewG(32, func(a, b int) bool { return a < b })
	for _, v := range vals {
		bt.ReplaceOrInsert(v)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bt.Get(vals[i%n])
	}
}

func BenchmarkIterate(b *testing.B) {
	const n = 1 << 14
	vals := benchValues(n)
	tr, _ := New([]CompareFunc[int, *testCtx]{ascInt, descInt}, &testCtx{})
	for _, v := range vals {
		tr.Add(v)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		it, _ := tr.NewIterator(0)
		for _, ok := it.First(); ok; _, ok = it.Next() {
		}
	}
}
