// cmd/stress is a randomized self-checking exerciser for the mktree
// engine. Every run draws a fresh batch of random values, maintains them
// in a two-key tree (ascending and descending), and cross-checks each
// operation — relational finds, per-key add/remove, copy, iterators,
// walk, removal — against binary search over a reference sorted array.
package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/urfave/cli/v2"

	"mktree/tree"
	"mktree/version"
)

func main() {
	app := &cli.App{
		Name:    "stress",
		Usage:   "randomized self-checking stress runs for the mktree engine",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:    "seed",
				Usage:   "starting RNG seed (default: current time)",
				Value:   time.Now().UnixNano(),
				EnvVars: []string{"MKTREE_SEED"},
			},
			&cli.IntFlag{
				Name:    "nodes",
				Usage:   "number of values per run",
				Value:   15,
				EnvVars: []string{"MKTREE_NODES"},
			},
			&cli.IntFlag{
				Name:    "runs",
				Usage:   "number of runs",
				Value:   15,
				EnvVars: []string{"MKTREE_RUNS"},
			},
			&cli.IntFlag{
				Name:  "range-begin",
				Usage: "smallest possible value (inclusive)",
				Value: 0,
			},
			&cli.IntFlag{
				Name:  "range-end",
				Usage: "largest possible value (exclusive)",
				Value: 100,
			},
			&cli.IntFlag{
				Name:    "verbosity",
				Aliases: []string{"v"},
				Usage:   "higher numbers give more output",
				Value:   0,
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cctx *cli.Context) error {
	opts := options{
		nodes:      cctx.Int("nodes"),
		rangeBegin: cctx.Int("range-begin"),
		rangeEnd:   cctx.Int("range-end"),
		verbosity:  cctx.Int("verbosity"),
	}
	if opts.nodes <= 0 {
		return fmt.Errorf("nodes must be positive, got %d", opts.nodes)
	}
	if opts.rangeBegin >= opts.rangeEnd {
		return fmt.Errorf("range start (%d) must be less than range end (%d)",
			opts.rangeBegin, opts.rangeEnd)
	}

	runs := cctx.Int("runs")
	seed := cctx.Int64("seed")
	failed := 0
	for i := 0; i < runs; i++ {
		fmt.Printf("Run %d/%d with seed %d\n", i+1, runs, seed)
		if err := doRun(opts, seed); err != nil {
			fmt.Printf("FAILURE (seed %d): %v\n", seed, err)
			failed++
		}
		seed++
	}

	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d/%d RUNS FAILED", failed, runs), 1)
	}
	fmt.Println("\nALL RUNS PASSED")
	return nil
}

type options struct {
	nodes      int
	rangeBegin int
	rangeEnd   int
	verbosity  int
}

// runCtx is the tree context; the counters observe callback invocations.
type runCtx struct {
	copies int
	items  int
}

func ascInt(a, b int, _ *runCtx) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func descInt(a, b int, ctx *runCtx) int { return ascInt(b, a, ctx) }

var comparators = []tree.CompareFunc[int, *runCtx]{ascInt, descInt}

// countingAllocator tracks node traffic for the copied tree, standing in
// for the custom allocator of the original harness.
type countingAllocator struct {
	allocs, frees int
}

func (a *countingAllocator) NewNode() (*tree.Node[int], error) {
	a.allocs++
	return &tree.Node[int]{}, nil
}

func (a *countingAllocator) FreeNode(*tree.Node[int]) { a.frees++ }

// state carries one run's inputs and trees between steps.
type state struct {
	opts      options
	rng       *rand.Rand
	insertSeq []int
	deleteSeq []int
	sorted    []int // distinct values, ascending
	dups      int
	tr        *tree.Tree[int, *runCtx]
	cp        *tree.Tree[int, *runCtx]
	cpAlloc   *countingAllocator
}

func doRun(opts options, seed int64) error {
	rng := rand.New(rand.NewSource(seed))
	st := &state{opts: opts, rng: rng}

	st.insertSeq = make([]int, opts.nodes)
	for i := range st.insertSeq {
		st.insertSeq[i] = opts.rangeBegin + rng.Intn(opts.rangeEnd-opts.rangeBegin)
	}
	st.deleteSeq = append([]int(nil), st.insertSeq...)
	rng.Shuffle(len(st.deleteSeq), func(i, j int) {
		st.deleteSeq[i], st.deleteSeq[j] = st.deleteSeq[j], st.deleteSeq[i]
	})
	distinct := make(map[int]bool, opts.nodes)
	for _, v := range st.insertSeq {
		distinct[v] = true
	}
	for v := range distinct {
		st.sorted = append(st.sorted, v)
	}
	sort.Ints(st.sorted)
	st.dups = opts.nodes - len(st.sorted)

	if opts.verbosity >= 1 {
		fmt.Printf("  distinct=%d insert=%v\n", len(st.sorted), st.insertSeq)
	}

	steps := []struct {
		name string
		fn   func(*state) error
	}{
		{"constructor errors", stepNewErrors},
		{"empty tree teardown", stepEmptyTeardown},
		{"add", stepAdd},
		{"find", stepFind},
		{"per-key add/remove", stepPerKey},
		{"copy", stepCopy},
		{"iterators", stepIterators},
		{"walk", stepWalk},
		{"remove", stepRemove},
		{"teardown", stepTeardown},
	}
	for _, step := range steps {
		if err := step.fn(st); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
		if opts.verbosity >= 2 {
			fmt.Printf("  ok: %s\n", step.name)
		}
	}
	return nil
}

func stepNewErrors(*state) error {
	if _, err := tree.New[int, *runCtx](nil, &runCtx{}); err == nil {
		return errors.New("New with empty comparator table should fail")
	}
	var nilTree *tree.Tree[int, *runCtx]
	if nilTree.Len() != 0 {
		return errors.New("Len of nil tree should be 0")
	}
	return nil
}

func stepEmptyTeardown(*state) error {
	tr, err := tree.New(comparators, &runCtx{})
	if err != nil {
		return err
	}
	ctxRuns := 0
	err = tr.Close(
		func(int, *runCtx) error { return errors.New("no items expected") },
		func(*runCtx) error { ctxRuns++; return nil },
	)
	if err != nil {
		return err
	}
	if ctxRuns != 1 {
		return fmt.Errorf("context cleanup ran %d times, want 1", ctxRuns)
	}
	return nil
}

func stepAdd(st *state) error {
	tr, err := tree.New(comparators, &runCtx{})
	if err != nil {
		return err
	}
	st.tr = tr

	dups := 0
	for _, v := range st.insertSeq {
		_, found, err := tr.Add(v)
		if err != nil {
			return fmt.Errorf("Add(%d): %w", v, err)
		}
		if found {
			dups++
		}
	}
	if dups != st.dups {
		return fmt.Errorf("duplicates reported %d, want %d", dups, st.dups)
	}
	if tr.Len() != len(st.sorted) {
		return fmt.Errorf("Len %d, want %d", tr.Len(), len(st.sorted))
	}
	return nil
}

var findTypes = []tree.FindType{
	tree.FindEqual, tree.FindGT, tree.FindLT, tree.FindGE, tree.FindLE,
}

// mirror maps a find type to its value-space meaning under the reversed
// comparator of key 1.
func mirror(typ tree.FindType) tree.FindType {
	switch typ {
	case tree.FindGT:
		return tree.FindLT
	case tree.FindLT:
		return tree.FindGT
	case tree.FindGE:
		return tree.FindLE
	case tree.FindLE:
		return tree.FindGE
	default:
		return typ
	}
}

// refFind answers a relational find by binary search over the sorted
// distinct values.
func refFind(sorted []int, v int, typ tree.FindType) (int, bool) {
	i := sort.SearchInts(sorted, v)
	switch typ {
	case tree.FindEqual:
		if i < len(sorted) && sorted[i] == v {
			return v, true
		}
	case tree.FindGE:
		if i < len(sorted) {
			return sorted[i], true
		}
	case tree.FindGT:
		if i < len(sorted) && sorted[i] == v {
			i++
		}
		if i < len(sorted) {
			return sorted[i], true
		}
	case tree.FindLE:
		if i < len(sorted) && sorted[i] == v {
			return v, true
		}
		if i > 0 {
			return sorted[i-1], true
		}
	case tree.FindLT:
		if i > 0 {
			return sorted[i-1], true
		}
	}
	return 0, false
}

func (st *state) checkFind(key int, probe int, typ tree.FindType) error {
	want := typ
	if key == 1 {
		want = mirror(typ)
	}
	wantV, wantOK := refFind(st.sorted, probe, want)
	gotV, gotOK, err := st.tr.Find(typ, key, probe)
	if err != nil {
		return fmt.Errorf("Find(%s, %d, %d): %w", typ, key, probe, err)
	}
	if gotOK != wantOK || (wantOK && gotV != wantV) {
		return fmt.Errorf("Find(%s, %d, %d) = (%d, %v), reference says (%d, %v)",
			typ, key, probe, gotV, gotOK, wantV, wantOK)
	}
	return nil
}

func stepFind(st *state) error {
	for _, typ := range findTypes {
		for key := 0; key < st.tr.Keys(); key++ {
			for _, v := range st.insertSeq {
				if err := st.checkFind(key, v, typ); err != nil {
					return err
				}
				probe := st.opts.rangeBegin + st.rng.Intn(st.opts.rangeEnd-st.opts.rangeBegin)
				if err := st.checkFind(key, probe, typ); err != nil {
					return err
				}
			}
		}
	}

	// Argument validation must reject bad types and key indexes.
	if _, _, err := st.tr.Find(tree.FindType(99), 0, 1); err == nil {
		return errors.New("invalid find type accepted")
	}
	if _, _, err := st.tr.Find(tree.FindEqual, st.tr.Keys(), 1); err == nil {
		return errors.New("out-of-range key index accepted")
	}
	return nil
}

func stepPerKey(st *state) error {
	uniq := len(st.sorted)
	for key := 0; key < st.tr.Keys(); key++ {
		other := 1 - key

		removed := 0
		for _, v := range st.deleteSeq {
			_, found, err := st.tr.RemoveKey(key, v)
			if err != nil {
				return fmt.Errorf("RemoveKey(%d, %d): %w", key, v, err)
			}
			if found {
				removed++
			}
			if _, found, _ := st.tr.Find(tree.FindEqual, key, v); found {
				return fmt.Errorf("value %d still reachable under key %d", v, key)
			}
			if _, found, _ := st.tr.Find(tree.FindEqual, other, v); !found {
				return fmt.Errorf("value %d lost under key %d", v, other)
			}
		}
		if removed != uniq {
			return fmt.Errorf("per-key removed %d, want %d", removed, uniq)
		}
		if st.tr.Len() != uniq {
			return fmt.Errorf("Len %d after per-key removal, want %d", st.tr.Len(), uniq)
		}

		fresh := 0
		for _, v := range st.insertSeq {
			_, found, err := st.tr.AddKey(key, v)
			if err != nil {
				return fmt.Errorf("AddKey(%d, %d): %w", key, v, err)
			}
			if !found {
				fresh++
			}
		}
		if fresh != uniq {
			return fmt.Errorf("per-key re-added %d, want %d", fresh, uniq)
		}
		if st.tr.Len() != uniq {
			return fmt.Errorf("Len %d after per-key re-add, want %d", st.tr.Len(), uniq)
		}
	}
	return nil
}

func stepCopy(st *state) error {
	st.cpAlloc = &countingAllocator{}
	cp, err := st.tr.Copy(
		func(v int, ctx *runCtx) int { ctx.copies++; return v },
		&runCtx{},
		tree.WithAllocator[int](st.cpAlloc),
	)
	if err != nil {
		return err
	}
	st.cp = cp

	if got := st.tr.Context().copies; got != len(st.sorted) {
		return fmt.Errorf("copy callback ran %d times, want %d", got, len(st.sorted))
	}
	if cp.Len() != st.tr.Len() {
		return fmt.Errorf("copy Len %d, source Len %d", cp.Len(), st.tr.Len())
	}
	return nil
}

func collect(tr *tree.Tree[int, *runCtx], key int) ([]int, error) {
	it, err := tr.NewIterator(key)
	if err != nil {
		return nil, err
	}
	var out []int
	for v, ok := it.First(); ok; v, ok = it.Next() {
		out = append(out, v)
	}
	return out, nil
}

func stepIterators(st *state) error {
	asc, err := collect(st.tr, 0)
	if err != nil {
		return err
	}
	desc, err := collect(st.tr, 1)
	if err != nil {
		return err
	}
	cpAsc, err := collect(st.cp, 0)
	if err != nil {
		return err
	}

	if len(asc) != len(st.sorted) {
		return fmt.Errorf("ascending iterator yielded %d items, want %d",
			len(asc), len(st.sorted))
	}
	for i, v := range st.sorted {
		if asc[i] != v {
			return fmt.Errorf("ascending position %d: got %d, want %d", i, asc[i], v)
		}
		if desc[len(desc)-1-i] != v {
			return fmt.Errorf("descending sequence is not the exact reverse at %d", i)
		}
		if cpAsc[i] != v {
			return fmt.Errorf("copy diverges from source at position %d", i)
		}
	}

	// Cursor protocol: Cur is stable, Prev/Seek/Next round-trip.
	it, err := st.tr.NewIterator(0)
	if err != nil {
		return err
	}
	prev, hasPrev := 0, false
	for v, ok := it.First(); ok; v, ok = it.Next() {
		if cur, ok := it.Cur(); !ok || cur != v {
			return fmt.Errorf("Cur = (%d, %v), want (%d, true)", cur, ok, v)
		}
		pv, pok := it.Prev()
		if pok != hasPrev || (pok && pv != prev) {
			return fmt.Errorf("Prev = (%d, %v), want (%d, %v)", pv, pok, prev, hasPrev)
		}
		if sv, sok := it.Seek(v); !sok || sv != v {
			return fmt.Errorf("Seek(%d) failed", v)
		}
		prev, hasPrev = v, true
	}
	if _, ok := it.Next(); ok {
		return errors.New("Next past the end should fail")
	}
	return nil
}

func stepWalk(st *state) error {
	uniq := len(st.sorted)

	// Full walk over the source.
	visited := 0
	err := st.tr.Walk(func(v int, _ *runCtx) (bool, error) {
		if visited < uniq && v != st.sorted[visited] {
			return false, fmt.Errorf("walk out of order at %d", visited)
		}
		visited++
		return false, nil
	})
	if err != nil {
		return err
	}
	if visited != uniq {
		return fmt.Errorf("walk visited %d, want %d", visited, uniq)
	}

	// Early stop on the copy at a random threshold.
	stopAfter := 1 + st.rng.Intn(uniq)
	visited = 0
	err = st.cp.Walk(func(int, *runCtx) (bool, error) {
		visited++
		return visited == stopAfter, nil
	})
	if err != nil {
		return err
	}
	if visited != stopAfter {
		return fmt.Errorf("early-stop walk visited %d, want %d", visited, stopAfter)
	}
	return nil
}

func stepRemove(st *state) error {
	misses := 0
	for _, v := range st.deleteSeq {
		_, found, err := st.tr.Remove(v)
		if err != nil {
			return fmt.Errorf("Remove(%d): %w", v, err)
		}
		if !found {
			misses++
		}
	}
	if misses != st.dups {
		return fmt.Errorf("remove misses %d, want %d", misses, st.dups)
	}
	if st.tr.Len() != 0 {
		return fmt.Errorf("Len %d after removing everything, want 0", st.tr.Len())
	}
	return nil
}

func stepTeardown(st *state) error {
	if err := st.tr.Close(nil, func(*runCtx) error { return nil }); err != nil {
		return err
	}

	// The copy still holds every item; Close must visit each exactly once
	// and hand every node back to its allocator.
	itemFn := func(_ int, ctx *runCtx) error { ctx.items++; return nil }
	cpCtx := st.cp.Context()
	if err := st.cp.Close(itemFn, nil); err != nil {
		return err
	}
	if cpCtx.items != len(st.sorted) {
		return fmt.Errorf("item cleanup ran %d times, want %d", cpCtx.items, len(st.sorted))
	}
	if st.cpAlloc.allocs != st.cpAlloc.frees {
		return fmt.Errorf("allocator imbalance: %d allocs, %d frees",
			st.cpAlloc.allocs, st.cpAlloc.frees)
	}
	return nil
}
