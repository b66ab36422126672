// cmd/staffdir is a small demo: one employee directory held in a single
// multi-key tree, readable in four orders at once (id ascending, id
// descending, salary, name) without duplicating a single record.
//
// Usage: go run cmd/staffdir/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"mktree/tree"
)

type employee struct {
	ID     int
	Name   string
	Salary int
}

const (
	byID = iota
	byIDDesc
	bySalary
	byName
)

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Salary and name orderings fall back to the id so every key stays a total
// order over distinct employees.
func directoryComparators() []tree.CompareFunc[*employee, string] {
	return []tree.CompareFunc[*employee, string]{
		byID: func(a, b *employee, _ string) int {
			return cmpInt(a.ID, b.ID)
		},
		byIDDesc: func(a, b *employee, _ string) int {
			return cmpInt(b.ID, a.ID)
		},
		bySalary: func(a, b *employee, _ string) int {
			if c := cmpInt(a.Salary, b.Salary); c != 0 {
				return c
			}
			return cmpInt(a.ID, b.ID)
		},
		byName: func(a, b *employee, _ string) int {
			if c := strings.Compare(a.Name, b.Name); c != 0 {
				return c
			}
			return cmpInt(a.ID, b.ID)
		},
	}
}

var staff = []*employee{
	{ID: 101, Name: "Iris Chen", Salary: 92_000},
	{ID: 104, Name: "Marta Soler", Salary: 78_500},
	{ID: 108, Name: "Deepak Rao", Salary: 105_000},
	{ID: 112, Name: "Lena Fischer", Salary: 64_000},
	{ID: 117, Name: "Tom Aldred", Salary: 88_000},
	{ID: 121, Name: "Yuki Tanaka", Salary: 99_500},
}

func printOrder(dir *tree.Tree[*employee, string], key int, label string) error {
	it, err := dir.NewIterator(key)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", label)
	for e, ok := it.First(); ok; e, ok = it.Next() {
		fmt.Printf("  %4d  %-14s %8d\n", e.ID, e.Name, e.Salary)
	}
	fmt.Println()
	return nil
}

func run() error {
	dir, err := tree.New(directoryComparators(), "staff directory")
	if err != nil {
		return err
	}
	for _, e := range staff {
		if _, dup, err := dir.Add(e); err != nil {
			return err
		} else if dup {
			return fmt.Errorf("duplicate employee id %d", e.ID)
		}
	}
	fmt.Printf("%s: %d employees, %d orderings\n\n", dir.Context(), dir.Len(), dir.Keys())

	if err := printOrder(dir, byName, "Alphabetical"); err != nil {
		return err
	}
	if err := printOrder(dir, bySalary, "By salary"); err != nil {
		return err
	}

	// Relational lookups against the salary ordering.
	probe := &employee{Salary: 90_000, ID: -1}
	if e, ok, err := dir.Find(tree.FindGE, bySalary, probe); err != nil {
		return err
	} else if ok {
		fmt.Printf("First salary >= 90000: %s (%d)\n", e.Name, e.Salary)
	}
	if e, ok, err := dir.Find(tree.FindLT, bySalary, probe); err != nil {
		return err
	} else if ok {
		fmt.Printf("Highest salary < 90000: %s (%d)\n\n", e.Name, e.Salary)
	}

	// Hide one record from the name ordering only; it stays reachable by id.
	tom := staff[4]
	if _, ok, err := dir.RemoveKey(byName, tom); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("employee %d not in name ordering", tom.ID)
	}
	fmt.Printf("Hid %q from the alphabetical listing (still %d employees)\n\n",
		tom.Name, dir.Len())
	if err := printOrder(dir, byName, "Alphabetical after redaction"); err != nil {
		return err
	}

	// Snapshot with a 5% raise; the source directory is untouched.
	raised, err := dir.Copy(func(e *employee, _ string) *employee {
		c := *e
		c.Salary += c.Salary / 20
		return &c
	}, "raise proposal")
	if err != nil {
		return err
	}
	total := 0
	if err := raised.Walk(func(e *employee, _ string) (bool, error) {
		total += e.Salary
		return false, nil
	}); err != nil {
		return err
	}
	fmt.Printf("Proposal %q: %d employees, %d total salary\n",
		raised.Context(), raised.Len(), total)

	if err := raised.Close(nil, nil); err != nil {
		return err
	}
	return dir.Close(nil, nil)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "staffdir:", err)
		os.Exit(1)
	}
}
