// Package deepsize estimates the deep memory footprint of a value by
// reflection. It answers "how many bytes does a multi-key tree cost per
// item?": a node carries one link record per key, and the parent pointers
// inside those records form cycles, so a naive recursive walk would never
// terminate. Visited pointers are tracked so every reachable allocation
// counts exactly once.
package deepsize

import (
	"reflect"
	"unsafe"
)

// Of returns an estimate of the total memory occupied by v, including all
// reachable heap allocations (strings, slices, pointers, maps). Cyclic
// structures are safe: each pointer target is counted once.
func Of(v any) int64 {
	if v == nil {
		return 0
	}
	seen := make(map[uintptr]bool)
	return total(reflect.ValueOf(v), seen)
}

// total returns the size of v itself plus everything reachable from it.
func total(v reflect.Value, seen map[uintptr]bool) int64 {
	if !v.IsValid() {
		return 0
	}

	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return int64(v.Type().Size())
		}
		ptr := v.Pointer()
		if seen[ptr] {
			return int64(v.Type().Size())
		}
		seen[ptr] = true
		return int64(v.Type().Size()) + total(v.Elem(), seen)

	case reflect.String:
		// header + backing bytes
		return int64(v.Type().Size()) + int64(v.Len())

	case reflect.Slice:
		if v.IsNil() {
			return int64(v.Type().Size())
		}
		s := int64(v.Type().Size())
		s += int64(v.Cap()) * int64(v.Type().Elem().Size())
		if containsPointers(v.Type().Elem()) {
			for i := 0; i < v.Len(); i++ {
				s += indirect(v.Index(i), seen)
			}
		}
		return s

	case reflect.Array:
		s := int64(0)
		if containsPointers(v.Type().Elem()) {
			for i := 0; i < v.Len(); i++ {
				s += indirect(v.Index(i), seen)
			}
		}
		return int64(v.Type().Size()) + s

	case reflect.Struct:
		s := int64(0)
		for i := 0; i < v.NumField(); i++ {
			s += indirect(v.Field(i), seen)
		}
		// The struct's own size already covers inline fields and padding.
		return int64(v.Type().Size()) + s

	case reflect.Map:
		if v.IsNil() {
			return int64(v.Type().Size())
		}
		// header + rough hmap bookkeeping
		s := int64(v.Type().Size()) + int64(unsafe.Sizeof(uint64(0)))*8
		iter := v.MapRange()
		for iter.Next() {
			s += total(iter.Key(), seen)
			s += total(iter.Value(), seen)
		}
		return s

	case reflect.Interface:
		if v.IsNil() {
			return int64(v.Type().Size())
		}
		return int64(v.Type().Size()) + total(v.Elem(), seen)

	default:
		// bool, int*, uint*, float*, complex*
		return int64(v.Type().Size())
	}
}

// indirect returns only the heap-allocated size behind v, excluding the
// inline storage already counted by the enclosing container.
func indirect(v reflect.Value, seen map[uintptr]bool) int64 {
	if !v.IsValid() {
		return 0
	}

	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return 0
		}
		ptr := v.Pointer()
		if seen[ptr] {
			return 0
		}
		seen[ptr] = true
		return int64(v.Elem().Type().Size()) + indirect(v.Elem(), seen)

	case reflect.String:
		return int64(v.Len())

	case reflect.Slice:
		if v.IsNil() {
			return 0
		}
		s := int64(v.Cap()) * int64(v.Type().Elem().Size())
		if containsPointers(v.Type().Elem()) {
			for i := 0; i < v.Len(); i++ {
				s += indirect(v.Index(i), seen)
			}
		}
		return s

	case reflect.Map:
		if v.IsNil() {
			return 0
		}
		s := int64(unsafe.Sizeof(uint64(0))) * 8
		iter := v.MapRange()
		for iter.Next() {
			s += total(iter.Key(), seen)
			s += total(iter.Value(), seen)
		}
		return s

	case reflect.Interface:
		if v.IsNil() {
			return 0
		}
		return total(v.Elem(), seen)

	case reflect.Struct:
		s := int64(0)
		for i := 0; i < v.NumField(); i++ {
			s += indirect(v.Field(i), seen)
		}
		return s

	case reflect.Array:
		s := int64(0)
		if containsPointers(v.Type().Elem()) {
			for i := 0; i < v.Len(); i++ {
				s += indirect(v.Index(i), seen)
			}
		}
		return s

	default:
		return 0
	}
}

// containsPointers reports whether a type can reference heap storage.
func containsPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.String,
		reflect.Interface:
		return true
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if containsPointers(t.Field(i).Type) {
				return true
			}
		}
	case reflect.Array:
		return containsPointers(t.Elem())
	}
	return false
}
