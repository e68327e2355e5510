package scanner

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.trai.ch/reuse/internal/core/domain"
)

var timeType = reflect.TypeFor[time.Time]()

// identity keys the visited set. Reference values are keyed by type and
// address, slices additionally by length, and Identified values by node id.
type identity struct {
	typ  reflect.Type
	addr uintptr
	n    int
	node string
}

type walker struct {
	s       *Scanner
	step    string
	visited map[identity]struct{}
	found   []domain.Violation
}

func (s *Scanner) newWalker(step string) *walker {
	return &walker{
		s:       s,
		step:    step,
		visited: make(map[identity]struct{}),
	}
}

func (w *walker) walk(value any, path string) {
	w.walkValue(reflect.ValueOf(value), path)
}

func (w *walker) walkValue(v reflect.Value, path string) {
	defer func() {
		if r := recover(); r != nil {
			w.s.warn(w.step, path, r)
		}
	}()

	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if !v.IsValid() || isNilRef(v) {
		return
	}

	var iface any
	if v.CanInterface() {
		iface = v.Interface()
	}

	if id, ok := identityOf(v, iface); ok {
		if _, seen := w.visited[id]; seen {
			return
		}
		w.visited[id] = struct{}{}
	}

	typeName := v.Type().String()
	if t, ok := iface.(domain.Typed); ok {
		typeName = t.TypeName()
	}
	if w.s.isForbidden(typeName) {
		w.found = append(w.found, domain.Violation{Step: w.step, Type: typeName, Path: path})
		return
	}
	if w.isLeaf(v, typeName) {
		return
	}

	if t, ok := iface.(domain.Traversable); ok {
		children, err := t.Children()
		if err != nil {
			w.s.warn(w.step, path, err)
			return
		}
		for _, c := range children {
			w.walkValue(reflect.ValueOf(c.Value), joinPath(path, c.Label))
		}
		return
	}

	switch v.Kind() {
	case reflect.Pointer:
		w.walkValue(v.Elem(), path)
	case reflect.Struct:
		t := v.Type()
		// Unexported fields are walked too. They cannot be interfaced, so
		// only their reflected type and shape are inspected.
		for i := range t.NumField() {
			w.walkValue(v.Field(i), joinPath(path, t.Field(i).Name))
		}
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			w.walkValue(v.Index(i), path+"["+strconv.Itoa(i)+"]")
		}
	case reflect.Map:
		w.walkMap(v, path)
	}
}

func (w *walker) walkMap(v reflect.Value, path string) {
	type entry struct {
		label string
		key   reflect.Value
		value reflect.Value
	}
	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		entries = append(entries, entry{label: keyLabel(iter.Key()), key: iter.Key(), value: iter.Value()})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		return strings.Compare(a.label, b.label)
	})
	for _, e := range entries {
		quoted := strconv.Quote(e.label)
		w.walkValue(e.key, path+"[key "+quoted+"]")
		w.walkValue(e.value, path+"["+quoted+"]")
	}
}

func (w *walker) isLeaf(v reflect.Value, typeName string) bool {
	if w.s.isSafe(typeName) || v.Type() == timeType {
		return true
	}
	switch v.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	case reflect.Slice, reflect.Array:
		return v.Type().Elem().Kind() == reflect.Uint8
	default:
		return false
	}
}

func identityOf(v reflect.Value, iface any) (identity, bool) {
	if id, ok := iface.(domain.Identified); ok {
		if node := id.NodeID(); node != "" {
			return identity{node: node}, true
		}
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return identity{typ: v.Type(), addr: v.Pointer()}, true
	case reflect.Slice:
		return identity{typ: v.Type(), addr: v.Pointer(), n: v.Len()}, true
	default:
		return identity{}, false
	}
}

func isNilRef(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

func keyLabel(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	if k.CanInterface() {
		return fmt.Sprint(k.Interface())
	}
	return k.String()
}

// joinPath appends label to path. Index labels attach directly, field names
// are separated by a dot.
func joinPath(path, label string) string {
	switch {
	case path == "":
		return label
	case strings.HasPrefix(label, "["):
		return path + label
	default:
		return path + "." + label
	}
}
