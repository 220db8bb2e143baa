// Package reflector provides type reflection utilities with caching.
// It is used to derive stable message type names for logs and metrics.
package reflector

import (
	"reflect"
	"sync"
)

// maxCacheSize bounds the type cache. Programs rarely have this many message
// types; when exceeded, the cache is cleared.
const maxCacheSize = 1024

var (
	muCache sync.RWMutex
	cache   = make(map[reflect.Type]TypeInfo)
)

// TypeInfo holds metadata about a reflected type.
type TypeInfo struct {
	Name  string       // Fully qualified name: "pkg/path.TypeName"
	Short string       // Package-qualified name: "pkg.TypeName"
	Type  reflect.Type // Element type for pointers
}

// TypeInfoOf returns TypeInfo for the dynamic type of x.
// A nil x yields the zero TypeInfo.
func TypeInfoOf(x any) TypeInfo {
	return TypeInfoForType(reflect.TypeOf(x))
}

// TypeInfoFor returns TypeInfo for type parameter T.
func TypeInfoFor[T any]() TypeInfo {
	return TypeInfoForType(reflect.TypeFor[T]())
}

// TypeInfoForType returns TypeInfo for t, unwrapping one level of pointer.
// Safe for concurrent use.
func TypeInfoForType(t reflect.Type) TypeInfo {
	if t == nil {
		return TypeInfo{}
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	muCache.RLock()
	ti, ok := cache[t]
	muCache.RUnlock()
	if ok {
		return ti
	}

	ti = TypeInfo{
		Name:  t.PkgPath() + "." + t.Name(),
		Short: t.String(),
		Type:  t,
	}
	if t.Name() == "" {
		// unnamed types (maps, slices, funcs) have no package path
		ti.Name = t.String()
	}

	muCache.Lock()
	defer muCache.Unlock()
	if existing, ok := cache[t]; ok {
		return existing
	}
	if len(cache) >= maxCacheSize {
		cache = make(map[reflect.Type]TypeInfo)
	}
	cache[t] = ti
	return ti
}
