package maybe

import "reflect"

// Cloner lets a type provide its own duplication.
//
// Holders duplicate a borrowed value when an owned one is demanded (IntoOwned,
// MakeOwned, the assignment operators of Ref). Without a Cloner the value is
// copied by assignment, except that slices and maps get a fresh backing store
// one level deep. Types holding pointers or nested slices and maps should
// implement Cloner to get an independent copy.
type Cloner[T any] interface {
	Clone() T
}

// duplicate returns an independent copy of *p.
func duplicate[T any](p *T) T {
	if c, ok := any(p).(Cloner[T]); ok {
		return c.Clone()
	}
	if c, ok := any(*p).(Cloner[T]); ok {
		return c.Clone()
	}
	rv := reflect.ValueOf(p).Elem()
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return *p
		}
		cp := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(cp, rv)
		return cp.Interface().(T)
	case reflect.Map:
		if rv.IsNil() {
			return *p
		}
		cp := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			cp.SetMapIndex(iter.Key(), iter.Value())
		}
		return cp.Interface().(T)
	default:
		return *p
	}
}
