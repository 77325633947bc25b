package maybe

// Of converts v into a Ref so that one API can accept owned values,
// pointers and holders alike:
//
//	T        -> Owned
//	*T       -> Borrowed (nil is rejected)
//	Cow[T]   -> Owned or Borrowed, following the Cow
//	*Ref[T]  -> returned unchanged
//
// Any other type fails with ErrUnsupported.
func Of[T any](v any) (*Ref[T], error) {
	switch x := v.(type) {
	case *Ref[T]:
		if x == nil {
			return nil, newError(CodeNilReference, "Of: nil *Ref[%s]", typeName[T]())
		}
		return x, nil
	case Cow[T]:
		return FromCow(x), nil
	case *T:
		if x == nil {
			return nil, newError(CodeNilReference, "Of: nil *%s", typeName[T]())
		}
		return Borrow(x), nil
	case T:
		return Own(x), nil
	default:
		return nil, newError(CodeUnsupported, "Of: cannot hold %T as %s", v, typeName[T]())
	}
}

// OfMut converts v into a Mut: T is Owned, *T is Borrowed and *Mut[T] is
// returned unchanged.
func OfMut[T any](v any) (*Mut[T], error) {
	switch x := v.(type) {
	case *Mut[T]:
		if x == nil {
			return nil, newError(CodeNilReference, "OfMut: nil *Mut[%s]", typeName[T]())
		}
		return x, nil
	case *T:
		if x == nil {
			return nil, newError(CodeNilReference, "OfMut: nil *%s", typeName[T]())
		}
		return BorrowMut(x), nil
	case T:
		return OwnMut(x), nil
	default:
		return nil, newError(CodeUnsupported, "OfMut: cannot hold %T as %s", v, typeName[T]())
	}
}
