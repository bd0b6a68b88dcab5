package tinyfsm

import "reflect"

// TypeTag identifies the type of an event payload. Tags are comparable and
// can be used as map keys. The zero TypeTag matches no payload.
type TypeTag struct {
	rt   reflect.Type
	name string
}

// Tagged is implemented by payloads that carry an explicit tag, such as the
// variants of a tagged union. Fire routes them by EventTag instead of their
// Go type.
type Tagged interface {
	EventTag() TypeTag
}

// TagOf returns the tag of Go type T.
func TagOf[T any]() TypeTag {
	return TypeTag{rt: reflect.TypeFor[T]()}
}

// TagFor returns the tag used to route payload.
func TagFor(payload any) TypeTag {
	if t, ok := payload.(Tagged); ok {
		return t.EventTag()
	}
	if payload == nil {
		return TypeTag{}
	}
	return TypeTag{rt: reflect.TypeOf(payload)}
}

// NamedTag returns an explicit tag. Named tags never equal Go type tags.
func NamedTag(name string) TypeTag {
	return TypeTag{name: name}
}

// IsZero reports whether t is the sentinel used for entry and exit keys.
func (t TypeTag) IsZero() bool {
	return t.rt == nil && t.name == ""
}

func (t TypeTag) String() string {
	switch {
	case t.rt != nil:
		return t.rt.String()
	case t.name != "":
		return "#" + t.name
	default:
		return "-"
	}
}
