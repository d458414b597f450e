package core

// Kind identifies the kind of a resolved member.
type Kind uint8

const (
	KindField Kind = iota + 1
	KindProperty
	KindIndexer
	KindMethod
	KindConstructor
)

func (k Kind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindProperty:
		return "property"
	case KindIndexer:
		return "indexer"
	case KindMethod:
		return "method"
	case KindConstructor:
		return "constructor"
	default:
		return "unknown"
	}
}
