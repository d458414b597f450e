package constants

const Namespace = "membind"

// ErrorFieldNamespace for all exported error field keys.
const ErrorFieldNamespace = Namespace

const (
	// IndexerName is the member name indexers are resolved and reported under.
	IndexerName = "Item"
	// IndexerSetterName is the method name of an indexer's setter.
	IndexerSetterName = "SetItem"

	PropertyGetterPrefix = "Get"
	PropertySetterPrefix = "Set"
)

// Cache key markers for signature-keyed members.
const (
	IndexerKeyPrefix     = "Indexer:"
	ConstructorKeyPrefix = "Constructor:"
)
