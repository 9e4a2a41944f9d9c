package component

// Name is a lookup key for systems that target an entity by name.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()
