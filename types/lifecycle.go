package types

// Lifecycle is the payload passed to OnTabOpen and OnTabClose.
type Lifecycle struct {
	Path  string
	Title string
}

// Hooks are the optional lifecycle callbacks. Nil fields are skipped.
type Hooks struct {
	// OnTabOpen fires once per entry creation.
	OnTabOpen func(Lifecycle)

	// OnTabClose fires once per entry removal: TTL, capacity, explicit close or range close.
	OnTabClose func(Lifecycle)

	// OnRestore fires once at initialization with the paths read from persistence,
	// before they are normalized.
	OnRestore func(paths []string)
}
