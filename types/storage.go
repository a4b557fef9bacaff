package types

// Storage is the contract between the tab manager and the key-value persistence primitive.
type Storage interface {

	// Read returns the value stored under key. ok is false when nothing is stored.
	// Errors are treated by callers as a cold start, never propagated.
	Read(key string) (value string, ok bool, err error)

	// Write replaces the value stored under key.
	Write(key, value string) error
}

// Navigator changes the current URL of the shell.
type Navigator interface {
	Navigate(path string, replace bool)
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func(path string, replace bool)

func (f NavigatorFunc) Navigate(path string, replace bool) { f(path, replace) }
