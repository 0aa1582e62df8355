package search

import "errors"

// ErrNoSession indicates that the view was built without a query session.
var ErrNoSession = errors.New("search: no query session")
