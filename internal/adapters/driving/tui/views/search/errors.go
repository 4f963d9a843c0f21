package search

import "errors"

// ErrNoSearchService indicates the view was built without a search
// service.
var ErrNoSearchService = errors.New("search service is required")
