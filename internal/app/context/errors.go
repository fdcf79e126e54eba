package context

import "errors"

// ErrAlreadyCommitted is returned by Add and Commit once a batch has committed.
var ErrAlreadyCommitted = errors.New("state batch already committed")
