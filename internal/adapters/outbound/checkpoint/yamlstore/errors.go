package yamlstore

import "errors"

var (
	ErrMalformedDocument = errors.New("malformed checkpoint document")
	ErrStoreClosed       = errors.New("checkpoint store is closed")
	ErrStoreNotStarted   = errors.New("checkpoint store is not started")
)
