package eventstore

import (
	derrors "github.com/mmonline245-max/unitstool/internal/foundation/errors"
)

var (
	// ErrDatabaseOpenFailed indicates the SQLite database could not be opened.
	ErrDatabaseOpenFailed = derrors.EventStoreError("could not open build history database").Build()

	// ErrInitializeSchemaFailed indicates the schema could not be created.
	ErrInitializeSchemaFailed = derrors.EventStoreError("failed to initialize build history schema").Build()

	// ErrEventAppendFailed indicates appending an event failed.
	ErrEventAppendFailed = derrors.EventStoreError("failed to append build event").Build()

	// ErrEventQueryFailed indicates querying or scanning events failed.
	ErrEventQueryFailed = derrors.EventStoreError("failed to query build events").Build()

	// ErrMarshalPayloadFailed indicates an event payload could not be encoded.
	ErrMarshalPayloadFailed = derrors.EventStoreError("failed to marshal event payload").Build()
)

func wrap(sentinel *derrors.ClassifiedError, cause error) error {
	return derrors.WrapError(cause, sentinel.Category(), sentinel.Message()).Build()
}
