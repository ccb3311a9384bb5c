package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("gallery image not found")

	ErrInvalidID = errors.New("invalid gallery image ID format")
)

// DeleteError reports an image delete where the blob step, the record step,
// or both failed. Both steps are always attempted.
type DeleteError struct {
	ImageID       string
	StoragePath   string
	BlobDeleted   bool
	RecordDeleted bool
	BlobErr       error
	RecordErr     error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("gallery image %s: delete incomplete (blob_deleted=%t, record_deleted=%t): %v",
		e.ImageID, e.BlobDeleted, e.RecordDeleted, errors.Join(e.BlobErr, e.RecordErr))
}

func (e *DeleteError) Unwrap() []error {
	var errs []error
	if e.BlobErr != nil {
		errs = append(errs, e.BlobErr)
	}
	if e.RecordErr != nil {
		errs = append(errs, e.RecordErr)
	}
	return errs
}

// NeedsReconciliation is true when exactly one step succeeded, leaving
// either an orphaned blob or a record pointing at a missing blob.
func (e *DeleteError) NeedsReconciliation() bool {
	return e.BlobDeleted != e.RecordDeleted
}

func (e *DeleteError) Details() map[string]any {
	details := map[string]any{
		"image_id":                e.ImageID,
		"storage_path":            e.StoragePath,
		"blob_deleted":            e.BlobDeleted,
		"record_deleted":          e.RecordDeleted,
		"reconciliation_required": e.NeedsReconciliation(),
	}
	if e.BlobErr != nil {
		details["blob_error"] = e.BlobErr.Error()
	}
	if e.RecordErr != nil {
		details["record_error"] = e.RecordErr.Error()
	}
	return details
}
