package bufferpool

import "errors"

// ErrNoFreeSlot is returned when eviction could not locate any
// non-accessed filled slot within its retry budget.
var ErrNoFreeSlot = errors.New("bufferpool: no free slot available")

// ErrFailedToInsert is returned when a page id's probe chain saturates the
// whole directory (pathological hash clustering).
var ErrFailedToInsert = errors.New("bufferpool: failed to insert page, probe chain exhausted")

// ErrFailedToReadFromDisk is returned when the Reader collaborator surfaces
// an I/O error while filling a freshly installed frame.
var ErrFailedToReadFromDisk = errors.New("bufferpool: failed to read page from disk")
