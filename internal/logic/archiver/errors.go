package archiver

import "errors"

var (
	// ErrTargetGone means the pod or container no longer exists; the worker stops for good.
	ErrTargetGone = errors.New("target gone")

	ErrReadCheckpoint   = errors.New("read checkpoint")
	ErrReadStatus       = errors.New("read container status")
	ErrCommitCheckpoint = errors.New("commit checkpoint")
	ErrFetchLogs        = errors.New("fetch logs")
	ErrUploadObject     = errors.New("upload object")
	ErrListTargets      = errors.New("list targets")
	ErrPruneCheckpoints = errors.New("prune checkpoints")
)
