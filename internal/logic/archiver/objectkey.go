package archiver

import (
	"path"
	"time"
)

// ObjectKey builds the archive key
// namespace/pod/container[/previous]/DD-MM-YYYY/HH-MM-SS.log, always in UTC.
func ObjectKey(target Target, kind ArchiveKind, at time.Time) string {
	at = at.UTC()

	parts := []string{target.Namespace, target.Pod, target.Container}
	if kind == ArchiveKindPrevious {
		parts = append(parts, previousSegment)
	}

	parts = append(parts, at.Format(objectDateLayout), at.Format(objectTimeLayout)+objectExtension)

	return path.Join(parts...)
}

// sinceSeconds converts the distance between checkpoint and now into the log API's
// elapsed-seconds parameter. Partial seconds round up so the window never starts after
// the checkpoint; the API rejects values below one.
func sinceSeconds(checkpoint, now time.Time) int64 {
	elapsed := now.Sub(checkpoint)

	secs := int64(elapsed / time.Second)
	if elapsed%time.Second > 0 {
		secs++
	}

	if secs < 1 {
		secs = 1
	}

	return secs
}
