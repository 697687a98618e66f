package archiver

import (
	"fmt"
	"time"
)

// Target identifies one extraction cycle: a single container of a single pod.
type Target struct {
	Namespace string
	Pod       string
	Container string
}

func (t Target) String() string {
	return fmt.Sprintf("%s/%s/%s", t.Namespace, t.Pod, t.Container)
}

// podKey is the discovery dedup key; containers of the same pod share it.
func (t Target) podKey() string {
	return t.Namespace + "/" + t.Pod
}

// PodPhase mirrors the subset of pod phases discovery cares about.
type PodPhase string

const (
	PodPhasePending   PodPhase = "Pending"
	PodPhaseRunning   PodPhase = "Running"
	PodPhaseSucceeded PodPhase = "Succeeded"
	PodPhaseFailed    PodPhase = "Failed"
	PodPhaseUnknown   PodPhase = "Unknown"
)

// DiscoveredTarget is a target together with the phase of its pod at listing time.
type DiscoveredTarget struct {
	Target Target
	Phase  PodPhase
}

// Loggable reports whether a new extraction cycle should be started for the target.
func (d DiscoveredTarget) Loggable() bool {
	return d.Phase == PodPhaseRunning || d.Phase == PodPhasePending
}

// ContainerStatus is the restart-relevant part of a container status.
type ContainerStatus struct {
	RestartCount int32
	// LastTerminatedAt is the finish time of the previous instance; zero when unknown.
	LastTerminatedAt time.Time
}

// LogOptions selects which part of a container log is read.
type LogOptions struct {
	// SinceSeconds bounds the window to the last N seconds; nil reads the whole log.
	SinceSeconds *int64
	// Previous reads the log of the previous, terminated instance.
	Previous bool
}

// ArchiveKind tells current-instance archives apart from restart reconciliations.
type ArchiveKind string

const (
	ArchiveKindCurrent  ArchiveKind = "current"
	ArchiveKindPrevious ArchiveKind = "previous"
)

// ArchiveObject is the immutable unit written to object storage.
type ArchiveObject struct {
	Key         string
	Payload     []byte
	ContentType string
	Kind        ArchiveKind
}

// CycleResult summarizes one extraction cycle.
type CycleResult struct {
	StartedAt       time.Time
	Committed       bool
	Objects         []string
	RestartArchived bool
	UploadFailures  int
}
