package k8s

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"

	"github.com/skillcoder/podlog-archiver/internal/logic/archiver"
)

func toDomainTargets(pod *corev1.Pod) []archiver.DiscoveredTarget {
	out := make([]archiver.DiscoveredTarget, 0, len(pod.Spec.Containers))
	phase := toDomainPhase(pod.Status.Phase)

	for i := range pod.Spec.Containers {
		out = append(out, archiver.DiscoveredTarget{
			Target: archiver.Target{
				Namespace: pod.Namespace,
				Pod:       pod.Name,
				Container: pod.Spec.Containers[i].Name,
			},
			Phase: phase,
		})
	}

	return out
}

func toDomainPhase(phase corev1.PodPhase) archiver.PodPhase {
	switch phase {
	case corev1.PodPending:
		return archiver.PodPhasePending
	case corev1.PodRunning:
		return archiver.PodPhaseRunning
	case corev1.PodSucceeded:
		return archiver.PodPhaseSucceeded
	case corev1.PodFailed:
		return archiver.PodPhaseFailed
	default:
		return archiver.PodPhaseUnknown
	}
}

// toDomainContainerStatus returns a zero status for a declared container that has
// not reported a status yet.
func toDomainContainerStatus(pod *corev1.Pod, container string) (*archiver.ContainerStatus, error) {
	declared := false

	for i := range pod.Spec.Containers {
		if pod.Spec.Containers[i].Name == container {
			declared = true

			break
		}
	}

	if !declared {
		return nil, fmt.Errorf("container %q: %w", container, errContainerNotFound)
	}

	for i := range pod.Status.ContainerStatuses {
		status := &pod.Status.ContainerStatuses[i]
		if status.Name != container {
			continue
		}

		out := &archiver.ContainerStatus{RestartCount: status.RestartCount}

		if terminated := status.LastTerminationState.Terminated; terminated != nil {
			out.LastTerminatedAt = terminated.FinishedAt.UTC()
		}

		return out, nil
	}

	return &archiver.ContainerStatus{}, nil
}
