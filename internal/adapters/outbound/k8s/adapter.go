package k8s

import (
	"context"
	"fmt"
	"log/slog"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/skillcoder/podlog-archiver/internal/logic/archiver"
)

type adapter struct {
	logger    *slog.Logger
	clientset kubernetes.Interface
}

// New creates a new K8s adapter.
func New(
	logger *slog.Logger,
	clientset kubernetes.Interface,
) archiver.Repository {
	return &adapter{
		logger:    logger,
		clientset: clientset,
	}
}

var _ archiver.Repository = (*adapter)(nil)

// ListTargetsQuery lists every container of every pod in namespaces.
// An empty namespace list means all namespaces.
func (a *adapter) ListTargetsQuery(
	ctx context.Context,
	namespaces []string,
) ([]archiver.DiscoveredTarget, error) {
	if len(namespaces) == 0 {
		namespaces = []string{metav1.NamespaceAll}
	}

	targets := make([]archiver.DiscoveredTarget, 0)

	for _, ns := range namespaces {
		podList, err := a.clientset.CoreV1().Pods(ns).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, fmt.Errorf("list pods in namespace %q: %w", ns, err)
		}

		for i := range podList.Items {
			targets = append(targets, toDomainTargets(&podList.Items[i])...)
		}
	}

	a.logger.DebugContext(ctx, "listed targets", "namespaces", namespaces, "count", len(targets))

	return targets, nil
}

func (a *adapter) GetContainerStatusQuery(
	ctx context.Context,
	target archiver.Target,
) (*archiver.ContainerStatus, error) {
	pod, err := a.clientset.CoreV1().Pods(target.Namespace).Get(ctx, target.Pod, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, fmt.Errorf("get pod: %w", errPodNotFound)
		}

		return nil, fmt.Errorf("get pod: %w", err)
	}

	return toDomainContainerStatus(pod, target.Container)
}

func (a *adapter) ReadLogQuery(
	ctx context.Context,
	target archiver.Target,
	opts archiver.LogOptions,
) ([]byte, error) {
	podLogOptions := &corev1.PodLogOptions{
		Container:    target.Container,
		SinceSeconds: opts.SinceSeconds,
		Previous:     opts.Previous,
	}

	data, err := a.clientset.CoreV1().Pods(target.Namespace).GetLogs(target.Pod, podLogOptions).DoRaw(ctx)
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, fmt.Errorf("read pod log: %w", errPodNotFound)
		}

		return nil, fmt.Errorf("read pod log: %w", err)
	}

	return data, nil
}
