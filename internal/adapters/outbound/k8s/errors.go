package k8s

// PodNotFoundError means the pod or its container no longer exists.
type PodNotFoundError struct{}

func (e *PodNotFoundError) Error() string {
	return "pod not found"
}

func (e *PodNotFoundError) IsNotFound() {}

var errPodNotFound = &PodNotFoundError{}

// ContainerNotFoundError means the pod exists but does not run the container.
type ContainerNotFoundError struct{}

func (e *ContainerNotFoundError) Error() string {
	return "container not found in pod spec"
}

func (e *ContainerNotFoundError) IsNotFound() {}

var errContainerNotFound = &ContainerNotFoundError{}
