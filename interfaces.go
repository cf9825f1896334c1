package ioc

// Shutdowner defines the teardown capability checked during Dispose.
// Cached instances implementing it are shut down before the container
// clears its tables.
type Shutdowner interface {
	// OnShutdown is called when the container is being disposed.
	// It should release any resources held by the instance.
	OnShutdown() error
}

// State describes the lifecycle phase of a container.
type State string

// Container lifecycle states
const (
	// StateCreated accepts registrations but rejects resolution.
	StateCreated State = "created"
	// StateRunning is entered by Run; resolution, injection and
	// enumeration are only valid here.
	StateRunning State = "running"
	// StateDisposed is entered by Dispose; the container is inert.
	StateDisposed State = "disposed"
)
