package domain

// TaskGroup is the host-assigned grouping of a task definition. Hosts that
// do not group tasks leave it empty.
type TaskGroup string

const (
	TaskGroupBuild TaskGroup = "build"
	TaskGroupTest  TaskGroup = "test"
	TaskGroupNone  TaskGroup = ""
)

// TaskDescriptor identifies a host task by name and group.
type TaskDescriptor struct {
	Name  string    `json:"name"`
	Group TaskGroup `json:"group,omitempty"`
}

// TaskKind is the classification of a task descriptor.
type TaskKind string

const (
	TaskKindBuild TaskKind = "build"
	TaskKindTest  TaskKind = "test"
	TaskKindOther TaskKind = "other"
)

// TaskResult is the derived outcome of a finished task.
type TaskResult string

const (
	ResultSuccess TaskResult = "success"
	ResultFailure TaskResult = "failure"
)
