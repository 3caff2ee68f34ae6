package models

// TaskType labels what kind of work a session was asked to do. It is derived
// from the transcript per evaluation, never stored.
type TaskType string

const (
	TaskConversational     TaskType = "conversational"
	TaskReadOnly           TaskType = "read-only"
	TaskBashOnly           TaskType = "bash-only"
	TaskDelegation         TaskType = "delegation"
	TaskCode               TaskType = "code"
	TaskDocs               TaskType = "docs"
	TaskTests              TaskType = "tests"
	TaskReview             TaskType = "review"
	TaskCreateNewFile      TaskType = "create-new-file"
	TaskModifyExistingFile TaskType = "modify-existing-file"
	TaskDeleteFile         TaskType = "delete-file"
	TaskUnknown            TaskType = "unknown"
)
