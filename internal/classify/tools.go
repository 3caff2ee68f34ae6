package classify

// Tool class registries. These are the single source of truth for what counts
// as a read, write, edit, shell, or delegation tool; the classifier and every
// evaluator consult them through the predicates below.

var readTools = toolSet(
	"read", "view", "read_file", "open_file",
	"glob", "grep", "search", "codebase_search",
	"list", "ls", "list_dir", "list_files",
	"fetch", "webfetch", "web_search",
)

var writeTools = toolSet(
	"write", "write_file", "create_file", "save_file",
)

var editTools = toolSet(
	"edit", "edit_file", "multiedit", "str_replace", "apply_patch", "patch",
)

var shellTools = toolSet(
	"bash", "shell", "sh", "run_command", "execute", "terminal",
)

var delegationTools = toolSet(
	"task", "agent", "delegate", "subagent", "dispatch_agent",
)

func toolSet(names ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// IsReadTool reports whether name is a read-class tool.
func IsReadTool(name string) bool { _, ok := readTools[name]; return ok }

// IsWriteTool reports whether name is a write-class tool.
func IsWriteTool(name string) bool { _, ok := writeTools[name]; return ok }

// IsEditTool reports whether name is an edit-class tool.
func IsEditTool(name string) bool { _, ok := editTools[name]; return ok }

// IsShellTool reports whether name is a shell tool.
func IsShellTool(name string) bool { _, ok := shellTools[name]; return ok }

// IsDelegationTool reports whether name is a delegation-class tool.
func IsDelegationTool(name string) bool { _, ok := delegationTools[name]; return ok }

// IsExecutionTool reports whether name can mutate state: write, edit, shell,
// or delegate.
func IsExecutionTool(name string) bool {
	return IsWriteTool(name) || IsEditTool(name) || IsShellTool(name) || IsDelegationTool(name)
}
