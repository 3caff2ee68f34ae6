package models

// BehaviorSpec is the declarative rule input consumed by the declared-behavior
// evaluator. Scenario authors supply it alongside a recorded session; every
// populated constraint maps to one check.
type BehaviorSpec struct {
	MustUseTools     []string `mapstructure:"must_use_tools" yaml:"must_use_tools,omitempty" json:"must_use_tools,omitempty"`
	MustNotUseTools  []string `mapstructure:"must_not_use_tools" yaml:"must_not_use_tools,omitempty" json:"must_not_use_tools,omitempty"`
	MustUseAnyOf     []string `mapstructure:"must_use_any_of" yaml:"must_use_any_of,omitempty" json:"must_use_any_of,omitempty"`
	MinToolCalls     int      `mapstructure:"min_tool_calls" yaml:"min_tool_calls,omitempty" json:"min_tool_calls,omitempty"`
	MaxToolCalls     int      `mapstructure:"max_tool_calls" yaml:"max_tool_calls,omitempty" json:"max_tool_calls,omitempty"`
	RequiresApproval bool     `mapstructure:"requires_approval" yaml:"requires_approval,omitempty" json:"requires_approval,omitempty"`
	RequiresContext  bool     `mapstructure:"requires_context" yaml:"requires_context,omitempty" json:"requires_context,omitempty"`
	ShouldDelegate   bool     `mapstructure:"should_delegate" yaml:"should_delegate,omitempty" json:"should_delegate,omitempty"`
}

// Empty reports whether no constraint is populated.
func (b *BehaviorSpec) Empty() bool {
	return b == nil ||
		(len(b.MustUseTools) == 0 && len(b.MustNotUseTools) == 0 && len(b.MustUseAnyOf) == 0 &&
			b.MinToolCalls == 0 && b.MaxToolCalls == 0 &&
			!b.RequiresApproval && !b.RequiresContext && !b.ShouldDelegate)
}
