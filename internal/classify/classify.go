// Package classify assigns a task type to a session and decides which
// evaluators are applicable to it. Classification is keyword- and
// tool-profile-driven: inherently heuristic, so the priority order is kept as
// an explicit rule list that can be audited and tested in isolation.
package classify

import (
	"regexp"

	"github.com/agentlint/agentlint/internal/models"
)

var (
	testsRe        = regexp.MustCompile(`(?i)\b(write|add|create|author)\b[^.!?]*\b(tests?|specs?|test case|unit test)\b|\btest(s| coverage)? for\b`)
	docsRe         = regexp.MustCompile(`(?i)\b(docs?|documentation|readme|changelog|guide|tutorial)\b`)
	reviewRe       = regexp.MustCompile(`(?i)\b(review|audit|inspect|critique|assess)\b`)
	codeEntityRe   = regexp.MustCompile(`(?i)\b(function|method|class|component|module|struct|interface|endpoint|handler|api)\b`)
	creationRe     = regexp.MustCompile(`(?i)\b(create|add|new|make|generate)\b`)
	fileNounRe     = regexp.MustCompile(`(?i)\bfiles?\b|\b[\w./-]+\.[a-z]{1,4}\b`)
	modificationRe = regexp.MustCompile(`(?i)\b(modify|update|change|edit|rename|adjust|tweak)\b`)
	codeVerbRe     = regexp.MustCompile(`(?i)\b(implement|build|refactor|fix|debug|optimi[sz]e)\b`)
	deletionRe     = regexp.MustCompile(`(?i)\b(delete|remove|drop)\b`)
)

// profile summarizes the tool usage of a session for classification.
type profile struct {
	tools        []string
	anyTool      bool
	anyRead      bool
	anyWrite     bool
	anyEdit      bool
	anyShell     bool
	anyDelegate  bool
	anyExecution bool
	allRead      bool
}

func buildProfile(toolsUsed []string) profile {
	p := profile{tools: toolsUsed, allRead: true}
	for _, name := range toolsUsed {
		p.anyTool = true
		if IsReadTool(name) {
			p.anyRead = true
		} else {
			p.allRead = false
		}
		if IsWriteTool(name) {
			p.anyWrite = true
		}
		if IsEditTool(name) {
			p.anyEdit = true
		}
		if IsShellTool(name) {
			p.anyShell = true
		}
		if IsDelegationTool(name) {
			p.anyDelegate = true
		}
		if IsExecutionTool(name) {
			p.anyExecution = true
		}
	}
	return p
}

// rule is one (predicate, label) pair in the priority-ordered decision list.
type rule struct {
	label   models.TaskType
	matches func(text string, p profile) bool
}

// rules is evaluated top to bottom; the first match wins. Keyword sets
// overlap ("create a function" must resolve to code, not create-new-file), so
// order is part of the contract.
var rules = []rule{
	{models.TaskDelegation, func(_ string, p profile) bool {
		return p.anyDelegate
	}},
	{models.TaskReadOnly, func(_ string, p profile) bool {
		return p.anyTool && p.allRead && !p.anyExecution
	}},
	{models.TaskBashOnly, func(_ string, p profile) bool {
		return p.anyShell && !p.anyWrite && !p.anyEdit
	}},
	{models.TaskTests, func(text string, _ profile) bool {
		return testsRe.MatchString(text)
	}},
	{models.TaskDocs, func(text string, _ profile) bool {
		return docsRe.MatchString(text)
	}},
	{models.TaskReview, func(text string, _ profile) bool {
		return reviewRe.MatchString(text)
	}},
	{models.TaskCode, func(text string, _ profile) bool {
		return codeEntityRe.MatchString(text)
	}},
	{models.TaskCreateNewFile, func(text string, p profile) bool {
		return creationRe.MatchString(text) && fileNounRe.MatchString(text) &&
			p.anyWrite && !modificationRe.MatchString(text)
	}},
	{models.TaskCode, func(text string, _ profile) bool {
		return codeVerbRe.MatchString(text)
	}},
	{models.TaskModifyExistingFile, func(text string, p profile) bool {
		return modificationRe.MatchString(text) && (p.anyWrite || p.anyEdit)
	}},
	{models.TaskDeleteFile, func(text string, _ profile) bool {
		return deletionRe.MatchString(text)
	}},
	{models.TaskConversational, func(_ string, p profile) bool {
		return !p.anyTool
	}},
}

// Classify assigns a task type from the first user message's text and the set
// of tools the session invoked.
func Classify(firstUserText string, toolsUsed []string) models.TaskType {
	p := buildProfile(toolsUsed)
	for _, r := range rules {
		if r.matches(firstUserText, p) {
			return r.label
		}
	}
	return models.TaskUnknown
}
