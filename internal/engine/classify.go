package engine

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/emiliopalmerini/codepulse/internal/domain"
)

// ClassifyTask maps a task descriptor to build, test or other. The
// host-assigned group and name substrings are checked in order, first match
// wins; name matching is case-insensitive.
func ClassifyTask(task domain.TaskDescriptor) domain.TaskKind {
	name := strings.ToLower(task.Name)
	switch {
	case task.Group == domain.TaskGroupBuild,
		strings.Contains(name, "build"),
		strings.Contains(name, "compile"):
		return domain.TaskKindBuild
	case task.Group == domain.TaskGroupTest,
		strings.Contains(name, "test"),
		strings.Contains(name, "spec"):
		return domain.TaskKindTest
	default:
		return domain.TaskKindOther
	}
}

// DeriveResult maps an exit code to an outcome. A missing code counts as
// failure: the host omits the code when the task was terminated.
func DeriveResult(exitCode *int) domain.TaskResult {
	if exitCode != nil && *exitCode == 0 {
		return domain.ResultSuccess
	}
	return domain.ResultFailure
}

var (
	passedRe  = regexp.MustCompile(`(?i)(\d+)\s+(?:tests? )?(?:passed|passing)`)
	failedRe  = regexp.MustCompile(`(?i)(\d+)\s+(?:tests? )?(?:failed|failing)`)
	skippedRe = regexp.MustCompile(`(?i)(\d+)\s+(?:tests? )?(?:skipped|pending)`)
)

// ParseTestSummary extracts pass/fail/skip counts from test task output.
// Extraction is best-effort: when none of the known summary shapes appear it
// reports false and the caller emits no test-run record.
func ParseTestSummary(output string) (domain.TestRunResult, bool) {
	var res domain.TestRunResult
	found := false

	if m := passedRe.FindStringSubmatch(output); m != nil {
		res.Passed, _ = strconv.Atoi(m[1])
		found = true
	}
	if m := failedRe.FindStringSubmatch(output); m != nil {
		res.Failed, _ = strconv.Atoi(m[1])
		found = true
	}
	if m := skippedRe.FindStringSubmatch(output); m != nil {
		res.Skipped, _ = strconv.Atoi(m[1])
		found = true
	}

	return res, found
}
