package scoring

import (
	"fmt"
	"strings"

	"maturity-quiz-service/internal/domain"
)

// Issue captures one inconsistency found in a question bank.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates every issue found in a question bank.
type ValidationError struct {
	BankID string
	Issues []Issue
}

// Error renders the issues as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "question bank validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return fmt.Sprintf("question bank %q validation failed:\n  %s", err.BankID, strings.Join(lines, "\n  "))
}

// Unwrap lets callers match validation failures with errors.Is(err, domain.ErrInvalidBank).
func (err *ValidationError) Unwrap() error {
	return domain.ErrInvalidBank
}

// Validate checks a bank definition for internal consistency without building it.
func Validate(def domain.QuestionBank) error {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}

	if strings.TrimSpace(def.ID) == "" {
		add("id", "is required")
	}

	validateQuestions(def, add)
	validateCounts(def, add)
	validateThresholds(def.Thresholds, add)
	validateAreaModules(def, add)
	validatePriorityUsage(def, add)
	validateMaxScores(def, add)
	validateContext(def, add)

	if len(issues) > 0 {
		return &ValidationError{BankID: def.ID, Issues: issues}
	}
	return nil
}

func validateQuestions(def domain.QuestionBank, add func(field, message string)) {
	seen := make(map[string]struct{}, len(def.Questions))
	for i, q := range def.Questions {
		prefix := fmt.Sprintf("questions[%d]", i)
		id := strings.TrimSpace(q.ID)
		if id == "" {
			add(prefix+".id", "is required")
		} else if _, dup := seen[id]; dup {
			add(prefix+".id", fmt.Sprintf("duplicate id %q", id))
		} else {
			seen[id] = struct{}{}
		}
		if strings.TrimSpace(q.Text) == "" {
			add(prefix+".text", "is required")
		}
		if !q.Area.Valid() {
			add(prefix+".area", fmt.Sprintf("unknown functional area %q", q.Area))
		}
		if len(q.Answers) == 0 {
			add(prefix+".answers", "at least one answer is required")
		}
		for j, a := range q.Answers {
			answerPrefix := fmt.Sprintf("%s.answers[%d]", prefix, j)
			if strings.TrimSpace(a.Text) == "" {
				add(answerPrefix+".text", "is required")
			}
			if a.Score < 0 {
				add(answerPrefix+".score", fmt.Sprintf("must be >= 0, got %d", a.Score))
			}
			if q.Area == domain.AreaContext && a.Score != 0 {
				add(answerPrefix+".score", "context answers must score 0")
			}
			if !a.Priority.Valid() {
				add(answerPrefix+".priority", fmt.Sprintf("unknown priority module %q", a.Priority))
			}
		}
	}
}

func validateCounts(def domain.QuestionBank, add func(field, message string)) {
	if def.TotalQuestions != len(def.Questions) {
		add("totalQuestions", fmt.Sprintf("declares %d questions, bank has %d", def.TotalQuestions, len(def.Questions)))
	}

	actual := make(map[domain.FunctionalArea]int)
	for _, q := range def.Questions {
		actual[q.Area]++
	}
	for area := range def.QuestionsPerArea {
		if !area.Valid() {
			add("questionsPerArea", fmt.Sprintf("unknown functional area %q", area))
		}
	}
	for _, area := range domain.AllFunctionalAreas() {
		if declared := def.QuestionsPerArea[area]; declared != actual[area] {
			add("questionsPerArea."+string(area), fmt.Sprintf("declares %d questions, bank has %d", declared, actual[area]))
		}
	}
}

func validateThresholds(t domain.MaturityThresholds, add func(field, message string)) {
	bounds := []struct {
		field string
		value int
	}{
		{"thresholds.intermediate", t.Intermediate},
		{"thresholds.advanced", t.Advanced},
		{"thresholds.expert", t.Expert},
	}
	for _, b := range bounds {
		if b.value < 0 || b.value > 100 {
			add(b.field, fmt.Sprintf("must be within [0, 100], got %d", b.value))
		}
	}
	if !(t.Intermediate < t.Advanced && t.Advanced < t.Expert) {
		add("thresholds", fmt.Sprintf("must be strictly ascending, got intermediate=%d advanced=%d expert=%d",
			t.Intermediate, t.Advanced, t.Expert))
	}
}

func validateAreaModules(def domain.QuestionBank, add func(field, message string)) {
	for _, area := range domain.AllFunctionalAreas() {
		module, ok := def.AreaModules[area]
		if !ok {
			add("areaModules."+string(area), "has no priority module mapping")
			continue
		}
		if !module.Valid() {
			add("areaModules."+string(area), fmt.Sprintf("maps to unknown priority module %q", module))
		}
	}
	for area := range def.AreaModules {
		if !area.Valid() {
			add("areaModules", fmt.Sprintf("unknown functional area %q", area))
		}
	}
}

func validatePriorityUsage(def domain.QuestionBank, add func(field, message string)) {
	if len(def.PriorityModules) == 0 {
		add("priorityModules", "at least one priority module must be declared")
	}
	used := make(map[domain.PriorityModule]bool)
	for _, q := range def.Questions {
		for _, a := range q.Answers {
			used[a.Priority] = true
		}
	}
	for _, module := range def.PriorityModules {
		if !module.Valid() {
			add("priorityModules", fmt.Sprintf("unknown priority module %q", module))
			continue
		}
		if !used[module] {
			add("priorityModules", fmt.Sprintf("module %q is not used by any answer", module))
		}
	}
}

func validateMaxScores(def domain.QuestionBank, add func(field, message string)) {
	expected := make(map[domain.FunctionalArea]int)
	for _, q := range def.Questions {
		expected[q.Area] += maxAnswerScore(q)
	}
	for _, area := range domain.AllFunctionalAreas() {
		if declared := def.MaxScores[area]; declared != expected[area] {
			add("maxScores."+string(area), fmt.Sprintf("declares %d, questions sum to %d", declared, expected[area]))
		}
	}
}

func validateContext(def domain.QuestionBank, add func(field, message string)) {
	check := func(field, id string) {
		if id == "" {
			return
		}
		for _, q := range def.Questions {
			if q.ID == id {
				if q.Area != domain.AreaContext {
					add(field, fmt.Sprintf("question %q is not a context question", id))
				}
				return
			}
		}
		add(field, fmt.Sprintf("references unknown question %q", id))
	}
	check("context.teamSize", def.Context.TeamSize)
	check("context.timeDrain", def.Context.TimeDrain)
}

func maxAnswerScore(q domain.Question) int {
	best := 0
	for _, a := range q.Answers {
		if a.Score > best {
			best = a.Score
		}
	}
	return best
}
