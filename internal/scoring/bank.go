// Package scoring turns answer sequences into area scores, a maturity level and
// recommendations. A Bank is read-only once loaded and safe for concurrent use.
package scoring

import (
	"math"

	"maturity-quiz-service/internal/domain"
)

// Bank is a validated question bank ready for scoring.
type Bank struct {
	def domain.QuestionBank
}

// Load validates def and returns a Bank that scores against it. The definition is
// copied so later changes by the caller have no effect.
func Load(def domain.QuestionBank) (*Bank, error) {
	if err := Validate(def); err != nil {
		return nil, err
	}
	return &Bank{def: cloneBank(def)}, nil
}

// MustLoad is like Load but panics on an invalid bank. Use it only for definitions
// compiled into the binary.
func MustLoad(def domain.QuestionBank) *Bank {
	b, err := Load(def)
	if err != nil {
		panic(err)
	}
	return b
}

// ID returns the bank identifier.
func (b *Bank) ID() string { return b.def.ID }

// Len returns the number of questions.
func (b *Bank) Len() int { return len(b.def.Questions) }

// Definition returns a copy of the underlying definition.
func (b *Bank) Definition() domain.QuestionBank { return cloneBank(b.def) }

// ValidAnswer reports whether answerIndex selects an answer of question questionIndex.
func (b *Bank) ValidAnswer(questionIndex, answerIndex int) bool {
	if questionIndex < 0 || questionIndex >= len(b.def.Questions) {
		return false
	}
	return answerIndex >= 0 && answerIndex < len(b.def.Questions[questionIndex].Answers)
}

// AnswerCount returns how many answers question questionIndex offers, or -1 when the
// index is outside the bank.
func (b *Bank) AnswerCount(questionIndex int) int {
	if questionIndex < 0 || questionIndex >= len(b.def.Questions) {
		return -1
	}
	return len(b.def.Questions[questionIndex].Answers)
}

// PublicQuestions returns the questions without answer scores or priority tags.
func (b *Bank) PublicQuestions() []domain.PublicQuestion {
	out := make([]domain.PublicQuestion, 0, len(b.def.Questions))
	for i, q := range b.def.Questions {
		answers := make([]domain.PublicAnswer, 0, len(q.Answers))
		for j, a := range q.Answers {
			answers = append(answers, domain.PublicAnswer{Index: j, Text: a.Text})
		}
		out = append(out, domain.PublicQuestion{
			Index:   i,
			ID:      q.ID,
			Text:    q.Text,
			Area:    q.Area,
			Answers: answers,
		})
	}
	return out
}

// AreaScores sums the selected answer scores per functional area. Positions that are
// -1, out of range or missing count as unanswered.
func (b *Bank) AreaScores(answers []int) []domain.FunctionalAreaScore {
	totals := make(map[domain.FunctionalArea]int)
	for i, q := range b.def.Questions {
		if i >= len(answers) || !b.ValidAnswer(i, answers[i]) {
			continue
		}
		totals[q.Area] += q.Answers[answers[i]].Score
	}

	areas := domain.AllFunctionalAreas()
	scores := make([]domain.FunctionalAreaScore, 0, len(areas))
	for _, area := range areas {
		maxScore := b.def.MaxScores[area]
		scores = append(scores, domain.FunctionalAreaScore{
			Area:       area,
			Score:      totals[area],
			MaxScore:   maxScore,
			Percentage: percentage(totals[area], maxScore),
		})
	}
	return scores
}

// Classify averages the percentages of the scored areas and maps the rounded mean to a
// maturity level.
func (b *Bank) Classify(scores []domain.FunctionalAreaScore) (int, domain.MaturityLevel) {
	sum, n := 0, 0
	for _, s := range scores {
		if !qualifies(s) {
			continue
		}
		sum += s.Percentage
		n++
	}
	if n == 0 {
		return 0, domain.MaturityBeginner
	}
	overall := int(math.Round(float64(sum) / float64(n)))
	return overall, b.maturity(overall)
}

func (b *Bank) maturity(overall int) domain.MaturityLevel {
	t := b.def.Thresholds
	switch {
	case overall >= t.Expert:
		return domain.MaturityExpert
	case overall >= t.Advanced:
		return domain.MaturityAdvanced
	case overall >= t.Intermediate:
		return domain.MaturityIntermediate
	default:
		return domain.MaturityBeginner
	}
}

// PrimaryPriority picks the module mapped to the weakest scored area. Ties go to the
// area listed first in domain.AllFunctionalAreas.
func (b *Bank) PrimaryPriority(scores []domain.FunctionalAreaScore) domain.PriorityModule {
	weakest, found := lowestArea(scores)
	if !found {
		return domain.ModuleFoundations
	}
	return b.moduleFor(weakest.Area)
}

func (b *Bank) moduleFor(area domain.FunctionalArea) domain.PriorityModule {
	if module, ok := b.def.AreaModules[area]; ok {
		return module
	}
	return domain.ModuleFoundations
}

// Context extracts the team size bracket and biggest time drain from the answers.
func (b *Bank) Context(answers []int) domain.ContextData {
	return domain.ContextData{
		TeamSize:         b.contextValue(b.def.Context.TeamSize, answers),
		BiggestTimeDrain: b.contextValue(b.def.Context.TimeDrain, answers),
	}
}

func (b *Bank) contextValue(questionID string, answers []int) string {
	if questionID == "" {
		return ""
	}
	for i, q := range b.def.Questions {
		if q.ID != questionID {
			continue
		}
		if i >= len(answers) || !b.ValidAnswer(i, answers[i]) {
			return ""
		}
		a := q.Answers[answers[i]]
		if a.Value != "" {
			return a.Value
		}
		return a.Text
	}
	return ""
}

// Score runs the whole pipeline for one answer sequence.
func (b *Bank) Score(answers []int) domain.QuizResults {
	scores := b.AreaScores(answers)
	overall, level := b.Classify(scores)
	primary := b.PrimaryPriority(scores)
	ctx := b.Context(answers)

	return domain.QuizResults{
		BankID:          b.def.ID,
		AreaScores:      scores,
		PrimaryPriority: primary,
		OverallScore:    overall,
		MaturityLevel:   level,
		Recommendations: Recommend(primary, ctx, scores, b.def.AreaModules),
		Answers:         normalizeAnswers(answers, len(b.def.Questions)),
		Context:         ctx,
		PrioritySignals: b.prioritySignals(answers),
	}
}

// prioritySignals counts the priority tags of the selected answers.
func (b *Bank) prioritySignals(answers []int) map[domain.PriorityModule]int {
	signals := make(map[domain.PriorityModule]int)
	for i, q := range b.def.Questions {
		if i >= len(answers) || !b.ValidAnswer(i, answers[i]) {
			continue
		}
		signals[q.Answers[answers[i]].Priority]++
	}
	return signals
}

// normalizeAnswers returns one entry per question, with -1 for anything unanswered.
func normalizeAnswers(answers []int, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = -1
		if i < len(answers) && answers[i] >= 0 {
			out[i] = answers[i]
		}
	}
	return out
}

func percentage(score, maxScore int) int {
	if maxScore <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(maxScore)))
}

// qualifies reports whether an area takes part in averaging and priority selection.
func qualifies(s domain.FunctionalAreaScore) bool {
	return s.Area != domain.AreaContext && s.MaxScore > 0
}

func lowestArea(scores []domain.FunctionalAreaScore) (domain.FunctionalAreaScore, bool) {
	var lowest domain.FunctionalAreaScore
	found := false
	for _, s := range scores {
		if !qualifies(s) {
			continue
		}
		if !found || s.Percentage < lowest.Percentage {
			lowest = s
			found = true
		}
	}
	return lowest, found
}

func cloneBank(def domain.QuestionBank) domain.QuestionBank {
	out := def
	out.Questions = make([]domain.Question, len(def.Questions))
	for i, q := range def.Questions {
		q.Answers = append([]domain.Answer(nil), q.Answers...)
		out.Questions[i] = q
	}
	out.QuestionsPerArea = cloneMap(def.QuestionsPerArea)
	out.MaxScores = cloneMap(def.MaxScores)
	out.AreaModules = cloneMap(def.AreaModules)
	out.PriorityModules = append([]domain.PriorityModule(nil), def.PriorityModules...)
	return out
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	if in == nil {
		return nil
	}
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
