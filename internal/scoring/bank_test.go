package scoring

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"maturity-quiz-service/internal/domain"
)

func unanswered(n int) []int {
	answers := make([]int, n)
	for i := range answers {
		answers[i] = -1
	}
	return answers
}

func filled(n, index int) []int {
	answers := make([]int, n)
	for i := range answers {
		answers[i] = index
	}
	return answers
}

func areaScore(t *testing.T, scores []domain.FunctionalAreaScore, area domain.FunctionalArea) domain.FunctionalAreaScore {
	t.Helper()
	for _, s := range scores {
		if s.Area == area {
			return s
		}
	}
	t.Fatalf("no score for area %q", area)
	return domain.FunctionalAreaScore{}
}

func TestAreaScores_OnePerAreaInFixedOrder(t *testing.T) {
	b := MustLoad(BuiltinBank())
	scores := b.AreaScores(filled(b.Len(), 0))

	require.Len(t, scores, len(domain.AllFunctionalAreas()))
	for i, area := range domain.AllFunctionalAreas() {
		assert.Equal(t, area, scores[i].Area)
	}
}

func TestAreaScores_FirstAnswersMatchFirstListedScores(t *testing.T) {
	def := BuiltinBank()
	b := MustLoad(def)

	want := make(map[domain.FunctionalArea]int)
	for _, q := range def.Questions {
		want[q.Area] += q.Answers[0].Score
	}
	for _, s := range b.AreaScores(filled(b.Len(), 0)) {
		assert.Equal(t, want[s.Area], s.Score, "area %s", s.Area)
	}
}

func TestScore_AllUnanswered(t *testing.T) {
	b := MustLoad(BuiltinBank())
	results := b.Score(unanswered(b.Len()))

	for _, s := range results.AreaScores {
		assert.Zero(t, s.Score, "area %s", s.Area)
		assert.Zero(t, s.Percentage, "area %s", s.Area)
	}
	assert.Equal(t, 0, results.OverallScore)
	assert.Equal(t, domain.MaturityBeginner, results.MaturityLevel)
	// Every scored area ties at 0%; communication comes first.
	assert.Equal(t, domain.ModuleTeams, results.PrimaryPriority)
	assert.Equal(t, domain.ContextData{}, results.Context)
	assert.Empty(t, results.PrioritySignals)
}

func TestScore_AllBestAnswers(t *testing.T) {
	b := MustLoad(BuiltinBank())
	results := b.Score(filled(b.Len(), 3))

	for _, s := range results.AreaScores {
		if s.Area == domain.AreaContext {
			continue
		}
		assert.Equal(t, 100, s.Percentage, "area %s", s.Area)
	}
	assert.Equal(t, 100, results.OverallScore)
	assert.Equal(t, domain.MaturityExpert, results.MaturityLevel)
	require.Len(t, results.Recommendations, 1)
	assert.True(t, results.Recommendations[0].Primary)
	assert.Equal(t, TeamSizeLarge, results.Context.TeamSize)
	assert.Equal(t, "reporting", results.Context.BiggestTimeDrain)
}

func TestScore_MixedAnswers(t *testing.T) {
	b := MustLoad(BuiltinBank())
	answers := []int{3, 3, 1, 0, 2, 2, 0, 0, 3, 2, 1, 2}
	results := b.Score(answers)

	want := []domain.FunctionalAreaScore{
		{Area: domain.AreaCommunication, Score: 6, MaxScore: 6, Percentage: 100},
		{Area: domain.AreaCollaboration, Score: 1, MaxScore: 6, Percentage: 17},
		{Area: domain.AreaProductivity, Score: 4, MaxScore: 6, Percentage: 67},
		{Area: domain.AreaSecurity, Score: 0, MaxScore: 6, Percentage: 0},
		{Area: domain.AreaAnalytics, Score: 5, MaxScore: 6, Percentage: 83},
		{Area: domain.AreaContext, Score: 0, MaxScore: 0, Percentage: 0},
	}
	if diff := cmp.Diff(want, results.AreaScores); diff != "" {
		t.Fatalf("area scores mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 53, results.OverallScore)
	assert.Equal(t, domain.MaturityIntermediate, results.MaturityLevel)
	assert.Equal(t, domain.ModuleSecurity, results.PrimaryPriority)
	assert.Equal(t, domain.ContextData{TeamSize: TeamSizeSmall, BiggestTimeDrain: "meetings-email"}, results.Context)
	assert.Equal(t, answers, results.Answers)

	wantSignals := map[domain.PriorityModule]int{
		domain.ModuleAdvanced:      3,
		domain.ModuleSharePoint:    2,
		domain.ModuleFoundations:   2,
		domain.ModulePowerAutomate: 1,
		domain.ModulePlanner:       1,
		domain.ModuleSecurity:      1,
		domain.ModulePowerBI:       1,
		domain.ModuleTeams:         1,
	}
	if diff := cmp.Diff(wantSignals, results.PrioritySignals); diff != "" {
		t.Fatalf("priority signals mismatch (-want +got):\n%s", diff)
	}
}

func TestScore_InvalidIndexesCountAsUnanswered(t *testing.T) {
	b := MustLoad(BuiltinBank())
	answers := []int{3, 99, -5, 7}

	results := b.Score(answers)
	comm := areaScore(t, results.AreaScores, domain.AreaCommunication)
	assert.Equal(t, 3, comm.Score)
	assert.Equal(t, 50, comm.Percentage)
	assert.Zero(t, areaScore(t, results.AreaScores, domain.AreaCollaboration).Score)

	require.Len(t, results.Answers, b.Len())
	assert.Equal(t, []int{3, 99, -1, 7, -1, -1, -1, -1, -1, -1, -1, -1}, results.Answers)
}

func TestScore_ShortAndLongSequences(t *testing.T) {
	b := MustLoad(BuiltinBank())

	short := b.Score(nil)
	assert.Equal(t, 0, short.OverallScore)

	long := b.Score(append(filled(b.Len(), 3), 0, 1, 2))
	assert.Equal(t, 100, long.OverallScore)
	assert.Len(t, long.Answers, b.Len())
}

func TestScore_ScoresNeverExceedMax(t *testing.T) {
	b := MustLoad(BuiltinBank())
	for index := -1; index <= 4; index++ {
		for _, s := range b.AreaScores(filled(b.Len(), index)) {
			assert.GreaterOrEqual(t, s.Score, 0)
			assert.LessOrEqual(t, s.Score, s.MaxScore, "area %s index %d", s.Area, index)
			assert.LessOrEqual(t, s.Percentage, 100)
		}
	}
}

func TestScore_ContextAnswersDoNotMoveTheScore(t *testing.T) {
	b := MustLoad(BuiltinBank())
	base := []int{2, 1, 0, 3, 1, 1, 2, 0, 1, 3, 0, 0}
	want := b.Score(base)

	for teamSize := 0; teamSize < 4; teamSize++ {
		for drain := 0; drain < 4; drain++ {
			answers := append([]int(nil), base...)
			answers[10], answers[11] = teamSize, drain
			got := b.Score(answers)

			ctxScore := areaScore(t, got.AreaScores, domain.AreaContext)
			assert.Zero(t, ctxScore.MaxScore)
			assert.Zero(t, ctxScore.Percentage)
			assert.Equal(t, want.OverallScore, got.OverallScore)
			assert.Equal(t, want.MaturityLevel, got.MaturityLevel)
		}
	}
}

func TestScore_Idempotent(t *testing.T) {
	b := MustLoad(BuiltinBank())
	answers := []int{1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3, 0}

	first := b.Score(answers)
	second := b.Score(answers)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("scoring is not idempotent (-first +second):\n%s", diff)
	}
}

func TestScore_ConcurrentCallers(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := MustLoad(BuiltinBank())
	answers := []int{1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3, 0}
	want := b.Score(answers)

	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < 32; i++ {
		g.Go(func() error {
			if diff := cmp.Diff(want, b.Score(answers)); diff != "" {
				t.Errorf("concurrent result differs:\n%s", diff)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestClassify_Thresholds(t *testing.T) {
	b := MustLoad(BuiltinBank())
	cases := []struct {
		pct  int
		want domain.MaturityLevel
	}{
		{100, domain.MaturityExpert},
		{90, domain.MaturityExpert},
		{89, domain.MaturityAdvanced},
		{75, domain.MaturityAdvanced},
		{74, domain.MaturityIntermediate},
		{50, domain.MaturityIntermediate},
		{49, domain.MaturityBeginner},
		{0, domain.MaturityBeginner},
	}
	for _, tc := range cases {
		scores := []domain.FunctionalAreaScore{
			{Area: domain.AreaCommunication, MaxScore: 6, Percentage: tc.pct},
			{Area: domain.AreaContext, MaxScore: 0, Percentage: 0},
		}
		overall, level := b.Classify(scores)
		assert.Equal(t, tc.pct, overall)
		assert.Equal(t, tc.want, level, "percentage %d", tc.pct)
	}
}

func TestClassify_RoundsMeanBeforeLabelling(t *testing.T) {
	b := MustLoad(BuiltinBank())
	scores := []domain.FunctionalAreaScore{
		{Area: domain.AreaCommunication, MaxScore: 6, Percentage: 100},
		{Area: domain.AreaCollaboration, MaxScore: 6, Percentage: 100},
		{Area: domain.AreaProductivity, MaxScore: 6, Percentage: 83},
		{Area: domain.AreaSecurity, MaxScore: 6, Percentage: 83},
		{Area: domain.AreaAnalytics, MaxScore: 6, Percentage: 83},
	}
	overall, level := b.Classify(scores)
	assert.Equal(t, 90, overall)
	assert.Equal(t, domain.MaturityExpert, level)
}

func TestClassify_NoQualifyingAreas(t *testing.T) {
	b := MustLoad(BuiltinBank())
	overall, level := b.Classify([]domain.FunctionalAreaScore{
		{Area: domain.AreaContext, MaxScore: 0},
		{Area: domain.AreaSecurity, MaxScore: 0, Percentage: 100},
	})
	assert.Equal(t, 0, overall)
	assert.Equal(t, domain.MaturityBeginner, level)
}

func TestPrimaryPriority_LowestAreaWins(t *testing.T) {
	b := MustLoad(BuiltinBank())
	scores := []domain.FunctionalAreaScore{
		{Area: domain.AreaCommunication, MaxScore: 6, Percentage: 50},
		{Area: domain.AreaCollaboration, MaxScore: 6, Percentage: 67},
		{Area: domain.AreaProductivity, MaxScore: 6, Percentage: 33},
		{Area: domain.AreaSecurity, MaxScore: 6, Percentage: 33},
		{Area: domain.AreaAnalytics, MaxScore: 6, Percentage: 83},
		{Area: domain.AreaContext, MaxScore: 0, Percentage: 0},
	}
	// Productivity and security tie; productivity is listed first.
	assert.Equal(t, domain.ModulePowerAutomate, b.PrimaryPriority(scores))
}

func TestPrimaryPriority_NothingToScore(t *testing.T) {
	b := MustLoad(BuiltinBank())
	assert.Equal(t, domain.ModuleFoundations, b.PrimaryPriority(nil))
}

func TestPublicQuestions_HideScores(t *testing.T) {
	b := MustLoad(BuiltinBank())
	questions := b.PublicQuestions()

	require.Len(t, questions, b.Len())
	assert.Equal(t, "daily-communication", questions[0].ID)
	assert.Equal(t, 0, questions[0].Index)
	assert.Len(t, questions[0].Answers, 4)
	assert.Equal(t, 3, questions[0].Answers[3].Index)
}

func TestValidAnswer(t *testing.T) {
	b := MustLoad(BuiltinBank())
	assert.True(t, b.ValidAnswer(0, 0))
	assert.True(t, b.ValidAnswer(11, 3))
	assert.False(t, b.ValidAnswer(0, 4))
	assert.False(t, b.ValidAnswer(0, -1))
	assert.False(t, b.ValidAnswer(12, 0))
	assert.Equal(t, -1, b.AnswerCount(12))
}
