package domain

import "time"

// FunctionalArea groups questions into the categories the assessment scores.
type FunctionalArea string

const (
	AreaCommunication FunctionalArea = "communication"
	AreaCollaboration FunctionalArea = "collaboration"
	AreaProductivity  FunctionalArea = "productivity"
	AreaSecurity      FunctionalArea = "security"
	AreaAnalytics     FunctionalArea = "analytics"
	// AreaContext questions describe the prospect and never contribute to scores.
	AreaContext FunctionalArea = "context"
)

// AllFunctionalAreas returns every area in scoring order. The order also breaks ties
// when two areas share the lowest percentage.
func AllFunctionalAreas() []FunctionalArea {
	return []FunctionalArea{
		AreaCommunication,
		AreaCollaboration,
		AreaProductivity,
		AreaSecurity,
		AreaAnalytics,
		AreaContext,
	}
}

// Valid reports whether a is one of the fixed areas.
func (a FunctionalArea) Valid() bool {
	for _, area := range AllFunctionalAreas() {
		if a == area {
			return true
		}
	}
	return false
}

// PriorityModule is a recommendation category a prospect is steered towards.
type PriorityModule string

const (
	ModuleTeams         PriorityModule = "teams"
	ModuleSharePoint    PriorityModule = "sharepoint"
	ModulePowerAutomate PriorityModule = "power-automate"
	ModuleSecurity      PriorityModule = "security"
	ModulePowerBI       PriorityModule = "power-bi"
	ModulePlanner       PriorityModule = "planner"
	ModuleAdvanced      PriorityModule = "advanced"
	ModuleFoundations   PriorityModule = "foundations"
)

// AllPriorityModules returns the eight modules in display order.
func AllPriorityModules() []PriorityModule {
	return []PriorityModule{
		ModuleTeams,
		ModuleSharePoint,
		ModulePowerAutomate,
		ModuleSecurity,
		ModulePowerBI,
		ModulePlanner,
		ModuleAdvanced,
		ModuleFoundations,
	}
}

// Valid reports whether m is one of the fixed modules.
func (m PriorityModule) Valid() bool {
	for _, module := range AllPriorityModules() {
		if m == module {
			return true
		}
	}
	return false
}

// MaturityLevel is the ordinal label derived from the overall score.
type MaturityLevel string

const (
	MaturityBeginner     MaturityLevel = "Beginner"
	MaturityIntermediate MaturityLevel = "Intermediate"
	MaturityAdvanced     MaturityLevel = "Advanced"
	MaturityExpert       MaturityLevel = "Expert"
)

// Answer is one selectable option of a question.
type Answer struct {
	Text string `json:"text" yaml:"text"`
	// Value is an optional machine-readable value, used for context questions.
	Value    string         `json:"value,omitempty" yaml:"value,omitempty"`
	Score    int            `json:"score" yaml:"score"`
	Priority PriorityModule `json:"priority" yaml:"priority"`
}

// Question is an immutable multiple-choice question.
type Question struct {
	ID      string         `json:"id" yaml:"id"`
	Text    string         `json:"text" yaml:"text"`
	Area    FunctionalArea `json:"area" yaml:"area"`
	Answers []Answer       `json:"answers" yaml:"answers"`
}

// MaturityThresholds are the minimum overall scores for each label above Beginner.
type MaturityThresholds struct {
	Intermediate int `json:"intermediate" yaml:"intermediate"`
	Advanced     int `json:"advanced" yaml:"advanced"`
	Expert       int `json:"expert" yaml:"expert"`
}

// ContextQuestions names the questions whose answers are extracted as context.
type ContextQuestions struct {
	TeamSize  string `json:"teamSize" yaml:"teamSize"`
	TimeDrain string `json:"timeDrain" yaml:"timeDrain"`
}

// QuestionBank is the static definition of an assessment together with the totals it
// declares about itself. The declarations are checked against the questions on load.
type QuestionBank struct {
	ID               string                            `json:"id" yaml:"id"`
	Title            string                            `json:"title" yaml:"title"`
	Version          int                               `json:"version" yaml:"version"`
	Questions        []Question                        `json:"questions" yaml:"questions"`
	TotalQuestions   int                               `json:"totalQuestions" yaml:"totalQuestions"`
	QuestionsPerArea map[FunctionalArea]int            `json:"questionsPerArea" yaml:"questionsPerArea"`
	MaxScores        map[FunctionalArea]int            `json:"maxScores" yaml:"maxScores"`
	Thresholds       MaturityThresholds                `json:"thresholds" yaml:"thresholds"`
	AreaModules      map[FunctionalArea]PriorityModule `json:"areaModules" yaml:"areaModules"`
	PriorityModules  []PriorityModule                  `json:"priorityModules" yaml:"priorityModules"`
	Context          ContextQuestions                  `json:"context" yaml:"context"`
}

// PublicAnswer is an answer as shown to the prospect, without its score.
type PublicAnswer struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// PublicQuestion is a question as shown to the prospect.
type PublicQuestion struct {
	Index   int            `json:"index"`
	ID      string         `json:"id"`
	Text    string         `json:"text"`
	Area    FunctionalArea `json:"area"`
	Answers []PublicAnswer `json:"answers"`
}

// FunctionalAreaScore is the derived score of one area.
type FunctionalAreaScore struct {
	Area       FunctionalArea `json:"area"`
	Score      int            `json:"score"`
	MaxScore   int            `json:"maxScore"`
	Percentage int            `json:"percentage"`
}

// ContextData holds the descriptive answers that shape recommendation text.
type ContextData struct {
	TeamSize         string `json:"teamSize"`
	BiggestTimeDrain string `json:"biggestTimeDrain"`
}

// Recommendation is a canned block of advice for a priority module.
type Recommendation struct {
	Module       PriorityModule `json:"module"`
	Primary      bool           `json:"primary"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Benefits     []string       `json:"benefits,omitempty"`
	ActionItems  []string       `json:"actionItems"`
	TimeEstimate string         `json:"timeEstimate"`
	Impact       string         `json:"impact"`
}

// QuizResults is the full outcome of scoring one answer sequence.
type QuizResults struct {
	BankID          string                 `json:"bankId"`
	AreaScores      []FunctionalAreaScore  `json:"areaScores"`
	PrimaryPriority PriorityModule         `json:"primaryPriority"`
	OverallScore    int                    `json:"overallScore"`
	MaturityLevel   MaturityLevel          `json:"maturityLevel"`
	Recommendations []Recommendation       `json:"recommendations"`
	Answers         []int                  `json:"answers"`
	Context         ContextData            `json:"context"`
	PrioritySignals map[PriorityModule]int `json:"prioritySignals"`
}

// Contact is the lead captured alongside a submission.
type Contact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// SubmissionRequest is what a client sends to record a finished assessment.
type SubmissionRequest struct {
	Answers []int   `json:"answers"`
	Contact Contact `json:"contact"`
}

// Submission is a stored, scored assessment.
type Submission struct {
	ID        string      `json:"id"`
	BankID    string      `json:"bankId"`
	Contact   Contact     `json:"contact"`
	Results   QuizResults `json:"results"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Progress is the running state of a live assessment session.
type Progress struct {
	SessionID     string                `json:"sessionId"`
	BankID        string                `json:"bankId"`
	Answers       []int                 `json:"answers"`
	Answered      int                   `json:"answered"`
	Total         int                   `json:"total"`
	AreaScores    []FunctionalAreaScore `json:"areaScores"`
	OverallScore  int                   `json:"overallScore"`
	MaturityLevel MaturityLevel         `json:"maturityLevel"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}
