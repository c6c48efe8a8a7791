package scoring

import "maturity-quiz-service/internal/domain"

// DefaultBankID identifies the built-in Microsoft 365 maturity bank.
const DefaultBankID = "m365-maturity"

// BuiltinBank returns a fresh copy of the built-in question bank definition.
func BuiltinBank() domain.QuestionBank {
	return domain.QuestionBank{
		ID:             DefaultBankID,
		Title:          "Microsoft 365 Maturity Assessment",
		Version:        1,
		Questions:      builtinQuestions(),
		TotalQuestions: 12,
		QuestionsPerArea: map[domain.FunctionalArea]int{
			domain.AreaCommunication: 2,
			domain.AreaCollaboration: 2,
			domain.AreaProductivity:  2,
			domain.AreaSecurity:      2,
			domain.AreaAnalytics:     2,
			domain.AreaContext:       2,
		},
		MaxScores: map[domain.FunctionalArea]int{
			domain.AreaCommunication: 6,
			domain.AreaCollaboration: 6,
			domain.AreaProductivity:  6,
			domain.AreaSecurity:      6,
			domain.AreaAnalytics:     6,
			domain.AreaContext:       0,
		},
		Thresholds: domain.MaturityThresholds{
			Intermediate: 50,
			Advanced:     75,
			Expert:       90,
		},
		AreaModules: map[domain.FunctionalArea]domain.PriorityModule{
			domain.AreaCommunication: domain.ModuleTeams,
			domain.AreaCollaboration: domain.ModuleSharePoint,
			domain.AreaProductivity:  domain.ModulePowerAutomate,
			domain.AreaSecurity:      domain.ModuleSecurity,
			domain.AreaAnalytics:     domain.ModulePowerBI,
			domain.AreaContext:       domain.ModuleFoundations,
		},
		PriorityModules: domain.AllPriorityModules(),
		Context: domain.ContextQuestions{
			TeamSize:  "team-size",
			TimeDrain: "time-drain",
		},
	}
}

func builtinQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:   "daily-communication",
			Text: "How does your team communicate day to day?",
			Area: domain.AreaCommunication,
			Answers: []domain.Answer{
				{Text: "Mostly email and phone calls", Score: 0, Priority: domain.ModuleTeams},
				{Text: "Some Teams chat, but email is still the default", Score: 1, Priority: domain.ModuleTeams},
				{Text: "Teams chat and channels for most conversations", Score: 2, Priority: domain.ModuleTeams},
				{Text: "Teams for chat, calls and meetings with agreed channel etiquette", Score: 3, Priority: domain.ModuleAdvanced},
			},
		},
		{
			ID:   "meetings",
			Text: "How do you run internal meetings?",
			Area: domain.AreaCommunication,
			Answers: []domain.Answer{
				{Text: "In person or by phone only", Score: 0, Priority: domain.ModuleTeams},
				{Text: "A mix of tools (Zoom, Meet, Teams)", Score: 1, Priority: domain.ModuleTeams},
				{Text: "Teams meetings with shared agendas", Score: 2, Priority: domain.ModulePlanner},
				{Text: "Teams meetings with recordings, notes and tracked follow-ups", Score: 3, Priority: domain.ModuleAdvanced},
			},
		},
		{
			ID:   "document-storage",
			Text: "Where are shared documents stored?",
			Area: domain.AreaCollaboration,
			Answers: []domain.Answer{
				{Text: "Local drives or USB sticks", Score: 0, Priority: domain.ModuleFoundations},
				{Text: "Passed around as email attachments", Score: 1, Priority: domain.ModuleSharePoint},
				{Text: "OneDrive folders shared ad hoc", Score: 2, Priority: domain.ModuleSharePoint},
				{Text: "SharePoint sites with structured permissions", Score: 3, Priority: domain.ModuleAdvanced},
			},
		},
		{
			ID:   "co-authoring",
			Text: "How do several people work on the same document?",
			Area: domain.AreaCollaboration,
			Answers: []domain.Answer{
				{Text: "We send versions back and forth", Score: 0, Priority: domain.ModuleSharePoint},
				{Text: "We take turns editing a shared file", Score: 1, Priority: domain.ModuleSharePoint},
				{Text: "We co-author now and then", Score: 2, Priority: domain.ModuleSharePoint},
				{Text: "Real-time co-authoring is the norm", Score: 3, Priority: domain.ModuleAdvanced},
			},
		},
		{
			ID:   "repetitive-tasks",
			Text: "How are repetitive tasks such as approvals and data entry handled?",
			Area: domain.AreaProductivity,
			Answers: []domain.Answer{
				{Text: "Manually, every time", Score: 0, Priority: domain.ModulePowerAutomate},
				{Text: "With templates and checklists", Score: 1, Priority: domain.ModulePowerAutomate},
				{Text: "A few automated flows", Score: 2, Priority: domain.ModulePowerAutomate},
				{Text: "Most routine processes are automated", Score: 3, Priority: domain.ModuleAdvanced},
			},
		},
		{
			ID:   "task-tracking",
			Text: "How do you track team tasks and projects?",
			Area: domain.AreaProductivity,
			Answers: []domain.Answer{
				{Text: "On paper or in people's heads", Score: 0, Priority: domain.ModulePlanner},
				{Text: "In spreadsheets", Score: 1, Priority: domain.ModulePlanner},
				{Text: "Planner or To Do for some projects", Score: 2, Priority: domain.ModulePlanner},
				{Text: "Planner boards wired into Teams channels", Score: 3, Priority: domain.ModuleAdvanced},
			},
		},
		{
			ID:   "mfa",
			Text: "Is multi-factor authentication enabled?",
			Area: domain.AreaSecurity,
			Answers: []domain.Answer{
				{Text: "No", Score: 0, Priority: domain.ModuleSecurity},
				{Text: "For administrators only", Score: 1, Priority: domain.ModuleSecurity},
				{Text: "For most users", Score: 2, Priority: domain.ModuleSecurity},
				{Text: "For everyone, with conditional access policies", Score: 3, Priority: domain.ModuleAdvanced},
			},
		},
		{
			ID:   "device-protection",
			Text: "How are company devices and data protected?",
			Area: domain.AreaSecurity,
			Answers: []domain.Answer{
				{Text: "There is no formal policy", Score: 0, Priority: domain.ModuleFoundations},
				{Text: "Antivirus only", Score: 1, Priority: domain.ModuleSecurity},
				{Text: "Devices are managed with Intune", Score: 2, Priority: domain.ModuleSecurity},
				{Text: "Intune plus data loss prevention and sensitivity labels", Score: 3, Priority: domain.ModuleAdvanced},
			},
		},
		{
			ID:   "reporting",
			Text: "How do you report on business performance?",
			Area: domain.AreaAnalytics,
			Answers: []domain.Answer{
				{Text: "We don't track it regularly", Score: 0, Priority: domain.ModulePowerBI},
				{Text: "Manual Excel reports", Score: 1, Priority: domain.ModulePowerBI},
				{Text: "Some Power BI dashboards", Score: 2, Priority: domain.ModulePowerBI},
				{Text: "Live Power BI dashboards drive decisions", Score: 3, Priority: domain.ModuleAdvanced},
			},
		},
		{
			ID:   "data-access",
			Text: "How easy is it to get at your business data?",
			Area: domain.AreaAnalytics,
			Answers: []domain.Answer{
				{Text: "It is scattered across systems", Score: 0, Priority: domain.ModuleFoundations},
				{Text: "Someone exports it on request", Score: 1, Priority: domain.ModulePowerBI},
				{Text: "It is centralised but hard to query", Score: 2, Priority: domain.ModulePowerBI},
				{Text: "Every team has self-service access", Score: 3, Priority: domain.ModuleAdvanced},
			},
		},
		{
			ID:   "team-size",
			Text: "How many people are in your organisation?",
			Area: domain.AreaContext,
			Answers: []domain.Answer{
				{Text: "1-10 people", Value: TeamSizeMicro, Priority: domain.ModuleFoundations},
				{Text: "11-50 people", Value: TeamSizeSmall, Priority: domain.ModuleFoundations},
				{Text: "51-200 people", Value: TeamSizeMedium, Priority: domain.ModuleFoundations},
				{Text: "More than 200 people", Value: TeamSizeLarge, Priority: domain.ModuleFoundations},
			},
		},
		{
			ID:   "time-drain",
			Text: "What eats most of your team's time?",
			Area: domain.AreaContext,
			Answers: []domain.Answer{
				{Text: "Searching for files", Value: "finding-files", Priority: domain.ModuleSharePoint},
				{Text: "Chasing approvals and manual admin", Value: "manual-admin", Priority: domain.ModulePowerAutomate},
				{Text: "Too many meetings and emails", Value: "meetings-email", Priority: domain.ModuleTeams},
				{Text: "Pulling reports together", Value: "reporting", Priority: domain.ModulePowerBI},
			},
		},
	}
}
