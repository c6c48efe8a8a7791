package scoring

import (
	"fmt"
	"sort"

	"maturity-quiz-service/internal/domain"
)

// Team size brackets used as answer values of the team size question.
const (
	TeamSizeMicro  = "1-10"
	TeamSizeSmall  = "11-50"
	TeamSizeMedium = "51-200"
	TeamSizeLarge  = "200+"
)

// secondaryThreshold is the percentage below which an area earns a follow-up recommendation.
const secondaryThreshold = 60

// maxSecondary caps the follow-up recommendations after the primary one.
const maxSecondary = 2

type hourRange struct{ low, high int }

// weeklyHoursSaved is the typical range of hours a team wins back per week, by bracket.
var weeklyHoursSaved = map[string]hourRange{
	TeamSizeMicro:  {2, 5},
	TeamSizeSmall:  {8, 20},
	TeamSizeMedium: {25, 60},
	TeamSizeLarge:  {80, 200},
}

var defaultHoursSaved = hourRange{5, 15}

type primaryTemplate struct {
	title        string
	description  string // %s team phrase, %d low hours, %d high hours
	benefits     []string
	actionItems  []string
	timeEstimate string
	impact       string
}

type secondaryTemplate struct {
	title        string
	description  string
	actionItems  []string
	timeEstimate string
}

var primaryTemplates = map[domain.PriorityModule]primaryTemplate{
	domain.ModuleTeams: {
		title:       "Make Microsoft Teams your communication hub",
		description: "Moving everyday conversations out of email and into Teams typically saves %s %d-%d hours a week.",
		benefits: []string{
			"Fewer internal emails and faster answers",
			"Meetings, chat and files in one place",
			"Clear channels for each project or department",
		},
		actionItems: []string{
			"Create channels for your main teams and projects",
			"Agree on when to use chat, channels and email",
			"Move recurring meetings to Teams with shared agendas",
		},
		timeEstimate: "2-4 weeks",
		impact:       "high",
	},
	domain.ModuleSharePoint: {
		title:       "Organise your documents with SharePoint",
		description: "A structured SharePoint and OneDrive setup typically saves %s %d-%d hours a week otherwise lost to searching and version conflicts.",
		benefits: []string{
			"One source of truth for every document",
			"Real-time co-authoring instead of attachments",
			"Permissions that follow your organisation",
		},
		actionItems: []string{
			"Map your shared folders to SharePoint sites",
			"Migrate active documents and retire local shares",
			"Train staff on co-authoring and sharing links",
		},
		timeEstimate: "3-6 weeks",
		impact:       "high",
	},
	domain.ModulePowerAutomate: {
		title:       "Automate repetitive work with Power Automate",
		description: "Automating approvals and data entry typically frees %s %d-%d hours a week for higher value work.",
		benefits: []string{
			"Approvals that route themselves",
			"Fewer copy-and-paste errors",
			"Processes that run the same way every time",
		},
		actionItems: []string{
			"List the five most repeated manual tasks",
			"Build flows for approvals and notifications first",
			"Review flow run history monthly",
		},
		timeEstimate: "2-6 weeks",
		impact:       "high",
	},
	domain.ModuleSecurity: {
		title:       "Close the gaps in your Microsoft 365 security",
		description: "Hardening identities and devices protects %s and typically saves %d-%d hours a week of incident clean-up and manual checks.",
		benefits: []string{
			"Accounts protected against password attacks",
			"Lost or stolen devices can be wiped remotely",
			"Sensitive data stays inside the organisation",
		},
		actionItems: []string{
			"Enable multi-factor authentication for every user",
			"Enrol company devices in Intune",
			"Apply sensitivity labels to confidential documents",
		},
		timeEstimate: "1-3 weeks",
		impact:       "critical",
	},
	domain.ModulePowerBI: {
		title:       "Turn your data into decisions with Power BI",
		description: "Replacing manual reports with live dashboards typically saves %s %d-%d hours a week.",
		benefits: []string{
			"Reports that refresh themselves",
			"Everyone sees the same numbers",
			"Trends spotted early instead of at month end",
		},
		actionItems: []string{
			"Pick the three reports rebuilt most often",
			"Connect their data sources to Power BI",
			"Share dashboards in the Teams channels that use them",
		},
		timeEstimate: "3-5 weeks",
		impact:       "medium",
	},
	domain.ModulePlanner: {
		title:       "Track work in Planner",
		description: "Visible task boards typically save %s %d-%d hours a week of status meetings and follow-ups.",
		benefits: []string{
			"Everyone knows who owns what",
			"Deadlines visible at a glance",
			"Fewer status update meetings",
		},
		actionItems: []string{
			"Create a Planner board for each active project",
			"Add the boards as tabs in the project channels",
			"Review boards in weekly team meetings",
		},
		timeEstimate: "1-2 weeks",
		impact:       "medium",
	},
	domain.ModuleAdvanced: {
		title:       "Optimise an already mature Microsoft 365 tenant",
		description: "Fine-tuning governance, automation and analytics can still win %s %d-%d hours a week.",
		benefits: []string{
			"Governance that scales with growth",
			"Advanced automation across departments",
			"Copilot readiness",
		},
		actionItems: []string{
			"Review tenant governance and lifecycle policies",
			"Audit automation and licence usage",
			"Plan a Copilot pilot with a champion group",
		},
		timeEstimate: "4-8 weeks",
		impact:       "medium",
	},
	domain.ModuleFoundations: {
		title:       "Build your Microsoft 365 foundations",
		description: "Getting the basics right (accounts, storage, backups) typically saves %s %d-%d hours a week of avoidable IT friction.",
		benefits: []string{
			"A secure, consistent starting point",
			"Less time fixing ad hoc setups",
			"A platform ready for Teams and SharePoint",
		},
		actionItems: []string{
			"Audit licences, accounts and admin roles",
			"Move business files off local drives",
			"Set up backup for mailboxes and OneDrive",
		},
		timeEstimate: "2-4 weeks",
		impact:       "high",
	},
}

var secondaryTemplates = map[domain.PriorityModule]secondaryTemplate{
	domain.ModuleTeams: {
		title:        "Tidy up team communication",
		description:  "Shift internal conversations into Teams channels.",
		actionItems:  []string{"Set up channels for your main projects"},
		timeEstimate: "1-2 weeks",
	},
	domain.ModuleSharePoint: {
		title:        "Centralise shared files",
		description:  "Give shared documents a home in SharePoint.",
		actionItems:  []string{"Move one team's shared folder to SharePoint"},
		timeEstimate: "1-3 weeks",
	},
	domain.ModulePowerAutomate: {
		title:        "Automate one manual process",
		description:  "Start small with a single approval flow.",
		actionItems:  []string{"Automate your most common approval"},
		timeEstimate: "1 week",
	},
	domain.ModuleSecurity: {
		title:        "Strengthen sign-in security",
		description:  "Turn on multi-factor authentication for everyone.",
		actionItems:  []string{"Enable MFA with security defaults"},
		timeEstimate: "1 week",
	},
	domain.ModulePowerBI: {
		title:        "Automate a key report",
		description:  "Rebuild your most used report in Power BI.",
		actionItems:  []string{"Connect one data source to Power BI"},
		timeEstimate: "1-2 weeks",
	},
	domain.ModulePlanner: {
		title:        "Make tasks visible",
		description:  "Track one project in Planner.",
		actionItems:  []string{"Create a Planner board for a live project"},
		timeEstimate: "1 week",
	},
	domain.ModuleAdvanced: {
		title:        "Review governance",
		description:  "Check lifecycle and sharing policies.",
		actionItems:  []string{"Run a sharing and guest access review"},
		timeEstimate: "1-2 weeks",
	},
	domain.ModuleFoundations: {
		title:        "Shore up the basics",
		description:  "Audit accounts, licences and backups.",
		actionItems:  []string{"Run a licence and admin role audit"},
		timeEstimate: "1 week",
	},
}

// Recommend builds the primary recommendation for primary and up to two follow-ups for
// the weakest other areas. The result always holds at least the primary entry.
func Recommend(
	primary domain.PriorityModule,
	ctx domain.ContextData,
	scores []domain.FunctionalAreaScore,
	areaModules map[domain.FunctionalArea]domain.PriorityModule,
) []domain.Recommendation {
	recs := []domain.Recommendation{primaryRecommendation(primary, ctx.TeamSize)}

	weak := make([]domain.FunctionalAreaScore, 0, len(scores))
	for _, s := range scores {
		if s.Area == domain.AreaContext || s.Percentage >= secondaryThreshold {
			continue
		}
		weak = append(weak, s)
	}
	sort.SliceStable(weak, func(i, j int) bool {
		return weak[i].Percentage < weak[j].Percentage
	})

	added := map[domain.PriorityModule]bool{primary: true}
	for _, s := range weak {
		if len(recs) > maxSecondary {
			break
		}
		module, ok := areaModules[s.Area]
		if !ok {
			module = domain.ModuleFoundations
		}
		if added[module] {
			continue
		}
		added[module] = true
		recs = append(recs, secondaryRecommendation(module))
	}
	return recs
}

func primaryRecommendation(module domain.PriorityModule, teamSize string) domain.Recommendation {
	tpl, ok := primaryTemplates[module]
	if !ok {
		module = domain.ModuleFoundations
		tpl = primaryTemplates[module]
	}
	hours, ok := weeklyHoursSaved[teamSize]
	if !ok {
		hours = defaultHoursSaved
	}
	return domain.Recommendation{
		Module:       module,
		Primary:      true,
		Title:        tpl.title,
		Description:  fmt.Sprintf(tpl.description, teamPhrase(teamSize), hours.low, hours.high),
		Benefits:     append([]string(nil), tpl.benefits...),
		ActionItems:  append([]string(nil), tpl.actionItems...),
		TimeEstimate: tpl.timeEstimate,
		Impact:       tpl.impact,
	}
}

func secondaryRecommendation(module domain.PriorityModule) domain.Recommendation {
	tpl, ok := secondaryTemplates[module]
	if !ok {
		module = domain.ModuleFoundations
		tpl = secondaryTemplates[module]
	}
	return domain.Recommendation{
		Module:       module,
		Title:        tpl.title,
		Description:  tpl.description,
		ActionItems:  append([]string(nil), tpl.actionItems...),
		TimeEstimate: tpl.timeEstimate,
		Impact:       "medium",
	}
}

func teamPhrase(teamSize string) string {
	switch teamSize {
	case TeamSizeMicro, TeamSizeSmall, TeamSizeMedium:
		return fmt.Sprintf("a team of %s people", teamSize)
	case TeamSizeLarge:
		return "an organisation of more than 200 people"
	default:
		return "your team"
	}
}
