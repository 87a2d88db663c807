package compiler

import (
	"regexp"
	"strings"

	"github.com/jonathan/brand-compiler/internal/types"
)

var domainSniffers = []struct {
	domain types.Domain
	re     *regexp.Regexp
}{
	{types.DomainDevtools, regexp.MustCompile(`(?i)\b(?:dev|devs|developers?|api|apis|cli|sdk|code|coding|deploy\w*|ci/cd|pipelines?|linter|git|github)\b`)},
	{types.DomainSaaS, regexp.MustCompile(`(?i)\b(?:saas|b2b|crm|teams?|dashboards?|analytics|workflows?|enterprise|sales)\b`)},
	{types.DomainConsumer, regexp.MustCompile(`(?i)\b(?:health\w*|fitness|recipes?|travel\w*|trips?|meditation|habits?|family|families|pets?|dogs?|friends)\b`)},
}

// ResolveDomain honours an explicit product type and otherwise sniffs the
// description for domain keywords. "other" is treated as general.
func ResolveDomain(productType, description string) types.Domain {
	switch strings.ToLower(strings.TrimSpace(productType)) {
	case string(types.DomainDevtools):
		return types.DomainDevtools
	case string(types.DomainSaaS):
		return types.DomainSaaS
	case string(types.DomainConsumer):
		return types.DomainConsumer
	case string(types.DomainGeneral), "other":
		return types.DomainGeneral
	}

	for _, s := range domainSniffers {
		if s.re.MatchString(description) {
			return s.domain
		}
	}
	return types.DomainGeneral
}

// Pack is the domain-specific fallback content. Template strings may use
// {name}, {audience} and {outcome}.
type Pack struct {
	Outcome         string
	Proof           string
	Audience        string
	Differentiation string
	Keyword         string
	Headlines       []string
	HeadlinePool    []string
	Bullets         []string
	Subheadlines    []string
	NotForYouIf     []string
	CTAs            []string
	Objection       types.ObjectionHandler
}

var packs = map[types.Domain]Pack{
	types.DomainDevtools: {
		Outcome:         "ship faster with fewer errors",
		Proof:           "It fits into the tools your team already uses.",
		Audience:        "engineering teams",
		Differentiation: "Works with the stack you already run",
		Keyword:         "developer tools",
		Headlines:       []string{"Ship with confidence.", "Automate config."},
		HeadlinePool:    []string{"Less setup, more shipping.", "Your pipeline, fixed.", "Green builds by default."},
		Bullets:         []string{"Ship faster.", "Reduce errors.", "Automate setup.", "Keep your stack.", "Debug less."},
		Subheadlines: []string{
			"Set it up once and stop babysitting your pipeline.",
			"Fewer broken builds and fewer late nights.",
			"Built by developers who got tired of the same problems.",
		},
		NotForYouIf: []string{
			"You deploy once a year.",
			"You enjoy writing glue scripts by hand.",
			"You want a hosted IDE.",
		},
		CTAs: []string{"Install the CLI", "Read the docs", "Start free"},
		Objection: types.ObjectionHandler{
			Objection: "Will it break our pipeline?",
			Answer:    "No. {name} runs alongside your current setup and comes out in minutes.",
		},
	},
	types.DomainSaaS: {
		Outcome:         "scale operations without extra headcount",
		Proof:           "It gives every team one shared source of truth.",
		Audience:        "operations teams",
		Differentiation: "One place for the whole team to work",
		Keyword:         "b2b software",
		Headlines:       []string{"Scale your operations.", "Run the team, not the tools."},
		HeadlinePool:    []string{"One source of truth.", "Less busywork, more progress.", "Grow without the overhead."},
		Bullets:         []string{"Save time.", "Cut busywork.", "See everything.", "Onboard fast.", "Scale calmly."},
		Subheadlines: []string{
			"Replace the spreadsheet sprawl with one clear system.",
			"Every team sees the same numbers at the same time.",
			"Set up in an afternoon and grow from there.",
		},
		NotForYouIf: []string{
			"Your team fits in one chat thread.",
			"You like reconciling spreadsheets.",
			"You need a fully custom build.",
		},
		CTAs: []string{"Book a demo", "Start free trial", "See pricing"},
		Objection: types.ObjectionHandler{
			Objection: "Will the team actually adopt it?",
			Answer:    "{name} mirrors how your team already works, so onboarding takes an afternoon.",
		},
	},
	types.DomainConsumer: {
		Outcome:         "feel better every day",
		Proof:           "It is designed around your daily routine.",
		Audience:        "people who want more from every day",
		Differentiation: "Designed around your daily routine",
		Keyword:         "consumer app",
		Headlines:       []string{"Live better.", "Feel the difference."},
		HeadlinePool:    []string{"Made for your everyday.", "Small steps, real change.", "Your routine, upgraded."},
		Bullets:         []string{"Feel great.", "Stay on track.", "Build habits.", "Enjoy the process.", "See progress."},
		Subheadlines: []string{
			"Small daily wins that add up to real change.",
			"Simple enough to use every single day.",
			"Made for real life, not perfect routines.",
		},
		NotForYouIf: []string{
			"You want overnight miracles.",
			"You never open apps twice.",
			"You prefer doing it all from memory.",
		},
		CTAs: []string{"Get started", "Try it free", "Join now"},
		Objection: types.ObjectionHandler{
			Objection: "Is it worth the price?",
			Answer:    "Try it free and keep it only if it helps you {outcome}.",
		},
	},
	types.DomainGeneral: {
		Outcome:         "get results without guesswork",
		Proof:           "It stays simple and reliable.",
		Audience:        "small teams",
		Differentiation: "Simple enough to start today",
		Keyword:         "productivity",
		Headlines:       []string{"Get results.", "Work smarter."},
		HeadlinePool:    []string{"Less guesswork.", "Clarity, finally.", "Start in minutes."},
		Bullets:         []string{"Save time.", "Stay focused.", "Start fast.", "Work simply.", "See results."},
		Subheadlines: []string{
			"Everything you need and nothing you don't.",
			"Clear steps from the first minute.",
			"Built to stay out of your way.",
		},
		NotForYouIf: []string{
			"You want a tool with a hundred settings.",
			"You are happy with how things work today.",
			"You need a custom build for one workflow.",
		},
		CTAs: []string{"Get started", "See how it works", "Try it free"},
		Objection: types.ObjectionHandler{
			Objection: "Is it complicated to set up?",
			Answer:    "No. Most people are up and running with {name} in under ten minutes.",
		},
	},
}

// PackFor returns the fallback pack for a domain. Unknown domains get the
// general pack.
func PackFor(domain types.Domain) Pack {
	if p, ok := packs[domain]; ok {
		return p
	}
	return packs[types.DomainGeneral]
}
