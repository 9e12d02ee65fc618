package content

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kidwise/api/internal/apperr"
)

const systemPreamble = "You are AI Parenting Helper. You craft concise, kind, age-appropriate replies for children. " +
	"Keep language simple, reassuring, bias-free, and avoid fear-inducing content. " +
	"Never provide medical diagnoses or harmful instructions."

var ageStyleGuidance = map[AgeBand]string{
	AgeBand3to5:  "Use very short, friendly sentences, with a touch of story tone.",
	AgeBand6to8:  "Use simple examples and analogies; keep it concrete.",
	AgeBand9to12: "Give light reasoning and examples, but stay gentle and clear.",
}

var toneGuidance = map[Tone]string{
	ToneSupportive: "Tone: warm and encouraging. Acknowledge feelings and add a little extra reassurance.",
	ToneConcise:    "Tone: brief and direct. Prefer short sentences and skip extra elaboration.",
}

var planFocus = map[PlanType]string{
	PlanDailyRoutine:       "Focus on a realistic daily schedule split into time-of-day blocks.",
	PlanBedtimeScript:      "Focus on a calm wind-down sequence and the exact words to use at lights-out.",
	PlanScreenTime:         "Focus on clear screen limits and offline alternatives, plus how to handle pushback.",
	PlanTrickyMomentScript: "Focus on what the parent can say in the moment, step by step, while staying calm.",
}

const (
	contentSchema      = "Generate structured help for a parent's answer to a child as JSON with keys: analysis (topic, intent, age_level, emotion), answer, parent_tips (list), story, activities (list)."
	contentConstraints = "Constraints: keep answer <= 120 words; story <= 120 words; 3-4 activities."
	contentTone        = "Keep tone gentle, positive, and non-frightening."

	planShape = `JSON shape: {"overview":"","schedule":[{"block":"","items":[""]}],"script":"","tips":[""],"boundaries":[""],"activities":[""],"reminders":[""]}`
)

var strictPlanSchema = []string{
	"Return ONLY one JSON object. Do not wrap it in markdown code fences and do not add any text before or after it.",
	"Use exactly these keys:",
	`- "overview": string, two or three sentences summarizing the plan`,
	`- "schedule": array of objects, each {"block": string naming the part of the day or step, "items": array of strings}`,
	`- "script": string with words the parent can say`,
	`- "tips": array of strings`,
	`- "boundaries": array of strings`,
	`- "activities": array of strings`,
	`- "reminders": array of strings`,
	"Use empty strings or empty arrays for keys that do not apply.",
}

// LanguageOrDefault trims lang and falls back to English.
func LanguageOrDefault(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return DefaultLanguage
	}
	return lang
}

func languageDirective(lang string) string {
	lang = LanguageOrDefault(lang)
	if strings.EqualFold(lang, DefaultLanguage) || strings.EqualFold(lang, "english") {
		return "Respond in English."
	}
	return fmt.Sprintf("Respond in %s.", lang)
}

// header renders the shared opening lines: framing, age style, tone and language.
func header(band AgeBand, tone Tone, lang string) ([]string, error) {
	style, ok := ageStyleGuidance[band]
	if !ok {
		return nil, apperr.InvalidAgeBand(string(band))
	}
	return []string{
		systemPreamble,
		"Respect the requested age style: " + style,
		toneGuidance[tone.Normalize()],
		languageDirective(lang),
	}, nil
}

// renderTurns formats prior turns oldest first, skipping turns missing either side.
func renderTurns(turns []Turn) []string {
	var lines []string
	n := 0
	for _, t := range turns {
		q, a := strings.TrimSpace(t.Question), strings.TrimSpace(t.Answer)
		if q == "" || a == "" {
			continue
		}
		n++
		lines = append(lines, fmt.Sprintf("Turn %d - Question: %s | Answer: %s", n, q, a))
	}
	if len(lines) == 0 {
		return nil
	}
	return append([]string{
		"This is a follow-up. Earlier conversation, oldest first:",
	}, append(lines, "Build on the earlier answers without repeating them.")...)
}

// BuildContentPrompt renders the prompt for a question or follow-up.
func BuildContentPrompt(req GenerationRequest) (string, error) {
	lines, err := header(req.AgeBand, req.Tone, req.Language)
	if err != nil {
		return "", err
	}
	lines = append(lines, contentSchema, contentConstraints, contentTone)
	lines = append(lines, renderTurns(req.PriorTurns)...)
	lines = append(lines,
		"Child question: "+strings.TrimSpace(req.Question),
		"Child age group: "+string(req.AgeBand),
	)
	if e := strings.TrimSpace(req.Emotion); e != "" {
		lines = append(lines, "Child emotion (optional): "+e)
	}
	return strings.Join(lines, "\n"), nil
}

// BuildSafetyPrompt renders the reviewer prompt for generated content.
func BuildSafetyPrompt(req SafetyRequest) (string, error) {
	if !req.AgeBand.Valid() {
		return "", apperr.InvalidAgeBand(string(req.AgeBand))
	}
	c := req.Content
	lines := []string{
		"You are a strict child-safety reviewer.",
		"Check content for scientific correctness, emotional safety, non-violence, age appropriateness, neutrality, and absence of harmful instructions. If unsafe, rewrite the answer to be safe.",
		"If you rewrite the answer, follow this style. " + toneGuidance[req.Tone.Normalize()] + " " + languageDirective(req.Language),
		"Respond ONLY as JSON with keys: flag ('safe' or 'unsafe'), notes (list), safe_answer (present if rewritten).",
		"Child question: " + strings.TrimSpace(req.Question),
		"Age group: " + string(req.AgeBand),
		"Analysis: " + mustJSON(c.Analysis),
		"Answer: " + c.Answer,
		"Story: " + c.Story,
		"Parent tips: " + mustJSON(nonNil(c.ParentTips)),
		"Activities: " + mustJSON(nonNil(c.Activities)),
	}
	return strings.Join(lines, "\n"), nil
}

// BuildPlanPrompt renders a plan prompt. The strict variant spells out every
// key and forbids code fences; the loose variant only gives the shape.
func BuildPlanPrompt(req PlanRequest, strict bool) (string, error) {
	if !req.Type.Valid() {
		return "", apperr.InvalidPlanType(string(req.Type))
	}
	lines, err := header(req.AgeBand, req.Tone, req.Language)
	if err != nil {
		return "", err
	}
	lines = append(lines,
		fmt.Sprintf("Create a %s for a parent of a child aged %s.", req.Type.Label(), req.AgeBand),
		planFocus[req.Type],
	)
	if strict {
		lines = append(lines, strictPlanSchema...)
	} else {
		lines = append(lines, "Return JSON with keys: overview, schedule (list of {block, items}), script, tips (list), boundaries (list), activities (list), reminders (list).")
	}
	lines = append(lines, planShape, "Parent goal: "+strings.TrimSpace(req.Goal))
	if e := strings.TrimSpace(req.Emotion); e != "" {
		lines = append(lines, "Child emotion (optional): "+e)
	}
	return strings.Join(lines, "\n"), nil
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
