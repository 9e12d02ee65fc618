// Package content turns parent questions and plan requests into prompts,
// sends them to the AI provider and normalizes the replies into typed records.
package content

// AgeBand is one of the fixed child age ranges that drive vocabulary and style.
type AgeBand string

const (
	AgeBand3to5  AgeBand = "3-5"
	AgeBand6to8  AgeBand = "6-8"
	AgeBand9to12 AgeBand = "9-12"
)

// AgeBands lists the supported bands in ascending order.
var AgeBands = []AgeBand{AgeBand3to5, AgeBand6to8, AgeBand9to12}

func (b AgeBand) Valid() bool {
	_, ok := ageStyleGuidance[b]
	return ok
}

type Tone string

const (
	ToneSupportive Tone = "supportive"
	ToneConcise    Tone = "concise"
)

// Normalize returns t, or ToneSupportive when t is empty or unknown.
func (t Tone) Normalize() Tone {
	if _, ok := toneGuidance[t]; ok {
		return t
	}
	return ToneSupportive
}

const DefaultLanguage = "en"

// Turn is one earlier question and the answer that was shown for it.
type Turn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type GenerationRequest struct {
	Question   string
	AgeBand    AgeBand
	Emotion    string
	Tone       Tone
	Language   string
	PriorTurns []Turn
}

type Analysis struct {
	Topic    string `json:"topic"`
	Intent   string `json:"intent"`
	AgeLevel string `json:"age_level"`
	Emotion  string `json:"emotion"`
}

// GeneratedContent is the structured help produced for one question. List
// fields are never nil.
type GeneratedContent struct {
	Analysis   Analysis `json:"analysis"`
	Answer     string   `json:"answer"`
	ParentTips []string `json:"parentTips"`
	Story      string   `json:"story"`
	Activities []string `json:"activities"`
}

type SafetyFlag string

const (
	FlagSafe   SafetyFlag = "safe"
	FlagUnsafe SafetyFlag = "unsafe"
)

// SafetyVerdict is the reviewer's judgement of a GeneratedContent.
// SafeAnswer is only kept when Flag is FlagUnsafe.
type SafetyVerdict struct {
	Flag       SafetyFlag `json:"flag"`
	Notes      []string   `json:"notes"`
	SafeAnswer string     `json:"safeAnswer,omitempty"`
}

type SafetyRequest struct {
	Question string
	AgeBand  AgeBand
	Content  GeneratedContent
	Tone     Tone
	Language string
}

// FinalAnswer is the answer a parent should see: the reviewer's rewrite when
// the content was flagged unsafe and a rewrite exists, otherwise the original.
func FinalAnswer(c *GeneratedContent, v *SafetyVerdict) string {
	if c == nil {
		return ""
	}
	if v != nil && v.Flag == FlagUnsafe && v.SafeAnswer != "" {
		return v.SafeAnswer
	}
	return c.Answer
}

// ReviewedContent pairs generated content with its safety verdict.
type ReviewedContent struct {
	Content GeneratedContent
	Safety  SafetyVerdict
}

func (r *ReviewedContent) FinalAnswer() string {
	return FinalAnswer(&r.Content, &r.Safety)
}

type PlanType string

const (
	PlanDailyRoutine       PlanType = "daily_routine"
	PlanBedtimeScript      PlanType = "bedtime_script"
	PlanScreenTime         PlanType = "screen_time_plan"
	PlanTrickyMomentScript PlanType = "tricky_moment_script"
)

var planLabels = map[PlanType]string{
	PlanDailyRoutine:       "Daily Routine",
	PlanBedtimeScript:      "Bedtime Script",
	PlanScreenTime:         "Screen Time Plan",
	PlanTrickyMomentScript: "What to Say",
}

func (p PlanType) Valid() bool {
	_, ok := planLabels[p]
	return ok
}

// Label is the human readable name of the plan type, "Plan" when unknown.
func (p PlanType) Label() string {
	if l, ok := planLabels[p]; ok {
		return l
	}
	return "Plan"
}

// DefaultTitle names a saved plan when the parent gave no title.
func DefaultTitle(p PlanType, band AgeBand) string {
	return p.Label() + " (" + string(band) + ")"
}

type PlanRequest struct {
	Type     PlanType
	AgeBand  AgeBand
	Goal     string
	Emotion  string
	Tone     Tone
	Language string
}

type ScheduleBlock struct {
	Block string   `json:"block"`
	Items []string `json:"items"`
}

// PlanContent is a normalized plan. Every list field is non-nil.
type PlanContent struct {
	Overview   string          `json:"overview"`
	Schedule   []ScheduleBlock `json:"schedule"`
	Script     string          `json:"script"`
	Tips       []string        `json:"tips"`
	Boundaries []string        `json:"boundaries"`
	Activities []string        `json:"activities"`
	Reminders  []string        `json:"reminders"`
}
