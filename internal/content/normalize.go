package content

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/kidwise/api/internal/apperr"
)

// Candidate keys per field, primary first.
var (
	keysAnalysis   = []string{"analysis"}
	keysTopic      = []string{"topic"}
	keysIntent     = []string{"intent"}
	keysAgeLevel   = []string{"age_level", "ageLevel"}
	keysEmotion    = []string{"emotion"}
	keysAnswer     = []string{"answer"}
	keysParentTips = []string{"parent_tips", "parentTips"}
	keysStory      = []string{"story"}
	keysActivities = []string{"activities"}

	keysFlag       = []string{"flag"}
	keysNotes      = []string{"notes"}
	keysSafeAnswer = []string{"safe_answer", "safeAnswer"}

	keysPlan           = []string{"plan"}
	keysOverview       = []string{"overview"}
	keysSchedule       = []string{"schedule"}
	keysBlockName      = []string{"block", "time_of_day", "title"}
	keysBlockItems     = []string{"items", "steps", "activities"}
	keysScript         = []string{"script", "talk_track"}
	keysTips           = []string{"tips"}
	keysBoundaries     = []string{"boundaries", "rules"}
	keysPlanActivities = []string{"activities", "alternatives"}
	keysReminders      = []string{"reminders", "nudges"}
)

// extractor pulls a JSON candidate out of raw provider text.
type extractor struct {
	name string
	fn   func(string) (string, bool)
}

// extractors are tried in order; the first one that yields a JSON object wins.
var extractors = []extractor{
	{name: "raw", fn: func(s string) (string, bool) { return s, true }},
	{name: "code_fence", fn: stripCodeFence},
	{name: "brace_span", fn: braceSpan},
}

func stripCodeFence(s string) (string, bool) {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return "", false
	}
	t = strings.TrimPrefix(t, "```")
	if len(t) >= 4 && strings.EqualFold(t[:4], "json") {
		t = t[4:]
	}
	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t), true
}

func braceSpan(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// decodeObject parses raw into a JSON object using the extractors in order.
func decodeObject(raw string) (map[string]any, error) {
	var lastErr error
	for _, ex := range extractors {
		candidate, ok := ex.fn(raw)
		if !ok {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
			lastErr = err
			continue
		}
		if obj == nil {
			lastErr = errors.New("JSON value is not an object")
			continue
		}
		return obj, nil
	}
	return nil, apperr.Malformed("AI response was not valid JSON", raw, lastErr)
}

// firstPresent returns the value under the first key that is present and non-empty.
func firstPresent(obj map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		v, ok := obj[k]
		if ok && !isEmpty(v) {
			return v, true
		}
	}
	return nil, false
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// scalarString stringifies JSON scalars. Strings are returned verbatim and
// objects are re-encoded compactly.
func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// stringField resolves keys to a string. A list of lines is joined with newlines.
func stringField(obj map[string]any, keys []string) string {
	v, ok := firstPresent(obj, keys)
	if !ok {
		return ""
	}
	if list, isList := v.([]any); isList {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if s := scalarString(item); strings.TrimSpace(s) != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	}
	return scalarString(v)
}

// listValue applies list coercion: lists pass through, a non-empty scalar
// becomes a one-element list and anything absent becomes an empty list.
func listValue(v any) []any {
	switch t := v.(type) {
	case nil:
		return []any{}
	case []any:
		return t
	default:
		if isEmpty(t) {
			return []any{}
		}
		return []any{t}
	}
}

func listField(obj map[string]any, keys []string) []string {
	v, _ := firstPresent(obj, keys)
	items := listValue(v)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, scalarString(item))
	}
	return out
}

func objectField(obj map[string]any, keys []string) map[string]any {
	v, _ := firstPresent(obj, keys)
	m, _ := v.(map[string]any)
	return m
}

// NormalizeContent parses a question or follow-up reply.
func NormalizeContent(raw string) (*GeneratedContent, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	c := &GeneratedContent{
		Answer:     stringField(obj, keysAnswer),
		ParentTips: listField(obj, keysParentTips),
		Story:      stringField(obj, keysStory),
		Activities: listField(obj, keysActivities),
	}
	if a := objectField(obj, keysAnalysis); a != nil {
		c.Analysis = Analysis{
			Topic:    stringField(a, keysTopic),
			Intent:   stringField(a, keysIntent),
			AgeLevel: stringField(a, keysAgeLevel),
			Emotion:  stringField(a, keysEmotion),
		}
	}
	if c.Answer == "" {
		return nil, apperr.Malformed("AI response has no answer", raw, nil)
	}
	return c, nil
}

// NormalizeSafety parses a reviewer reply. A missing or unknown flag is
// malformed; it never defaults to safe.
func NormalizeSafety(raw string) (*SafetyVerdict, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	flag := SafetyFlag(strings.ToLower(strings.TrimSpace(stringField(obj, keysFlag))))
	if flag != FlagSafe && flag != FlagUnsafe {
		return nil, apperr.Malformed("safety response has no valid flag", raw, nil)
	}
	v := &SafetyVerdict{
		Flag:  flag,
		Notes: listField(obj, keysNotes),
	}
	if flag == FlagUnsafe {
		v.SafeAnswer = stringField(obj, keysSafeAnswer)
	}
	return v, nil
}

// NormalizePlan parses a plan reply. A plan needs at least an overview, a
// schedule or a script.
func NormalizePlan(raw string) (*PlanContent, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	if nested := objectField(obj, keysPlan); nested != nil {
		if _, top := firstPresent(obj, keysOverview); !top {
			obj = nested
		}
	}
	p := &PlanContent{
		Overview:   stringField(obj, keysOverview),
		Schedule:   scheduleField(obj),
		Script:     stringField(obj, keysScript),
		Tips:       listField(obj, keysTips),
		Boundaries: listField(obj, keysBoundaries),
		Activities: listField(obj, keysPlanActivities),
		Reminders:  listField(obj, keysReminders),
	}
	if p.Overview == "" && len(p.Schedule) == 0 && p.Script == "" {
		return nil, apperr.Malformed("plan response has no usable content", raw, nil)
	}
	return p, nil
}

func scheduleField(obj map[string]any) []ScheduleBlock {
	v, _ := firstPresent(obj, keysSchedule)
	entries := listValue(v)
	blocks := make([]ScheduleBlock, 0, len(entries))
	for _, e := range entries {
		var b ScheduleBlock
		switch t := e.(type) {
		case map[string]any:
			b = ScheduleBlock{Block: stringField(t, keysBlockName), Items: listField(t, keysBlockItems)}
		default:
			b = ScheduleBlock{Block: scalarString(t), Items: []string{}}
		}
		if strings.TrimSpace(b.Block) == "" && len(b.Items) == 0 {
			continue
		}
		blocks = append(blocks, b)
	}
	return blocks
}
