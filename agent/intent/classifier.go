package intent

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/contract"
	statex "github.com/tanpawarit/Chative-Schedule-Assistant/agent/state"
)

var (
	// "10/5 ...", "10月5日 ..."; the remainder is split into time and content in code.
	createDatePattern  = regexp.MustCompile(`(\d{1,2})([/月])(\d{1,2})(.*)$`)
	leadingTimePattern = regexp.MustCompile(`^(\d{1,2}:\d{2})(.*)$`)
	monthPattern       = regexp.MustCompile(`(\d{1,2})月`)
	positiveIntPattern = regexp.MustCompile(`^\d+$`)
)

var (
	cancelWords   = []string{"キャンセル", "cancel", "やめる"}
	todayWords    = []string{"今日", "today"}
	tomorrowWords = []string{"明日", "tomorrow"}
)

// Input is what every rule sees.
type Input struct {
	Step statex.DialogueStep
	Text string
	Now  time.Time
}

// Rule pairs a predicate with an extractor. Match reports false when the rule
// does not apply to the input.
type Rule struct {
	Name  string
	Match func(in Input) (Intent, bool)
}

// Classifier evaluates its rules in order and returns the first match.
type Classifier struct {
	rules []Rule
	now   func() time.Time
	loc   *time.Location
}

type Option func(*Classifier)

func WithClock(now func() time.Time) Option {
	return func(c *Classifier) {
		if now != nil {
			c.now = now
		}
	}
}

func WithLocation(loc *time.Location) Option {
	return func(c *Classifier) {
		if loc != nil {
			c.loc = loc
		}
	}
}

func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		rules: DefaultRules(),
		now:   time.Now,
		loc:   time.Local,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// DefaultRules is the fixed precedence: an active dialogue step owns the
// message before any free-standing command is considered.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "cancel", Match: matchCancel},
		{Name: "select_by_index", Match: matchSelectByIndex},
		{Name: "choose_action", Match: matchChooseAction},
		{Name: "supply_edit_field", Match: matchSupplyEditField},
		{Name: "create_appointment", Match: matchCreateAppointment},
		{Name: "list_range", Match: matchListRange},
	}
}

func (c *Classifier) Classify(step statex.DialogueStep, text string) Intent {
	in := Input{
		Step: step,
		Text: strings.TrimSpace(text),
		Now:  c.now().In(c.loc),
	}
	if in.Step == "" {
		in.Step = statex.StepIdle
	}
	if in.Text == "" {
		return Noop()
	}

	for _, rule := range c.rules {
		if out, ok := rule.Match(in); ok {
			return out
		}
	}
	return Noop()
}

func matchCancel(in Input) (Intent, bool) {
	if in.Step == statex.StepIdle {
		return Intent{}, false
	}
	if !equalsAny(in.Text, cancelWords) {
		return Intent{}, false
	}
	return Intent{Kind: KindCancel}, true
}

func matchSelectByIndex(in Input) (Intent, bool) {
	if in.Step != statex.StepAwaitingSelection {
		return Intent{}, false
	}
	out := Intent{Kind: KindSelectByIndex}
	if positiveIntPattern.MatchString(in.Text) {
		if n, err := strconv.Atoi(in.Text); err == nil && n > 0 {
			out.Index = n
		}
	}
	return out, true
}

func matchChooseAction(in Input) (Intent, bool) {
	if in.Step != statex.StepAwaitingAction {
		return Intent{}, false
	}
	return Intent{Kind: KindChooseAction, Text: in.Text}, true
}

func matchSupplyEditField(in Input) (Intent, bool) {
	if in.Step != statex.StepAwaitingEditField {
		return Intent{}, false
	}
	return Intent{Kind: KindSupplyEditField, Text: in.Text}, true
}

func matchCreateAppointment(in Input) (Intent, bool) {
	m := createDatePattern.FindStringSubmatch(in.Text)
	if m == nil {
		return Intent{}, false
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[3])

	rest := m[4]
	if m[2] == "月" {
		rest = strings.TrimPrefix(rest, "日")
	}
	rest = strings.TrimSpace(rest)

	var clock string
	if tm := leadingTimePattern.FindStringSubmatch(rest); tm != nil {
		clock = tm[1]
		rest = strings.TrimSpace(tm[2])
	}
	if rest == "" {
		return Intent{}, false
	}

	return Intent{
		Kind:    KindCreateAppointment,
		Month:   month,
		Day:     day,
		Time:    clock,
		Content: rest,
	}, true
}

func matchListRange(in Input) (Intent, bool) {
	switch {
	case containsAny(in.Text, todayWords):
		return Intent{Kind: KindListRange, Range: contractx.DayRange(in.Now)}, true
	case containsAny(in.Text, tomorrowWords):
		return Intent{Kind: KindListRange, Range: contractx.DayRange(in.Now.AddDate(0, 0, 1))}, true
	}

	m := monthPattern.FindStringSubmatch(in.Text)
	if m == nil {
		return Intent{}, false
	}
	month, _ := strconv.Atoi(m[1])
	if month < 1 || month > 12 {
		return Intent{}, false
	}
	return Intent{
		Kind:  KindListRange,
		Range: contractx.MonthRange(in.Now.Year(), time.Month(month), in.Now.Location()),
	}, true
}

func equalsAny(text string, words []string) bool {
	lower := strings.ToLower(text)
	for _, w := range words {
		if lower == w {
			return true
		}
	}
	return false
}

func containsAny(text string, words []string) bool {
	lower := strings.ToLower(text)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
