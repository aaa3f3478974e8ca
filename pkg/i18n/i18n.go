// Package i18n renders sheet labels and roll chat cards in the supported
// languages.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/jwebster45206/fading-suns/pkg/item"
	"github.com/jwebster45206/fading-suns/pkg/resolution"
	"github.com/jwebster45206/fading-suns/pkg/roll"
	"github.com/jwebster45206/fading-suns/pkg/traits"
)

// Supported lists the languages with a translation table, default first.
var Supported = []language.Tag{language.English, language.French}

var (
	matcher = language.NewMatcher(Supported)
	cat     = buildCatalog()
)

// English message keys. French strings are registered in translations.go.
const (
	msgRollTitle     = "Roll: %s"
	msgGoal          = "Goal: %d or less"
	msgResult        = "Result: %d"
	msgVictoryPoints = "%d Victory Point(s)"
	msgLabelJoin     = "%s + %s"
	msgModifier      = "Modifier: %+d"
	msgNotFound      = "Characteristic %q not found."
)

var outcomeKeys = map[resolution.Classification]string{
	resolution.CriticalFailure:  "Critical Failure!",
	resolution.AutomaticFailure: "Automatic Failure.",
	resolution.AutomaticSuccess: "Automatic Success!",
	resolution.CriticalSuccess:  "Critical Success!",
	resolution.Success:          "Success.",
	resolution.Failure:          "Failure.",
}

// Match picks the best supported language for an Accept-Language header
// value, or fallback when nothing matches.
func Match(acceptLanguage string, fallback language.Tag) language.Tag {
	if strings.TrimSpace(acceptLanguage) == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return Supported[idx]
}

// ParseTag parses a locale name such as "fr" or "en-US" into a supported
// tag.
func ParseTag(s string) (language.Tag, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", s, err)
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.Und, fmt.Errorf("unsupported locale %q", s)
	}
	return Supported[idx], nil
}

// Localizer renders labels in one language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

func New(tag language.Tag) *Localizer {
	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(cat)),
	}
}

func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// translate looks key up in the catalog and formats it with args.
func (l *Localizer) translate(key message.Reference, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

// label title-cases a snake_case key and translates the result. A Caser
// holds state, so each call gets its own.
func (l *Localizer) label(key string) string {
	var ref message.Reference = cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
	return l.translate(ref)
}

// Label translates any other sheet key, such as "natural_skills".
func (l *Localizer) Label(key string) string {
	return l.label(key)
}

func (l *Localizer) Characteristic(k traits.CharacteristicKey) string {
	return l.label(string(k))
}

func (l *Localizer) Skill(k traits.SkillKey) string {
	return l.label(string(k))
}

func (l *Localizer) Group(g traits.Group) string {
	return l.label(string(g))
}

func (l *Localizer) ItemType(t item.Type) string {
	return l.label(string(t))
}

func (l *Localizer) Outcome(cls resolution.Classification) string {
	key, ok := outcomeKeys[cls]
	if !ok {
		return l.label(cls.String())
	}
	var ref message.Reference = key
	return l.translate(ref)
}

func (l *Localizer) Goal(target int) string {
	return l.translate(msgGoal, target)
}

func (l *Localizer) VictoryPoints(n int) string {
	return l.translate(msgVictoryPoints, n)
}

func (l *Localizer) RollTitle(label string) string {
	return l.translate(msgRollTitle, label)
}

func (l *Localizer) CharacteristicNotFound(key string) string {
	return l.translate(msgNotFound, key)
}

// RollLabel names what was rolled: the characteristic alone, or
// "Characteristic + Skill".
func (l *Localizer) RollLabel(res *roll.Result) string {
	charLabel := l.Characteristic(res.Characteristic)
	switch res.Kind {
	case roll.KindCharacteristic:
		return charLabel
	case roll.KindInnate:
		return l.translate(msgLabelJoin, charLabel, l.Skill(traits.SkillKey(res.Skill)))
	default:
		return l.translate(msgLabelJoin, charLabel, res.Skill)
	}
}

// ChatMessage renders the plain-text chat card for a resolved roll.
func (l *Localizer) ChatMessage(res *roll.Result) string {
	var sb strings.Builder
	sb.WriteString(l.RollTitle(l.RollLabel(res)))
	sb.WriteString("\n")
	sb.WriteString(l.Goal(res.Outcome.TargetNumber))
	sb.WriteString("\n")
	if res.Modifier != 0 {
		sb.WriteString(l.translate(msgModifier, res.Modifier))
		sb.WriteString("\n")
	}
	sb.WriteString(l.translate(msgResult, res.Outcome.Roll))
	sb.WriteString("\n")
	sb.WriteString(l.Outcome(res.Outcome.Classification))
	if res.Outcome.VictoryPoints > 0 {
		sb.WriteString("\n")
		sb.WriteString(l.VictoryPoints(res.Outcome.VictoryPoints))
	}
	return sb.String()
}

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range french {
		if err := b.SetString(language.French, key, msg); err != nil {
			panic(fmt.Sprintf("i18n: bad French entry %q: %v", key, err))
		}
	}
	return b
}
