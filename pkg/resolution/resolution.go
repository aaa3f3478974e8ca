// Package resolution implements the Fading Suns roll-under check: a single
// d20 compared against a target number built from a characteristic, a skill
// and a situational modifier.
package resolution

import (
	"fmt"
	"strings"
)

// DieSides is the size of the only die the system rolls.
const DieSides = 20

// Classification is the degree of success of a resolved roll.
type Classification int

const (
	Unclassified Classification = iota
	CriticalFailure
	AutomaticFailure
	AutomaticSuccess
	CriticalSuccess
	Success
	Failure
)

var classificationNames = map[Classification]string{
	Unclassified:     "unclassified",
	CriticalFailure:  "critical_failure",
	AutomaticFailure: "automatic_failure",
	AutomaticSuccess: "automatic_success",
	CriticalSuccess:  "critical_success",
	Success:          "success",
	Failure:          "failure",
}

// Classifications lists every real classification in table order.
func Classifications() []Classification {
	return []Classification{
		CriticalFailure,
		AutomaticFailure,
		AutomaticSuccess,
		CriticalSuccess,
		Success,
		Failure,
	}
}

func (c Classification) String() string {
	if name, ok := classificationNames[c]; ok {
		return name
	}
	return "unknown"
}

// IsSuccess reports whether the classification earns victory points.
func (c Classification) IsSuccess() bool {
	switch c {
	case AutomaticSuccess, CriticalSuccess, Success:
		return true
	default:
		return false
	}
}

// MarshalText encodes the classification as its snake_case name.
func (c Classification) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a snake_case classification name.
func (c *Classification) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for cls, n := range classificationNames {
		if n == name {
			*c = cls
			return nil
		}
	}
	return fmt.Errorf("unknown classification %q", string(text))
}

// Outcome is the result of one resolved roll. It is only ever displayed or
// logged by callers; the engine keeps nothing.
type Outcome struct {
	Roll           int            `json:"roll"`
	TargetNumber   int            `json:"target_number"`
	Classification Classification `json:"classification"`
	VictoryPoints  int            `json:"victory_points"`
}

// TargetNumber returns characteristic + skill + modifier. Inputs are not
// clamped.
func TargetNumber(characteristic, skill, modifier int) int {
	return characteristic + skill + modifier
}

// Classify applies the decision table in order; the natural 20, 19 and 1
// take precedence over any comparison with the target.
func Classify(roll, target int) Classification {
	switch {
	case roll == 20:
		return CriticalFailure
	case roll == 19:
		return AutomaticFailure
	case roll == 1:
		return AutomaticSuccess
	case roll == target:
		return CriticalSuccess
	case roll <= target:
		return Success
	default:
		return Failure
	}
}

// BaseVictoryPoints maps a natural roll to its victory point band. Rolls
// outside 1-20 earn nothing.
func BaseVictoryPoints(roll int) int {
	switch {
	case roll < 1 || roll > DieSides:
		return 0
	case roll <= 5:
		return 1
	case roll <= 8:
		return 2
	case roll <= 11:
		return 3
	case roll <= 14:
		return 4
	case roll <= 17:
		return 5
	default:
		return 6
	}
}

// VictoryPoints returns the points earned by a roll with the given
// classification. Critical successes double the band value.
func VictoryPoints(roll int, cls Classification) int {
	switch cls {
	case AutomaticSuccess, Success:
		return BaseVictoryPoints(roll)
	case CriticalSuccess:
		return BaseVictoryPoints(roll) * 2
	default:
		return 0
	}
}

// Evaluate resolves an already rolled d20.
func Evaluate(characteristic, skill, modifier, roll int) Outcome {
	target := TargetNumber(characteristic, skill, modifier)
	cls := Classify(roll, target)
	return Outcome{
		Roll:           roll,
		TargetNumber:   target,
		Classification: cls,
		VictoryPoints:  VictoryPoints(roll, cls),
	}
}

// Resolve draws one d20 from src and evaluates it.
func Resolve(src Source, characteristic, skill, modifier int) Outcome {
	return Evaluate(characteristic, skill, modifier, RollD20(src))
}

// RollD20 draws a natural d20 result in [1, 20].
func RollD20(src Source) int {
	return src.Intn(DieSides) + 1
}
