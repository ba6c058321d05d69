package rules

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"exlife/src/automata"
)

//ErrUnknownRule is returned by Parse for names that are neither presets nor rulestrings
var ErrUnknownRule = errors.New("rules: unknown rule")

//Rule is a cell rule over uint8 states that can be named back
type Rule interface {
	automata.Rules[uint8]
	fmt.Stringer
}

var presets = map[string]func() Rule{
	"life":        func() Rule { return Life() },
	"highlife":    func() Rule { return mustLifeLike("B36/S23") },
	"seeds":       func() Rule { return mustLifeLike("B2/S") },
	"daynight":    func() Rule { return mustLifeLike("B3678/S34678") },
	"briansbrain": func() Rule { return BriansBrain{} },
}

//Names returns the preset names in sorted order
func Names() []string {
	names := make([]string, 0, len(presets))
	for k := range presets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

//Parse returns the preset called name, or parses name as a Life-like rulestring
func Parse(name string) (Rule, error) {
	if f, ok := presets[strings.ToLower(name)]; ok {
		return f(), nil
	}
	if l, err := ParseLifeLike(name); err == nil {
		return l, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRule, name)
}

func mustLifeLike(rule string) *LifeLike {
	l, err := ParseLifeLike(rule)
	if err != nil {
		panic(err)
	}
	return l
}
