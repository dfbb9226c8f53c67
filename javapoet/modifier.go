package javapoet

import (
	"sort"
	"strconv"
	"strings"

	"github.com/teranos/jpoet/errors"
)

// Modifier is a Java declaration modifier. Values are ordered the way javac
// prints them, and emitted modifiers always follow that order.
type Modifier int

const (
	Public Modifier = iota
	Protected
	Private
	Abstract
	Default
	Static
	Final
	Transient
	Volatile
	Synchronized
	Native
	Strictfp
)

var modifierNames = [...]string{
	Public:       "public",
	Protected:    "protected",
	Private:      "private",
	Abstract:     "abstract",
	Default:      "default",
	Static:       "static",
	Final:        "final",
	Transient:    "transient",
	Volatile:     "volatile",
	Synchronized: "synchronized",
	Native:       "native",
	Strictfp:     "strictfp",
}

func (m Modifier) String() string {
	if m < 0 || int(m) >= len(modifierNames) {
		return "Modifier(" + strconv.Itoa(int(m)) + ")"
	}
	return modifierNames[m]
}

// ParseModifier returns the modifier spelled keyword.
func ParseModifier(keyword string) (Modifier, error) {
	for m, name := range modifierNames {
		if name == strings.ToLower(strings.TrimSpace(keyword)) {
			return Modifier(m), nil
		}
	}
	return 0, errors.NewInvalidArgumentf("unknown modifier %q", keyword)
}

func containsModifier(set []Modifier, m Modifier) bool {
	for _, s := range set {
		if s == m {
			return true
		}
	}
	return false
}

// sortedModifiers returns the distinct modifiers of set in declaration order.
func sortedModifiers(set []Modifier) []Modifier {
	out := make([]Modifier, 0, len(set))
	for _, m := range set {
		if !containsModifier(out, m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
