package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shashiranjanraj/ordermgmt/app/models"
	"github.com/shashiranjanraj/ordermgmt/pkg/apperr"
)

// DefaultTransitions is the rule set used when ORDER_TRANSITIONS is unset.
const DefaultTransitions = "NEW=IN_PROGRESS|COMPLETED"

// TransitionTable holds the allowed status moves. A state listed in the
// table may only move to its targets; a state that is not listed is
// unrestricted. A listed state with no targets is terminal.
type TransitionTable struct {
	rules map[models.Status]map[models.Status]bool
}

// ParseTransitionTable reads rules of the form "FROM=TO|TO;FROM=TO".
// Whitespace is ignored and an empty string yields a table with no
// restrictions.
func ParseTransitionTable(s string) (TransitionTable, error) {
	t := TransitionTable{rules: map[models.Status]map[models.Status]bool{}}

	for _, clause := range strings.Split(s, ";") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}

		fromRaw, toRaw, ok := strings.Cut(clause, "=")
		if !ok {
			return TransitionTable{}, fmt.Errorf("transitions: %q: missing '='", clause)
		}
		from, ok := models.ParseStatus(fromRaw)
		if !ok {
			return TransitionTable{}, fmt.Errorf("transitions: unknown status %q", strings.TrimSpace(fromRaw))
		}
		if _, dup := t.rules[from]; dup {
			return TransitionTable{}, fmt.Errorf("transitions: %s listed twice", from)
		}

		targets := map[models.Status]bool{}
		for _, raw := range strings.Split(toRaw, "|") {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			to, ok := models.ParseStatus(raw)
			if !ok {
				return TransitionTable{}, fmt.Errorf("transitions: unknown status %q", strings.TrimSpace(raw))
			}
			targets[to] = true
		}
		t.rules[from] = targets
	}

	return t, nil
}

// MustParseTransitionTable is ParseTransitionTable for known-good input.
func MustParseTransitionTable(s string) TransitionTable {
	t, err := ParseTransitionTable(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Allows reports whether an order in from may move to to.
func (t TransitionTable) Allows(from, to models.Status) bool {
	targets, listed := t.rules[from]
	if !listed {
		return true
	}
	return targets[to]
}

// Check returns InvalidTransition when from → to is not allowed.
func (t TransitionTable) Check(from, to models.Status) error {
	if t.Allows(from, to) {
		return nil
	}
	return apperr.InvalidTransition("cannot move order from %s to %s", from, to)
}

// String renders the table in the configuration format.
func (t TransitionTable) String() string {
	froms := make([]string, 0, len(t.rules))
	for from := range t.rules {
		froms = append(froms, string(from))
	}
	sort.Strings(froms)

	clauses := make([]string, 0, len(froms))
	for _, from := range froms {
		var tos []string
		for _, st := range models.Statuses {
			if t.rules[models.Status(from)][st] {
				tos = append(tos, string(st))
			}
		}
		clauses = append(clauses, from+"="+strings.Join(tos, "|"))
	}
	return strings.Join(clauses, ";")
}
