package transition

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Table is a declarative status allow-list: each known status maps to the
// set of statuses it may move to. A status mapping to an empty set is
// terminal.
type Table map[string][]string

var (
	ErrUnknownStatus  = errors.New("unknown_status")
	ErrTerminal       = errors.New("terminal_status")
	ErrNotAllowed     = errors.New("transition_not_allowed")
	ErrReasonTooShort = errors.New("reason_too_short")
)

// MinReasonLength is the minimum length for required transition reasons
// (rejections, refunds).
const MinReasonLength = 10

func (t Table) Valid(status string) bool {
	_, ok := t[status]
	return ok
}

// IsTerminal reports whether status is known and has no outgoing
// transitions.
func (t Table) IsTerminal(status string) bool {
	next, ok := t[status]
	return ok && len(next) == 0
}

func (t Table) CanTransition(from, to string) bool {
	for _, allowed := range t[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Statuses returns every status the table knows about.
func (t Table) Statuses() []string {
	out := make([]string, 0, len(t))
	for status := range t {
		out = append(out, status)
	}
	return out
}

// Validate decides whether moving from one status to another is legal.
// The caller names the target explicitly; nothing is inferred.
func Validate(t Table, from, to string) error {
	if !t.Valid(from) || !t.Valid(to) {
		return ErrUnknownStatus
	}
	if t.IsTerminal(from) {
		return ErrTerminal
	}
	if !t.CanTransition(from, to) {
		return ErrNotAllowed
	}
	return nil
}

// RequireReason enforces the minimum reason length for transitions that
// demand one, before any state is touched.
func RequireReason(reason string) error {
	if utf8.RuneCountInString(strings.TrimSpace(reason)) < MinReasonLength {
		return ErrReasonTooShort
	}
	return nil
}

// Label humanizes a status value for display ("in_transit" -> "In transit").
func Label(status string) string {
	label := strings.ReplaceAll(status, "_", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
