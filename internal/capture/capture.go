// Package capture implements the two-step conversational flow that turns a
// free-text message and an HH:MM time-of-day into a stored reminder. The
// transition logic is a pure function over an explicit session value, so the
// whole flow is testable without a bot API.
package capture

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

type State int

const (
	StateIdle State = iota
	StateAwaitingText
	StateAwaitingTime
)

// Session is one user's in-progress capture. Draft holds the reminder text
// once the first step completes.
type Session struct {
	State State
	Draft string
}

type EventKind int

const (
	// EventNone: no capture session is active, input is not for us.
	EventNone EventKind = iota
	// EventPromptText: ask the user for the reminder body.
	EventPromptText
	// EventEmptyText: body was empty or whitespace, re-ask.
	EventEmptyText
	// EventPromptTime: body accepted, ask for HH:MM.
	EventPromptTime
	// EventBadTime: time input malformed or out of range, re-ask.
	EventBadTime
	// EventCompleted: both steps done; Text and DueAt carry the result.
	EventCompleted
)

// Event is what a transition tells the caller to do next.
type Event struct {
	Kind  EventKind
	Text  string
	DueAt time.Time
}

// timeRx allows a 1-digit hour ("7:30") but insists on a 2-digit minute:
// "7:5" is ambiguous (07:05 or 07:50?) and gets re-asked.
var timeRx = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// Begin starts (or restarts) a capture session.
func Begin() (Session, Event) {
	return Session{State: StateAwaitingText}, Event{Kind: EventPromptText}
}

// Next advances a session by one input. It is pure: the caller decides
// whether to keep the returned session, which lets a failed store write keep
// the user in AwaitingTime with the draft intact.
func Next(s Session, input string, now time.Time) (Session, Event) {
	switch s.State {
	case StateAwaitingText:
		text := strings.TrimSpace(input)
		if text == "" {
			return s, Event{Kind: EventEmptyText}
		}
		return Session{State: StateAwaitingTime, Draft: text}, Event{Kind: EventPromptTime}

	case StateAwaitingTime:
		h, m, ok := parseHM(input)
		if !ok {
			return s, Event{Kind: EventBadTime}
		}
		return s, Event{Kind: EventCompleted, Text: s.Draft, DueAt: nextOccurrence(now, h, m)}

	default:
		return s, Event{Kind: EventNone}
	}
}

func parseHM(input string) (h, m int, ok bool) {
	input = strings.TrimSpace(input)
	if !timeRx.MatchString(input) {
		return 0, 0, false
	}
	parts := strings.SplitN(input, ":", 2)
	h, _ = strconv.Atoi(parts[0])
	m, _ = strconv.Atoi(parts[1])
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

// nextOccurrence resolves a time-of-day to the next absolute instant at
// HH:MM:00: today if still ahead of now, otherwise tomorrow. The roll uses
// calendar arithmetic (Day()+1, normalized by time.Date) rather than adding
// 24h, so the wall-clock HH:MM survives a DST transition.
func nextOccurrence(now time.Time, h, m int) time.Time {
	due := time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, now.Location())
	if !due.After(now) {
		due = time.Date(now.Year(), now.Month(), now.Day()+1, h, m, 0, 0, now.Location())
	}
	return due
}

// Machine holds every user's session. Sessions are transient: they live in
// memory only and are scoped to a single capture.
type Machine struct {
	mu       sync.Mutex
	sessions map[int64]Session
}

func NewMachine() *Machine {
	return &Machine{sessions: make(map[int64]Session)}
}

// Begin opens a fresh session for the user, abandoning any session already
// in progress.
func (m *Machine) Begin(userID int64) Event {
	s, ev := Begin()
	m.mu.Lock()
	m.sessions[userID] = s
	m.mu.Unlock()
	return ev
}

// Input feeds one message into the user's session and commits the resulting
// state. A completed session is not cleared here: the caller clears it with
// Clear only after the reminder row is safely written, so a storage failure
// leaves the user free to resend the time.
func (m *Machine) Input(userID int64, input string, now time.Time) Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok || s.State == StateIdle {
		return Event{Kind: EventNone}
	}
	next, ev := Next(s, input, now)
	m.sessions[userID] = next
	return ev
}

// Clear ends the user's session.
func (m *Machine) Clear(userID int64) {
	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()
}
