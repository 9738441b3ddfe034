package domain

type TimerStatus string

const (
	TimerIdle    TimerStatus = "idle"
	TimerRunning TimerStatus = "running"
	TimerPaused  TimerStatus = "paused"
)

// EventKind labels an entry in the completion event log.
type EventKind string

const (
	EventStart     EventKind = "start"
	EventPause     EventKind = "pause"
	EventResume    EventKind = "resume"
	EventRestart   EventKind = "restart"
	EventComplete  EventKind = "complete"
	EventExpire    EventKind = "expire"
	EventToggleOn  EventKind = "toggle_on"
	EventToggleOff EventKind = "toggle_off"
	EventReset     EventKind = "reset"
)

// ValidEventKinds is the canonical set of accepted event kind strings.
var ValidEventKinds = map[EventKind]bool{
	EventStart: true, EventPause: true, EventResume: true, EventRestart: true,
	EventComplete: true, EventExpire: true, EventToggleOn: true,
	EventToggleOff: true, EventReset: true,
}

// DateLayout is the calendar-date key used for persisted completion sets.
const DateLayout = "2006-01-02"
