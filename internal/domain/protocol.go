package domain

import "strings"

// Protocol is a named regimen made of one or more ordered sessions.
type Protocol struct {
	Name        string
	Title       string
	Description string
	Version     string
	Sessions    []ProtocolSession
}

// ProtocolSession is one ordered checklist inside a protocol (e.g. "morning").
type ProtocolSession struct {
	Name  string
	Title string
	Notes []string
	Items []Item
}

// SessionType identifies a protocol session as "<protocol>/<session>".
// Completion state is persisted per calendar date and SessionType.
type SessionType string

// NewSessionType joins a protocol and session name.
func NewSessionType(protocol, session string) SessionType {
	return SessionType(protocol + "/" + session)
}

// Protocol returns the protocol part of the session type.
func (t SessionType) Protocol() string {
	p, _, _ := strings.Cut(string(t), "/")
	return p
}

// Session returns the session part, or "" when the type has no separator.
func (t SessionType) Session() string {
	_, s, _ := strings.Cut(string(t), "/")
	return s
}

// Valid reports whether both parts are present.
func (t SessionType) Valid() bool {
	p, s, ok := strings.Cut(string(t), "/")
	return ok && p != "" && s != ""
}

// SessionTypes lists every session type defined by the protocol, in order.
func (p *Protocol) SessionTypes() []SessionType {
	types := make([]SessionType, 0, len(p.Sessions))
	for _, s := range p.Sessions {
		types = append(types, NewSessionType(p.Name, s.Name))
	}
	return types
}

// Session returns the named session.
func (p *Protocol) Session(name string) (*ProtocolSession, bool) {
	for i := range p.Sessions {
		if p.Sessions[i].Name == name {
			return &p.Sessions[i], true
		}
	}
	return nil, false
}
