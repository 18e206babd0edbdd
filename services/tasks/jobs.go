package tasks

import "fmt"

// JobType is the closed set of delayed lifecycle jobs. The string values are
// the on-wire task type names consumed by the automation worker.
type JobType string

const (
	TypeSendInitialMessage JobType = "send-initial-message"
	TypeEnableChat         JobType = "enable-chat"
	TypeAutoEndSession     JobType = "auto-end-session"
)

// AllJobTypes lists every lifecycle job a session can hold.
var AllJobTypes = []JobType{TypeSendInitialMessage, TypeEnableChat, TypeAutoEndSession}

// Key returns the queue-level task identity. The queue holds at most one
// pending job per key; re-scheduling replaces the prior instance.
func (t JobType) Key(sessionID string) string {
	return fmt.Sprintf("%s-%s", t, sessionID)
}

// Valid reports whether t is one of the known lifecycle job types.
func (t JobType) Valid() bool {
	switch t {
	case TypeSendInitialMessage, TypeEnableChat, TypeAutoEndSession:
		return true
	}
	return false
}
