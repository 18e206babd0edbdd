package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobTypeKey(t *testing.T) {
	assert.Equal(t, "enable-chat-sess-42", TypeEnableChat.Key("sess-42"))
	assert.Equal(t, "send-initial-message-sess-42", TypeSendInitialMessage.Key("sess-42"))
	assert.Equal(t, "auto-end-session-sess-42", TypeAutoEndSession.Key("sess-42"))
}

func TestJobTypeValid(t *testing.T) {
	for _, jt := range AllJobTypes {
		assert.True(t, jt.Valid(), "%s should be valid", jt)
	}
	assert.False(t, JobType("reap-session").Valid())
	assert.False(t, JobType("").Valid())
}

func TestJobTypeKeysAreDistinctPerSession(t *testing.T) {
	seen := map[string]bool{}
	for _, jt := range AllJobTypes {
		for _, id := range []string{"a", "b"} {
			key := jt.Key(id)
			assert.False(t, seen[key], "duplicate key %s", key)
			seen[key] = true
		}
	}
}
