package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCard_HasLock(t *testing.T) {
	c := &Card{UID: "A1", Locks: []Lock{{UID: "L1"}, {UID: "L3"}}}

	assert.True(t, c.HasLock("L1"))
	assert.True(t, c.HasLock("L3"))
	assert.False(t, c.HasLock("L2"))
	assert.False(t, c.HasLock(""))
}

func TestCard_HasLockEmptyAssignment(t *testing.T) {
	c := &Card{UID: "A1"}
	assert.False(t, c.HasLock("L1"))
}

func TestCard_LockUIDs(t *testing.T) {
	c := &Card{Locks: []Lock{{UID: "L1"}, {UID: "L2"}}}
	assert.Equal(t, []string{"L1", "L2"}, c.LockUIDs())
	assert.Empty(t, (&Card{}).LockUIDs())
}
