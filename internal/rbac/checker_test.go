package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckerHas(t *testing.T) {
	c := NewChecker(nil)

	assert.True(t, c.Has("student", "quiz:take"))
	assert.True(t, c.Has("student", "results:view-own"))
	assert.False(t, c.Has("student", "questions:import"))
	assert.False(t, c.Has("student", "results:view-all"))

	assert.True(t, c.Has("teacher", "questions:import"))
	assert.False(t, c.Has("teacher", "quiz:take"))

	// Admin wildcard covers everything, including permissions never listed.
	assert.True(t, c.Has("admin", "quiz:take"))
	assert.True(t, c.Has("admin", "made:up"))

	assert.False(t, c.Has("", "quiz:take"))
	assert.False(t, c.Has("ghost-role", "quiz:take"))
}

func TestCheckerAny(t *testing.T) {
	c := NewChecker(nil)
	assert.True(t, c.Any("teacher", "quiz:take", "questions:view"))
	assert.False(t, c.Any("student", "questions:import", "results:view-all"))
}

func TestPrefixWildcard(t *testing.T) {
	c := NewChecker(map[string][]string{"grader": {"results:*"}})
	assert.True(t, c.Has("grader", "results:view-all"))
	assert.True(t, c.Has("grader", "results:export"))
	assert.False(t, c.Has("grader", "quiz:take"))
}
