package transition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var table = Table{
	"draft":     {"active", "abandoned"},
	"active":    {"done", "abandoned"},
	"done":      {},
	"abandoned": {},
}

func TestValidateAllowsListedTransitions(t *testing.T) {
	require.NoError(t, Validate(table, "draft", "active"))
	require.NoError(t, Validate(table, "draft", "abandoned"))
	require.NoError(t, Validate(table, "active", "done"))
}

func TestValidateDeniesEverythingElse(t *testing.T) {
	for _, from := range table.Statuses() {
		for _, to := range table.Statuses() {
			if table.CanTransition(from, to) {
				continue
			}
			err := Validate(table, from, to)
			assert.Error(t, err, "%s -> %s should be denied", from, to)
		}
	}
}

func TestValidateTerminalStatuses(t *testing.T) {
	assert.ErrorIs(t, Validate(table, "done", "active"), ErrTerminal)
	assert.ErrorIs(t, Validate(table, "abandoned", "draft"), ErrTerminal)

	// Self transition on a terminal status is still terminal.
	assert.ErrorIs(t, Validate(table, "done", "done"), ErrTerminal)
}

func TestValidateUnknownStatus(t *testing.T) {
	assert.ErrorIs(t, Validate(table, "bogus", "active"), ErrUnknownStatus)
	assert.ErrorIs(t, Validate(table, "draft", "bogus"), ErrUnknownStatus)
	assert.ErrorIs(t, Validate(table, "", ""), ErrUnknownStatus)
}

func TestValidateNotAllowed(t *testing.T) {
	assert.ErrorIs(t, Validate(table, "draft", "done"), ErrNotAllowed)
	assert.ErrorIs(t, Validate(table, "active", "draft"), ErrNotAllowed)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, table.IsTerminal("done"))
	assert.True(t, table.IsTerminal("abandoned"))
	assert.False(t, table.IsTerminal("draft"))
	assert.False(t, table.IsTerminal("missing"))
}

func TestRequireReason(t *testing.T) {
	require.NoError(t, RequireReason("documents expired"))
	require.NoError(t, RequireReason("exactly10c"))

	assert.ErrorIs(t, RequireReason("too short"), ErrReasonTooShort)
	assert.ErrorIs(t, RequireReason(""), ErrReasonTooShort)

	// Surrounding whitespace does not count toward the minimum.
	assert.ErrorIs(t, RequireReason("   short     "), ErrReasonTooShort)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "In transit", Label("in_transit"))
	assert.Equal(t, "Pending", Label("pending"))
	assert.Equal(t, "", Label(""))
}
