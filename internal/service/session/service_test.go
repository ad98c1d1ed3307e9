package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	svc := New()
	a := svc.Issue()
	b := svc.Issue()
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.IssuedAt.IsZero())

	id, err := svc.Parse("  " + strings.ToUpper(a.ID) + " ")
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)
}

func TestParseRejects(t *testing.T) {
	svc := New()
	for _, raw := range []string{"", "abc", "00000000-0000-0000-0000-000000000000", "6ba7b810-9dad-11d1-80b4-00c04fd430c8"} {
		_, err := svc.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidSession, raw)
	}
}
