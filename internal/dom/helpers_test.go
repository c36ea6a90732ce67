package dom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// stubControl is a minimal Control with scripted validity.
type stubControl struct {
	name  string
	valid bool
	calls int
}

func newStub(name string, valid bool) *stubControl {
	return &stubControl{name: name, valid: valid}
}

func (s *stubControl) Name() string { return s.name }

func (s *stubControl) CheckValidity() bool {
	s.calls++
	return s.valid
}

// requireConsistent fails the test when the registry's views disagree.
func requireConsistent(t *testing.T, r *ControlRegistry) {
	t.Helper()
	require.NoError(t, r.Verify())
}
