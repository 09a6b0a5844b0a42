package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/nodestrap/internal/config"
	"github.com/example/nodestrap/internal/engine"
)

func TestExitCodeMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation failure", &config.ValidationError{Field: "domain", Msg: "empty"}, 2},
		{"registry misconfiguration", &engine.ConfigurationError{Msg: "dup"}, 3},
		{"dependency cycle", &engine.CycleError{Members: []string{"a", "b"}}, 3},
		{"execution failure", &runError{summary: "aborted at step install-node"}, 4},
		{"anything else", errors.New("boom"), 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestExitCodeUnwraps(t *testing.T) {
	t.Parallel()

	wrapped := errors.Join(errors.New("context"), &engine.CycleError{Members: []string{"a"}})
	assert.Equal(t, 3, exitCode(wrapped))
}
