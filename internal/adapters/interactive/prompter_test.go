package interactive

import (
	"errors"
	"testing"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/pumpdeploy/internal/domain/config"
)

func TestPrompter_Confirm(t *testing.T) {
	t.Run("non-interactive proceeds without prompting", func(t *testing.T) {
		p := NewPrompter(&config.RuntimeConfig{NonInteractive: true})
		p.run = func(*promptui.Prompt) (string, error) {
			t.Fatal("prompt should not run")
			return "", nil
		}

		ok, err := p.Confirm("Redeploy?")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	tests := []struct {
		name    string
		err     error
		want    bool
		wantErr bool
	}{
		{name: "yes", err: nil, want: true},
		{name: "no", err: promptui.ErrAbort, want: false},
		{name: "ctrl-c", err: promptui.ErrInterrupt, wantErr: true},
		{name: "terminal error", err: errors.New("no tty"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPrompter(&config.RuntimeConfig{})
			p.run = func(prompt *promptui.Prompt) (string, error) {
				assert.True(t, prompt.IsConfirm)
				return "", tt.err
			}

			ok, err := p.Confirm("Redeploy?")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}
