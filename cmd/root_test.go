package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteClosesResourcesOnFailure(t *testing.T) {
	t.Cleanup(func() { closers = nil })

	tests := []struct {
		name    string
		runErr  error
		wantErr string
	}{
		{name: "command fails", runErr: errors.New("login failed"), wantErr: "login failed"},
		{name: "command succeeds", wantErr: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			closed := 0
			c := &cobra.Command{
				Use:           "sync",
				SilenceUsage:  true,
				SilenceErrors: true,
				RunE: func(cmd *cobra.Command, args []string) error {
					closers = append(closers, func() error {
						closed++
						return nil
					})
					return tt.runErr
				},
				PersistentPostRunE: shutdownApp,
			}
			c.SetArgs([]string{})

			err := execute(context.Background(), c)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, 1, closed)
			assert.Nil(t, closers)
		})
	}
}

func TestCloseResourcesKeepsFirstError(t *testing.T) {
	calls := 0
	closers = []func() error{
		func() error { calls++; return errors.New("redis close") },
		func() error { calls++; return errors.New("sqlite close") },
	}

	assert.EqualError(t, closeResources(), "redis close")
	assert.Equal(t, 2, calls)
	assert.Nil(t, closers)

	assert.NoError(t, closeResources())
	assert.Equal(t, 2, calls)
}
