package sftpclient

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ifrc-sync/internal/config"
)

func TestUploadNothing(t *testing.T) {
	require.NoError(t, Upload(context.Background(), config.SFTP{}, nil))
}

func TestUploadValidation(t *testing.T) {
	files := []string{"a.csv"}
	ctx := context.Background()

	testCases := []struct {
		name    string
		cfg     config.SFTP
		wantErr error
		errText string
	}{
		{
			name:    "Missing credentials",
			cfg:     config.SFTP{Host: "h"},
			wantErr: ErrMissingCredentials,
		},
		{
			name:    "No host key policy",
			cfg:     config.SFTP{Host: "h", User: "u", Pass: "p"},
			wantErr: ErrNoHostKeyPolicy,
		},
		{
			name:    "Unreadable known_hosts",
			cfg:     config.SFTP{Host: "h", User: "u", Pass: "p", KnownHosts: filepath.Join(t.TempDir(), "missing")},
			errText: "sftp: known_hosts",
		},
		{
			name:    "Unreachable host",
			cfg:     config.SFTP{Host: "127.0.0.1", Port: 1, User: "u", Pass: "p", InsecureIgnoreHostKey: true},
			errText: "sftp: dial error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Upload(ctx, tc.cfg, files)
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
			if tc.errText != "" {
				assert.Contains(t, err.Error(), tc.errText)
			}
		})
	}
}

func TestHostKeyCallbackFromKnownHosts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known_hosts")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	cb, err := hostKeyCallback(config.SFTP{KnownHosts: path})
	require.NoError(t, err)
	assert.NotNil(t, cb)
}
