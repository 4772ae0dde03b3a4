package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected  *Config
		name      string
		args      []string
		expectErr bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-w", ":9091", "-d", "db", "-s", "secret", "-g", "HS384",
			"-t", "15", "-e", "30", "-m", "50", "-b", "12", "-l", "debug",
		},
			expected: &Config{
				EndpointAddrGRPC:            "127.0.0.1:9090",
				EndpointAddrHTTP:            ":9091",
				DatabaseDSN:                 "db",
				SecretKey:                   "secret",
				SigningAlgorithm:            "HS384",
				AccessTokenValidityDuration: 15 * time.Minute,
				PostsCacheTTL:               30 * time.Second,
				PostsCacheMaxEntries:        50,
				BcryptCost:                  12,
				LogLevel:                    "debug",
			}},
		{name: "foreign flags ignored", args: []string{"cmd", "-c", "cfg.json", "-x", "-e=0"},
			expected: &Config{PostsCacheTTL: 0}},
		{name: "bad int", args: []string{"cmd", "-t", "soon"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })
			os.Args = tt.args

			config := &Config{}
			err := parseFlags(config)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

func TestParseFlags_KeepsUnsetDurations(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cmd", "-a", ":1"}

	config := &Config{AccessTokenValidityDuration: 90 * time.Second, PostsCacheTTL: 1500 * time.Millisecond}
	require.NoError(t, parseFlags(config))

	assert.Equal(t, 90*time.Second, config.AccessTokenValidityDuration)
	assert.Equal(t, 1500*time.Millisecond, config.PostsCacheTTL)
}
