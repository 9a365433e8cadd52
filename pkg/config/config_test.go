package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvBotToken, "token")
	t.Setenv(EnvApplicationId, "app-id")
	t.Setenv(EnvMongoUri, "")
	t.Setenv(EnvMonitoringPort, "")

	path := writeConfigFile(t, `
prefix: "?"
admins:
  - "111"
  - "222"
log_channel_id: "333"
ticketing:
  category_id: "444"
  handler_roles:
    - "555"
    - "666"
  mention_roles:
    - "555"
  close_delay_seconds: 10
  reasons:
    - id: billing
      label: Billing
      description: Payment issues
verify:
  role_id: "777"
  title: Verify
panel:
  title: Support
  colour: "#5865F2"
`)

	c, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "token", c.BotToken)
	require.Equal(t, "app-id", c.ApplicationId)
	require.Equal(t, "8080", c.MonitoringPort)
	require.Equal(t, "?", c.Prefix)
	require.Equal(t, []string{"111", "222"}, c.Admins)
	require.Equal(t, "333", c.LogChannelId)
	require.Equal(t, "444", c.Ticketing.CategoryId)
	require.Equal(t, StringList{"555", "666"}, c.Ticketing.HandlerRoles)
	require.Equal(t, 10, c.Ticketing.CloseDelaySeconds)
	require.Len(t, c.Ticketing.Reasons, 1)
	require.Equal(t, "billing", c.Ticketing.Reasons[0].Id)
	require.Equal(t, "777", c.Verify.RoleId)
	require.Equal(t, 0x5865F2, c.Panel.Colour.Int())
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvBotToken, "token")
	t.Setenv(EnvApplicationId, "app-id")
	t.Setenv(EnvMonitoringPort, "9090")

	path := writeConfigFile(t, `log_channel_id: "333"`)

	c, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "!", c.Prefix)
	require.Equal(t, "9090", c.MonitoringPort)
	require.Len(t, c.Ticketing.Reasons, 1)
	require.Equal(t, "general", c.Ticketing.Reasons[0].Id)
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv(EnvBotToken, "")
	t.Setenv(EnvApplicationId, "app-id")

	path := writeConfigFile(t, `prefix: "!"`)

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), EnvBotToken)
}

func TestStringListScalar(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want StringList
	}{
		{
			name: "scalar",
			in:   `roles: "123"`,
			want: StringList{"123"},
		},
		{
			name: "sequence",
			in: `roles:
  - "123"
  - "456"`,
			want: StringList{"123", "456"},
		},
		{
			name: "empty scalar",
			in:   `roles: ""`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out struct {
				Roles StringList `yaml:"roles"`
			}
			require.NoError(t, yaml.Unmarshal([]byte(tt.in), &out))
			require.Equal(t, tt.want, out.Roles)
		})
	}
}

func TestStringListMapRejected(t *testing.T) {
	var out struct {
		Roles StringList `yaml:"roles"`
	}
	err := yaml.Unmarshal([]byte("roles:\n  a: b"), &out)
	require.Error(t, err)
}

func TestColourInt(t *testing.T) {
	tests := []struct {
		name string
		in   Colour
		want int
	}{
		{name: "with hash", in: "#5865F2", want: 0x5865F2},
		{name: "without hash", in: "2ECC71", want: 0x2ECC71},
		{name: "empty", in: "", want: 0},
		{name: "malformed", in: "not-a-colour", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.in.Int())
		})
	}
}
