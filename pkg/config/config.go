// Package config loads the bot's configuration once at startup. The result
// is an immutable value passed to every component at construction; nothing
// reads configuration ambiently after Load returns.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvApplicationId is the environment variable for the application ID.
	EnvApplicationId = `APPLICATION_ID`

	// EnvMongoUri is the environment variable for the MongoDB URI.
	EnvMongoUri = `MONGO_URI`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`
)

// defaultPrefix triggers the legacy text commands.
const defaultPrefix = "!"

// Config is the full bot configuration. Secrets come from the environment;
// everything else from the YAML file.
type Config struct {
	// BotToken authenticates the bot to the platform. Required.
	BotToken string `yaml:"-"`

	// ApplicationId is the platform application ID, used for slash command
	// registration. Required.
	ApplicationId string `yaml:"-"`

	// MongoUri enables the ticket audit store when set.
	MongoUri string `yaml:"-"`

	// MonitoringPort is the port for the metrics/health server.
	MonitoringPort string `yaml:"-"`

	// Prefix triggers the legacy text commands.
	Prefix string `yaml:"prefix"`

	// Admins is the allow-list of user IDs for privileged commands.
	Admins []string `yaml:"admins"`

	// LogChannelId is the log sink channel. Empty disables the sink.
	LogChannelId string `yaml:"log_channel_id"`

	// Ticketing configures the ticket workflow.
	Ticketing TicketingConfig `yaml:"ticketing"`

	// Verify configures the verify workflow.
	Verify VerifyConfig `yaml:"verify"`

	// Panel holds the cosmetic fields of the ticket panel.
	Panel PanelConfig `yaml:"panel"`
}

// TicketingConfig configures the ticket workflow.
type TicketingConfig struct {
	// CategoryId is the parent category for ticket channels. Optional.
	CategoryId string `yaml:"category_id"`

	// HandlerRoles are granted access to every ticket channel. Accepts a
	// single role ID or a list.
	HandlerRoles StringList `yaml:"handler_roles"`

	// MentionRoles are mentioned in every new ticket's intro message.
	MentionRoles []string `yaml:"mention_roles"`

	// CloseDelaySeconds overrides the close grace period when positive.
	CloseDelaySeconds int `yaml:"close_delay_seconds"`

	// Reasons are the selectable ticket reasons on the panel menu.
	Reasons []Reason `yaml:"reasons"`
}

// Reason is one selectable ticket reason.
type Reason struct {
	Id          string `yaml:"id"`
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
}

// VerifyConfig configures the verify workflow.
type VerifyConfig struct {
	// RoleId is the role granted on verification.
	RoleId string `yaml:"role_id"`

	// Title and Description are the verify panel cosmetics.
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Colour      Colour `yaml:"colour"`
}

// PanelConfig holds the ticket panel cosmetics.
type PanelConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Footer      string `yaml:"footer"`
	Colour      Colour `yaml:"colour"`
}

// Load reads the YAML file at path and applies environment overrides. The
// bot token and application ID are required.
func Load(path string) (*Config, error) {
	c := &Config{
		Prefix: defaultPrefix,
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	c.BotToken = os.Getenv(EnvBotToken)
	c.ApplicationId = os.Getenv(EnvApplicationId)
	c.MongoUri = os.Getenv(EnvMongoUri)
	c.MonitoringPort = os.Getenv(EnvMonitoringPort)
	if c.MonitoringPort == "" {
		// Default to 8080 if not provided.
		c.MonitoringPort = "8080"
	}

	if c.BotToken == "" {
		return nil, fmt.Errorf("%s is not set", EnvBotToken)
	}
	if c.ApplicationId == "" {
		return nil, fmt.Errorf("%s is not set", EnvApplicationId)
	}

	if c.Prefix == "" {
		c.Prefix = defaultPrefix
	}
	if len(c.Ticketing.Reasons) == 0 {
		c.Ticketing.Reasons = []Reason{
			{Id: "general", Label: "General Support", Description: "Anything else"},
		}
	}

	return c, nil
}

// StringList is a []string that also accepts a single YAML scalar, so a lone
// handler role does not have to be written as a one-element list.
type StringList []string

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var single string
		if err := value.Decode(&single); err != nil {
			return err
		}
		if single == "" {
			*s = nil
			return nil
		}
		*s = StringList{single}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := value.Decode(&many); err != nil {
			return err
		}
		*s = StringList(many)
		return nil
	default:
		return fmt.Errorf("expected a string or a list of strings, got yaml kind %d", value.Kind)
	}
}

// Colour is a hex colour string such as "#5865F2".
type Colour string

// Int returns the colour as the integer the platform expects, or 0 when the
// colour is unset or malformed.
func (c Colour) Int() int {
	hex := strings.TrimPrefix(string(c), "#")
	if hex == "" {
		return 0
	}
	v, err := strconv.ParseInt(hex, 16, 64)
	if err != nil {
		return 0
	}
	return int(v)
}
