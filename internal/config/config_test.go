package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/ticket-intel/pkg/util/errorutil"
)

func validConfig() *Config {
	return &Config{
		TicketSource: TicketSourceConfig{
			Domain:   "example.zendesk.com",
			Email:    "agent@example.com",
			APIToken: "secret",
		},
		Model: ModelConfig{
			UseLocalServer: false,
			HostedAPIKey:   "sk-test",
		},
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing domain", func(c *Config) { c.TicketSource.Domain = "" }},
		{"domain with path", func(c *Config) { c.TicketSource.Domain = "example.com/support" }},
		{"domain without dot", func(c *Config) { c.TicketSource.Domain = "localhost" }},
		{"missing email", func(c *Config) { c.TicketSource.Email = "" }},
		{"email without at sign", func(c *Config) { c.TicketSource.Email = "agent.example.com" }},
		{"missing token", func(c *Config) { c.TicketSource.APIToken = "" }},
		{"hosted backend without key", func(c *Config) { c.Model.HostedAPIKey = "" }},
		{"local backend without URL", func(c *Config) {
			c.Model.UseLocalServer = true
			c.Model.LocalServerURL = ""
		}},
		{"local backend without model name", func(c *Config) {
			c.Model.UseLocalServer = true
			c.Model.LocalServerURL = "http://localhost:11434"
			c.Model.LocalModelName = ""
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)

			var domainErr *apperrors.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, "CONFIGURATION_INVALID", domainErr.Code)
		})
	}
}

func TestValidateLocalBackendNeedsNoHostedKey(t *testing.T) {
	cfg := validConfig()
	cfg.Model = ModelConfig{
		UseLocalServer: true,
		LocalServerURL: "http://localhost:11434",
		LocalModelName: "llama3",
	}
	require.NoError(t, cfg.Validate())
}
