package main

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/goliatone/go-relay/core"
	"github.com/goliatone/go-relay/httpapi"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "RELAY"

type rootOptions struct {
	configFile string
	envFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "relay",
		Short:         "Relay test-run events to chat rooms and issue trackers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (yaml, json or toml)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newSendCmd(opts))
	cmd.AddCommand(newIntegrationsCmd())
	return cmd
}

// loadSettings reads the dotenv file, then the optional config file, then
// RELAY_* environment variables, highest precedence last.
func loadSettings(opts *rootOptions) (*viper.Viper, error) {
	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := core.DefaultConfig()
	v.SetDefault("service_name", defaults.ServiceName)
	v.SetDefault("failure_policy", defaults.FailurePolicy)
	v.SetDefault("adapter_timeout_ms", defaults.AdapterTimeoutMS)
	v.SetDefault("addr", ":8080")
	v.SetDefault("http.development", false)
	v.SetDefault("http.signing_key", "")
	v.SetDefault("http.frontend_url", "")
	v.SetDefault("http.public_url", "")
	v.SetDefault("http.allowed_origins", "")
	v.SetDefault("http.session_secret", "")

	if opts.configFile != "" {
		v.SetConfigFile(opts.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func relayConfigLoader(v *viper.Viper) core.RawConfigLoader {
	return core.StaticRawConfigLoader{Values: map[string]any{
		"service_name":       v.GetString("service_name"),
		"failure_policy":     v.GetString("failure_policy"),
		"adapter_timeout_ms": v.GetInt64("adapter_timeout_ms"),
	}}
}

func httpConfig(v *viper.Viper) httpapi.Config {
	return httpapi.Config{
		SigningKey:     v.GetString("http.signing_key"),
		Development:    v.GetBool("http.development"),
		FrontendURL:    v.GetString("http.frontend_url"),
		PublicURL:      v.GetString("http.public_url"),
		AllowedOrigins: splitList(v.GetString("http.allowed_origins")),
		SessionSecret:  v.GetString("http.session_secret"),
	}
}

func splitList(raw string) []string {
	out := make([]string, 0)
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
