package relay

import (
	"github.com/goliatone/go-relay/catalog"
	"github.com/goliatone/go-relay/core"
)

type Config = core.Config

type Option = core.Option

type Service = core.Service

type DispatchRequest = core.DispatchRequest
type DispatchResult = core.DispatchResult
type IntegrationRequest = core.IntegrationRequest
type Setting = core.Setting
type OAuthConsumer = core.OAuthConsumer
type Payload = core.Payload

var (
	WithLogger             = core.WithLogger
	WithLoggerProvider     = core.WithLoggerProvider
	WithMetricsRecorder    = core.WithMetricsRecorder
	WithErrorMapper        = core.WithErrorMapper
	WithConfigProvider     = core.WithConfigProvider
	WithOptionsResolver    = core.WithOptionsResolver
	WithIntegrationCatalog = core.WithIntegrationCatalog
	WithEventCatalog       = core.WithEventCatalog
	WithAdapterFactory     = core.WithAdapterFactory
	WithTransport          = core.WithTransport
	WithIDGenerator        = core.WithIDGenerator
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

// LoadCatalog parses the embedded integration and event catalogs.
func LoadCatalog() (catalog.Catalog, error) {
	return catalog.Load(GetCatalogFS())
}

// New builds a dispatcher over the embedded catalogs and every bundled
// adapter. opts are applied after the defaults and may replace any of them.
func New(cfg Config, opts ...Option) (*Service, error) {
	loaded, err := LoadCatalog()
	if err != nil {
		return nil, err
	}
	defaults := []Option{
		core.WithIntegrationCatalog(loaded.Integrations),
		core.WithEventCatalog(loaded.Events),
		core.WithAdapterFactories(AdapterFactories()),
	}
	return core.NewService(cfg, append(defaults, opts...)...)
}
