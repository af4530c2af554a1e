package devkit

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-relay/core"
)

// ValidateAdapterConformance checks the gating every adapter shares. configured
// must hold every required setting of def; the checks then drop them one at a
// time and send an event outside supported to prove no call is made.
func ValidateAdapterConformance(
	ctx context.Context,
	factory core.AdapterFactory,
	def core.IntegrationDefinition,
	configured []core.Setting,
	supported string,
	unsupported string,
) error {
	if factory == nil {
		return fmt.Errorf("devkit: adapter factory is required")
	}

	for _, required := range def.RequiredSettings() {
		partial := make([]core.Setting, 0, len(configured))
		for _, setting := range configured {
			if setting.Key != required {
				partial = append(partial, setting)
			}
		}
		fake := NewFakeTransportAdapter()
		adapter, err := factory(Input(supported, def, core.NewSettings(partial), fake))
		if err != nil {
			return fmt.Errorf("devkit: build adapter without %s: %w", required, err)
		}
		if adapter.IsConfigured() {
			return fmt.Errorf("devkit: adapter reports configured without %s", required)
		}
		if err := adapter.SendEvent(ctx); err != nil {
			return fmt.Errorf("devkit: unconfigured send returned %w", err)
		}
		if fake.Calls() != 0 {
			return fmt.Errorf("devkit: unconfigured adapter made %d calls", fake.Calls())
		}
	}

	if strings.TrimSpace(unsupported) != "" {
		fake := NewFakeTransportAdapter()
		adapter, err := factory(Input(unsupported, def, core.NewSettings(configured), fake))
		if err != nil {
			return fmt.Errorf("devkit: build adapter for %s: %w", unsupported, err)
		}
		if !adapter.IsConfigured() {
			return fmt.Errorf("devkit: adapter should be configured")
		}
		if err := adapter.SendEvent(ctx); err != nil {
			return fmt.Errorf("devkit: unsupported event returned %w", err)
		}
		if fake.Calls() != 0 {
			return fmt.Errorf("devkit: unsupported event made %d calls", fake.Calls())
		}
	}
	return nil
}
