package driven

import "github.com/custodia-labs/docu-cli/internal/core/domain"

// SettingsStore loads and persists application settings.
type SettingsStore interface {
	// Load reads settings, applying defaults and environment overrides.
	Load() (domain.Settings, error)

	// Save writes settings to storage. Secrets are not written.
	Save(settings domain.Settings) error

	// Path returns the settings file path.
	Path() string
}
