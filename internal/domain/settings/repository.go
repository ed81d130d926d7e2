package settings

import "context"

// SettingsRepository exposes the named configuration scalars. Values
// are stored as strings; callers resolve them into typed config with
// defaults for anything absent.
type SettingsRepository interface {
	GetAll(ctx context.Context) (map[string]string, error)
}
