package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SyncSettings is the operator-editable part of the configuration: whether
// the order sync is on and which shop it talks to. Unlike Config it changes
// at runtime through the API and is persisted as a small JSON file.
type SyncSettings struct {
	ShopifyEnabled     bool   `json:"shopify_enabled"`
	ShopifyShopURL     string `json:"shopify_shop_url"`
	ShopifyAccessToken string `json:"shopify_access_token"`
}

// Configured reports whether the settings are complete enough to build a
// sync client.
func (s SyncSettings) Configured() bool {
	return s.ShopifyEnabled && s.ShopifyShopURL != "" && s.ShopifyAccessToken != ""
}

// SettingsStore loads and saves SyncSettings behind a mutex so API reads and
// writes never interleave with the background sync reading them.
type SettingsStore struct {
	mu   sync.Mutex
	path string
}

func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

// Load reads the settings file. A missing file is not an error; it yields
// the zero settings (sync disabled).
func (s *SettingsStore) Load() (SyncSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return SyncSettings{}, nil
	}
	if err != nil {
		return SyncSettings{}, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings SyncSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return SyncSettings{}, fmt.Errorf("settings file is not valid JSON: %w", err)
	}
	return settings, nil
}

// Save writes the settings file, creating its directory if needed.
func (s *SettingsStore) Save(settings SyncSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}
