// Package file implements the configuration store on a TOML file in the
// application directory. On first run the file is created with defaults
// so users have something concrete to edit.
package file

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/ports/driven"
)

// Configuration keys.
const (
	KeyOCREnabled    = "ocr.enabled"
	KeyOCRServiceURL = "ocr.service_url"
	KeyOCRTimeoutMS  = "ocr.timeout_ms"
	KeyOCRMaxRetries = "ocr.max_retries"

	KeyIndexDir = "index.dir"

	KeyIndexingEnableOCR          = "indexing.enable_ocr"
	KeyIndexingImageExtensions    = "indexing.supported_image_extensions"
	KeyIndexingTextExtensions     = "indexing.supported_text_extensions"
	KeyIndexingDocumentExtensions = "indexing.supported_document_extensions"
	KeyIndexingMaxFileSizeMB      = "indexing.max_file_size_mb"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is a TOML-backed implementation of driven.ConfigStore.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
}

// NewConfigStore creates a config store under configDir. If configDir is
// empty it defaults to ~/.masterdocs. A missing config file is created
// with defaults.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".masterdocs")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		data:     make(map[string]any),
	}

	if _, err := os.Stat(s.filePath); os.IsNotExist(err) {
		if err := s.writeDefaults(configDir); err != nil {
			return nil, err
		}
	}

	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// defaults returns the initial configuration as nested TOML tables.
func defaults(configDir string) map[string]any {
	return map[string]any{
		"ocr": map[string]any{
			"enabled":     true,
			"service_url": "",
			"timeout_ms":  30000,
			"max_retries": 3,
		},
		"index": map[string]any{
			"dir": filepath.Join(configDir, "index"),
		},
		"indexing": map[string]any{
			"enable_ocr":                 true,
			"supported_image_extensions": []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".webp"},
			"supported_text_extensions": []string{
				".txt", ".md", ".markdown", ".csv", ".log", ".json", ".xml",
				".yaml", ".yml", ".toml", ".ini", ".conf", ".properties",
			},
			"supported_document_extensions": []string{".docx", ".pdf", ".xlsx", ".pptx"},
			"max_file_size_mb": 50,
		},
	}
}

func (s *ConfigStore) writeDefaults(configDir string) error {
	data, err := toml.Marshal(defaults(configDir))
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0600)
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	val, ok := s.Get(key)
	if !ok {
		return ""
	}

	str, ok := val.(string)
	if !ok {
		return ""
	}
	return str
}

// GetInt retrieves an integer configuration value.
func (s *ConfigStore) GetInt(key string) int {
	val, ok := s.Get(key)
	if !ok {
		return 0
	}

	// TOML integers are parsed as int64
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// GetBool retrieves a boolean configuration value.
func (s *ConfigStore) GetBool(key string) bool {
	val, ok := s.Get(key)
	if !ok {
		return false
	}

	b, ok := val.(bool)
	if !ok {
		return false
	}
	return b
}

// GetStringSlice retrieves a string slice configuration value.
func (s *ConfigStore) GetStringSlice(key string) []string {
	val, ok := s.Get(key)
	if !ok {
		return nil
	}

	// TOML arrays are parsed as []any
	switch v := val.(type) {
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	default:
		return nil
	}
}

// Set stores a configuration value and persists immediately.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return s.save()
}

// save writes configuration to the TOML file (caller must hold lock).
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(s.data)
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0600)
}

// Load reads configuration from the TOML file.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = make(map[string]any)
			return nil
		}
		return err
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return err
	}

	if loaded == nil {
		loaded = make(map[string]any)
	}

	// Flatten nested tables into dot-notation keys for easier access
	s.data = flattenMap(loaded, "")
	return nil
}

// flattenMap converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
		} else {
			result[fullKey] = value
		}
	}

	return result
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
