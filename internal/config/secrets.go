package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const secretsFileName = "secrets.yaml"

// SecretsFile holds passwords outside the main config so the config can be
// shared or checked in.
type SecretsFile struct {
	// Logins maps "user@server" to a password.
	Logins map[string]string `yaml:"logins,omitempty"`
}

// SecretsPathFor returns the secrets file that sits next to configPath.
func SecretsPathFor(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), secretsFileName)
}

func loginKey(server, user string) string {
	return user + "@" + server
}

// Password returns the stored password for user on server, or "".
func (s *SecretsFile) Password(server, user string) string {
	return s.Logins[loginKey(server, user)]
}

// SetPassword stores a password; an empty password removes the entry.
func (s *SecretsFile) SetPassword(server, user, password string) {
	if s.Logins == nil {
		s.Logins = map[string]string{}
	}
	if password == "" {
		delete(s.Logins, loginKey(server, user))
		return
	}
	s.Logins[loginKey(server, user)] = password
}

// LoadSecrets loads the secrets file or returns an empty one if it doesn't exist.
func LoadSecrets(path string) (*SecretsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &SecretsFile{Logins: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("failed to read secrets file: %w", err)
	}

	var secrets SecretsFile
	if err := yaml.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("failed to parse secrets file: %w", err)
	}
	if secrets.Logins == nil {
		secrets.Logins = map[string]string{}
	}
	return &secrets, nil
}

// SaveSecrets writes the secrets file readable by the owner only.
func SaveSecrets(path string, secrets *SecretsFile) error {
	data, err := yaml.Marshal(secrets)
	if err != nil {
		return fmt.Errorf("failed to marshal secrets: %w", err)
	}
	if err := writeFileAtomic(path, data, 0600); err != nil {
		return err
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, 0600)
}
