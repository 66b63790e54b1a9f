package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/vault/api"
)

// VaultClient wraps the Vault API client for KVv2 secret reads.
type VaultClient struct {
	client *api.Client
	config VaultConfig
}

// NewVaultClient creates a new Vault client from configuration. Returns
// (nil, nil) when Vault integration is disabled.
func NewVaultClient(config VaultConfig) (*VaultClient, error) {
	if !config.Enabled {
		return nil, nil
	}

	vaultConfig := api.DefaultConfig()
	if config.Address != "" {
		vaultConfig.Address = config.Address
	}

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	if config.Namespace != "" {
		client.SetNamespace(config.Namespace)
	}

	token, err := resolveVaultToken(config)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	if _, err := client.Sys().Health(); err != nil {
		return nil, fmt.Errorf("failed to connect to vault: %w", err)
	}

	return &VaultClient{client: client, config: config}, nil
}

// resolveVaultToken resolves the Vault token from config or file
func resolveVaultToken(config VaultConfig) (string, error) {
	token := config.Token

	if token == "" && config.TokenFile != "" {
		tokenBytes, err := os.ReadFile(config.TokenFile)
		if err != nil {
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		token = strings.TrimSpace(string(tokenBytes))
	}

	if token == "" {
		return "", fmt.Errorf("vault token is required when vault is enabled")
	}

	return token, nil
}

// GetStringSecret retrieves a string value from a KVv2 secret.
func (vc *VaultClient) GetStringSecret(path, key string) (string, error) {
	if vc == nil {
		return "", fmt.Errorf("vault client not initialized")
	}

	secret, err := vc.client.Logical().Read(path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret from %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("secret not found at path: %s", path)
	}

	data, ok := secret.Data["data"].(map[string]any)
	if !ok {
		return "", fmt.Errorf("secret at %s is not in KVv2 format (missing 'data' field)", path)
	}

	value, ok := data[key]
	if !ok {
		return "", fmt.Errorf("key '%s' not found in secret %s", key, path)
	}
	strValue, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("value for key '%s' is not a string in secret %s", key, path)
	}
	return strValue, nil
}

// GetStringSliceSecret retrieves a comma-separated string as a slice.
func (vc *VaultClient) GetStringSliceSecret(path, key string) ([]string, error) {
	value, err := vc.GetStringSecret(path, key)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return []string{}, nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, len(parts))
	for i, part := range parts {
		result[i] = strings.TrimSpace(part)
	}
	return result, nil
}

// applyVaultSecrets loads configured secrets from Vault into the config.
// Vault values take precedence over file and environment values.
func (c *Config) applyVaultSecrets() error {
	client, err := NewVaultClient(c.Vault)
	if err != nil {
		return err
	}
	if client == nil {
		return nil // Vault disabled
	}

	if path := c.Vault.Secrets.APIKeys; path != "" {
		// Stored as a single comma-separated "keys" value
		apiKeys, err := client.GetStringSliceSecret(path, "keys")
		if err != nil {
			return fmt.Errorf("failed to load API keys from vault: %w", err)
		}
		if len(apiKeys) > 0 {
			c.Server.APIKeys = apiKeys
		}
	}

	if path := c.Vault.Secrets.AIKey; path != "" {
		aiKey, err := client.GetStringSecret(path, "key")
		if err != nil {
			return fmt.Errorf("failed to load AI key from vault: %w", err)
		}
		if aiKey != "" {
			c.AI.APIKey = aiKey
		}
	}

	if path := c.Vault.Secrets.TLSCerts; path != "" {
		cert, err := client.GetStringSecret(path, "cert")
		if err != nil {
			return fmt.Errorf("failed to load TLS certificate from vault: %w", err)
		}
		key, err := client.GetStringSecret(path, "key")
		if err != nil {
			return fmt.Errorf("failed to load TLS key from vault: %w", err)
		}
		if cert != "" && key != "" {
			c.Server.TLS.CertContent = cert
			c.Server.TLS.KeyContent = key
			c.Server.TLS.CertFile = ""
			c.Server.TLS.KeyFile = ""
		}
	}

	return nil
}
