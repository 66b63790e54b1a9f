package config

import (
	"crypto/tls"
	"fmt"
)

// ValidateTLSConfig validates the TLS configuration
func (c *Config) ValidateTLSConfig() error {
	cfg := c.Server.TLS

	switch cfg.Mode {
	case "disabled":
		return nil // No validation needed for disabled mode
	case "server":
		if (cfg.CertFile == "" && cfg.CertContent == "") || (cfg.KeyFile == "" && cfg.KeyContent == "") {
			return fmt.Errorf("TLS certificate and key are required for server mode (provide either files or content)")
		}
		if cfg.CertFile != "" && cfg.CertContent != "" {
			return fmt.Errorf("cannot specify both certFile and certContent - choose one")
		}
		if cfg.KeyFile != "" && cfg.KeyContent != "" {
			return fmt.Errorf("cannot specify both keyFile and keyContent - choose one")
		}
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled' or 'server')", cfg.Mode)
	}

	switch cfg.MinVersion {
	case "", "1.2", "1.3":
		// Valid versions (empty defaults to 1.2)
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", cfg.MinVersion)
	}

	return nil
}

// Enabled reports whether the server should terminate TLS.
func (t TLSConfig) Enabled() bool {
	return t.Mode == "server"
}

// MinTLSVersion maps the configured version string to the crypto/tls constant.
func (t TLSConfig) MinTLSVersion() uint16 {
	if t.MinVersion == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}

// LoadCertificate loads the server key pair from files or inline content.
func (t TLSConfig) LoadCertificate() (tls.Certificate, error) {
	if t.CertContent != "" && t.KeyContent != "" {
		cert, err := tls.X509KeyPair([]byte(t.CertContent), []byte(t.KeyContent))
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("failed to parse TLS certificate content: %w", err)
		}
		return cert, nil
	}

	cert, err := tls.LoadX509KeyPair(t.CertFile, t.KeyFile)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to load TLS certificate files: %w", err)
	}
	return cert, nil
}
