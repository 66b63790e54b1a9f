package server

import (
	"crypto/tls"
	"fmt"
	"net/http"

	"matchfit/internal/observability"
)

// configureTLS sets up TLS configuration based on the mode
func (s *Server) configureTLS(httpServer *http.Server, om *observability.ObservabilityManager) error {
	addr := httpServer.Addr

	switch s.TLSConfig.Mode {
	case "server":
		return s.configureServerTLS(httpServer, addr, om)
	case "disabled", "":
		fmt.Printf("Starting server on http://%s\n", addr)
		fmt.Println("TLS mode: Disabled (HTTP only)")
		return nil
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled' or 'server')", s.TLSConfig.Mode)
	}
}

// configureServerTLS sets up server-only TLS
func (s *Server) configureServerTLS(httpServer *http.Server, addr string, om *observability.ObservabilityManager) error {
	fmt.Printf("Starting server with HTTPS on https://%s\n", addr)
	fmt.Println("TLS mode: Server-only (no client certificates required)")

	tlsConfig := &tls.Config{
		MinVersion: s.TLSConfig.MinTLSVersion(),
	}

	if s.TLSConfig.AutoReload.Enabled {
		if err := s.setupCertWatcher(om); err != nil {
			return err
		}
		tlsConfig.GetCertificate = s.CertWatcher.GetCertificate
	} else {
		cert, err := s.TLSConfig.LoadCertificate()
		if err != nil {
			return fmt.Errorf("failed to set up TLS: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	httpServer.TLSConfig = tlsConfig
	return nil
}

// setupCertWatcher initializes certificate auto-reload
func (s *Server) setupCertWatcher(om *observability.ObservabilityManager) error {
	watcher, err := NewCertWatcher(&s.TLSConfig, om, s.Logger)
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to start certificate watcher: %w", err)
	}
	s.CertWatcher = watcher

	fmt.Println("TLS auto-reload: ENABLED")
	return nil
}
