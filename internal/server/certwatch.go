package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"matchfit/internal/config"
	"matchfit/internal/errors"
	"matchfit/internal/observability"

	"github.com/fsnotify/fsnotify"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CertWatcher watches certificate files for changes and serves the freshest
// certificate to the TLS handshake without a server restart.
type CertWatcher struct {
	mu sync.RWMutex

	tlsConfig *config.TLSConfig

	// Current certificate, swapped atomically under mu on reload
	cert *tls.Certificate

	// Watcher components
	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan chan struct{}

	reloadCount int64

	om     *observability.ObservabilityManager
	logger *errors.Logger

	running bool
}

// NewCertWatcher creates a watcher for the configured certificate files.
// The initial certificate is loaded eagerly so a broken configuration fails
// at startup rather than at the first handshake.
func NewCertWatcher(tlsCfg *config.TLSConfig, om *observability.ObservabilityManager, logger *errors.Logger) (*CertWatcher, error) {
	cert, err := tlsCfg.LoadCertificate()
	if err != nil {
		return nil, fmt.Errorf("failed to load initial certificate: %w", err)
	}

	debounceDelay := tlsCfg.AutoReload.DebounceDelay
	if debounceDelay == 0 {
		debounceDelay = time.Second
	}

	return &CertWatcher{
		tlsConfig:     tlsCfg,
		cert:          &cert,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		om:            om,
		logger:        logger,
	}, nil
}

// Start begins watching certificate files for changes. Certificates loaded
// from inline content (Vault) have no files to watch; Start is a no-op then.
func (cw *CertWatcher) Start() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.running {
		return fmt.Errorf("certificate watcher is already running")
	}

	files := cw.watchedFiles()
	if len(files) == 0 {
		cw.recordExpiryGauge(cw.cert)
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	cw.fsWatcher = watcher

	// Watch the parent directories: editors and secret managers typically
	// replace certificate files by rename, which drops the inode watch.
	watched := make(map[string]bool)
	for _, file := range files {
		dir := filepath.Dir(file)
		if watched[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			cw.cleanupWatcher()
			return fmt.Errorf("failed to watch certificate directory %s: %w", dir, err)
		}
		watched[dir] = true
	}

	cw.running = true
	go cw.watchLoop(files)

	cw.recordExpiryGauge(cw.cert)

	if cw.logger != nil {
		cw.logger.Info("Certificate file watcher started",
			"files", files,
			"debounce_delay", cw.debounceDelay)
	}
	return nil
}

// Stop stops the certificate file watcher
func (cw *CertWatcher) Stop() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if !cw.running {
		return nil
	}

	close(cw.stopChan)

	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}

	if cw.fsWatcher != nil {
		if err := cw.fsWatcher.Close(); err != nil {
			if cw.logger != nil {
				cw.logger.LogError(err, "Failed to close file system watcher")
			}
			return err
		}
	}

	cw.running = false

	if cw.logger != nil {
		cw.logger.Info("Certificate file watcher stopped")
	}
	return nil
}

// GetCertificate returns the current certificate for the TLS handshake
func (cw *CertWatcher) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	cw.mu.RLock()
	defer cw.mu.RUnlock()

	if cw.cert == nil {
		return nil, fmt.Errorf("no certificate loaded")
	}
	return cw.cert, nil
}

// CheckExpiry returns the time remaining until the current certificate expires
func (cw *CertWatcher) CheckExpiry() (time.Duration, error) {
	cw.mu.RLock()
	cert := cw.cert
	cw.mu.RUnlock()

	leaf, err := leafCertificate(cert)
	if err != nil {
		return 0, err
	}
	return time.Until(leaf.NotAfter), nil
}

// IsRunning reports whether the file watcher goroutine is active
func (cw *CertWatcher) IsRunning() bool {
	cw.mu.RLock()
	defer cw.mu.RUnlock()
	return cw.running
}

// GetWatchedFiles returns the certificate files under watch
func (cw *CertWatcher) GetWatchedFiles() []string {
	return cw.watchedFiles()
}

// ReloadCount returns how many reloads have completed since startup
func (cw *CertWatcher) ReloadCount() int64 {
	cw.mu.RLock()
	defer cw.mu.RUnlock()
	return cw.reloadCount
}

func (cw *CertWatcher) watchedFiles() []string {
	var files []string
	if cw.tlsConfig.CertFile != "" {
		files = append(files, cw.tlsConfig.CertFile)
	}
	if cw.tlsConfig.KeyFile != "" {
		files = append(files, cw.tlsConfig.KeyFile)
	}
	return files
}

func (cw *CertWatcher) cleanupWatcher() {
	if cw.fsWatcher != nil {
		if closeErr := cw.fsWatcher.Close(); closeErr != nil && cw.logger != nil {
			cw.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
		cw.fsWatcher = nil
	}
}

// watchLoop processes file system events until stopped
func (cw *CertWatcher) watchLoop(files []string) {
	for {
		select {
		case event, ok := <-cw.fsWatcher.Events:
			if !ok {
				return
			}
			if cw.isRelevantEvent(event, files) {
				cw.scheduleReload()
			}
		case err, ok := <-cw.fsWatcher.Errors:
			if !ok {
				return
			}
			if cw.logger != nil {
				cw.logger.LogError(err, "Certificate watcher error")
			}
		case <-cw.stopChan:
			return
		}
	}
}

// isRelevantEvent reports whether the event touches a watched certificate file
func (cw *CertWatcher) isRelevantEvent(event fsnotify.Event, files []string) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Clean(event.Name)
	return slices.ContainsFunc(files, func(f string) bool {
		return filepath.Clean(f) == name
	})
}

// scheduleReload debounces rapid file change bursts into a single reload
func (cw *CertWatcher) scheduleReload() {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}
	cw.debounceTimer = time.AfterFunc(cw.debounceDelay, cw.reload)
}

// reload loads the certificate pair and swaps it in if valid. The previous
// certificate stays active when the new pair fails to load.
func (cw *CertWatcher) reload() {
	cert, err := cw.tlsConfig.LoadCertificate()

	cw.mu.Lock()
	cw.reloadCount++
	if err == nil {
		cw.cert = &cert
	}
	cw.mu.Unlock()

	if err != nil {
		if cw.logger != nil {
			cw.logger.LogError(err, "Failed to reload TLS certificates, keeping previous pair")
		}
		cw.recordReloadMetric(false)
		return
	}

	if cw.logger != nil {
		cw.logger.Info("TLS certificates reloaded successfully")
	}
	cw.recordReloadMetric(true)
	cw.recordExpiryGauge(&cert)
}

func (cw *CertWatcher) recordReloadMetric(success bool) {
	if cw.om == nil {
		return
	}
	metrics := cw.om.GetMetrics()
	if metrics.CertReloadCount != nil {
		metrics.CertReloadCount.Add(context.Background(), 1,
			metric.WithAttributes(attribute.Bool("success", success)))
	}
}

func (cw *CertWatcher) recordExpiryGauge(cert *tls.Certificate) {
	if cw.om == nil {
		return
	}
	metrics := cw.om.GetMetrics()
	if metrics.CertExpiryTime == nil {
		return
	}

	leaf, err := leafCertificate(cert)
	if err != nil {
		return
	}
	metrics.CertExpiryTime.Record(context.Background(), time.Until(leaf.NotAfter).Seconds())
}

// leafCertificate parses the leaf of the certificate chain
func leafCertificate(cert *tls.Certificate) (*x509.Certificate, error) {
	if cert == nil || len(cert.Certificate) == 0 {
		return nil, fmt.Errorf("no certificate loaded")
	}
	if cert.Leaf != nil {
		return cert.Leaf, nil
	}
	return x509.ParseCertificate(cert.Certificate[0])
}
