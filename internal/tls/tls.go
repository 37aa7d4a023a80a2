package tls

import (
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"strconv"

	"shoppinglist-api/internal/logging"

	"github.com/sirupsen/logrus"
)

// ErrDisabled is returned when a TLS config is requested while TLS is off
var ErrDisabled = errors.New("TLS is not enabled")

// Config holds TLS/HTTPS configuration
type Config struct {
	Enabled      bool
	CertFile     string
	KeyFile      string
	Port         string
	HTTPPort     string // Port for the HTTP to HTTPS redirect listener
	RedirectHTTP bool
	MinVersion   uint16
	MaxVersion   uint16
	CipherSuites []uint16 // Only consulted for TLS 1.2 connections
}

// NewConfigFromEnv creates TLS config from environment variables
func NewConfigFromEnv() *Config {
	return &Config{
		Enabled:      getEnvBool("TLS_ENABLED", false),
		CertFile:     getEnv("TLS_CERT_FILE", "./certs/server.crt"),
		KeyFile:      getEnv("TLS_KEY_FILE", "./certs/server.key"),
		Port:         getEnv("TLS_PORT", "8443"),
		HTTPPort:     getEnv("TLS_HTTP_PORT", "8000"),
		RedirectHTTP: getEnvBool("TLS_REDIRECT_HTTP", true),
		MinVersion:   parseTLSVersion(getEnv("TLS_MIN_VERSION", "1.2")),
		MaxVersion:   parseTLSVersion(getEnv("TLS_MAX_VERSION", "1.3")),
		CipherSuites: []uint16{
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
			tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
		},
	}
}

// CreateTLSConfig loads the key pair and builds the server TLS config
func (c *Config) CreateTLSConfig() (*tls.Config, error) {
	if !c.Enabled {
		return nil, ErrDisabled
	}
	if c.MinVersion > c.MaxVersion {
		return nil, fmt.Errorf("TLS min version %s is above max version %s",
			tlsVersionString(c.MinVersion), tlsVersionString(c.MaxVersion))
	}

	for _, file := range []string{c.CertFile, c.KeyFile} {
		if _, err := os.Stat(file); err != nil {
			return nil, fmt.Errorf("TLS file %s: %w", file, err)
		}
	}

	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load certificate: %w", err)
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   c.MinVersion,
		MaxVersion:   c.MaxVersion,
		CipherSuites: c.CipherSuites,
		CurvePreferences: []tls.CurveID{
			tls.X25519,
			tls.CurveP256,
			tls.CurveP384,
		},
	}

	logging.Logger.WithFields(logrus.Fields{
		"cert":        c.CertFile,
		"min_version": tlsVersionString(c.MinVersion),
		"max_version": tlsVersionString(c.MaxVersion),
	}).Info("TLS configured")

	return tlsConfig, nil
}

func parseTLSVersion(version string) uint16 {
	switch version {
	case "1.2":
		return tls.VersionTLS12
	case "1.3":
		return tls.VersionTLS13
	default:
		logging.Logger.Warnf("Unsupported TLS version '%s', using TLS 1.2", version)
		return tls.VersionTLS12
	}
}

func tlsVersionString(version uint16) string {
	switch version {
	case tls.VersionTLS12:
		return "TLS 1.2"
	case tls.VersionTLS13:
		return "TLS 1.3"
	default:
		return fmt.Sprintf("Unknown (0x%04x)", version)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
