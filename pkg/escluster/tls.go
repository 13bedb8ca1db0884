package escluster

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"logfleet/curator/pkg/config"
)

// buildTLSConfig creates the client-side TLS configuration for the cluster
// connection: the server certificate is verified against CAFile and the
// client authenticates with CertFile/KeyFile.
func buildTLSConfig(cfg config.TLSConfig) (*tls.Config, error) {
	caPEM, err := os.ReadFile(cfg.CAFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA certificate %q: %w", cfg.CAFile, err)
	}

	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("no usable CA certificates in %q", cfg.CAFile)
	}

	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load client certificate: %w", err)
	}

	return &tls.Config{
		RootCAs:      caPool,
		Certificates: []tls.Certificate{cert},
		MinVersion:   parseTLSVersion(cfg.MinVersion),
	}, nil
}

// parseTLSVersion converts the MinVersion string to a tls version constant.
// TLS 1.0 and 1.1 are not supported.
func parseTLSVersion(s string) uint16 {
	switch s {
	case "1.3":
		return tls.VersionTLS13
	default:
		return tls.VersionTLS12
	}
}
