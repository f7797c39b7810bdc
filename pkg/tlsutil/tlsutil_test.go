package tlsutil

import (
	"crypto/tls"
	"errors"
	"testing"
)

func TestServerConfigPlaintext(t *testing.T) {
	cfg, err := ServerConfig("", "")
	if err != nil || cfg != nil {
		t.Fatalf("ServerConfig(\"\", \"\") = %v, %v; want nil, nil", cfg, err)
	}
	creds, err := ServerCredentials("", "")
	if err != nil || creds != nil {
		t.Fatalf("ServerCredentials(\"\", \"\") = %v, %v; want nil, nil", creds, err)
	}
}

func TestServerConfigIncomplete(t *testing.T) {
	if _, err := ServerConfig("cert.pem", ""); !errors.Is(err, ErrIncompleteKeyPair) {
		t.Errorf("expected ErrIncompleteKeyPair, got %v", err)
	}
}

func TestServerConfigFromSelfSigned(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile, err := WriteSelfSigned([]string{"localhost", "127.0.0.1"}, dir)
	if err != nil {
		t.Fatalf("WriteSelfSigned: %v", err)
	}

	cfg, err := ServerConfig(certFile, keyFile)
	if err != nil {
		t.Fatalf("ServerConfig: %v", err)
	}
	if cfg.MinVersion != tls.VersionTLS12 {
		t.Errorf("MinVersion = %x, want TLS 1.2", cfg.MinVersion)
	}
	if len(cfg.Certificates) != 1 {
		t.Errorf("expected one certificate, got %d", len(cfg.Certificates))
	}

	if _, err := ClientCredentials(certFile); err != nil {
		t.Errorf("ClientCredentials: %v", err)
	}
}

func TestClientCredentialsMissingCA(t *testing.T) {
	if _, err := ClientCredentials("/nonexistent/ca.pem"); err == nil {
		t.Error("expected error for missing CA file")
	}
}
