// Package transport implements HTTPS transport and bounded request dispatch for NetSuite
package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// TLS version constants
const (
	TLS12 = tls.VersionTLS12
	TLS13 = tls.VersionTLS13
)

// Recommended TLS 1.2 cipher suites
var RecommendedTLS12CipherSuites = []uint16{
	tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
}

// UserAgent is sent with every request
const UserAgent = "go-netsuite/1.0"

// HTTPSConfig contains HTTPS client/server configuration
type HTTPSConfig struct {
	MinTLSVersion   uint16
	MaxTLSVersion   uint16
	CipherSuites    []uint16
	Certificates    []tls.Certificate
	RootCAs         *x509.CertPool
	IdleConnTimeout time.Duration
	// MaxIdleConnsPerHost bounds pooled connections to one NetSuite host
	MaxIdleConnsPerHost int
}

// DefaultHTTPSConfig returns a default HTTPS configuration
func DefaultHTTPSConfig() *HTTPSConfig {
	return &HTTPSConfig{
		MinTLSVersion:       TLS12,
		MaxTLSVersion:       TLS13,
		CipherSuites:        RecommendedTLS12CipherSuites,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: DefaultMaxConcurrent,
	}
}

// NewHTTPClient creates an http.Client configured from config. Request
// timeouts are applied per call by the Dispatcher, not on the client.
func NewHTTPClient(config *HTTPSConfig) *http.Client {
	if config == nil {
		config = DefaultHTTPSConfig()
	}

	tlsConfig := &tls.Config{
		MinVersion:   config.MinTLSVersion,
		MaxVersion:   config.MaxTLSVersion,
		CipherSuites: config.CipherSuites,
		Certificates: config.Certificates,
		RootCAs:      config.RootCAs,
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSClientConfig:     tlsConfig,
		IdleConnTimeout:     config.IdleConnTimeout,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	}

	return &http.Client{Transport: transport}
}

// Server serves local HTTP endpoints such as the OpenAPI documentation
// viewer. TLS is used when certificates are configured.
type Server struct {
	server   *http.Server
	config   *HTTPSConfig
	listener net.Listener
}

// NewServer creates a server for handler on addr
func NewServer(addr string, config *HTTPSConfig, handler http.Handler) *Server {
	if config == nil {
		config = &HTTPSConfig{}
	}

	s := &Server{config: config}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       config.IdleConnTimeout,
	}
	if len(config.Certificates) > 0 {
		s.server.TLSConfig = &tls.Config{
			MinVersion:   config.MinTLSVersion,
			MaxVersion:   config.MaxTLSVersion,
			CipherSuites: config.CipherSuites,
			Certificates: config.Certificates,
		}
	}

	return s
}

// Listen binds the listening socket so Addr is known before Serve
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or the configured one before Listen
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.server.Addr
}

// Serve serves requests until Shutdown is called
func (s *Server) Serve() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	var err error
	if s.server.TLSConfig != nil {
		err = s.server.ServeTLS(s.listener, "", "")
	} else {
		err = s.server.Serve(s.listener)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
