// Package events publishes domain events to NATS JetStream for downstream
// consumers (dashboards, notification fan-out).
package events

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/config"
	"github.com/Voldemort-Project/mta-sga-cs-service/pkg/logger"
)

const (
	// StreamName is the JetStream stream holding all service events.
	StreamName = "CUSTOMER_SERVICE"

	// SubjectPrefix is the prefix for all event subjects.
	SubjectPrefix = "cs"
)

// Event subjects.
const (
	SubjectSessionStarted    = SubjectPrefix + ".session.started"
	SubjectSessionTerminated = SubjectPrefix + ".session.terminated"
	SubjectSessionExpired    = SubjectPrefix + ".session.expired"
	SubjectMessageCreated    = SubjectPrefix + ".message.created"
	SubjectOrderCreated      = SubjectPrefix + ".order.created"
	SubjectOrderAssigned     = SubjectPrefix + ".order.assigned"
)

// Publisher emits domain events. Publishing is best effort: a failed publish
// is logged and never propagated, so event delivery can never fail a request
// that already committed.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any)
	Close()
}

// NATSPublisher publishes events over a NATS JetStream connection.
type NATSPublisher struct {
	conn *nats.Conn
	js   jetstream.JetStream
	log  *logger.Logger
}

// Connect establishes the NATS connection and ensures the event stream
// exists.
func Connect(ctx context.Context, cfg *config.Config, log *logger.Logger) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.ReconnectBufSize(8 * 1024 * 1024),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error("nats error", zap.Error(err))
		}),
	}

	if cfg.NATSCAFile != "" && cfg.NATSCertFile != "" && cfg.NATSKeyFile != "" {
		tlsConfig, err := createTLSConfig(cfg.NATSCAFile, cfg.NATSCertFile, cfg.NATSKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
		opts = append(opts, nats.Secure(tlsConfig))
	}

	if cfg.NATSToken != "" {
		opts = append(opts, nats.Token(cfg.NATSToken))
	}

	nc, err := nats.Connect(cfg.NATSURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	p := &NATSPublisher{conn: nc, js: js, log: log}
	if err := p.ensureStream(ctx); err != nil {
		nc.Close()
		return nil, err
	}
	return p, nil
}

func (p *NATSPublisher) ensureStream(ctx context.Context) error {
	_, err := p.js.Stream(ctx, StreamName)
	if err == nil {
		return nil
	}

	_, err = p.js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{SubjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      90 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		Description: "Customer service session, message and order events",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}
	return nil
}

// Publish marshals payload and publishes it on subject.
func (p *NATSPublisher) Publish(ctx context.Context, subject string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		p.log.Error("failed to marshal event", zap.String("subject", subject), zap.Error(err))
		return
	}

	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		p.log.Warn("failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}

// Close closes the NATS connection.
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

// NopPublisher discards all events; used when NATS is disabled.
type NopPublisher struct{}

// Publish does nothing.
func (NopPublisher) Publish(ctx context.Context, subject string, payload any) {}

// Close does nothing.
func (NopPublisher) Close() {}

func createTLSConfig(caFile, certFile, keyFile string) (*tls.Config, error) {
	caCert, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}

	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("failed to parse CA certificate")
	}

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load client cert: %w", err)
	}

	return &tls.Config{
		RootCAs:      caCertPool,
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
