package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// StreamName is the JetStream stream that captures every kidwise subject.
const StreamName = "KIDWISE"

// Publisher emits domain events to NATS. A nil Publisher, or one built by
// Noop, drops events silently so the API runs without a broker.
type Publisher struct {
	nc     *nats.Conn
	js     nats.JetStreamContext
	logger *zap.Logger
}

// Connect dials NATS and ensures the KIDWISE stream exists. When JetStream
// is unavailable the publisher falls back to core NATS.
func Connect(url string, logger *zap.Logger) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("kidwise-api"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	p := &Publisher{nc: nc, logger: logger}

	js, err := nc.JetStream()
	if err != nil {
		logger.Warn("JetStream unavailable, publishing on core NATS", zap.Error(err))
		return p, nil
	}
	if _, err := js.StreamInfo(StreamName); err != nil {
		_, err = js.AddStream(&nats.StreamConfig{
			Name:     StreamName,
			Subjects: []string{SubjectPrefix + ">"},
			MaxAge:   7 * 24 * time.Hour,
		})
		if err != nil {
			logger.Warn("failed to create event stream, publishing on core NATS", zap.Error(err))
			return p, nil
		}
	}
	p.js = js

	logger.Info("NATS and JetStream initialized", zap.String("stream", StreamName))
	return p, nil
}

// Noop returns a publisher that drops every event
func Noop() *Publisher {
	return &Publisher{}
}

// Publish wraps data in an Event and sends it on subject.
func (p *Publisher) Publish(ctx context.Context, subject string, data any) error {
	if p == nil || p.nc == nil {
		return nil
	}

	evt, err := NewEvent(subject, data)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if p.js != nil {
		_, err = p.js.Publish(subject, payload, nats.Context(ctx), nats.MsgId(evt.ID))
	} else {
		err = p.nc.Publish(subject, payload)
	}
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	return nil
}

// Emit publishes and logs failures instead of returning them. Events are
// best effort next to the HTTP response.
func (p *Publisher) Emit(ctx context.Context, subject string, data any) {
	if err := p.Publish(ctx, subject, data); err != nil && p.logger != nil {
		p.logger.Warn("failed to emit event", zap.String("subject", subject), zap.Error(err))
	}
}

// Connected reports whether the publisher holds a live connection.
func (p *Publisher) Connected() bool {
	return p != nil && p.nc != nil && p.nc.IsConnected()
}

func (p *Publisher) Close() {
	if p == nil || p.nc == nil {
		return
	}
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
	}
}
