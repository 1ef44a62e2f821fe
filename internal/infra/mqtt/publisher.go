// Package mqtt publishes reports to an MQTT broker.
package mqtt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"smart-home/config"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultPublishTimeout = 5 * time.Second
)

var (
	ErrConnectionFailed = errors.New("mqtt: connection failed")
	ErrPublishTimeout   = errors.New("mqtt: publish timed out")
)

// publisher is the part of pahomqtt.Client the Publisher needs.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
	Disconnect(quiesce uint)
}

type Publisher struct {
	client   publisher
	topic    string
	qos      byte
	retained bool
	timeout  time.Duration
	logger   *slog.Logger
}

// Connect dials the broker from cfg and returns a Publisher for cfg.Topic.
func Connect(cfg config.MQTTConfig, logger *slog.Logger) (*Publisher, error) {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		logger.Warn("mqtt connection lost", "error", err)
	})
	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		logger.Info("mqtt connected", "broker", cfg.Broker)
	})

	client := pahomqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return NewPublisher(client, cfg.Topic, cfg.QoS, cfg.Retained, logger), nil
}

func NewPublisher(client publisher, topic string, qos byte, retained bool, logger *slog.Logger) *Publisher {
	return &Publisher{
		client:   client,
		topic:    topic,
		qos:      qos,
		retained: retained,
		timeout:  defaultPublishTimeout,
		logger:   logger,
	}
}

// Notify publishes message and waits for the broker to acknowledge it, the
// context to end, or the publish timeout, whichever comes first.
func (p *Publisher) Notify(ctx context.Context, message string) error {
	token := p.client.Publish(p.topic, p.qos, p.retained, []byte(message))

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("%w: topic %s", ErrPublishTimeout, p.topic)
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing to %s: %w", p.topic, err)
	}

	p.logger.Debug("report published", "topic", p.topic, "bytes", len(message))
	return nil
}

func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
