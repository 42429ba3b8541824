package telemetry

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// PahoSink publishes Readings over a regular TCP/TLS MQTT connection,
// grounded on the fleet's existing paho.mqtt.golang publisher loop: one
// persistent client, QoS 1, not retained.
type PahoSink struct {
	client mqtt.Client
	topic  string
	qos    byte
}

// NewPahoSink connects to brokerURL (e.g. "tcp://host:1883") and returns a
// sink publishing to topic at QoS 1. clientID should be unique per
// controller instance on the broker.
func NewPahoSink(brokerURL, clientID, topic string) (*PahoSink, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetOrderMatters(false)

	client := mqtt.NewClient(opts)
	tok := client.Connect()
	if !tok.WaitTimeout(10*time.Second) || tok.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", tok.Error())
	}

	return &PahoSink{client: client, topic: topic, qos: 1}, nil
}

// Publish sends r as JSON to the sink's topic.
func (s *PahoSink) Publish(r Reading) error {
	b, err := r.marshal()
	if err != nil {
		return err
	}
	tok := s.client.Publish(s.topic, s.qos, false, b)
	tok.Wait()
	return tok.Error()
}

// Close disconnects from the broker.
func (s *PahoSink) Close() {
	s.client.Disconnect(250)
}
