//go:build tinygo

package telemetry

import (
	"context"
	"io"

	mqtt "github.com/soypat/natiu-mqtt"
)

// NatiuSink publishes Readings from a TinyGo target over a raw
// io.ReadWriter transport (a TCP socket, or a serial link to a WiFi/LTE
// companion chip), using natiu-mqtt's allocation-conscious client instead
// of paho's goroutine-per-client model — the right trade for a
// microcontroller telemetry path.
type NatiuSink struct {
	client *mqtt.Client
	topic  []byte
}

// NewNatiuSink performs the MQTT CONNECT handshake over transport and
// returns a sink publishing QoS 0 to topic. clientID identifies this
// controller to the broker.
func NewNatiuSink(ctx context.Context, transport io.ReadWriter, clientID, topic string) (*NatiuSink, error) {
	client := mqtt.NewClient(mqtt.ClientConfig{
		Decoder: mqtt.DecoderLimits{MaxPacketSize: 1024},
	})

	var varConn mqtt.VariablesConnect
	varConn.SetDefaultMQTT([]byte(clientID))

	if err := client.Connect(ctx, transport, &varConn); err != nil {
		return nil, err
	}

	return &NatiuSink{client: client, topic: []byte(topic)}, nil
}

// Publish sends r as JSON at QoS 0 (fire-and-forget, the right choice for a
// periodic telemetry stream where a dropped sample is harmless).
func (s *NatiuSink) Publish(r Reading) error {
	b, err := r.marshal()
	if err != nil {
		return err
	}

	flags, err := mqtt.NewPublishFlags(mqtt.QoS0, false, false, 0)
	if err != nil {
		return err
	}

	return s.client.PublishQoS0(flags, mqtt.VariablesPublish{
		TopicName: s.topic,
	}, b)
}

// Disconnect closes the MQTT session gracefully.
func (s *NatiuSink) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx, mqtt.DisconnectNormal)
}
