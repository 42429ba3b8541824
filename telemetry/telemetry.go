// Package telemetry publishes pmc.PM snapshots to an MQTT broker. It is an
// external collaborator: nothing here runs on the PM.Tick hot path, and
// every call may allocate, block and return an error.
package telemetry

import (
	"encoding/json"
	"time"

	"github.com/phobia-rc/pmc/pmc"
)

// Reading is the wire shape published to the state topic: a JSON-encoded,
// timestamped snapshot plus a monotonically increasing sequence number, the
// same envelope shape the rest of the example fleet's MQTT publishers use.
type Reading struct {
	Seq   uint64    `json:"seq"`
	TS    time.Time `json:"ts"`
	State string    `json:"state"`
	ID    float64   `json:"id"`
	IQ    float64   `json:"iq"`
	Theta float64   `json:"theta"`
	Omega float64   `json:"omega"`
	M     float64   `json:"m"`
	E     float64   `json:"e"`
	U     float64   `json:"u"`
}

func newReading(seq uint64, snap pmc.Snapshot) Reading {
	return Reading{
		Seq: seq, TS: time.Now().UTC(),
		State: snap.State.String(),
		ID:    snap.ID, IQ: snap.IQ, Theta: snap.Theta, Omega: snap.Omega,
		M: snap.M, E: snap.E, U: snap.U,
	}
}

func (r Reading) marshal() ([]byte, error) {
	return json.Marshal(r)
}

// Publisher pushes one Reading to the state topic. Both host-side
// (PahoSink) and embedded-side (NatiuSink) implementations satisfy it.
type Publisher interface {
	Publish(r Reading) error
}

// Sampler periodically reads a PM's snapshot and publishes it until stop is
// closed. It owns no connection state of its own — that belongs to the
// Publisher.
func Sampler(pm *pmc.PM, pub Publisher, period time.Duration, stop <-chan struct{}) {
	var seq uint64
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			seq++
			_ = pub.Publish(newReading(seq, pm.Snapshot()))
		}
	}
}
