// Package mqtt wraps paho.mqtt.golang as an outbound event publisher.
//
// RackDock optionally announces inventory changes (rack, device, and
// port mutations) on an MQTT broker so that DCIM tooling, dashboards,
// and automation can react without polling the HTTP API. The wrapper
// provides:
//   - connection management with auto-reconnect and exponential backoff
//   - Last Will and Testament on rackdock/system/status for offline
//     detection (crash vs graceful shutdown are distinguishable)
//   - publish with timeout and payload size limits
//
// The client is publish-only. RackDock never consumes broker messages;
// the HTTP API is the sole write path into the inventory.
//
// All methods are safe for concurrent use.
package mqtt
