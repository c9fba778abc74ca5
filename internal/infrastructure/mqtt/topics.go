package mqtt

import "fmt"

// Topic prefixes. All RackDock topics live under a single root so a
// broker ACL can scope the whole application with one rule.
const (
	// TopicPrefix is the root of the RackDock topic hierarchy.
	TopicPrefix = "rackdock"

	// TopicPrefixEvents is the base for inventory change events.
	TopicPrefixEvents = "rackdock/events"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "rackdock/system"
)

// Topics provides builders for RackDock MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
//
//	topics := mqtt.Topics{}
//	t := topics.Event("device", "create")
//	// Returns: "rackdock/events/device/create"
type Topics struct{}

// Event returns the topic for an inventory change event.
//
// entityType is one of rack, device, port; action is the mutation
// performed (create, delete, connect, disconnect).
//
// Example: rackdock/events/rack/create
func (Topics) Event(entityType, action string) string {
	return fmt.Sprintf("%s/%s/%s", TopicPrefixEvents, entityType, action)
}

// SystemStatus returns the topic carrying RackDock's online/offline
// status, including the Last Will and Testament.
//
// Example: rackdock/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}
