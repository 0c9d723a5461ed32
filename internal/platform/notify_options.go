package platform

import "time"

// AppName is reported to the notification server.
const AppName = "lineprobe"

// Urgency follows the freedesktop urgency levels.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file shown with the
	// notification where the platform supports it.
	IconPath string
	Urgency  Urgency
	// Timeout of zero leaves expiry to the server.
	Timeout time.Duration
}
