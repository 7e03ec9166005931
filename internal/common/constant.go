// Package common contains shared constants and sentinel errors used across
// WeddingKeeper components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// Mirror keys under which the offline copies of collections are stored.
const (
	PhotosMirrorKey   = "wedding_photos_offline"
	TimelineMirrorKey = "wedding_timeline_offline"
)
