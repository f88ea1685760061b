// Package queue defines message payloads exchanged over the message broker.
package queue

// BlogActivityEvent is published whenever a blog post is created, updated or
// deleted. It carries enough information for downstream consumers to log or
// feed analytics without querying the primary database.
type BlogActivityEvent struct {
    Action     string `json:"action"` // "created" | "updated" | "deleted"
    BlogID     string `json:"blog_id"`
    UserID     string `json:"user_id"`
    Title      string `json:"title"`
    OccurredAt string `json:"occurred_at"` // RFC 3339, UTC
}
