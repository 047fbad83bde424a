// Package messaging publishes opaque payloads to a configured broker.
//
// Callers depend on Publisher. NewFromDriver picks the backend by name:
// noop and memory run in process, while nsq, nats, kafka and google-pubsub
// talk to a real broker.
package messaging
