// Package webhook receives signed deliveries from external systems.
//
// Each delivery names its source in the URL. The source selects a Scheme that
// knows where that sender puts its signature and its event type. When signature
// enforcement is on, the body is verified against the source's secret before the
// event reaches the handler registered for its type. Unregistered event types are
// acknowledged and reported as unhandled.
package webhook
