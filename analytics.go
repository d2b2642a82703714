// Copyright 2026 The xdbc-go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0

package xdbc

import (
	"fmt"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/posthog/posthog-go"
)

const (
	posthogAPIKey = "phc_Jt4xGqkrnPqzyVAkE9fJcNzK0q1dWm3hRrXT2oYbSdu"
	posthogHost   = "https://us.i.posthog.com"
)

var (
	analyticsMu      sync.Mutex
	analyticsClient  posthog.Client
	analyticsChecked bool
	analyticsEnabled = true
)

// analyticsHandle returns the PostHog client, creating it on first use and
// again after a flush has closed the previous one. Returns nil when
// analytics is disabled.
func analyticsHandle() posthog.Client {
	analyticsMu.Lock()
	defer analyticsMu.Unlock()

	if !analyticsChecked {
		analyticsChecked = true
		// Check if analytics is disabled via environment variable
		if os.Getenv("XDBC_DISABLE_ANALYTICS") == "true" {
			analyticsEnabled = false
		}
	}
	if !analyticsEnabled {
		return nil
	}

	if analyticsClient == nil {
		client, err := posthog.NewWithConfig(
			posthogAPIKey,
			posthog.Config{
				Endpoint: posthogHost,
			},
		)
		if err != nil {
			// Failed to initialize, disable analytics
			analyticsEnabled = false
			return nil
		}
		analyticsClient = client
	}
	return analyticsClient
}

// trackEvent sends an event to PostHog with static metadata only.
func trackEvent(eventName, distinctID string, properties map[string]interface{}) {
	client := analyticsHandle()
	if client == nil {
		return
	}

	if properties == nil {
		properties = make(map[string]interface{})
	}
	properties["sdk_version"] = Version
	properties["sdk_language"] = "go"

	if distinctID == "" {
		distinctID = "anonymous"
	}

	// Enqueue event (non-blocking)
	_ = client.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      eventName,
		Properties: properties,
	})
}

// trackSessionOpened tracks a successful session open. The endpoint is
// hashed so the distinct ID is stable per deployment without identifying
// the host.
func trackSessionOpened(endpoint string) {
	trackEvent("session_opened", anonymousID(endpoint), nil)
}

// trackError tracks error events with error type and location.
func trackError(errorType, location string) {
	trackEvent(errorType, "", map[string]interface{}{
		"error_type": errorType,
		"location":   location,
	})
}

// anonymousID hashes an endpoint into an anonymous distinct ID.
func anonymousID(endpoint string) string {
	return fmt.Sprintf("xdbc-%x", xxhash.Sum64String(endpoint))
}

// flushAnalytics closes the PostHog client, flushing queued events (called
// on session close). Sessions opened afterwards get a fresh client.
func flushAnalytics() {
	analyticsMu.Lock()
	client := analyticsClient
	analyticsClient = nil
	analyticsMu.Unlock()

	if client != nil {
		_ = client.Close()
	}
}
