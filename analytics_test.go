// Copyright 2026 The xdbc-go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0

package xdbc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyticsDisabledByEnv(t *testing.T) {
	// XDBC_DISABLE_ANALYTICS is set for the whole test binary (TestMain).
	analyticsMu.Lock()
	analyticsChecked = false
	analyticsEnabled = true
	analyticsClient = nil
	analyticsMu.Unlock()

	assert.Nil(t, analyticsHandle())

	// Flushing with no client is a no-op and tracking stays safe.
	flushAnalytics()
	trackSessionOpened("http://localhost:8000")
	assert.Nil(t, analyticsHandle())
}

func TestAnalyticsFlushRearms(t *testing.T) {
	analyticsMu.Lock()
	analyticsChecked = true
	analyticsEnabled = true
	analyticsClient = nil
	analyticsMu.Unlock()
	t.Cleanup(func() {
		analyticsMu.Lock()
		analyticsEnabled = false
		analyticsMu.Unlock()
	})

	// Closing one session must not disable analytics for sessions opened
	// later in the same process.
	flushAnalytics()

	analyticsMu.Lock()
	defer analyticsMu.Unlock()
	assert.True(t, analyticsEnabled)
	assert.Nil(t, analyticsClient)
}

func TestAnonymousIDStable(t *testing.T) {
	a := anonymousID("http://localhost:8000")
	assert.Equal(t, a, anonymousID("http://localhost:8000"))
	assert.NotEqual(t, a, anonymousID("http://other:8000"))
	assert.True(t, strings.HasPrefix(a, "xdbc-"))
}
