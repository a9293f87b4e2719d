// Package timeouts defines shared timeout constants used across PopCity binaries.
package timeouts

import "time"

// GatewayDial caps the wait time when dialing the remote gateway.
const GatewayDial = 3 * time.Second

// GatewayRequest caps one remote gateway call made by the play CLI.
const GatewayRequest = 5 * time.Second

// Refresh caps a full session refresh across every engine.
const Refresh = 10 * time.Second

// StoreBusy is the SQLite busy timeout used by the gateway store.
const StoreBusy = 5 * time.Second

// Shutdown limits how long a server waits for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second
