// Package server streams Kraken cooler telemetry over HTTP and WebSocket.
//
// A telemetry.Poller owns the device session and reads status on an
// interval. The server fans each reading out to connected clients:
//
//	GET /ws             websocket stream, JSON text frames
//	GET /ws?format=cbor websocket stream, CBOR binary frames
//	GET /status         latest reading as JSON (503 until the first poll)
//	GET /healthz        poller health and client count
//
// New clients receive the latest reading immediately, then one message per
// poll. A client that falls behind skips stale readings rather than queueing
// them.
//
// # Usage Example
//
//	poller := telemetry.NewPoller(session, time.Second, fw.String())
//	srv := server.New(&server.Config{Listen: ":9570", Advertise: true}, poller)
//	srv.AddService("mqtt", func(ctx context.Context) error {
//	    return publisher.Run(ctx, poller)
//	})
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// Start returns after SIGINT, SIGTERM, cancellation of its context or loss
// of the device. Shutdown withdraws the mDNS record, stops the HTTP
// listener, sends a going-away close frame to every client and waits for
// handlers and services to finish.
package server
