// Package telemetry turns device status reports into a stream of timestamped
// readings. A Poller owns the polling loop; the websocket server and the MQTT
// publisher subscribe to it.
package telemetry
