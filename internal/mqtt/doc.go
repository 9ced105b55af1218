// Package mqtt mirrors cooler telemetry to an MQTT broker.
//
// Each reading is published as JSON on "<prefix>/status". Availability is
// tracked on "<prefix>/availability" with a retained last will, so the
// cooler shows offline when krakenctl exits uncleanly. With discovery
// enabled the publisher also sends retained Home Assistant configs for the
// liquid temperature, pump speed, pump duty and critical temperature
// entities.
package mqtt
