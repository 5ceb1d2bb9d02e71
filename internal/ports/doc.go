// Package ports defines the interfaces (ports) that connect the device core to
// its collaborators.
//
// The core never talks to hardware, brokers or HTTP directly. It consumes
// narrow capabilities and leaves wire formats to the adapters.
//
// # Port Interfaces
//
//   - [Camera]: image sensor activation and frame acquisition
//   - [Uplink]: frame upload and remote log events
//   - [CommandChannel]: pub/sub control channel with buffered delivery
//   - [MotionSensor]: binary level of the motion line
//   - [WakeSource]: wake arming and low-power suspension
//   - [Clock]: time source and bounded delays
//   - [Logger]: Structured logging abstraction
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with paho MQTT,
// NATS, net/http, GPIO value files and zerolog.
package ports
