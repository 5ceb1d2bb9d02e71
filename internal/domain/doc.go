// Package domain contains the core domain entities and value objects for pircam.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (HTTP, brokers, GPIO, logging) and
// contains only pure device rules.
//
// # Entities
//
//   - [DeviceMode]: Sleeping, Idle or Capturing; exactly one is active
//   - [MotionEvidence]: consecutive motion detections and the last detection time
//   - [CommandState]: the remotely controlled "capture enabled" flag
//   - [FrameMetrics]: per-interval upload counters, observability only
//   - [Frame]: one perishable captured image
//
// All entities are volatile. Nothing here survives a low-power sleep: the
// device restarts in Idle with fresh values after every wake.
package domain
