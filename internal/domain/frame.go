package domain

import "time"

// ContentTypeJPEG is the content type of every uploaded frame.
const ContentTypeJPEG = "image/jpeg"

// Frame is one captured image. Frames are perishable: a frame that fails to
// upload is dropped, the next tick supersedes it.
type Frame struct {
	// Data is the encoded image
	Data []byte

	// CapturedAt is when the frame was acquired
	CapturedAt time.Time
}

// Len returns the encoded size in bytes.
func (f Frame) Len() int {
	return len(f.Data)
}

// Empty returns true if the frame carries no data.
func (f Frame) Empty() bool {
	return len(f.Data) == 0
}
