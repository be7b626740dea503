package recorder

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/Tagaingne/dream-synthesizer/domain"
)

// Buffer accumulates PCM frames from a live capture session until an
// explicit stop drains it. Ownership rule: the capture callback is the
// only writer, the stop action is the only drainer, and draining leaves
// the buffer empty so the next recording never merges with the previous
// one.
type Buffer struct {
	mu     sync.Mutex
	frames [][]byte
	size   int
}

// NewBuffer creates an empty capture buffer
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Write appends one captured frame. The frame is copied; callers may
// reuse their slice.
func (b *Buffer) Write(frame []byte) {
	if len(frame) == 0 {
		return
	}
	copied := make([]byte, len(frame))
	copy(copied, frame)

	b.mu.Lock()
	b.frames = append(b.frames, copied)
	b.size += len(copied)
	b.mu.Unlock()
}

// Len returns the number of buffered bytes
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// FrameCount returns the number of buffered frames
func (b *Buffer) FrameCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.frames)
}

// Drain returns the concatenated audio and resets the buffer
func (b *Buffer) Drain() []byte {
	b.mu.Lock()
	frames := b.frames
	size := b.size
	b.frames = nil
	b.size = 0
	b.mu.Unlock()

	out := make([]byte, 0, size)
	for _, f := range frames {
		out = append(out, f...)
	}
	return out
}

// EncodeWAV wraps raw little-endian PCM16 mono samples into a RIFF/WAVE
// container so recognizers can consume them as a regular clip.
func EncodeWAV(pcm []byte, sampleRate int) ([]byte, error) {
	if len(pcm) == 0 {
		return nil, fmt.Errorf("%w: no audio captured", domain.ErrInvalidInput)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", domain.ErrInvalidInput, sampleRate)
	}

	const (
		numChannels   = 1
		bitsPerSample = 16
	)
	blockAlign := numChannels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(numChannels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes(), nil
}
