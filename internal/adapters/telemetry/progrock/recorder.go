// Package progrock records task progress with progrock.
package progrock

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/ffbuild/internal/core/ports"
)

var _ ports.Telemetry = (*Recorder)(nil)

// Recorder implements the ports.Telemetry interface using the vito/progrock library.
type Recorder struct {
	w       progrock.Writer
	rec     *progrock.Recorder
	session string
	seq     atomic.Uint64
}

// New creates a new Recorder writing to a fresh tape.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:       w,
		rec:     progrock.NewRecorder(w),
		session: uuid.New().String(),
	}
}

// Session returns the identifier salted into every vertex digest.
func (r *Recorder) Session() string {
	return r.session
}

// Record starts recording a new vertex. Every call gets its own digest, so a
// task that runs again in the same session shows up as a new vertex.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	n := r.seq.Add(1)
	d := digest.FromString(fmt.Sprintf("%s/%d/%s", r.session, n, name))
	v := r.rec.Vertex(d, name)
	return ctx, &Vertex{vertex: v}
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	return r.w.Close()
}
