package trace

import (
	"bufio"
	"fmt"
	"io"
	"log"

	"github.com/Garsondee/Layer-Snake/internal/game"
)

// Recorder is a game.Sink that appends every tick to a trace. Write errors
// stop recording; the first one is kept for Close.
type Recorder struct {
	w      *bufio.Writer
	c      io.Closer
	frames int
	err    error
}

// NewRecorder writes the header for s to w. If w is also an io.Closer,
// Close closes it.
func NewRecorder(w io.Writer, s *game.Session) (*Recorder, error) {
	r := &Recorder{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		r.c = c
	}
	cfg := s.Config()
	h := Header{Session: s.ID, TPS: cfg.TicksPerSecond, Actors: s.NumActors(), StartLength: cfg.StartLength}
	if err := writeRecord(r.w, h.marshal()); err != nil {
		return nil, fmt.Errorf("trace header: %w", err)
	}
	return r, nil
}

// Report implements game.Sink.
func (r *Recorder) Report(tr *game.TickReport) {
	if r.err != nil {
		return
	}
	f := FrameOf(tr)
	if err := writeRecord(r.w, f.marshal()); err != nil {
		r.err = fmt.Errorf("trace frame %d: %w", tr.Tick, err)
		log.Printf("trace: %v", r.err)
		return
	}
	r.frames++
}

// Frames is the number of frames written.
func (r *Recorder) Frames() int { return r.frames }

// Close flushes buffered frames and closes the destination.
func (r *Recorder) Close() error {
	err := r.w.Flush()
	if r.err == nil {
		r.err = err
	}
	if r.c != nil {
		if cerr := r.c.Close(); r.err == nil {
			r.err = cerr
		}
	}
	return r.err
}

// Reader decodes a trace.
type Reader struct {
	r      *bufio.Reader
	Header Header
}

// NewReader reads the trace header.
func NewReader(src io.Reader) (*Reader, error) {
	r := &Reader{r: bufio.NewReader(src)}
	b, err := readRecord(r.r)
	if err != nil {
		return nil, fmt.Errorf("trace header: %w", err)
	}
	if err := r.Header.unmarshal(b); err != nil {
		return nil, fmt.Errorf("trace header: %w", err)
	}
	return r, nil
}

// Next returns the next frame, or io.EOF at a clean end of trace.
func (r *Reader) Next() (Frame, error) {
	var f Frame
	b, err := readRecord(r.r)
	if err != nil {
		return f, err
	}
	if err := f.unmarshal(b); err != nil {
		return f, err
	}
	return f, nil
}

// Summary is what a whole trace adds up to.
type Summary struct {
	Header   Header
	Frames   int
	LastTick int
	Deaths   []Death
	Accepted int
	Rejected int
	Ended    bool
	Final    []game.ActorState
}

// Summarize reads every remaining frame.
func (r *Reader) Summarize() (Summary, error) {
	s := Summary{Header: r.Header}
	for {
		f, err := r.Next()
		if err == io.EOF {
			return s, nil
		}
		if err != nil {
			return s, err
		}
		s.Frames++
		s.LastTick = f.Tick
		s.Deaths = append(s.Deaths, f.Deaths...)
		s.Accepted += f.Accepted
		s.Rejected += f.Rejected
		s.Ended = s.Ended || f.Ended
		s.Final = f.Actors
	}
}
