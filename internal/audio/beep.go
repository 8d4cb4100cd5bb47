package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

var (
	speakerOnce sync.Once
	speakerErr  error
)

// queueStreamer plays written chunks in order and outputs silence when
// starved so the speaker never drains.
type queueStreamer struct {
	mu     sync.Mutex
	chunks [][][2]float64
}

var _ beep.Streamer = (*queueStreamer)(nil)

func (q *queueStreamer) Stream(samples [][2]float64) (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	filled := 0
	for filled < len(samples) && len(q.chunks) > 0 {
		n := copy(samples[filled:], q.chunks[0])
		filled += n
		if n == len(q.chunks[0]) {
			q.chunks = q.chunks[1:]
		} else {
			q.chunks[0] = q.chunks[0][n:]
		}
	}
	clear(samples[filled:])
	return len(samples), true
}

func (q *queueStreamer) Err() error { return nil }

func (q *queueStreamer) push(samples [][2]float64) {
	chunk := make([][2]float64, len(samples))
	copy(chunk, samples)
	q.mu.Lock()
	q.chunks = append(q.chunks, chunk)
	q.mu.Unlock()
}

func (q *queueStreamer) reset() {
	q.mu.Lock()
	q.chunks = nil
	q.mu.Unlock()
}

// beepSink renders through the system speaker. The format is ignored since
// beep works on float samples end to end.
type beepSink struct {
	queue *queueStreamer
}

func newBeepSink(_ string, _ Format) (Sink, error) {
	return &beepSink{queue: &queueStreamer{}}, nil
}

func (s *beepSink) Start() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(SampleRate, SampleRate.N(time.Second/10))
	})
	if speakerErr != nil {
		return speakerErr
	}
	speaker.Play(s.queue)
	return nil
}

func (s *beepSink) Stop() error {
	speaker.Clear()
	s.queue.reset()
	return nil
}

func (s *beepSink) Write(samples [][2]float64) error {
	s.queue.push(samples)
	return nil
}
