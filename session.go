package morphsharp

import (
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/wbrown/morphsharp/imageutil"
)

var (
	// ErrNoImage is returned by Session methods called before Load.
	ErrNoImage = errors.New("no image loaded")

	// ErrNothingToUndo is returned by Undo when the session is at its
	// original image.
	ErrNothingToUndo = errors.New("nothing to undo")
)

// HistoryEntry records one applied step and the buffer it produced.
type HistoryEntry struct {
	Step   Step
	Result *imageutil.PixelBuffer
}

// Session holds the state an interactive caller needs across repeated
// transforms: the original image, the current image and the chain of
// steps that led to it. Every step reads the current buffer and installs
// a new one. Buffers handed out by a Session are copies, so editing them
// never reaches the history.
type Session struct {
	mu       sync.Mutex
	logger   logrus.FieldLogger
	original *imageutil.PixelBuffer
	history  []HistoryEntry
}

// NewSession creates an empty session. A nil logger discards output.
func NewSession(logger logrus.FieldLogger) *Session {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Session{logger: logger}
}

// Load replaces the session image and clears the history. The session
// keeps its own copy of img.
func (s *Session) Load(img *imageutil.PixelBuffer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.original = img.Clone()
	s.history = nil
	s.logger.WithFields(logrus.Fields{
		"width":  img.Width(),
		"height": img.Height(),
	}).Info("Image loaded")
}

// Original returns a copy of the image passed to Load.
func (s *Session) Original() (*imageutil.PixelBuffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.original == nil {
		return nil, ErrNoImage
	}
	return s.original.Clone(), nil
}

// Current returns a copy of the latest image: the result of the last
// step, or the original when no step has been applied.
func (s *Session) Current() (*imageutil.PixelBuffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.currentLocked()
	if err != nil {
		return nil, err
	}
	return current.Clone(), nil
}

func (s *Session) currentLocked() (*imageutil.PixelBuffer, error) {
	if s.original == nil {
		return nil, ErrNoImage
	}
	if n := len(s.history); n > 0 {
		return s.history[n-1].Result, nil
	}
	return s.original, nil
}

// Apply runs step on the current image, makes the result current and
// returns a copy of it. On error the session is unchanged.
func (s *Session) Apply(step Step) (*imageutil.PixelBuffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.currentLocked()
	if err != nil {
		return nil, err
	}

	result, err := step.Apply(current)
	if err != nil {
		s.logger.WithError(err).WithField("step", step.String()).Warn("Step rejected")
		return nil, err
	}

	s.history = append(s.history, HistoryEntry{Step: step, Result: result})
	s.logger.WithFields(logrus.Fields{
		"step":    step.String(),
		"width":   result.Width(),
		"height":  result.Height(),
		"history": len(s.history),
	}).Debug("Step applied")
	return result.Clone(), nil
}

// Undo drops the last applied step and returns a copy of the image that
// is current afterwards.
func (s *Session) Undo() (*imageutil.PixelBuffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.original == nil {
		return nil, ErrNoImage
	}
	n := len(s.history)
	if n == 0 {
		return nil, ErrNothingToUndo
	}
	undone := s.history[n-1].Step
	s.history[n-1] = HistoryEntry{}
	s.history = s.history[:n-1]
	s.logger.WithField("step", undone.String()).Debug("Step undone")
	current, err := s.currentLocked()
	if err != nil {
		return nil, err
	}
	return current.Clone(), nil
}

// Reset discards the whole history and returns a copy of the original
// image.
func (s *Session) Reset() (*imageutil.PixelBuffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.original == nil {
		return nil, ErrNoImage
	}
	s.history = nil
	s.logger.Debug("Session reset")
	return s.original.Clone(), nil
}

// History returns the applied steps, oldest first, each with a copy of
// the buffer it produced.
func (s *Session) History() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]HistoryEntry, len(s.history))
	for i, entry := range s.history {
		out[i] = HistoryEntry{Step: entry.Step, Result: entry.Result.Clone()}
	}
	return out
}
