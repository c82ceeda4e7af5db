package progrock

import (
	"fmt"
	"strings"
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
)

var _ progrock.Writer = (*Summary)(nil)

// Totals counts the outcome of the vertices seen by a Summary.
type Totals struct {
	Ran      int
	UpToDate int
	Failed   int
	Blocked  int
	Pending  int
}

// Summary is a progrock.Writer that keeps the latest state of every vertex
// and reports the totals through the logger when closed.
type Summary struct {
	logger ports.Logger

	mu       sync.Mutex
	order    []string
	vertexes map[string]*progrock.Vertex
}

// NewSummary creates a Summary reporting to logger.
func NewSummary(logger ports.Logger) *Summary {
	return &Summary{
		logger:   logger,
		vertexes: make(map[string]*progrock.Vertex),
	}
}

// WriteStatus records the vertex updates of a status update.
func (s *Summary) WriteStatus(update *progrock.StatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range update.GetVertexes() {
		if _, seen := s.vertexes[v.GetId()]; !seen {
			s.order = append(s.order, v.GetId())
		}
		s.vertexes[v.GetId()] = v
	}
	return nil
}

// Totals returns the outcome counts of the vertices recorded so far.
func (s *Summary) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	var t Totals
	for _, id := range s.order {
		v := s.vertexes[id]
		switch {
		case v.GetCached():
			t.UpToDate++
		case strings.HasPrefix(v.GetError(), domain.ErrUpstreamFailed.Error()):
			t.Blocked++
		case v.GetError() != "":
			t.Failed++
		case v.GetCompleted() != nil:
			t.Ran++
		default:
			t.Pending++
		}
	}
	return t
}

// Close reports the totals. Nothing is reported when no task was recorded.
func (s *Summary) Close() error {
	t := s.Totals()
	if t == (Totals{}) {
		return nil
	}

	msg := fmt.Sprintf("%d ran, %d up-to-date, %d failed", t.Ran, t.UpToDate, t.Failed)
	if t.Blocked > 0 {
		msg += fmt.Sprintf(", %d blocked", t.Blocked)
	}
	if t.Pending > 0 {
		msg += fmt.Sprintf(", %d unfinished", t.Pending)
	}
	s.logger.Info(msg)
	return nil
}
