package messaging

import (
	"time"

	"go.uber.org/zap"
)

// scheduleReplyLocked arms a cancellable timer delivering a canned reply from
// counterpartID. Caller holds s.mu.
func (s *Store) scheduleReplyLocked(meID, counterpartID, counterpartName string) {
	delay := s.replyDelayLocked()
	content := s.responses[s.rng.Intn(len(s.responses))]

	s.nextTask++
	task := s.nextTask
	gen := s.generation
	s.pending[task] = time.AfterFunc(delay, func() {
		s.deliverReply(task, gen, meID, counterpartID, counterpartName, content)
	})
	s.logger.Debug("reply scheduled", zap.String("from", counterpartID), zap.Duration("delay", delay))
}

// replyDelayLocked picks a delay uniformly in [delayMin, delayMax].
func (s *Store) replyDelayLocked() time.Duration {
	delay := s.delayMin
	if spread := s.delayMax - s.delayMin; spread > 0 {
		delay += time.Duration(s.rng.Int63n(int64(spread) + 1))
	}
	return delay
}

func (s *Store) deliverReply(task, gen uint64, meID, counterpartID, counterpartName, content string) {
	s.mu.Lock()
	if _, ok := s.pending[task]; !ok || gen != s.generation || s.closed {
		// cancelled after the timer had already fired
		s.mu.Unlock()
		return
	}
	delete(s.pending, task)
	msg := s.appendIncomingLocked(meID, counterpartID, counterpartName, content)
	s.mu.Unlock()

	s.logger.Debug("reply delivered", zap.String("from", counterpartID))
	s.raise(msg)
}

// cancelLocked stops every pending reply and invalidates timers that already
// fired but have not taken the lock yet.
func (s *Store) cancelLocked() int {
	n := len(s.pending)
	for task, timer := range s.pending {
		timer.Stop()
		delete(s.pending, task)
	}
	s.generation++
	return n
}
