package session

import "context"

// Watch returns a channel that receives the current state right away and
// then the state after every action. A slow reader only ever sees the latest
// state; intermediate ones are dropped. The channel is closed when ctx is
// done or the session ends.
func (s *Session) Watch(ctx context.Context) <-chan State {
	ch := make(chan State, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch
	}
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = ch
	ch <- s.state.Clone()
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-s.done:
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(ch)
		}
	}()

	return ch
}

// notify must be called with mu held. Only notify sends on watcher channels,
// so after draining a full buffer the send cannot block.
func (s *Session) notify() {
	for _, ch := range s.watchers {
		state := s.state.Clone()
		select {
		case ch <- state:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
}
