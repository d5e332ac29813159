package surface

import "LocalSketch/internal/state"

// Prompter asks the user for a line of text without blocking. reply must be
// called at most once: ok=false means the prompt was dismissed.
type Prompter interface {
	RequestText(at state.Point, reply func(text string, ok bool))
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(at state.Point, reply func(text string, ok bool))

func (f PrompterFunc) RequestText(at state.Point, reply func(string, bool)) { f(at, reply) }

func (s *Surface) requestText(p state.Point) {
	s.mu.Lock()
	prompter := s.prompter
	s.mu.Unlock()
	if prompter == nil {
		s.log.Debug("text tool used without a prompter")
		return
	}
	prompter.RequestText(p, func(text string, ok bool) {
		if !ok || text == "" {
			s.log.Debug("text prompt dismissed", "x", p.X, "y", p.Y)
			return
		}
		s.PlaceText(p, text)
	})
}
