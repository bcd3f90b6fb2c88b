// Package app provides application lifecycle management, theming, and events.
package app

import (
	"sync"
)

// State holds the session state shared between the controller and the window.
type State struct {
	mu sync.RWMutex

	// Runs counts simulation runs started this session.
	Runs int
	// InFlight counts runs waiting on the calculation service.
	InFlight int
	// LastError is the text of the most recent failure, "" after a success.
	LastError string
	// LastPoints is the number of points in the chart currently shown.
	LastPoints int

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	// EventRunStarted carries the models.SimulationRequest being sent.
	EventRunStarted EventType = iota
	// EventRunSucceeded carries the *models.SimulationResult that was rendered.
	EventRunSucceeded
	// EventRunFailed carries the error; validation failures included.
	EventRunFailed
	// EventRunSuperseded carries nothing; a newer run replaced this one.
	EventRunSuperseded
	// EventParametersChanged carries nothing.
	EventParametersChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state.
func NewState() *State {
	return &State{
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// RunStarted records a run leaving for the calculation service and emits EventRunStarted.
func (s *State) RunStarted(data interface{}) {
	s.mu.Lock()
	s.Runs++
	s.InFlight++
	s.mu.Unlock()
	s.Emit(EventRunStarted, data)
}

// RunSucceeded records a rendered result of n points and emits EventRunSucceeded.
func (s *State) RunSucceeded(n int, data interface{}) {
	s.mu.Lock()
	s.settle()
	s.LastError = ""
	s.LastPoints = n
	s.mu.Unlock()
	s.Emit(EventRunSucceeded, data)
}

// RunFailed records a failure and emits EventRunFailed. sent is false for
// runs rejected before reaching the service.
func (s *State) RunFailed(msg string, sent bool, err error) {
	s.mu.Lock()
	if sent {
		s.settle()
	} else {
		s.Runs++
	}
	s.LastError = msg
	s.LastPoints = 0
	s.mu.Unlock()
	s.Emit(EventRunFailed, err)
}

// RunSuperseded records a discarded response and emits EventRunSuperseded.
func (s *State) RunSuperseded() {
	s.mu.Lock()
	s.settle()
	s.mu.Unlock()
	s.Emit(EventRunSuperseded, nil)
}

// Snapshot returns the counters under the lock.
func (s *State) Snapshot() (runs, inFlight int, lastErr string, points int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Runs, s.InFlight, s.LastError, s.LastPoints
}

func (s *State) settle() {
	if s.InFlight > 0 {
		s.InFlight--
	}
}
