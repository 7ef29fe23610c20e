package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Loaded     int      `json:"loaded"`
	Failed     int      `json:"failed"`
	Built      int      `json:"built"`
	Discovered []string `json:"discovered,omitempty"`
	SourceType string   `json:"source_type"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sourceType := "unknown"
	if s.source != nil {
		sourceType = "source"
		if comp, ok := s.source.(introspection.Component); ok {
			sourceType = comp.ComponentType()
		}
	}

	return ServiceState{
		Loaded:     s.loaded,
		Failed:     s.failed,
		Built:      s.built,
		Discovered: append([]string(nil), s.lastDirs...),
		SourceType: sourceType,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
