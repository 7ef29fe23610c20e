package core

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Report is the outcome of validating one project.
type Report struct {
	Dir     string   `json:"dir"`
	Project *Project `json:"-"`
	Err     error    `json:"-"`
}

// Valid reports whether the project was built successfully.
func (r Report) Valid() bool { return r.Err == nil }

// Service loads, validates and builds projects.
type Service struct {
	source ProjectSource
	writer BundleWriter
	logger *slog.Logger

	mu       sync.RWMutex
	loaded   int
	failed   int
	built    int
	lastDirs []string
}

// NewService creates a new Service. writer may be nil when bundles are never built.
func NewService(source ProjectSource, writer BundleWriter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, writer: writer, logger: logger}
}

// LoadProject reads and validates the project in dir.
func (s *Service) LoadProject(ctx context.Context, dir string) (*Project, error) {
	if dir == "" {
		return nil, errors.New("project directory cannot be empty")
	}

	raw, err := s.source.Load(ctx, dir)
	if err != nil {
		s.record(false)
		return nil, err
	}

	p, err := NewProject(raw)
	if err != nil {
		s.record(false)
		s.logger.Debug("project rejected", "dir", dir, "error", err)
		return nil, err
	}

	s.record(true)
	s.logger.Debug("project loaded", "dir", dir, "slug", p.Slug, "questions", p.Questionnaire.Len())
	return p, nil
}

// Discover lists the projects known to the source.
func (s *Service) Discover(ctx context.Context) ([]string, error) {
	dirs, err := s.source.Discover(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.lastDirs = append([]string(nil), dirs...)
	s.mu.Unlock()
	return dirs, nil
}

// ValidateAll validates dirs, or every discovered project when dirs is empty.
// A broken project never stops the others from being validated.
func (s *Service) ValidateAll(ctx context.Context, dirs ...string) ([]Report, error) {
	if len(dirs) == 0 {
		var err error
		if dirs, err = s.Discover(ctx); err != nil {
			return nil, err
		}
	}

	reports := make([]Report, 0, len(dirs))
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		p, err := s.LoadProject(ctx, dir)
		reports = append(reports, Report{Dir: dir, Project: p, Err: err})
	}
	return reports, nil
}

// Build validates the project in dir and writes its bundle.
func (s *Service) Build(ctx context.Context, dir string) (string, error) {
	if s.writer == nil {
		return "", errors.New("no bundle writer configured")
	}

	p, err := s.LoadProject(ctx, dir)
	if err != nil {
		return "", err
	}

	location, err := s.writer.WriteBundle(ctx, p)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.built++
	s.mu.Unlock()
	s.logger.Info("bundle written", "slug", p.Slug, "path", location)
	return location, nil
}

// Watch observes configuration changes if the source supports it.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.source.(Watchable)
	if !ok {
		return nil, errors.New("project source does not support watching")
	}
	return w.Watch(ctx)
}

func (s *Service) record(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		s.loaded++
	} else {
		s.failed++
	}
}
