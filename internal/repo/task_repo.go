package repo

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	dom "taskmanager/internal/domain"

	"gopkg.in/yaml.v3"
)

// ErrInvalidFixture is returned when fixture data breaks the Task invariants.
var ErrInvalidFixture = errors.New("invalid task fixture")

//go:embed fixtures/tasks.yaml
var defaultFixture []byte

// TaskProvider supplies the overview's dataset.
type TaskProvider interface {
	Load(ctx context.Context) ([]dom.Task, error)
}

type fixtureFile struct {
	Tasks []fixtureTask `yaml:"tasks"`
}

type fixtureTask struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Status      string `yaml:"status"`
	DueAt       string `yaml:"due_at"`
}

// StaticProvider serves a fixed, already validated slice of tasks.
type StaticProvider struct {
	tasks []dom.Task
}

// NewStaticProvider validates tasks and returns a provider over a private copy.
func NewStaticProvider(tasks []dom.Task) (*StaticProvider, error) {
	if err := Validate(tasks); err != nil {
		return nil, err
	}
	return &StaticProvider{tasks: cloneTasks(tasks)}, nil
}

// Load returns a fresh copy on every call so callers can never alias the fixture.
func (p *StaticProvider) Load(ctx context.Context) ([]dom.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cloneTasks(p.tasks), nil
}

// FixtureProvider serves tasks decoded from YAML.
type FixtureProvider struct {
	*StaticProvider
}

// NewFixtureProvider returns a provider over the embedded seed data.
func NewFixtureProvider() (*FixtureProvider, error) {
	return ParseFixture(defaultFixture)
}

// ParseFixture decodes a YAML fixture document. Unknown keys are rejected.
func ParseFixture(data []byte) (*FixtureProvider, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f fixtureFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidFixture, err)
	}

	tasks := make([]dom.Task, 0, len(f.Tasks))
	for i, ft := range f.Tasks {
		t := dom.Task{
			ID:          strings.TrimSpace(ft.ID),
			Title:       strings.TrimSpace(ft.Title),
			Description: strings.TrimSpace(ft.Description),
			Status:      dom.Status(strings.TrimSpace(ft.Status)),
		}
		if ft.DueAt != "" {
			due, err := parseDueAt(ft.DueAt)
			if err != nil {
				return nil, fmt.Errorf("%w: task #%d: %v", ErrInvalidFixture, i+1, err)
			}
			t.DueAt = &due
		}
		tasks = append(tasks, t)
	}

	sp, err := NewStaticProvider(tasks)
	if err != nil {
		return nil, err
	}
	return &FixtureProvider{StaticProvider: sp}, nil
}

// Validate checks identifiers are present and unique, titles are set and statuses are known.
func Validate(tasks []dom.Task) error {
	seen := make(map[string]struct{}, len(tasks))
	for i, t := range tasks {
		if t.ID == "" {
			return fmt.Errorf("%w: task #%d: missing id", ErrInvalidFixture, i+1)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidFixture, t.ID)
		}
		seen[t.ID] = struct{}{}
		if t.Title == "" {
			return fmt.Errorf("%w: task %q: missing title", ErrInvalidFixture, t.ID)
		}
		if !t.Status.Valid() {
			return fmt.Errorf("%w: task %q: unknown status %q", ErrInvalidFixture, t.ID, t.Status)
		}
	}
	return nil
}

// parseDueAt accepts date-only ("2006-01-02", start of day UTC) or RFC3339.
func parseDueAt(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("due_at: use date (YYYY-MM-DD) or RFC3339 datetime")
	}
	return d, nil
}

func cloneTasks(in []dom.Task) []dom.Task {
	out := make([]dom.Task, len(in))
	for i, t := range in {
		if t.DueAt != nil {
			due := *t.DueAt
			t.DueAt = &due
		}
		out[i] = t
	}
	return out
}
