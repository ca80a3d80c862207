package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	dom "taskmanager/internal/domain"
	"taskmanager/internal/repo"
	"taskmanager/internal/utils"

	"golang.org/x/sync/singleflight"
)

const headingLabel = "To Do List for "

var ErrUnknownStatus = errors.New("unknown status")

// Clock supplies the current time.
type Clock func() time.Time

// Progress is the completion summary forwarded to the progress bar.
type Progress struct {
	Done  int
	Total int
}

// Percent is the whole-number completion percentage, 0 for an empty list.
func (p Progress) Percent() int {
	if p.Total <= 0 {
		return 0
	}
	return p.Done * 100 / p.Total
}

// Tab is one status group of the tabbed container.
type Tab struct {
	Status dom.Status
	Label  string
	Tasks  []dom.Task
}

// Snapshot holds the derived props for one render of the overview.
type Snapshot struct {
	Heading  string
	Tasks    []dom.Task
	Progress Progress
	Tabs     []Tab
}

// TasksOverview is the overview container. It starts Empty and becomes
// Loaded after Mount; later mounts replace the list, never append to it.
type TasksOverview struct {
	provider repo.TaskProvider
	clock    Clock
	loc      *time.Location
	sf       singleflight.Group

	mu     sync.RWMutex
	tasks  []dom.Task
	loaded bool
}

// NewTasksOverview creates an Empty overview. A nil clock means time.Now, a nil loc means time.Local.
func NewTasksOverview(p repo.TaskProvider, clock Clock, loc *time.Location) *TasksOverview {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &TasksOverview{provider: p, clock: clock, loc: loc, tasks: []dom.Task{}}
}

// Mount loads the dataset from the provider into the overview state.
// On error the previous state is kept.
func (o *TasksOverview) Mount(ctx context.Context) error {
	_, err, _ := o.sf.Do("mount", func() (interface{}, error) {
		tasks, err := o.provider.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load tasks: %w", err)
		}
		o.mu.Lock()
		o.tasks = append(make([]dom.Task, 0, len(tasks)), tasks...)
		o.loaded = true
		o.mu.Unlock()
		return nil, nil
	})
	return err
}

// Loaded reports whether Mount has completed successfully at least once.
func (o *TasksOverview) Loaded() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.loaded
}

// Tasks returns a copy of the current task list.
func (o *TasksOverview) Tasks() []dom.Task {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append(make([]dom.Task, 0, len(o.tasks)), o.tasks...)
}

// Heading is the date-stamped title, e.g. "To Do List for Thursday, March 7th 2024".
func (o *TasksOverview) Heading() string {
	return headingLabel + utils.FormatLongDate(o.clock().In(o.loc))
}

// Snapshot derives everything a renderer needs from the current state.
func (o *TasksOverview) Snapshot() Snapshot {
	tasks := o.Tasks()
	return Snapshot{
		Heading:  o.Heading(),
		Tasks:    tasks,
		Progress: CompletionRatio(tasks),
		Tabs:     Tabs(GroupByStatus(tasks)),
	}
}

// Filter returns the tasks with the given status, in list order.
func (o *TasksOverview) Filter(status dom.Status) ([]dom.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
	out := []dom.Task{}
	for _, t := range o.Tasks() {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

// GroupByStatus partitions tasks by status. Each group keeps input order.
func GroupByStatus(tasks []dom.Task) map[dom.Status][]dom.Task {
	groups := make(map[dom.Status][]dom.Task)
	for _, t := range tasks {
		groups[t.Status] = append(groups[t.Status], t)
	}
	return groups
}

// CompletionRatio counts done tasks against the total.
func CompletionRatio(tasks []dom.Task) Progress {
	p := Progress{Total: len(tasks)}
	for _, t := range tasks {
		if t.Status == dom.StatusDone {
			p.Done++
		}
	}
	return p
}

// Tabs orders groups for display: known statuses first (always present, possibly empty),
// then any other statuses sorted by name.
func Tabs(groups map[dom.Status][]dom.Task) []Tab {
	tabs := make([]Tab, 0, len(dom.OrderedStatuses))
	for _, s := range dom.OrderedStatuses {
		tabs = append(tabs, Tab{Status: s, Label: s.Label(), Tasks: orEmpty(groups[s])})
	}

	var extra []dom.Status
	for s := range groups {
		if !s.Valid() {
			extra = append(extra, s)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, s := range extra {
		tabs = append(tabs, Tab{Status: s, Label: s.Label(), Tasks: groups[s]})
	}
	return tabs
}

func orEmpty(tasks []dom.Task) []dom.Task {
	if tasks == nil {
		return []dom.Task{}
	}
	return tasks
}
