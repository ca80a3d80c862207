package repo

import (
	"context"
	"testing"

	dom "taskmanager/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFixtureProvider(t *testing.T) {
	p, err := NewFixtureProvider()
	require.NoError(t, err)

	tasks, err := p.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 6)
	assert.Equal(t, "task-1", tasks[0].ID)
	assert.Equal(t, "task-6", tasks[5].ID)
	require.NotNil(t, tasks[3].DueAt)
	assert.Equal(t, "2024-03-08", tasks[3].DueAt.Format("2006-01-02"))
	assert.NoError(t, Validate(tasks))
}

func TestLoadReturnsIndependentCopies(t *testing.T) {
	p, err := NewFixtureProvider()
	require.NoError(t, err)

	first, err := p.Load(context.Background())
	require.NoError(t, err)
	first[0].Title = "mutated"
	*first[3].DueAt = first[3].DueAt.AddDate(1, 0, 0)

	second, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Set up project skeleton", second[0].Title)
	assert.Equal(t, 2024, second[3].DueAt.Year())
}

func TestLoadHonoursCancelledContext(t *testing.T) {
	p, err := NewStaticProvider(nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseFixtureRejectsBadData(t *testing.T) {
	cases := map[string]string{
		"duplicate id": `
tasks:
  - {id: a, title: one, status: done}
  - {id: a, title: two, status: pending}
`,
		"unknown status": `
tasks:
  - {id: a, title: one, status: archived}
`,
		"missing id": `
tasks:
  - {title: one, status: done}
`,
		"missing title": `
tasks:
  - {id: a, status: done}
`,
		"unknown field": `
tasks:
  - {id: a, title: one, status: done, owner: bob}
`,
		"bad due date": `
tasks:
  - {id: a, title: one, status: done, due_at: "tomorrow"}
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFixture([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidFixture)
		})
	}
}

func TestParseFixtureEmpty(t *testing.T) {
	p, err := ParseFixture([]byte("tasks: []\n"))
	require.NoError(t, err)
	tasks, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestNewStaticProviderCopiesInput(t *testing.T) {
	in := []dom.Task{{ID: "x", Title: "X", Status: dom.StatusDone}}
	p, err := NewStaticProvider(in)
	require.NoError(t, err)
	in[0].Title = "changed"

	out, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "X", out[0].Title)
}
