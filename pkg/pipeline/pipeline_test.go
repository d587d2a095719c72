package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/sheetmap/pkg/report"
	"github.com/walteh/sheetmap/pkg/table"
	"github.com/walteh/sheetmap/pkg/template"
	"github.com/walteh/sheetmap/pkg/transform"
)

type mockResolver struct {
	mock.Mock
}

// Lookup returns the configured transform, or calls a configured func(key)
// when the expectation is a fallback
func (m *mockResolver) Lookup(key string) (transform.Transform, error) {
	args := m.Called(key)
	if fn, ok := args.Get(0).(func(string) (transform.Transform, error)); ok {
		return fn(key)
	}
	t, _ := args.Get(0).(transform.Transform)
	return t, args.Error(1)
}

type noArgs struct{}

// mutateThenFail writes into the table before failing
var mutateThenFail = transform.New("mutate_then_fail", nil, func(_ context.Context, tbl *table.Table, _ noArgs) error {
	tbl.Row(0).Set("title", "garbage")
	tbl.AddColumn("junk")
	return errors.New("boom")
})

var panicky = transform.New("panicky", nil, func(_ context.Context, tbl *table.Table, _ noArgs) error {
	tbl.Row(0).Set("title", "garbage")
	panic("index out of range")
})

type nilTable struct{}

func (nilTable) Name() string { return "nil_table" }

func (nilTable) Apply(context.Context, *table.Table, map[string]any) (*table.Table, error) {
	return nil, nil
}

func sample() *table.Table {
	tbl := table.New("title", "tags")
	tbl.Append(table.Row{"title": table.Text("HELLO"), "tags": table.Text("a;b;a")})
	tbl.Append(table.Row{"title": table.Text("World")})
	return tbl
}

func lowercaseTitle() template.Invocation {
	return template.Invocation{ID: "2", Args: map[string]any{"headers": []any{"title"}}}
}

func dedupeTags() template.Invocation {
	return template.Invocation{ID: "dedupe_tags", Name: "clean tags", Args: map[string]any{"dedupe_headers": "tags"}}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name        string
		invocations []template.Invocation
		setupMocks  func(m *mockResolver)
		wantStatus  []Status
		errIs       []error
		check       func(t *testing.T, tbl *table.Table)
	}{
		{
			name:        "all_applied",
			invocations: []template.Invocation{lowercaseTitle(), dedupeTags()},
			wantStatus:  []Status{StatusApplied, StatusApplied},
			errIs:       []error{nil, nil},
			check: func(t *testing.T, tbl *table.Table) {
				assert.Equal(t, []table.Cell{table.Text("hello"), table.Text("world")}, tbl.Column("title"))
				assert.Equal(t, []table.Cell{table.Text("a;b"), table.Text("")}, tbl.Column("tags"))
			},
		},
		{
			name:        "unknown_id_is_skipped",
			invocations: []template.Invocation{{ID: "99"}, lowercaseTitle()},
			wantStatus:  []Status{StatusSkipped, StatusApplied},
			errIs:       []error{transform.ErrUnknownTransform, nil},
			check: func(t *testing.T, tbl *table.Table) {
				assert.Equal(t, "hello", tbl.Row(0).Get("title").Text)
			},
		},
		{
			name:        "failed_step_rolls_back",
			invocations: []template.Invocation{{ID: "x"}, lowercaseTitle()},
			setupMocks: func(m *mockResolver) {
				m.On("Lookup", "x").Return(mutateThenFail, nil).Once()
			},
			wantStatus: []Status{StatusFailed, StatusApplied},
			errIs:      []error{nil, nil},
			check: func(t *testing.T, tbl *table.Table) {
				assert.Equal(t, "hello", tbl.Row(0).Get("title").Text)
				assert.False(t, tbl.HasColumn("junk"), "partial writes should be discarded")
			},
		},
		{
			name:        "panic_is_contained",
			invocations: []template.Invocation{{ID: "p"}},
			setupMocks: func(m *mockResolver) {
				m.On("Lookup", "p").Return(panicky, nil).Once()
			},
			wantStatus: []Status{StatusFailed},
			errIs:      []error{ErrPanicked},
			check: func(t *testing.T, tbl *table.Table) {
				assert.Equal(t, "HELLO", tbl.Row(0).Get("title").Text)
			},
		},
		{
			name:        "nil_table_fails",
			invocations: []template.Invocation{{ID: "n"}},
			setupMocks: func(m *mockResolver) {
				m.On("Lookup", "n").Return(nilTable{}, nil).Once()
			},
			wantStatus: []Status{StatusFailed},
			errIs:      []error{ErrNoTable},
			check: func(t *testing.T, tbl *table.Table) {
				require.NotNil(t, tbl)
				assert.Equal(t, 2, tbl.Len())
			},
		},
		{
			name:        "bad_arguments_fail",
			invocations: []template.Invocation{{ID: "lowercase", Args: map[string]any{"headers": []any{"missing"}}}},
			wantStatus:  []Status{StatusFailed},
			errIs:       []error{transform.ErrMissingColumn},
			check: func(t *testing.T, tbl *table.Table) {
				assert.Equal(t, []string{"title", "tags"}, tbl.Columns())
			},
		},
		{
			name:       "no_steps",
			wantStatus: []Status{},
			errIs:      []error{},
			check: func(t *testing.T, tbl *table.Table) {
				assert.Equal(t, sample(), tbl)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := transform.DefaultRegistry()
			m := &mockResolver{}
			if tt.setupMocks != nil {
				tt.setupMocks(m)
			}
			// anything not set up explicitly goes to the real registry
			m.On("Lookup", mock.Anything).Return(func(key string) (transform.Transform, error) {
				return reg.Lookup(key)
			}).Maybe()

			out, rep := New(m).Run(context.Background(), sample(), tt.invocations)
			require.NotNil(t, rep)
			require.Len(t, rep.Steps, len(tt.wantStatus))

			for i, s := range rep.Steps {
				assert.Equal(t, i+1, s.Index)
				assert.Equal(t, tt.wantStatus[i], s.Status, "step %d", i+1)
				if tt.wantStatus[i] == StatusApplied {
					assert.NoError(t, s.Err)
				} else {
					assert.Error(t, s.Err)
				}
				if tt.errIs[i] != nil {
					assert.True(t, errors.Is(s.Err, tt.errIs[i]), "step %d: %v should wrap %v", i+1, s.Err, tt.errIs[i])
				}
			}

			tt.check(t, out)
			m.AssertExpectations(t)
		})
	}
}

func TestRunUnresolvedMatchesRemovedStep(t *testing.T) {
	reg := transform.DefaultRegistry()
	steps := []template.Invocation{lowercaseTitle(), dedupeTags()}

	withBad := []template.Invocation{steps[0], {ID: "nope", Name: "typo"}, steps[1]}

	want, _ := New(reg).Run(context.Background(), sample(), steps)
	got, rep := New(reg).Run(context.Background(), sample(), withBad)

	assert.Equal(t, want, got)

	ds := rep.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, report.StagePipeline, ds[0].Stage)
	assert.Equal(t, "typo (nope)", ds[0].Subject)
	assert.True(t, errors.Is(ds[0].Err, transform.ErrUnknownTransform))
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := &mockResolver{}
	out, rep := New(m).Run(ctx, sample(), []template.Invocation{lowercaseTitle(), dedupeTags()})

	assert.Equal(t, sample(), out, "no step should run")
	assert.Equal(t, 2, rep.Count(StatusSkipped))
	for _, s := range rep.Steps {
		assert.True(t, errors.Is(s.Err, context.Canceled))
	}
	m.AssertNotCalled(t, "Lookup", mock.Anything)
}

func TestReportLines(t *testing.T) {
	rep := &Report{Steps: []StepResult{
		{Index: 1, Invocation: template.Invocation{ID: "2"}, Transform: "lowercase", Status: StatusApplied},
		{Index: 2, Invocation: template.Invocation{ID: "8", Name: "clean tags"}, Transform: "dedupe_tags", Status: StatusFailed, Err: errors.New("bad")},
		{Index: 3, Invocation: template.Invocation{ID: "42"}, Status: StatusSkipped, Err: errors.New("unknown")},
	}}

	assert.Equal(t, []report.StepLine{
		{Index: 1, Name: "lowercase", Status: "applied"},
		{Index: 2, Name: "clean tags (dedupe_tags)", Status: "failed", Detail: "bad"},
		{Index: 3, Name: "42", Status: "skipped", Detail: "unknown"},
	}, rep.Lines())

	assert.Equal(t, 1, rep.Count(StatusApplied))
	assert.Len(t, rep.Diagnostics(), 2)
}
