package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"spasta/internal/auth"
	"spasta/internal/model"
	"spasta/internal/remote"
)

// Test fixtures share one in-memory gateway per test, signed in as user-1.

func newTestGateway(t *testing.T) *remote.SQLiteGateway {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := remote.Open(fmt.Sprintf("file:store_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	return remote.NewSQLiteGateway(db)
}

func newTestStores(t *testing.T) (*Stores, *remote.SQLiteGateway, *auth.MemorySession) {
	t.Helper()
	gw := newTestGateway(t)
	session := &auth.MemorySession{}
	session.SignIn("user-1")
	return NewStores(gw, session), gw, session
}

func seedCategory(t *testing.T, s *Stores, name string, flowNames ...string) model.Category {
	t.Helper()
	flows := make([]model.Flow, 0, len(flowNames))
	for i, fn := range flowNames {
		flows = append(flows, model.Flow{ID: "flow-" + fn, Name: fn, Order: i})
	}
	cat, err := s.Categories.Add(context.Background(), model.Category{Name: name, Color: "#333", Flows: flows})
	require.NoError(t, err)
	return cat
}

func seedTask(t *testing.T, s *Stores, cat model.Category, title string) model.Task {
	t.Helper()
	task, err := s.Tasks.Add(context.Background(), model.Task{
		Title:      title,
		CategoryID: cat.ID,
		FlowID:     cat.Flows[0].ID,
		Priority:   model.PriorityMedium,
	})
	require.NoError(t, err)
	return task
}

func seedSubTask(t *testing.T, s *Stores, parent model.Task, title string) model.SubTask {
	t.Helper()
	st, err := s.SubTasks.Add(context.Background(), model.SubTask{
		ParentTaskID: parent.ID,
		Title:        title,
	})
	require.NoError(t, err)
	return st
}

// failingGateway delegates to an inner gateway but fails the named
// operations, for exercising error paths without a network.
type failingGateway struct {
	remote.Gateway
	failUpdate bool
	failDelete bool
	failInsert bool
}

var errBoom = fmt.Errorf("transport down")

func (g *failingGateway) Insert(ctx context.Context, collection string, fields remote.Fields) (string, error) {
	if g.failInsert {
		return "", errBoom
	}
	return g.Gateway.Insert(ctx, collection, fields)
}

func (g *failingGateway) Update(ctx context.Context, collection, id string, fields remote.Fields) error {
	if g.failUpdate {
		return errBoom
	}
	return g.Gateway.Update(ctx, collection, id, fields)
}

func (g *failingGateway) Delete(ctx context.Context, collection, id string) error {
	if g.failDelete {
		return errBoom
	}
	return g.Gateway.Delete(ctx, collection, id)
}

// recordingGateway logs mutation order, for asserting cascade sequencing.
type recordingGateway struct {
	remote.Gateway
	ops []string
}

func (g *recordingGateway) Delete(ctx context.Context, collection, id string) error {
	g.ops = append(g.ops, "delete "+collection)
	return g.Gateway.Delete(ctx, collection, id)
}

func (g *recordingGateway) BatchDelete(ctx context.Context, collection string, ids []string) error {
	g.ops = append(g.ops, "batchDelete "+collection)
	return g.Gateway.BatchDelete(ctx, collection, ids)
}

func timePtr(t time.Time) *time.Time { return &t }
