package repository

import (
	"context"
	"testing"
	"time"

	"github.com/khanhtoandng/me-sub001/internal/content"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func newProject(id, title string, status content.Status, order int, techs ...string) *content.Project {
	p := &content.Project{
		Title:        title,
		Description:  "d",
		ProjectType:  content.ProjectWebApp,
		Status:       status,
		Technologies: techs,
		Order:        order,
	}
	p.ID = id
	now := time.Now().UTC().Truncate(time.Millisecond)
	p.SetTimestamps(now, now)
	return p
}

func TestMemoryRepoCRUD(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo(content.Projects.New)

	p := newProject("p1", "first", content.StatusDraft, 0, "Go")
	require.NoError(t, r.Create(ctx, p))

	got, err := r.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "first", got.Title)
	require.Equal(t, []string{"Go"}, got.Technologies)
	require.True(t, p.CreatedAt.Equal(got.CreatedAt))

	// stored copy is isolated from the caller's value
	p.Title = "mutated"
	got, err = r.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "first", got.Title)

	got.Title = "second"
	require.NoError(t, r.Replace(ctx, got))
	got2, err := r.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "second", got2.Title)

	require.NoError(t, r.Delete(ctx, "p1"))
	_, err = r.Get(ctx, "p1")
	require.ErrorIs(t, err, content.ErrNotFound)
	require.ErrorIs(t, r.Delete(ctx, "p1"), content.ErrNotFound)
	require.ErrorIs(t, r.Replace(ctx, newProject("nope", "x", content.StatusDraft, 0)), content.ErrNotFound)
}

func TestMemoryRepoListFilterSortLimit(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo(content.Projects.New)

	require.NoError(t, r.Create(ctx, newProject("a", "a", content.StatusPublished, 2, "Go", "Redis")))
	require.NoError(t, r.Create(ctx, newProject("b", "b", content.StatusDraft, 1, "Go")))
	require.NoError(t, r.Create(ctx, newProject("c", "c", content.StatusPublished, 1, "TypeScript")))
	require.NoError(t, r.Create(ctx, newProject("d", "d", content.StatusArchived, 0)))

	list, err := r.List(ctx, content.Query{Match: bson.M{"status": "Published"}, Sort: content.Projects.Sort})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "c", list[0].ID)
	require.Equal(t, "a", list[1].ID)

	list, err = r.List(ctx, content.Query{Match: bson.M{"technologies": "Go"}, Sort: content.Projects.Sort})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "b", list[0].ID)

	list, err = r.List(ctx, content.Query{Match: bson.M{"featured": true}})
	require.NoError(t, err)
	require.Empty(t, list)

	list, err = r.List(ctx, content.Query{Sort: bson.D{{Key: "order", Value: -1}}, Limit: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "a", list[0].ID)
}

func TestCompareValues(t *testing.T) {
	require.Equal(t, -1, compareValues(nil, "x"))
	require.Equal(t, 1, compareValues(int32(3), int64(2)))
	require.Equal(t, 0, compareValues(2, 2.0))
	require.Equal(t, -1, compareValues(false, true))
	require.Equal(t, -1, compareValues("a", "b"))
}
