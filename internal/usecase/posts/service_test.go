package posts

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"wellness/portal/internal/domain/post"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	items     []post.Post
	deleteErr error
	deleted   []string
}

func (g *stubGateway) ListPosts(context.Context) ([]post.Post, error) {
	return append([]post.Post(nil), g.items...), nil
}

func (g *stubGateway) DeletePost(_ context.Context, url string) error {
	g.deleted = append(g.deleted, url)
	return g.deleteErr
}

func loaded(t *testing.T, gw *stubGateway) *Controller {
	t.Helper()
	ctrl := NewController(gw)
	require.NoError(t, ctrl.Load(context.Background()))
	return ctrl
}

func twoPosts() *stubGateway {
	return &stubGateway{items: []post.Post{
		{ID: "1", Type: post.TypeDaily, Title: "Monday", Body: "Went for a walk", DeleteURL: "/posts/daily/1/delete/"},
		{ID: "2", Type: post.TypeMood, Title: "Tuesday", DeleteURL: "/posts/mood/2/delete/"},
	}}
}

func TestToggleKeepsOnePostOpen(t *testing.T) {
	ctrl := loaded(t, twoPosts())

	require.NoError(t, ctrl.Toggle("1"))
	assert.Equal(t, "1", ctrl.Expanded())
	require.NoError(t, ctrl.Toggle("2"))
	assert.Equal(t, "2", ctrl.Expanded())
	require.NoError(t, ctrl.Toggle("2"))
	assert.Empty(t, ctrl.Expanded())
	assert.ErrorIs(t, ctrl.Toggle("9"), post.ErrPostNotFound)
}

func TestConfirmDeleteRemovesPost(t *testing.T) {
	gw := twoPosts()
	ctrl := loaded(t, gw)
	require.NoError(t, ctrl.Toggle("1"))

	require.NoError(t, ctrl.RequestDelete("1"))
	assert.True(t, ctrl.ConfirmVisible())
	require.NoError(t, ctrl.ConfirmDelete(context.Background()))

	assert.Equal(t, []string{"/posts/daily/1/delete/"}, gw.deleted)
	assert.Len(t, ctrl.Posts(), 1)
	assert.False(t, ctrl.ConfirmVisible())
	assert.Empty(t, ctrl.Expanded())
	assert.False(t, ctrl.Empty())
}

func TestDeletingLastPostShowsEmptyMessage(t *testing.T) {
	gw := &stubGateway{items: []post.Post{{ID: "7", Title: "Only", DeleteURL: "/posts/daily/7/delete/"}}}
	ctrl := loaded(t, gw)

	require.NoError(t, ctrl.RequestDelete("7"))
	require.NoError(t, ctrl.ConfirmDelete(context.Background()))

	assert.True(t, ctrl.Empty())
	var buf bytes.Buffer
	require.NoError(t, ctrl.Render(&buf))
	assert.Equal(t, MsgNoPosts+"\n", buf.String())
}

func TestConfirmWithoutPendingIsNoop(t *testing.T) {
	gw := twoPosts()
	ctrl := loaded(t, gw)

	require.NoError(t, ctrl.ConfirmDelete(context.Background()))
	require.NoError(t, ctrl.RequestDelete("2"))
	ctrl.CancelDelete()
	require.NoError(t, ctrl.ConfirmDelete(context.Background()))

	assert.Empty(t, gw.deleted)
	assert.Len(t, ctrl.Posts(), 2)
}

func TestFailedDeleteKeepsPost(t *testing.T) {
	gw := twoPosts()
	gw.deleteErr = post.ErrDeleteFailed
	ctrl := loaded(t, gw)

	require.NoError(t, ctrl.RequestDelete("2"))
	err := ctrl.ConfirmDelete(context.Background())

	require.True(t, errors.Is(err, post.ErrDeleteFailed))
	assert.Len(t, ctrl.Posts(), 2)
	assert.True(t, ctrl.ConfirmVisible())
}

func TestRenderExpandsOpenPost(t *testing.T) {
	ctrl := loaded(t, twoPosts())
	require.NoError(t, ctrl.Toggle("1"))

	var buf bytes.Buffer
	require.NoError(t, ctrl.Render(&buf))
	assert.Equal(t, "- 1. [daily] Monday\n    Went for a walk\n+ 2. [mood] Tuesday\n", buf.String())
}
