package journal

import (
	"context"
	"testing"

	domain "wellness/portal/internal/domain/post"
	"wellness/portal/internal/infrastructure/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDefaultsToDaily(t *testing.T) {
	svc := NewService(memory.NewPostRepository())

	entry, err := svc.Create(context.Background(), "owner", CreateInput{Title: "  Monday "})

	require.NoError(t, err)
	assert.Equal(t, domain.TypeDaily, entry.Type)
	assert.Equal(t, "Monday", entry.Title)
	assert.NotEmpty(t, entry.ID)
}

func TestCreateValidates(t *testing.T) {
	svc := NewService(memory.NewPostRepository())

	_, err := svc.Create(context.Background(), "owner", CreateInput{Title: " "})
	assert.Error(t, err)
	_, err = svc.Create(context.Background(), "owner", CreateInput{Title: "x", Type: "weekly"})
	assert.Error(t, err)
}

func TestDeleteOnlyOwnPosts(t *testing.T) {
	svc := NewService(memory.NewPostRepository())
	ctx := context.Background()
	entry, err := svc.Create(ctx, "owner", CreateInput{Title: "mine", Type: domain.TypeMood})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "intruder", domain.TypeMood, entry.ID), domain.ErrPostNotFound)
	require.NoError(t, svc.Delete(ctx, "owner", domain.TypeMood, entry.ID))

	list, err := svc.List(ctx, "owner")
	require.NoError(t, err)
	assert.Empty(t, list)
}
