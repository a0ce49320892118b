package recipe

import (
	"context"
	"errors"
	"testing"

	"recipe-assistant/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTitles struct {
	titles []string
	err    error
	user   string
}

func (s *stubTitles) Titles(ctx context.Context, userID string) ([]string, error) {
	s.user = userID
	return s.titles, s.err
}

func TestService_Recommend(t *testing.T) {
	inv := &fakeInvoker{content: `[{"title":"New One"}]`}
	titles := &stubTitles{titles: []string{"Pad Thai"}}
	svc := NewService(NewGenerator(inv, nil), titles)

	result, err := svc.Recommend(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", titles.user)
	assert.Equal(t, ModeFavorites, result.Mode)
	require.Len(t, result.Recipes, 1)
	assert.Contains(t, inv.prompts[0], "1. Pad Thai")
}

func TestService_RecommendWithoutFavorites(t *testing.T) {
	inv := &fakeInvoker{content: "[]"}
	svc := NewService(NewGenerator(inv, nil), &stubTitles{})

	_, err := svc.Recommend(context.Background(), "user-1")
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
	assert.Empty(t, inv.prompts)
}

func TestService_RecommendStoreError(t *testing.T) {
	inv := &fakeInvoker{content: "[]"}
	svc := NewService(NewGenerator(inv, nil), &stubTitles{err: errors.New("db down")})

	_, err := svc.Recommend(context.Background(), "user-1")
	require.Error(t, err)
	assert.False(t, common.IsValidationError(err))
	assert.Empty(t, inv.prompts)
}

func TestService_Generate(t *testing.T) {
	inv := &fakeInvoker{content: "[]"}
	svc := NewService(NewGenerator(inv, nil), &stubTitles{})

	result, err := svc.Generate(context.Background(), GenerationRequest{Ingredients: "rice"})
	require.NoError(t, err)
	assert.Empty(t, result.Recipes)
	assert.Len(t, inv.prompts, 1)
}
