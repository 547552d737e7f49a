package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_GetPublishedBySlug(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewCategoryService(gdb)

	_, err := svc.Create(CategoryInput{Title: "Travel", Slug: "travel", IsPublished: true})
	require.NoError(t, err)
	_, err = svc.Create(CategoryInput{Title: "Hidden", Slug: "hidden", IsPublished: false})
	require.NoError(t, err)

	got, err := svc.GetPublishedBySlug("travel")
	require.NoError(t, err)
	assert.Equal(t, "Travel", got.Title)

	_, err = svc.GetPublishedBySlug("hidden")
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = svc.GetPublishedBySlug("missing")
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	published, err := svc.ListPublished()
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "travel", published[0].Slug)

	all, err := svc.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "hidden", all[0].Slug)
}

func TestCategoryService_CreateRejectsDuplicatesAndBlanks(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewCategoryService(gdb)

	_, err := svc.Create(CategoryInput{Title: "Food", Slug: "food", IsPublished: true})
	require.NoError(t, err)

	_, err = svc.Create(CategoryInput{Title: "Food again", Slug: "food"})
	assert.ErrorIs(t, err, ErrCategoryExists)

	_, err = svc.Create(CategoryInput{Title: " ", Slug: "blank"})
	assert.ErrorIs(t, err, ErrCategoryInput)
}

func TestCategoryService_Locations(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewCategoryService(gdb)

	_, err := svc.CreateLocation("Moscow", true)
	require.NoError(t, err)
	_, err = svc.CreateLocation("Atlantis", false)
	require.NoError(t, err)
	_, err = svc.CreateLocation("", true)
	assert.ErrorIs(t, err, ErrLocationInput)

	locations, err := svc.ListAllLocations()
	require.NoError(t, err)
	require.Len(t, locations, 2)
	assert.Equal(t, "Atlantis", locations[0].Name)
	assert.False(t, locations[0].IsPublished)
	assert.Equal(t, "Moscow", locations[1].Name)
}
