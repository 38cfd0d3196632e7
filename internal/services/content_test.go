package services

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/Adeel3330/agile-next-sub002/internal/models"
	"github.com/Adeel3330/agile-next-sub002/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlogService_PublishedOnlyAndViews(t *testing.T) {
	db := newTestDB(t)
	svc := NewBlogService(db)

	published, err := svc.Create(map[string]interface{}{"title": "Coding Updates 2025", "status": "published"}, WriteMeta{})
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	_, err = svc.Create(map[string]interface{}{"title": "Unfinished"}, WriteMeta{})
	require.NoError(t, err)

	list, err := svc.ListPublished(ListQuery{Status: "draft"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "coding-updates-2025", list.Items[0].Slug)

	blog, err := svc.ViewPublished("coding-updates-2025")
	require.NoError(t, err)
	assert.Equal(t, int64(1), blog.Views)

	_, err = svc.ViewPublished("unfinished")
	assert.Equal(t, http.StatusNotFound, response.StatusOf(err))
}

func TestResourceService_SearchAndStatusFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewServiceService(db)

	for _, p := range []map[string]interface{}{
		{"title": "Medical Billing", "shortDescription": "End to end claims"},
		{"title": "Credentialing", "status": "inactive"},
		{"title": "Denial Management", "shortDescription": "Appeals and claims follow-up"},
	} {
		_, err := svc.Create(p, WriteMeta{})
		require.NoError(t, err)
	}

	found, err := svc.List(ListQuery{Search: "claims"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), found.Total)

	for _, wildcard := range []string{"%", "_"} {
		none, err := svc.List(ListQuery{Search: wildcard})
		require.NoError(t, err)
		assert.Zero(t, none.Total, "search %q is literal", wildcard)
	}

	active, err := svc.List(ListQuery{}, WithStatus("active"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), active.Total)

	inactive, err := svc.List(ListQuery{Status: "INACTIVE"})
	require.NoError(t, err)
	require.Len(t, inactive.Items, 1)
	assert.Equal(t, "credentialing", inactive.Items[0].Slug)

	_, err = svc.GetBySlug("credentialing", WithStatus("active"))
	assert.Equal(t, http.StatusNotFound, response.StatusOf(err))
}

func TestResourceService_UnknownFieldsAndEmptyUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := NewCareerService(db)

	career, err := svc.Create(map[string]interface{}{"title": "AR Specialist", "views": 99}, WriteMeta{})
	require.NoError(t, err)
	assert.Equal(t, "open", career.Status)

	updated, err := svc.Update(career.ID, map[string]interface{}{"status": "closed"}, WriteMeta{})
	require.NoError(t, err)
	assert.Equal(t, "closed", updated.Status)
	assert.Equal(t, "ar-specialist", updated.Slug)

	_, err = svc.Update(career.ID, map[string]interface{}{"status": "sometimes"}, WriteMeta{})
	assert.Equal(t, http.StatusBadRequest, response.StatusOf(err))

	_, err = svc.Update(9999, map[string]interface{}{"status": "open"}, WriteMeta{})
	assert.Equal(t, http.StatusNotFound, response.StatusOf(err))
}

func TestSliderService_ActiveSortedByOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewSliderService(db)

	for _, p := range []map[string]interface{}{
		{"title": "Second", "sortOrder": 2},
		{"title": "Off", "sortOrder": 0, "isActive": false},
		{"title": "First", "sortOrder": 1},
	} {
		_, err := svc.Create(p, WriteMeta{})
		require.NoError(t, err)
	}

	list, err := svc.List(ListQuery{}, ActiveSliders)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "First", list.Items[0].Title)
	assert.Equal(t, "Second", list.Items[1].Title)
}

func TestMediaService_UploadRejectsAndRemoves(t *testing.T) {
	db := newTestDB(t)
	media := newTestMediaService(t, db)
	ctx := context.Background()

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	item, err := media.Upload(ctx, UploadInput{Filename: "team.png", Size: int64(len(png)), Body: bytes.NewReader(png), Folder: "team"})
	require.NoError(t, err)
	assert.Equal(t, "image/png", item.MimeType)
	assert.Equal(t, "team", item.Folder)
	assert.Contains(t, item.URL, "/uploads/")

	_, err = media.Upload(ctx, UploadInput{Filename: "run.sh", Size: 10, Body: bytes.NewReader([]byte("#!/bin/sh\nexit 0\n"))})
	assert.Equal(t, http.StatusBadRequest, response.StatusOf(err))

	_, err = media.Upload(ctx, UploadInput{Filename: "big.png", Size: 2 << 20, Body: bytes.NewReader(png)})
	assert.Equal(t, http.StatusBadRequest, response.StatusOf(err))

	_, err = media.Upload(ctx, UploadInput{Filename: "empty.png", Body: bytes.NewReader(nil)})
	assert.Equal(t, http.StatusBadRequest, response.StatusOf(err))

	require.NoError(t, media.Remove(item.ID))
	var count int64
	require.NoError(t, db.Model(&models.Media{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Unscoped().Model(&models.Media{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "row is soft-deleted, not erased")

	assert.Equal(t, http.StatusNotFound, response.StatusOf(media.Remove(item.ID)))
}
