package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateDefaultsSeeded(t *testing.T) {
	templates := NewTemplateService(newTestDB(t))
	require.NoError(t, templates.EnsureDefaults())

	list, err := templates.List()
	require.NoError(t, err)
	require.Len(t, list, 3)

	// Ordered by key.
	assert.Equal(t, "admin_generic", list[0].Key)
	assert.Equal(t, "charge_completed", list[1].Key)
	assert.Equal(t, "login_attempt", list[2].Key)
}

func TestTemplateUpsert(t *testing.T) {
	templates := NewTemplateService(newTestDB(t))
	require.NoError(t, templates.EnsureDefaults())

	require.NoError(t, templates.Upsert("charge_completed", "새 제목", "<p>{{name}}</p>"))

	list, err := templates.List()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "새 제목", list[1].Subject)

	// Seeding again must not clobber the edit.
	require.NoError(t, templates.EnsureDefaults())
	list, err = templates.List()
	require.NoError(t, err)
	assert.Equal(t, "새 제목", list[1].Subject)
}

func TestTemplateUpsertValidation(t *testing.T) {
	templates := NewTemplateService(newTestDB(t))

	assert.True(t, IsValidation(templates.Upsert("", "subject", "body")))
	assert.True(t, IsValidation(templates.Upsert("key", "", "body")))
	assert.True(t, IsValidation(templates.Upsert("key", "subject", "")))
}

func TestRenderTemplate(t *testing.T) {
	out := RenderTemplate("<p>{{name}}님, {{ amount }}원</p>", map[string]string{
		"name":   "김철수",
		"amount": "50,000",
	})
	assert.Equal(t, "<p>김철수님, 50,000원</p>", out)

	// Unknown variables render empty.
	assert.Equal(t, "<p></p>", RenderTemplate("<p>{{missing}}</p>", nil))
}
