package localization_test

import (
	"complaintdesk/backend/internal/localization"
	"complaintdesk/backend/internal/models"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_LabelsEveryEnumValue(t *testing.T) {
	l, err := localization.Default()
	require.NoError(t, err)

	for _, c := range models.AllCategories {
		assert.NotEqual(t, "category."+string(c), l.Label("en", "category", string(c)))
	}
	for _, d := range models.AllDepartments {
		assert.NotEqual(t, "department."+string(d), l.Label("en", "department", string(d)))
	}
	for _, s := range models.AllStatuses {
		assert.NotEqual(t, "status."+string(s), l.Label("en", "status", string(s)))
	}

	assert.Equal(t, "Under Review", l.Label("en", "status", "under-review"))
	assert.Equal(t, "IT Services", l.Label("en", "department", "it-services"))
	assert.True(t, l.HasLanguage("uk"))
}

func TestGetString_Fallbacks(t *testing.T) {
	fsys := fstest.MapFS{
		"en.json":    {Data: []byte(`{"status.resolved":"Resolved","only.en":"English"}`)},
		"uk.json":    {Data: []byte(`{"status.resolved":"Вирішено"}`)},
		"README.txt": {Data: []byte("ignored")},
	}
	l, err := localization.NewLocalizer(fsys)
	require.NoError(t, err)

	assert.Equal(t, "Вирішено", l.GetString("uk", "status.resolved"))
	assert.Equal(t, "English", l.GetString("uk", "only.en"), "missing key falls back to English")
	assert.Equal(t, "English", l.GetString("de", "only.en"), "missing language falls back to English")
	assert.Equal(t, "no.such.key", l.GetString("en", "no.such.key"))
	assert.False(t, l.HasLanguage("de"))
}

func TestNewLocalizer_BadJSON(t *testing.T) {
	fsys := fstest.MapFS{"en.json": {Data: []byte(`{not json`)}}
	_, err := localization.NewLocalizer(fsys)
	assert.Error(t, err)
}

// TestDefault_LanguagesShareKeys keeps uk.json complete relative to en.json.
func TestDefault_LanguagesShareKeys(t *testing.T) {
	l, err := localization.Default()
	require.NoError(t, err)

	for _, key := range []string{"notify.created", "notify.status_changed", "notify.responded", "notify.feedback", "bot.stats", "bot.pending_none", "bot.unknown_command"} {
		assert.NotEqual(t, key, l.GetString("en", key))
		assert.NotEqual(t, l.GetString("en", key), l.GetString("uk", key), key)
	}
}
