package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traindesk/api-crm/internal/models"
)

func TestFileAdapterStateRoundTrip(t *testing.T) {
	adapter, err := NewFileAdapter(t.TempDir())
	require.NoError(t, err)

	state := models.NewState()
	state.Leads = append(state.Leads, models.Lead{
		ID: "l1", Name: "Ana", Status: models.LeadNew, History: []string{"created"},
	})
	state.Deals = append(state.Deals, models.Deal{
		ID: "d1", ClientID: "l1", Stage: models.StageQualification, Value: 5000,
	})
	require.NoError(t, adapter.SaveState(state))

	loaded, err := adapter.LoadState()
	require.NoError(t, err)
	assert.Equal(t, state.Leads, loaded.Leads)
	assert.Equal(t, state.Deals, loaded.Deals)
}

func TestFileAdapterMissingFileYieldsEmptyState(t *testing.T) {
	adapter, err := NewFileAdapter(t.TempDir())
	require.NoError(t, err)

	state, err := adapter.LoadState()
	require.NoError(t, err)
	assert.Empty(t, state.Leads)
	assert.NotNil(t, state.TrainerProfiles)
}

func TestFileAdapterDefaultsMissingCollections(t *testing.T) {
	// An old blob written before trainerProfiles existed must still load,
	// with the missing collection defaulted to an empty list.
	dir := t.TempDir()
	blob := `{"users":[],"leads":[{"id":"l1","name":"Ana","history":["created"]}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, StateKey+".json"), []byte(blob), 0o644))

	adapter, err := NewFileAdapter(dir)
	require.NoError(t, err)
	state, err := adapter.LoadState()
	require.NoError(t, err)

	assert.Len(t, state.Leads, 1)
	assert.NotNil(t, state.TrainerProfiles)
	assert.NotNil(t, state.Learners)
	assert.NotNil(t, state.TrainingClasses)
}

func TestFileAdapterTheme(t *testing.T) {
	adapter, err := NewFileAdapter(t.TempDir())
	require.NoError(t, err)

	theme, err := adapter.LoadTheme()
	require.NoError(t, err)
	assert.Equal(t, "light", theme)

	require.NoError(t, adapter.SaveTheme("dark"))
	theme, err = adapter.LoadTheme()
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)
}
