package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traindesk/api-crm/internal/models"
)

func TestStoreViewIsIsolated(t *testing.T) {
	store := NewStore(models.State{
		Leads: []models.Lead{{ID: "l1", Name: "Ana", History: []string{"created"}}},
	})

	view := store.View()
	view.Leads[0].Name = "changed"
	view.Leads[0].History = append(view.Leads[0].History, "tampered")

	fresh := store.View()
	assert.Equal(t, "Ana", fresh.Leads[0].Name)
	assert.Len(t, fresh.Leads[0].History, 1)
}

func TestStoreUpdateCommitsWholeSnapshot(t *testing.T) {
	store := NewStore(models.State{})
	var committed *models.State
	store.OnCommit(func(s models.State) { committed = &s })

	err := store.Update(func(s models.State) (models.State, error) {
		s.Leads = append(s.Leads, models.Lead{ID: "l1"})
		return s, nil
	})
	require.NoError(t, err)
	require.NotNil(t, committed)
	assert.Len(t, committed.Leads, 1)
	assert.Len(t, store.View().Leads, 1)
}

func TestStoreUpdateIsAllOrNothing(t *testing.T) {
	store := NewStore(models.State{
		Deals: []models.Deal{{ID: "d1", Stage: models.StageQualification}},
	})
	hookCalled := false
	store.OnCommit(func(models.State) { hookCalled = true })

	boom := errors.New("precondition failed")
	err := store.Update(func(s models.State) (models.State, error) {
		// mutate the candidate before failing; none of it may stick
		s.Deals[0].Stage = models.StageClosedWon
		s.Deals = append(s.Deals, models.Deal{ID: "d2"})
		return s, boom
	})
	require.ErrorIs(t, err, boom)

	state := store.View()
	assert.Len(t, state.Deals, 1)
	assert.Equal(t, models.StageQualification, state.Deals[0].Stage)
	assert.False(t, hookCalled)
}

func TestNewStoreNormalizesNilCollections(t *testing.T) {
	store := NewStore(models.State{})
	state := store.View()
	assert.NotNil(t, state.TrainerProfiles)
	assert.NotNil(t, state.Leads)
}
