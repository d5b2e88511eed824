package repository

import (
	"testing"

	"physio-clinic-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindActiveByIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewServiceRepository()

	manual := seedService(t, db, "Manual therapy", true)
	retired := seedService(t, db, "Ultrasound", false)
	needling := seedService(t, db, "Dry needling", true)

	services, err := repo.FindActiveByIDs(db, []int{manual.ID, retired.ID, needling.ID})
	require.NoError(t, err)

	names := make([]string, len(services))
	for i, s := range services {
		names[i] = s.Name
	}
	assert.ElementsMatch(t, []string{"Manual therapy", "Dry needling"}, names)
}

func TestServiceFindAll_OrderedByName(t *testing.T) {
	db := newTestDB(t)
	repo := NewServiceRepository()

	seedService(t, db, "Ultrasound", false)
	seedService(t, db, "Dry needling", true)
	seedService(t, db, "Manual therapy", true)

	services, err := repo.FindAll(db)
	require.NoError(t, err)
	require.Len(t, services, 3)
	assert.Equal(t, "Dry needling", services[0].Name)
	assert.Equal(t, "Manual therapy", services[1].Name)
	assert.Equal(t, "Ultrasound", services[2].Name)
}

func TestServiceUpdate_Deactivates(t *testing.T) {
	db := newTestDB(t)
	repo := NewServiceRepository()

	svc := seedService(t, db, "Manual therapy", true)
	inactive := false
	svc.IsActive = &inactive
	require.NoError(t, repo.Update(db, svc))

	var reloaded entity.Service
	require.NoError(t, db.First(&reloaded, "id = ?", svc.ID).Error)
	require.NotNil(t, reloaded.IsActive)
	assert.False(t, *reloaded.IsActive)
}
