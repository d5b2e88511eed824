package repository

import (
	"testing"

	"physio-clinic-service/internal/domain/entity"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.Service{},
		&entity.Appointment{},
		&entity.Schedule{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, roleID int, email string) *entity.User {
	t.Helper()
	active := true
	user := &entity.User{
		RoleID:   roleID,
		Email:    email,
		Password: "x",
		FullName: email,
		IsActive: &active,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedTherapist(t *testing.T, db *gorm.DB, email string, services ...entity.Service) *entity.User {
	t.Helper()
	therapist := seedUser(t, db, entity.RoleIDTherapist, email)
	if len(services) > 0 {
		require.NoError(t, db.Model(therapist).Association("Services").Append(services))
	}
	return therapist
}

func seedService(t *testing.T, db *gorm.DB, name string, active bool) *entity.Service {
	t.Helper()
	svc := &entity.Service{
		Name:            name,
		DurationMinutes: 45,
		PriceMinorUnits: 5000,
		IsActive:        &active,
	}
	require.NoError(t, db.Create(svc).Error)
	return svc
}
