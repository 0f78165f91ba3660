package storage

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/clinic-auth/internal/auth"
	"github.com/clinicdesk/clinic-auth/internal/models"
)

const seedClinicID = 1

// seedUsers all share the password "password" in development seeds.
var seedUsers = []models.User{
	{ClinicID: seedClinicID, Username: "admin", Email: "admin@clinic.pk", Phone: "+92-300-1234567", Role: models.RoleOwner, FullName: "Dr. Ahmed Ali", IsActive: true},
	{ClinicID: seedClinicID, Username: "reception", Email: "reception@clinic.pk", Phone: "+92-300-2345678", Role: models.RoleReception, FullName: "Sarah Khan", IsActive: true},
	{ClinicID: seedClinicID, Username: "doctor1", Email: "doctor@clinic.pk", Phone: "+92-300-3456789", Role: models.RoleDoctor, FullName: "Dr. Fatima Sheikh", IsActive: true},
	{ClinicID: seedClinicID, Username: "pharmacy", Email: "pharmacy@clinic.pk", Phone: "+92-300-4567890", Role: models.RolePharmacy, FullName: "Muhammad Hassan", IsActive: true},
}

// Seed inserts the demo clinic and its users if they do not already exist.
// Existence checks instead of transactions: concurrent startups may race the
// inserts and the last writer wins, which is acceptable for seed data.
func Seed(ctx context.Context, store Storage) error {
	if _, err := store.GetClinic(ctx, seedClinicID); errors.Is(err, ErrClinicNotFound) {
		clinic := &models.Clinic{
			ID:      seedClinicID,
			Name:    "Demo Clinic Karachi",
			Address: "123 Main Road, Gulshan-e-Iqbal, Karachi",
			Phone:   "+92-21-1234567",
			Email:   "demo@clinic.pk",
		}
		if err := store.CreateClinic(ctx, clinic); err != nil {
			return err
		}
		log.Info().Str("clinic", clinic.Name).Msg("seeded demo clinic")
	} else if err != nil {
		return err
	}

	if _, err := store.GetUserByUsername(ctx, "admin"); err == nil {
		return nil
	} else if !errors.Is(err, ErrUserNotFound) {
		return err
	}

	hash, err := auth.HashPassword("password")
	if err != nil {
		return err
	}
	for _, u := range seedUsers {
		u.PasswordHash = hash
		if err := store.CreateUser(ctx, &u); err != nil {
			return err
		}
	}
	log.Info().Int("users", len(seedUsers)).Msg("seeded demo users")
	return nil
}
