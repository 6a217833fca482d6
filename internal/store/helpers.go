package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/healthhack/healthmate/internal/models"
)

// scanAccount scans an Account from a single sql.Row, returning nil when the
// row does not exist.
func scanAccount(row *sql.Row) (*models.Account, error) {
	var a models.Account
	var displayName, photoURL sql.NullString
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &displayName, &photoURL, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan account failed: %w", err)
	}
	a.DisplayName = displayName.String
	a.PhotoURL = photoURL.String
	return &a, nil
}

// scanProfile scans a UserProfile from a single sql.Row, returning nil when
// the row does not exist.
func scanProfile(row *sql.Row) (*models.UserProfile, error) {
	var p models.UserProfile
	var name, age, height, weight, bmi, bio, avatar, email sql.NullString
	err := row.Scan(&p.UserID, &name, &age, &height, &weight, &bmi, &bio, &avatar, &email, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile failed: %w", err)
	}
	p.Name = name.String
	p.Age = age.String
	p.Height = height.String
	p.Weight = weight.String
	p.BMI = bmi.String
	p.Bio = bio.String
	p.Avatar = avatar.String
	p.Email = email.String
	return &p, nil
}
