package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/urchin/internal/client/models"
	"github.com/dmitrijs2005/urchin/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, p *models.Profile) error {
	var patient models.Patient
	hasPatient := p.Patient != nil
	if hasPatient {
		patient = *p.Patient
	}

	updated := p.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, full_name, short_name, has_patient,
			patient_birthday, patient_diagnosis_date, patient_about_me, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET full_name = excluded.full_name,
			short_name = excluded.short_name,
			has_patient = excluded.has_patient,
			patient_birthday = excluded.patient_birthday,
			patient_diagnosis_date = excluded.patient_diagnosis_date,
			patient_about_me = excluded.patient_about_me,
			updated_at = excluded.updated_at
	`, p.UserID, p.FullName, p.ShortName, hasPatient,
		patient.Birthday, patient.DiagnosisDate, patient.AboutMe, dbx.TimeValue(updated))
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) FindByID(ctx context.Context, userID string) (*models.Profile, error) {
	var (
		p          models.Profile
		hasPatient bool
		patient    models.Patient
		updated    sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, full_name, short_name, has_patient,
			patient_birthday, patient_diagnosis_date, patient_about_me, updated_at
		FROM profiles WHERE user_id = ?
	`, userID).Scan(&p.UserID, &p.FullName, &p.ShortName, &hasPatient,
		&patient.Birthday, &patient.DiagnosisDate, &patient.AboutMe, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile[%s]: %w", userID, err)
	}
	if hasPatient {
		p.Patient = &patient
	}
	if p.UpdatedAt, err = dbx.ParseTime(updated); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM profiles`); err != nil {
		return fmt.Errorf("failed to delete profiles: %w", err)
	}
	return nil
}
