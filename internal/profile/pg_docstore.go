package profile

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgDocumentStore struct {
	pool *pgxpool.Pool
}

func NewPgDocumentStore(pool *pgxpool.Pool) *PgDocumentStore {
	return &PgDocumentStore{pool: pool}
}

func (s *PgDocumentStore) GetPatient(ctx context.Context, id string) (*Profile, error) {
	p := &Profile{UserID: id}
	err := s.pool.QueryRow(ctx, `
		SELECT name, email, phone
		FROM patient_profiles
		WHERE account_id = $1
	`, id).Scan(&p.Name, &p.Email, &p.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// PutPatient upserts a patient profile document.
func (s *PgDocumentStore) PutPatient(ctx context.Context, p *Profile) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO patient_profiles (account_id, name, email, phone)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id) DO UPDATE
		SET name = EXCLUDED.name, email = EXCLUDED.email, phone = EXCLUDED.phone
	`, p.UserID, p.Name, p.Email, p.Phone)
	return err
}

func (s *PgDocumentStore) GetHospital(ctx context.Context, id string) (*ClientProfile, error) {
	p := &ClientProfile{HospitalID: id}
	err := s.pool.QueryRow(ctx, `
		SELECT name, email, phone, city, pin_code
		FROM hospital_profiles
		WHERE account_id = $1
	`, id).Scan(&p.HospitalName, &p.HospitalEmail, &p.HospitalPhone, &p.HospitalCity, &p.HospitalPinCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// PutHospital upserts a hospital profile document.
func (s *PgDocumentStore) PutHospital(ctx context.Context, p *ClientProfile) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO hospital_profiles (account_id, name, email, phone, city, pin_code)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (account_id) DO UPDATE
		SET name = EXCLUDED.name, email = EXCLUDED.email, phone = EXCLUDED.phone,
		    city = EXCLUDED.city, pin_code = EXCLUDED.pin_code
	`, p.HospitalID, p.HospitalName, p.HospitalEmail, p.HospitalPhone, p.HospitalCity, p.HospitalPinCode)
	return err
}
