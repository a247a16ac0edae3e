package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/medease/appointment-backend/internal/db"
)

// every seeded account signs in with this password
const seedPassword = "Str0ng!Pass"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash seed password: %v", err)
	}

	hospitals, err := seedHospitals(context.Background(), pool, string(hash), 10)
	if err != nil {
		log.Fatalf("seed hospitals: %v", err)
	}
	doctors, err := seedDoctors(context.Background(), pool, hospitals, 80)
	if err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	patients, err := seedPatients(context.Background(), pool, string(hash), 500)
	if err != nil {
		log.Fatalf("seed patients: %v", err)
	}
	if err := seedAppointments(context.Background(), pool, patients, doctors, 1000); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

type seededDoctor struct {
	ID         uuid.UUID
	HospitalID uuid.UUID
	FromDate   time.Time
	ToDate     time.Time
}

func seedHospitals(ctx context.Context, pool *pgxpool.Pool, passwordHash string, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d hospitals", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		name := gofakeit.Company() + " Hospital"
		email := fmt.Sprintf("hospital-%d@%s", i, gofakeit.DomainName())
		city := gofakeit.City()
		pin := gofakeit.Numerify("######")

		_, err := tx.Exec(ctx, `
			INSERT INTO accounts (id, kind, email, password_hash)
			VALUES ($1, 'hospital', $2, $3)
		`, id, email, passwordHash)
		if err != nil {
			return nil, err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO hospital_profiles (account_id, name, email, phone, city, pin_code)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, id, name, email, gofakeit.Phone(), city, pin)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("hospitals seeded")
	return ids, nil
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, hospitals []uuid.UUID, count int) ([]seededDoctor, error) {
	log.Printf("seeding %d doctors", count)

	specialties := []string{
		"Dermatology",
		"Cardiology",
		"General Practice",
		"Orthopedics",
		"Endocrinology",
		"Neurology",
		"Pediatrics",
		"Psychiatry",
		"Ophthalmology",
		"ENT",
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	doctors := make([]seededDoctor, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		hospitalID := hospitals[gofakeit.Number(0, len(hospitals)-1)]
		name := "Dr. " + gofakeit.Name()
		spec := specialties[gofakeit.Number(0, len(specialties)-1)]

		from := time.Now().AddDate(0, 0, gofakeit.Number(0, 5))
		to := from.AddDate(0, 0, gofakeit.Number(14, 60))

		_, err := tx.Exec(ctx, `
			INSERT INTO doctors (id, hospital_id, name, specialty, from_date, to_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		`, id, hospitalID, name, spec, from, to)
		if err != nil {
			return nil, err
		}

		doctors = append(doctors, seededDoctor{ID: id, HospitalID: hospitalID, FromDate: from, ToDate: to})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("doctors seeded")
	return doctors, nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, passwordHash string, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d patients", count)

	const batchSize = 100

	ids := make([]uuid.UUID, 0, count)
	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return nil, err
		}

		for i := offset; i < end; i++ {
			id := uuid.New()
			name := gofakeit.Name()
			email := fmt.Sprintf("patient-%d@%s", i, gofakeit.DomainName())

			_, err := tx.Exec(ctx, `
				INSERT INTO accounts (id, kind, email, password_hash)
				VALUES ($1, 'patient', $2, $3)
			`, id, email, passwordHash)
			if err != nil {
				_ = tx.Rollback(ctx)
				return nil, err
			}

			_, err = tx.Exec(ctx, `
				INSERT INTO patient_profiles (account_id, name, email, phone)
				VALUES ($1, $2, $3, $4)
			`, id, name, email, gofakeit.Phone())
			if err != nil {
				_ = tx.Rollback(ctx)
				return nil, err
			}

			ids = append(ids, id)
		}

		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}

		log.Printf("patients seeded: %d/%d", end, count)
	}

	log.Println("patients seeded")
	return ids, nil
}

func seedAppointments(ctx context.Context, pool *pgxpool.Pool, patients []uuid.UUID, doctors []seededDoctor, count int) error {
	log.Printf("seeding %d appointments", count)

	slots := []string{"09:00", "09:30", "10:00", "10:30", "11:00", "14:00", "14:30", "15:00", "16:00"}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		patient := patients[gofakeit.Number(0, len(patients)-1)]
		doctor := doctors[gofakeit.Number(0, len(doctors)-1)]
		slot := slots[gofakeit.Number(0, len(slots)-1)]

		// keep the chosen date inside the doctor's window
		span := int(doctor.ToDate.Sub(doctor.FromDate).Hours() / 24)
		date := doctor.FromDate.AddDate(0, 0, gofakeit.Number(0, span))

		_, err := tx.Exec(ctx, `
			INSERT INTO appointments (id, patient_id, doctor_id, hospital_id, date, slot, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, 'scheduled', now(), now())
		`, uuid.New(), patient, doctor.ID, doctor.HospitalID, date, slot)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("appointments seeded")
	return nil
}
