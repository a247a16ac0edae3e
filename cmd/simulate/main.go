package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medease/appointment-backend/internal/db"
)

// The simulator drives the full hospital flow over HTTP: sign in as a
// hospital account, then reschedule, complete and read appointments. Seeded
// accounts all share SIM_PASSWORD.

type SimConfig struct {
	APIBaseURL       string
	Duration         time.Duration
	Workers          int
	RescheduleRatio  float64
	CompleteRatio    float64
	ReadRatio        float64
	AppointmentLimit int
	Password         string
	PostgresDSN      string
}

type simAppointment struct {
	ID        uuid.UUID
	PatientID uuid.UUID
}

type simDoctor struct {
	ID       uuid.UUID
	FromDate time.Time
	ToDate   time.Time
}

type DataPool struct {
	HospitalEmail string
	Appointments  []simAppointment
	Doctors       []simDoctor
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, success bool, conflict bool) {
	atomic.AddInt64(&om.Total, 1)
	if success {
		atomic.AddInt64(&om.Success, 1)
	} else if conflict {
		atomic.AddInt64(&om.Conflict, 1)
	} else {
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)

	sort.Slice(latencies, func(i, j int) bool {
		return latencies[i] < latencies[j]
	})

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]

	p50Idx := len(latencies) * 50 / 100
	if p50Idx >= len(latencies) {
		p50Idx = len(latencies) - 1
	}
	p50 = latencies[p50Idx]

	p95Idx := len(latencies) * 95 / 100
	if p95Idx >= len(latencies) {
		p95Idx = len(latencies) - 1
	}
	p95 = latencies[p95Idx]

	return avg, min, max, p50, p95
}

type Metrics struct {
	SignIn     OperationMetrics
	Reschedule OperationMetrics
	Complete   OperationMetrics
	ReadByID   OperationMetrics
	List       OperationMetrics
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *http.Client
	metrics Metrics
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("simulator starting")

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	log.Printf("config: duration=%s workers=%d reschedule=%.2f complete=%.2f read=%.2f",
		cfg.Duration, cfg.Workers, cfg.RescheduleRatio, cfg.CompleteRatio, cfg.ReadRatio)

	// Load data from Postgres
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pgPool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pgPool.Close()

	dataPool, err := loadDataPool(ctx, pgPool, cfg)
	if err != nil {
		log.Fatalf("load data pool: %v", err)
	}

	log.Printf("loaded: %d appointments, %d doctors, hospital=%s",
		len(dataPool.Appointments), len(dataPool.Doctors), dataPool.HospitalEmail)

	sim := &Simulator{
		config: cfg,
		pool:   dataPool,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	sim.Run()
	sim.PrintReport()
}

func loadConfig() SimConfig {
	cfg := SimConfig{
		APIBaseURL:       getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Duration:         getSimDuration("SIM_DURATION", 30*time.Second),
		Workers:          getInt("SIM_WORKERS", 10),
		RescheduleRatio:  getFloat("SIM_RESCHEDULE_RATIO", 0.4),
		CompleteRatio:    getFloat("SIM_COMPLETE_RATIO", 0.2),
		ReadRatio:        getFloat("SIM_READ_RATIO", 0.4),
		AppointmentLimit: getInt("SIM_APPOINTMENT_LIMIT", 2000),
		Password:         getEnv("SIM_PASSWORD", "Str0ng!Pass"),
		PostgresDSN:      os.Getenv("POSTGRES_DSN"),
	}

	// Normalize ratios
	total := cfg.RescheduleRatio + cfg.CompleteRatio + cfg.ReadRatio
	if total > 0 {
		cfg.RescheduleRatio /= total
		cfg.CompleteRatio /= total
		cfg.ReadRatio /= total
	}

	return cfg
}

func validateConfig(cfg SimConfig) error {
	if cfg.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required")
	}
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("SIM_DURATION must be > 0")
	}
	return nil
}

func loadDataPool(ctx context.Context, pool *pgxpool.Pool, cfg SimConfig) (*DataPool, error) {
	dataPool := &DataPool{}

	err := pool.QueryRow(ctx, `
		SELECT email FROM accounts WHERE kind = 'hospital' LIMIT 1
	`).Scan(&dataPool.HospitalEmail)
	if err != nil {
		return nil, fmt.Errorf("load hospital account: %w", err)
	}

	rows, err := pool.Query(ctx, `
		SELECT id, patient_id FROM appointments
		WHERE status <> 'completed'
		LIMIT $1
	`, cfg.AppointmentLimit)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a simAppointment
		if err := rows.Scan(&a.ID, &a.PatientID); err != nil {
			return nil, err
		}
		dataPool.Appointments = append(dataPool.Appointments, a)
	}

	rows, err = pool.Query(ctx, `
		SELECT id, from_date, to_date FROM doctors
	`)
	if err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d simDoctor
		if err := rows.Scan(&d.ID, &d.FromDate, &d.ToDate); err != nil {
			return nil, err
		}
		dataPool.Doctors = append(dataPool.Doctors, d)
	}

	if len(dataPool.Appointments) == 0 {
		return nil, fmt.Errorf("no appointments loaded")
	}
	if len(dataPool.Doctors) == 0 {
		return nil, fmt.Errorf("no doctors loaded")
	}

	return dataPool, nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	log.Printf("starting simulation for %s with %d workers", s.config.Duration, s.config.Workers)

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	log.Println("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	token, ok := s.signIn(ctx, workerID)
	if !ok {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
			r := rng.Float64()
			if r < s.config.RescheduleRatio {
				s.doReschedule(ctx, rng, token)
			} else if r < s.config.RescheduleRatio+s.config.CompleteRatio {
				s.doComplete(ctx, rng, token)
			} else {
				if rng.Intn(2) == 0 {
					s.doReadByID(ctx, rng, token)
				} else {
					s.doList(ctx, rng, token)
				}
			}
		}
	}
}

func (s *Simulator) signIn(ctx context.Context, workerID int) (string, bool) {
	start := time.Now()

	reqBody := map[string]any{
		"role":     "hospital",
		"email":    s.pool.HospitalEmail,
		"password": s.config.Password,
	}
	body, _ := json.Marshal(reqBody)

	req, _ := http.NewRequestWithContext(ctx, "POST", s.config.APIBaseURL+"/auth/signin", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Device-ID", fmt.Sprintf("sim-worker-%d", workerID))

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	if err != nil {
		s.metrics.SignIn.Record(latency, false, false)
		log.Printf("worker %d sign-in error: %v", workerID, err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.metrics.SignIn.Record(latency, false, false)
		log.Printf("worker %d sign-in status %d", workerID, resp.StatusCode)
		return "", false
	}

	var auth struct {
		AccessToken string `json:"access_token"`
	}
	bodyBytes, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(bodyBytes, &auth)

	s.metrics.SignIn.Record(latency, auth.AccessToken != "", false)
	return auth.AccessToken, auth.AccessToken != ""
}

func (s *Simulator) authedRequest(ctx context.Context, method, url, token string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (s *Simulator) doReschedule(ctx context.Context, rng *rand.Rand, token string) {
	appt := s.pool.Appointments[rng.Intn(len(s.pool.Appointments))]
	doctor := s.pool.Doctors[rng.Intn(len(s.pool.Doctors))]

	span := int(doctor.ToDate.Sub(doctor.FromDate).Hours() / 24)
	if span < 0 {
		return
	}
	date := doctor.FromDate.AddDate(0, 0, rng.Intn(span+1))

	start := time.Now()

	body, _ := json.Marshal(map[string]string{
		"doctor_id": doctor.ID.String(),
		"date":      date.Format("2006-01-02"),
		"slot":      "10:30",
	})

	req, _ := s.authedRequest(ctx, "POST",
		fmt.Sprintf("%s/appointments/%s/reschedule", s.config.APIBaseURL, appt.ID.String()), token, body)

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	conflict := false
	if err == nil {
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			success = true
		} else if resp.StatusCode == http.StatusConflict {
			conflict = true
		}
	}

	s.metrics.Reschedule.Record(latency, success, conflict)
}

func (s *Simulator) doComplete(ctx context.Context, rng *rand.Rand, token string) {
	appt := s.pool.Appointments[rng.Intn(len(s.pool.Appointments))]

	start := time.Now()

	remark := "recovered well"
	body, _ := json.Marshal(map[string]string{
		"health_remark": remark,
	})

	req, _ := s.authedRequest(ctx, "POST",
		fmt.Sprintf("%s/appointments/%s/complete", s.config.APIBaseURL, appt.ID.String()), token, body)
	req.Header.Set("X-Patient-ID", appt.PatientID.String())

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	conflict := false
	if err == nil {
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			success = true
		} else if resp.StatusCode == http.StatusConflict {
			// already completed by a previous iteration
			conflict = true
		}
	}

	s.metrics.Complete.Record(latency, success, conflict)
}

func (s *Simulator) doReadByID(ctx context.Context, rng *rand.Rand, token string) {
	appt := s.pool.Appointments[rng.Intn(len(s.pool.Appointments))]

	start := time.Now()

	req, _ := s.authedRequest(ctx, "GET",
		fmt.Sprintf("%s/appointments/%s", s.config.APIBaseURL, appt.ID.String()), token, nil)

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	if err == nil {
		defer resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
	}

	s.metrics.ReadByID.Record(latency, success, false)
}

func (s *Simulator) doList(ctx context.Context, rng *rand.Rand, token string) {
	appt := s.pool.Appointments[rng.Intn(len(s.pool.Appointments))]

	start := time.Now()

	req, _ := s.authedRequest(ctx, "GET",
		fmt.Sprintf("%s/appointments?patient_id=%s&limit=20&offset=0", s.config.APIBaseURL, appt.PatientID.String()), token, nil)

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	if err == nil {
		defer resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
	}

	s.metrics.List.Record(latency, success, false)
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Duration: %s\n", s.config.Duration)
	fmt.Printf("Workers: %d\n", s.config.Workers)
	fmt.Println()

	printOperationReport("Sign In", &s.metrics.SignIn)
	printOperationReport("Reschedule", &s.metrics.Reschedule)
	printOperationReport("Complete", &s.metrics.Complete)
	printOperationReport("Read by ID", &s.metrics.ReadByID)
	printOperationReport("List by Patient", &s.metrics.List)
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	conflict := atomic.LoadInt64(&om.Conflict)
	errCount := atomic.LoadInt64(&om.Error)

	avg, min, max, p50, p95 := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if conflict > 0 {
		fmt.Printf("  Conflicts: %d (%.1f%%)\n", conflict, float64(conflict)/float64(total)*100)
	}
	if errCount > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", errCount, float64(errCount)/float64(total)*100)
	}
	fmt.Printf("  Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		avg.Round(time.Millisecond), min.Round(time.Millisecond), max.Round(time.Millisecond),
		p50.Round(time.Millisecond), p95.Round(time.Millisecond))
	fmt.Println()
}

// Helper functions

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getSimDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
