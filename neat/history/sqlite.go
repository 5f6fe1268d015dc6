package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run Run) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, dataset, seed, config, champion_fitness, champion)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			started_at = excluded.started_at,
			dataset = excluded.dataset,
			seed = excluded.seed,
			config = excluded.config,
			champion_fitness = excluded.champion_fitness,
			champion = excluded.champion
	`, run.ID, run.StartedAt.UnixNano(), run.Dataset, int64(run.Seed), run.Config, run.ChampionFitness, run.Champion)
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (Run, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Run{}, false, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT id, started_at, dataset, seed, config, champion_fitness, champion
		FROM runs WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, false, nil
		}
		return Run{}, false, err
	}
	return run, true, nil
}

func (s *SQLiteStore) Runs(ctx context.Context) ([]Run, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, started_at, dataset, seed, config, champion_fitness, champion
		FROM runs ORDER BY started_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) RecordGeneration(ctx context.Context, r GenerationRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	var exists int
	err = db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, r.RunID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("record generation %d: %w %s", r.Generation, ErrUnknownRun, r.RunID)
	}
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO generations (
			run_id, generation, population, species, next_species, stagnant, reset,
			fitness_mean, fitness_std, fitness_max, fitness_best, fitness_sum, duration_ms
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, generation) DO UPDATE SET
			population = excluded.population,
			species = excluded.species,
			next_species = excluded.next_species,
			stagnant = excluded.stagnant,
			reset = excluded.reset,
			fitness_mean = excluded.fitness_mean,
			fitness_std = excluded.fitness_std,
			fitness_max = excluded.fitness_max,
			fitness_best = excluded.fitness_best,
			fitness_sum = excluded.fitness_sum,
			duration_ms = excluded.duration_ms
	`, r.RunID, r.Generation, r.Population, r.Species, r.NextSpecies, r.Stagnant, r.Reset,
		r.MeanFitness, r.StdDevFitness, r.MaxFitness, r.BestFitness, r.FitnessSum, r.DurationMS)
	return err
}

func (s *SQLiteStore) Generations(ctx context.Context, runID string) ([]GenerationRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT run_id, generation, population, species, next_species, stagnant, reset,
			fitness_mean, fitness_std, fitness_max, fitness_best, fitness_sum, duration_ms
		FROM generations WHERE run_id = ? ORDER BY generation
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []GenerationRecord{}
	for rows.Next() {
		var r GenerationRecord
		if err := rows.Scan(&r.RunID, &r.Generation, &r.Population, &r.Species, &r.NextSpecies, &r.Stagnant, &r.Reset,
			&r.MeanFitness, &r.StdDevFitness, &r.MaxFitness, &r.BestFitness, &r.FitnessSum, &r.DurationMS); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run       Run
		startedAt int64
		seed      int64
	)
	if err := row.Scan(&run.ID, &startedAt, &run.Dataset, &seed, &run.Config, &run.ChampionFitness, &run.Champion); err != nil {
		return Run{}, err
	}
	run.StartedAt = time.Unix(0, startedAt).UTC()
	run.Seed = uint64(seed)
	return run, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at INTEGER NOT NULL,
			dataset TEXT NOT NULL,
			seed INTEGER NOT NULL,
			config TEXT NOT NULL,
			champion_fitness REAL NOT NULL,
			champion TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS generations (
			run_id TEXT NOT NULL REFERENCES runs(id),
			generation INTEGER NOT NULL,
			population INTEGER NOT NULL,
			species INTEGER NOT NULL,
			next_species INTEGER NOT NULL,
			stagnant INTEGER NOT NULL,
			reset INTEGER NOT NULL,
			fitness_mean REAL NOT NULL,
			fitness_std REAL NOT NULL,
			fitness_max REAL NOT NULL,
			fitness_best REAL NOT NULL,
			fitness_sum REAL NOT NULL,
			duration_ms REAL NOT NULL,
			PRIMARY KEY (run_id, generation)
		);
	`)
	return err
}
