package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Init opens the postgres connection and ensures the schema exists.
func Init(connStr string) (*sql.DB, error) {
	database, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err := database.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := createTables(database); err != nil {
		return nil, fmt.Errorf("error creating tables: %w", err)
	}

	return database, nil
}

func createTables(database *sql.DB) error {
	courseTable := `
	CREATE TABLE IF NOT EXISTS course (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		short_description TEXT,
		description TEXT,
		trainer_name TEXT,
		price BIGINT NOT NULL,
		category TEXT,
		level TEXT,
		duration TEXT,
		lessons INTEGER DEFAULT 0,
		is_active INTEGER DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	paymentTable := `
	CREATE TABLE IF NOT EXISTS payments (
		id UUID PRIMARY KEY,
		course_id TEXT,
		course_title TEXT,
		amount BIGINT,
		currency TEXT,
		payment_method TEXT,
		phone_number TEXT,
		status TEXT,
		transaction_id TEXT UNIQUE,
		external_reference TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	enrollmentTable := `
	CREATE TABLE IF NOT EXISTS enrollments (
		id UUID PRIMARY KEY,
		course_id INTEGER,
		learner_name TEXT,
		learner_email TEXT,
		completed_lessons INTEGER[] DEFAULT '{}',
		enrolled_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		completed_at TIMESTAMP,

		CONSTRAINT fk_course
			FOREIGN KEY (course_id)
			REFERENCES course(id)
			ON DELETE CASCADE
	);`

	if _, err := database.Exec(courseTable); err != nil {
		return fmt.Errorf("error creating course table: %w", err)
	}

	if _, err := database.Exec(paymentTable); err != nil {
		return fmt.Errorf("error creating payments table: %w", err)
	}

	if _, err := database.Exec(enrollmentTable); err != nil {
		return fmt.Errorf("error creating enrollments table: %w", err)
	}

	return nil
}
