package main

import (
	"context"
	"fmt"
	"log"

	"lexresearch-backend/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg := config.Load()

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()

	schemaSQL := `
CREATE TABLE IF NOT EXISTS legal_authorities (
    corpus VARCHAR(100) NOT NULL,
    position INTEGER NOT NULL,

    -- Raw record exactly as authored; normalized at load time
    record JSONB NOT NULL,

    created_at TIMESTAMP DEFAULT NOW(),

    PRIMARY KEY (corpus, position)
);`

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		log.Fatalf("Failed to create legal_authorities table: %v", err)
	}
	log.Println("✓ Created legal_authorities table")

	indexes := []struct {
		name string
		sql  string
	}{
		{
			name: "Record id lookup",
			sql:  "CREATE INDEX IF NOT EXISTS idx_authority_record_id ON legal_authorities ((record->>'id'));",
		},
		{
			name: "Record JSONB filtering",
			sql:  "CREATE INDEX IF NOT EXISTS idx_authority_record_gin ON legal_authorities USING gin (record);",
		},
	}

	for _, idx := range indexes {
		if _, err := pool.Exec(ctx, idx.sql); err != nil {
			log.Printf("Warning: Failed to create index %s: %v", idx.name, err)
		} else {
			log.Printf("✓ Created index: %s", idx.name)
		}
	}

	fmt.Println("\n✅ Database schema created successfully!")
	fmt.Println("   Table: legal_authorities")
}
