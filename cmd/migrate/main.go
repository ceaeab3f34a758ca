package main

import (
	"log"
	"time"

	"ai-chat-be/internal/config"
	"ai-chat-be/internal/model"
	"ai-chat-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if !cfg.DatabaseConfigured() {
		log.Fatal("Error: DATABASE_URL is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.PoolConfig{
		MaxIdleConns:    1,
		MaxOpenConns:    1,
		ConnMaxLifetime: time.Minute,
	}, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}
	defer database.Close(db)

	log.Println("Step 1: Running AutoMigrate...")
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		log.Fatal("Error: AutoMigrate failed:", err)
	}

	// Constraints AutoMigrate does not express.
	log.Println("Step 2: Applying constraints...")
	constraintSQL := []string{
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'messages_role_check') THEN ALTER TABLE messages ADD CONSTRAINT messages_role_check CHECK (role IN ('user', 'assistant', 'system')); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'messages_content_check') THEN ALTER TABLE messages ADD CONSTRAINT messages_content_check CHECK (length(content) > 0); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chats_title_check') THEN ALTER TABLE chats ADD CONSTRAINT chats_title_check CHECK (length(title) > 0); END IF; END $$;`,
	}
	for _, sql := range constraintSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to apply constraint: %v. Continuing...", err)
		}
	}

	log.Println("Migration completed")
}
