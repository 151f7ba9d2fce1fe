package main

import (
	"context"
	"fmt"
	"log"

	"github.com/Wikid82/lockward/internal/config"
	"github.com/Wikid82/lockward/internal/database"
	"github.com/Wikid82/lockward/internal/models"
	"github.com/Wikid82/lockward/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
	fmt.Println("✓ Database migrated successfully")

	ctx := context.Background()

	// Seed Locks
	locks := []models.Lock{
		{UID: "L1", Name: "Front Door", Description: "Main entrance"},
		{UID: "L2", Name: "Workshop", Description: "Tool room, trained members only"},
		{UID: "L3", Name: "Server Room"},
	}
	for _, lock := range locks {
		result := db.Where("uid = ?", lock.UID).FirstOrCreate(&lock)
		if result.Error != nil {
			log.Printf("Failed to seed lock %s: %v", lock.UID, result.Error)
		} else if result.RowsAffected > 0 {
			fmt.Printf("✓ Created lock: %s (%s)\n", lock.Name, lock.UID)
		} else {
			fmt.Printf("  Lock already exists: %s\n", lock.UID)
		}
	}

	// Seed Project
	project := models.Project{UID: "P1", Name: "Maker Night", URL: "https://example.com/maker-night", Owner: "admin"}
	if err := db.Where("uid = ?", project.UID).FirstOrCreate(&project).Error; err != nil {
		log.Printf("Failed to seed project %s: %v", project.UID, err)
	}

	// Seed Cards
	cards := services.NewCardService(db)
	type seedCard struct {
		uid, name string
		approved  bool
		locks     []string
		projects  []string
	}
	for _, sc := range []seedCard{
		{"A1", "Alice Admin", true, []string{"L1", "L2", "L3"}, []string{"P1"}},
		{"B1", "Bob Member", true, []string{"L1"}, nil},
		{"C1", "Carol Pending", false, []string{"L1"}, nil},
	} {
		sc := sc
		_, err := cards.Register(ctx, services.CardUpdate{
			UID:         &sc.uid,
			Name:        &sc.name,
			Approved:    &sc.approved,
			LockUIDs:    &sc.locks,
			ProjectUIDs: &sc.projects,
		}, "seed")
		if err != nil {
			if services.KindOf(err) == services.KindDuplicateIdentifier {
				fmt.Printf("  Card already exists: %s\n", sc.uid)
			} else {
				log.Printf("Failed to seed card %s: %v", sc.uid, err)
			}
			continue
		}
		fmt.Printf("✓ Created card: %s (%s)\n", sc.name, sc.uid)
	}

	fmt.Println("\n✓ Database seeding completed successfully!")
}
