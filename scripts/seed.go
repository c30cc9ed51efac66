package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/mdung/RentMaster-sub000/internal/adapters/database"
	"github.com/mdung/RentMaster-sub000/internal/adapters/search"
	"github.com/mdung/RentMaster-sub000/internal/application/services"
	"github.com/mdung/RentMaster-sub000/internal/infrastructure/clients/postgres"
	"github.com/mdung/RentMaster-sub000/internal/infrastructure/clients/typesense"
	"github.com/mdung/RentMaster-sub000/pkg/config"
)

// seed fills the back-office tables with a small demo portfolio and
// pushes it into the search backend. Intended for local development.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				search_interactions,
				search_config,
				maintenance_requests,
				payments,
				documents,
				units,
				tenants,
				properties
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	now := time.Now()

	// 1. Properties
	type property struct {
		id, title, description, city, propType string
		bedrooms, bathrooms                    int
		rent                                   float64
	}
	properties := []property{
		{uuid.New().String(), "Garden Apartment Downtown", "Bright two bedroom apartment with a shared garden, walking distance to transit", "Portland", "apartment", 2, 1, 1450},
		{uuid.New().String(), "Riverside Loft", "Open plan loft overlooking the river, recently renovated kitchen", "Portland", "loft", 1, 1, 1750},
		{uuid.New().String(), "Maple Street House", "Three bedroom family house with garage and fenced backyard", "Eugene", "house", 3, 2, 2100},
		{uuid.New().String(), "Cedar Court Studio", "Compact studio near campus, utilities included", "Eugene", "studio", 0, 1, 850},
		{uuid.New().String(), "Hilltop Townhouse", "Two story townhouse with mountain views and in-unit laundry", "Bend", "townhouse", 3, 2, 1950},
	}

	for _, p := range properties {
		_, err := pgClient.DB().ExecContext(ctx, `
			INSERT INTO properties (id, title, description, city, property_type,
			                        bedrooms, bathrooms, rent_amount, status, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'active', $9)
		`, p.id, p.title, p.description, p.city, p.propType, p.bedrooms, p.bathrooms, p.rent, now)
		if err != nil {
			log.Printf("Failed to create property %s: %v", p.title, err)
		}
	}

	// 2. Units per property, mostly occupied
	unitStatuses := []string{"occupied", "occupied", "occupied", "vacant"}
	for _, p := range properties {
		for i, status := range unitStatuses {
			_, err := pgClient.DB().ExecContext(ctx, `
				INSERT INTO units (id, property_id, unit_number, rent_amount, status, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, uuid.New().String(), p.id, i+1, p.rent, status, now)
			if err != nil {
				log.Printf("Failed to create unit for %s: %v", p.title, err)
			}
		}
	}

	// 3. Tenants
	type tenant struct {
		id, name, email, phone string
	}
	tenants := []tenant{
		{uuid.New().String(), "Ana Reyes", "ana.reyes@example.com", "+1-503-555-0110"},
		{uuid.New().String(), "Ben Okafor", "ben.okafor@example.com", "+1-503-555-0147"},
		{uuid.New().String(), "Carla Nguyen", "carla.nguyen@example.com", "+1-541-555-0123"},
		{uuid.New().String(), "Dmitri Volkov", "dmitri.volkov@example.com", "+1-541-555-0186"},
	}
	for _, tn := range tenants {
		_, err := pgClient.DB().ExecContext(ctx, `
			INSERT INTO tenants (id, name, email, phone, status, updated_at)
			VALUES ($1, $2, $3, $4, 'active', $5)
		`, tn.id, tn.name, tn.email, tn.phone, now)
		if err != nil {
			log.Printf("Failed to create tenant %s: %v", tn.name, err)
		}
	}

	// 4. Payments, one paid and one overdue per property
	for _, p := range properties {
		for _, status := range []string{"paid", "overdue"} {
			_, err := pgClient.DB().ExecContext(ctx, `
				INSERT INTO payments (id, property_id, amount, status, due_date)
				VALUES ($1, $2, $3, $4, $5)
			`, uuid.New().String(), p.id, p.rent, status, now.AddDate(0, 0, -7))
			if err != nil {
				log.Printf("Failed to create payment for %s: %v", p.title, err)
			}
		}
	}

	// 5. Maintenance requests
	type request struct {
		propertyIdx int
		status      string
		priority    string
		cost        float64
		closed      bool
	}
	requests := []request{
		{0, "open", "high", 0, false},
		{0, "closed", "medium", 180, true},
		{1, "in_progress", "medium", 0, false},
		{2, "closed", "low", 95, true},
		{3, "closed", "high", 420, true},
	}
	for _, r := range requests {
		var closedAt interface{}
		if r.closed {
			closedAt = now.AddDate(0, 0, -2)
		}
		_, err := pgClient.DB().ExecContext(ctx, `
			INSERT INTO maintenance_requests (id, property_id, status, priority, cost, created_at, closed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, uuid.New().String(), properties[r.propertyIdx].id, r.status, r.priority, r.cost, now.AddDate(0, 0, -10), closedAt)
		if err != nil {
			log.Printf("Failed to create maintenance request: %v", err)
		}
	}

	// 6. Documents
	type document struct {
		title, content, tags string
	}
	documents := []document{
		{"Standard Lease Agreement", "Twelve month residential lease template with pet addendum", "lease,legal"},
		{"Move-in Checklist", "Room by room condition checklist signed at move-in", "operations"},
		{"Maintenance Vendor List", "Approved plumbing, electrical and HVAC vendors with contact details", "maintenance,vendors"},
	}
	for _, d := range documents {
		_, err := pgClient.DB().ExecContext(ctx, `
			INSERT INTO documents (id, title, content, tags, updated_at)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.New().String(), d.title, d.content, d.tags, now)
		if err != nil {
			log.Printf("Failed to create document %s: %v", d.title, err)
		}
	}

	log.Println("Database seeded")

	// 7. Push everything into the search backend when one is reachable.
	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Typesense unreachable, skipping index seed: %v", err)
		return
	}

	backend := search.NewTypesenseAdapter(tsClient, cfg.Search.IndexPrefix)
	indexer := services.NewIndexService(database.NewDocumentAdapter(pgClient), backend)
	indexed, err := indexer.ReindexAll(ctx)
	if err != nil {
		log.Fatalf("Failed to index seeded data: %v", err)
	}
	log.Printf("Indexed %d documents", indexed)
}
