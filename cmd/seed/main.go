package main

import (
	"context"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"photomarket/internal/database"
	"photomarket/internal/domain"
	"photomarket/internal/repository"
)

// Seeds a local database with a minimal marketplace: one admin, one
// client, one photographer with listings under each cancellation policy,
// and a paid booking ready to exercise cancellation and settlement.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "photomarket.db"
	}

	db, err := database.Connect(dsn, nil)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	for _, table := range []string{
		"notifications", "transferts", "remboursements", "livraisons",
		"commandes", "reservations", "listings", "users",
	} {
		db.Exec("DELETE FROM " + table)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	listings := repository.NewListingRepository(db)
	bookings := repository.NewBookingRepository(db)

	log.Println("Creating users...")
	admin := seedUser(ctx, users, "admin@photomarket.fr", "admin123", "Administrateur", domain.RoleAdmin, "")
	client := seedUser(ctx, users, "claire@exemple.fr", "client123", "Claire Dupont", domain.RoleClient, "")
	photographe := seedUser(ctx, users, "marc@exemple.fr", "photo123", "Marc Laurent", domain.RolePhotographe, "acct_marc")
	log.Printf("admin=%d client=%d photographe=%d", admin.ID, client.ID, photographe.ID)

	log.Println("Creating listings...")
	var mariage *domain.Listing
	for _, l := range []*domain.Listing{
		{PhotographeID: photographe.ID, Title: "Séance portrait", Price: 150, DepositPercent: 30, CancellationPolicy: "Flexible", Active: true},
		{PhotographeID: photographe.ID, Title: "Reportage mariage", Price: 1200, DepositPercent: 30, CancellationPolicy: "Modéré", Active: true},
		{PhotographeID: photographe.ID, Title: "Shooting éditorial", Price: 800, DepositPercent: 50, CancellationPolicy: "Strict", Active: true},
	} {
		if err := listings.Create(ctx, l); err != nil {
			log.Fatal("create listing failed:", err)
		}
		if l.CancellationPolicy == "Modéré" {
			mariage = l
		}
	}

	log.Println("Creating a paid booking...")
	b := &domain.Booking{
		ListingID:     mariage.ID,
		ClientID:      client.ID,
		PhotographeID: photographe.ID,
		ServiceDate:   time.Now().AddDate(0, 0, 14),
		TotalAmount:   mariage.Price,
		DepositAmount: mariage.DepositFor(mariage.Price),
		Status:        domain.BookingConfirmed,
		PaymentStatus: domain.PaymentCaptured,
		PaymentRef:    "ch_seed_001",
	}
	if err := bookings.Create(ctx, b); err != nil {
		log.Fatal("create booking failed:", err)
	}

	log.Printf("Seed complete: booking=%d", b.ID)
}

func seedUser(ctx context.Context, users *repository.UserRepository, email, password, name string, role domain.UserRole, account string) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	u := &domain.User{
		Email:            email,
		PasswordHash:     string(hash),
		Role:             role,
		Name:             name,
		PaymentAccountID: account,
	}
	if err := users.Create(ctx, u); err != nil {
		log.Fatal("create user failed:", err)
	}
	return u
}
