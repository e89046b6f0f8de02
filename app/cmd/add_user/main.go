package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/smugflex-sys/Final-sub000/app/config"
	"github.com/smugflex-sys/Final-sub000/app/database"
	"github.com/smugflex-sys/Final-sub000/app/models"
)

func main() {
	email := flag.String("email", "", "login email")
	password := flag.String("password", "", "initial password")
	first := flag.String("first", "", "first name")
	last := flag.String("last", "", "last name")
	role := flag.String("role", string(models.RoleAdmin), "admin, teacher, accountant or parent")
	flag.Parse()

	if *email == "" || *password == "" || *first == "" || *last == "" {
		flag.Usage()
		os.Exit(2)
	}
	if !models.Role(*role).Valid() {
		fmt.Printf("Unknown role %q\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load(".")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	store := database.NewPostgresStore(db)
	defer store.Close()

	user := &models.User{
		FirstName: *first,
		LastName:  *last,
		Email:     *email,
		Role:      models.Role(*role),
	}
	if err := database.CreateUser(ctx, store, user, *password, cfg.BcryptCost); err != nil {
		fmt.Printf("Error creating user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("User created successfully: %s %s (%s, %s)\n", user.FirstName, user.LastName, user.Email, user.Role)
}
