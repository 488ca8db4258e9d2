package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/nrsport/console-backend/internal/auth"
	"github.com/nrsport/console-backend/internal/config"
	"github.com/nrsport/console-backend/internal/models"
	mongorepo "github.com/nrsport/console-backend/internal/repositories/mongodb"
	"github.com/nrsport/console-backend/pkg/mongodb"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bootstraps a console account. Intended for initial setup and local
// development; day-to-day account management goes through the console.
func main() {
	username := flag.String("username", "", "account username")
	password := flag.String("password", "", "account password")
	role := flag.String("role", string(auth.RoleOrgAdmin), "account role")
	orgID := flag.String("org", "", "organization id (hex, empty to generate)")
	judge := flag.Bool("judge", false, "grant the judge flag")
	flag.Parse()

	if *username == "" || *password == "" {
		log.Fatal("both -username and -password are required")
	}
	if !auth.Role(*role).Valid() {
		log.Fatalf("unknown role %q", *role)
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	client, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer client.Disconnect(context.Background())

	org := primitive.NewObjectID()
	if *orgID != "" {
		org, err = primitive.ObjectIDFromHex(*orgID)
		if err != nil {
			log.Fatalf("invalid org id: %v", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: *username,
		Password: string(hash),
		Role:     auth.Role(*role),
		OrgID:    org,
		IsJudge:  *judge,
		IsActive: true,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo := mongorepo.NewUserRepository(client.Database(cfg.MongoDB.Database))
	if err := repo.Create(ctx, user); err != nil {
		log.Fatalf("failed to create account: %v", err)
	}

	log.Printf("created %s account %q in org %s", *role, *username, org.Hex())
}
