package main

import (
	"log"
	"time"

	"treasury-clearing-backend/internal/config"
	"treasury-clearing-backend/internal/events"
	"treasury-clearing-backend/internal/models"
	"treasury-clearing-backend/internal/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}

	logger := config.NewLogger()
	db := config.InitDB()

	if err := db.AutoMigrate(
		&models.Treasury{},
		&models.PaymentVoucher{},
		&models.ReceiptVoucher{},
		&models.Reconciliation{},
		&models.IntermediaryAccount{},
		&models.VoucherSequence{},
	); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	var publisher events.Publisher = &events.LogPublisher{Logger: logger}
	if brokers := config.KafkaBrokers(); len(brokers) > 0 {
		kp := events.NewKafkaPublisher(brokers, config.KafkaTopic())
		defer kp.Close()
		publisher = kp
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Business-ID", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		DB:           db,
		Log:          logger,
		Publisher:    publisher,
		Locker:       config.NewLockClient(),
		EnforceFloor: config.BalanceFloorEnforced(),
	})

	if err := r.Run(":" + config.Port()); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
