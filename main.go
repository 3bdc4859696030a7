package main

import (
	"Whiskers/CronJobs"
	"Whiskers/FiberConfig"
	"Whiskers/Models"
	"Whiskers/Notifications"
	"log"
	"os"

	"github.com/joho/godotenv"

	_ "github.com/go-sql-driver/mysql"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment as-is")
	}
	setupLogging()

	Models.Connect()

	go func() {
		if err := Notifications.InitFirebase(); err != nil {
			log.Printf("Firebase disabled: %v", err)
		}

		scheduler := CronJobs.NewCareScheduler(Models.DB, true)
		if err := scheduler.Start(); err != nil {
			log.Printf("Failed to start care scheduler: %v", err)
		}
	}()

	FiberConfig.FiberConfig()
}

func setupLogging() {
	// Create logs directory if it doesn't exist
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Printf("Error creating logs directory: %v\n", err)
		return
	}

	logFile, err := os.OpenFile("logs/application.log",
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Error opening log file: %v\n", err)
		return
	}

	log.SetOutput(logFile)
	log.SetFlags(log.Ldate | log.Ltime)
}
