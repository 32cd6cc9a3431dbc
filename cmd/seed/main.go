package main

import (
	"log"
	"os"

	"clinic-assist-be/internal/model"
	"clinic-assist-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("🌱 Seeding demo clinic...")

	// Owner account
	var owner model.User
	if err := db.Where("email = ?", "owner@brightsmile.example").First(&owner).Error; err != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Error: Failed to hash password: %v", err)
		}
		hashStr := string(hash)
		owner = model.User{
			Email:        "owner@brightsmile.example",
			PasswordHash: &hashStr,
			FullName:     "Dana Whitfield",
			Role:         "owner",
			Status:       "active",
		}
		if err := db.Create(&owner).Error; err != nil {
			log.Fatalf("Error: Failed to seed owner: %v", err)
		}
		color.Green("Created owner account owner@brightsmile.example (password: changeme123)")
	} else {
		color.Yellow("Owner account already exists, skipping...")
	}

	// Front-desk staff account (receives booking and handoff alerts)
	var staff model.User
	if err := db.Where("email = ?", "frontdesk@brightsmile.example").First(&staff).Error; err != nil {
		hash, _ := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
		hashStr := string(hash)
		staff = model.User{
			Email:        "frontdesk@brightsmile.example",
			PasswordHash: &hashStr,
			FullName:     "Front Desk",
			Role:         "staff",
			Status:       "active",
		}
		if err := db.Create(&staff).Error; err != nil {
			log.Fatalf("Error: Failed to seed staff: %v", err)
		}
		color.Green("Created staff account frontdesk@brightsmile.example")
	} else {
		color.Yellow("Staff account already exists, skipping...")
	}

	// Demo bot
	var bot model.Bot
	if err := db.Where("user_id = ? AND name = ?", owner.Id, "Bright Smile Dental").First(&bot).Error; err != nil {
		bot = model.Bot{
			UserId:         owner.Id,
			Name:           "Bright Smile Dental",
			Greeting:       "Hi! I'm the Bright Smile assistant. I can answer questions about the clinic or book you an appointment.",
			ClinicAddress:  "12 Harbor Lane, Suite 3, Portsmouth",
			ClinicPhone:    "+1 555 014 2288",
			ClinicEmail:    "frontdesk@brightsmile.example",
			ClinicHours:    "Mon-Fri 8:00-17:00, Sat 9:00-13:00",
			ClinicParking:  "Free patient parking behind the building, entrance on Harbor Lane.",
			ClinicTransit:  "Bus lines 4 and 17 stop at Harbor Lane, two minutes on foot.",
			WhatsAppNumber: "+15550142288",
			Widget: datatypes.JSONMap{
				"theme":        "light",
				"accent_color": "#2f7d6d",
				"launcher":     "Chat with us",
			},
		}
		if err := db.Create(&bot).Error; err != nil {
			log.Fatalf("Error: Failed to seed bot: %v", err)
		}
		color.Green("Created demo bot 'Bright Smile Dental'")
	} else {
		color.Yellow("Demo bot already exists, skipping...")
	}

	// Knowledge base documents (left in 'pending' so the indexing worker
	// picks them up when the server runs)
	documents := []model.Document{
		{
			BotId:      bot.Id,
			Title:      "Services and Pricing",
			SourceName: "services.md",
			Content: "Bright Smile Dental offers routine check-ups, hygienist cleanings, " +
				"fillings, crowns, and teeth whitening. A standard check-up costs $85 and " +
				"takes 30 minutes. Hygienist cleanings are $110. Whitening consultations " +
				"are free of charge.",
		},
		{
			BotId:      bot.Id,
			Title:      "New Patient Guide",
			SourceName: "new-patients.md",
			Content: "New patients should arrive 15 minutes early to fill in a medical " +
				"history form. Please bring a photo ID and your insurance card. We accept " +
				"most major dental insurance plans and offer payment plans for larger " +
				"treatments.",
		},
	}

	for _, d := range documents {
		var existing model.Document
		if err := db.Where("bot_id = ? AND title = ?", d.BotId, d.Title).First(&existing).Error; err == nil {
			color.Yellow("Document '%s' already exists, skipping...", d.Title)
			continue
		}
		if err := db.Create(&d).Error; err != nil {
			log.Fatalf("Error: Failed to seed document '%s': %v", d.Title, err)
		}
		color.Green("Created document '%s'", d.Title)
	}

	color.Green("✅ Success: Seeding completed.")
}
