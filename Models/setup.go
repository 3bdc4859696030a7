package Models

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "database.db"
	}
	connection, err := gorm.Open(sqlite.Open(dbPath))
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	DB = connection

	// 1. Base entities without foreign keys
	DB.AutoMigrate(
		&User{},
		&RoomType{},
		&PricingSettings{},
	)

	// 2. Models with simple foreign key relationships
	DB.AutoMigrate(
		&Customer{},    // May reference a User
		&StaffMember{}, // References User
		&Room{},        // References RoomType
		&Cat{},         // References Customer
		&DeviceToken{},
	)

	// 3. Models that depend on multiple other models
	DB.AutoMigrate(
		&Reservation{}, // References Customer, RoomType, Room and Cats
		&CareTask{},    // References Cat, Reservation and StaffMember
	)

	if _, err := GetPricingSettings(DB); err != nil {
		log.Printf("Error seeding pricing settings: %v", err)
	}

	if inventory := os.Getenv("ROOM_INVENTORY_XLSX"); inventory != "" {
		if err := SetupRooms(inventory); err != nil {
			log.Printf("Error importing room inventory: %v", err)
		}
	}
}

// SetupRooms loads the room inventory from an Excel workbook. Expected
// columns: room number, room type name, floor, shared flag (1/0) and a
// comma separated amenities list. Rooms whose number already exists are
// skipped so the import can run on every boot.
func SetupRooms(path string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("failed to open room inventory: %w", err)
	}

	rows := f.GetRows("Sheet1")
	created := 0
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue // header or malformed row
		}

		var room Room
		for columnIndex, data := range row {
			switch columnIndex {
			case 0:
				room.Number = strings.TrimSpace(data)
			case 1:
				var roomType RoomType
				name := strings.TrimSpace(data)
				if err := DB.Where("name = ?", name).FirstOrCreate(&roomType, RoomType{Name: name}).Error; err != nil {
					return fmt.Errorf("failed to resolve room type %q: %w", name, err)
				}
				room.RoomTypeID = roomType.ID
			case 2:
				room.Floor, _ = strconv.Atoi(data)
			case 3:
				room.AllowShared = data == "1"
			case 4:
				var amenities []string
				for _, a := range strings.Split(data, ",") {
					if a = strings.TrimSpace(a); a != "" {
						amenities = append(amenities, a)
					}
				}
				jsonAmenities, err := json.Marshal(amenities)
				if err != nil {
					return err
				}
				room.Amenities = jsonAmenities
			}
		}

		if room.Number == "" {
			continue
		}
		var existing Room
		if err := DB.Where("number = ?", room.Number).First(&existing).Error; err == nil {
			continue
		}
		if err := DB.Create(&room).Error; err != nil {
			return fmt.Errorf("failed to create room %q: %w", room.Number, err)
		}
		created++
	}

	log.Printf("Room inventory import complete, %d rooms created", created)
	return nil
}
