package Controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Whiskers/Models"
)

// RoomController handles room and room type API endpoints
type RoomController struct {
	DB *gorm.DB
}

func NewRoomController(db *gorm.DB) *RoomController {
	return &RoomController{DB: db}
}

// GetRoomTypes retrieves all room types with their rooms
func (c *RoomController) GetRoomTypes(ctx *fiber.Ctx) error {
	var roomTypes []Models.RoomType
	if result := c.DB.Preload("Rooms").Find(&roomTypes); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve room types"})
	}
	return ctx.JSON(roomTypes)
}

// CreateRoomType creates a new room type
func (c *RoomController) CreateRoomType(ctx *fiber.Ctx) error {
	var input Models.RoomType
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if strings.TrimSpace(input.Name) == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Room type name is required"})
	}

	roomType := Models.RoomType{
		Name:             strings.TrimSpace(input.Name),
		Description:      input.Description,
		BasePricePerDay:  input.BasePricePerDay,
		Capacity:         input.Capacity,
		OverbookingLimit: input.OverbookingLimit,
	}
	if result := c.DB.Create(&roomType); result.Error != nil {
		if strings.Contains(result.Error.Error(), "UNIQUE constraint") ||
			strings.Contains(result.Error.Error(), "Duplicate entry") {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A room type with this name already exists"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create room type"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(roomType)
}

// UpdateRoomType updates an existing room type
func (c *RoomController) UpdateRoomType(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid room type ID"})
	}

	var roomType Models.RoomType
	if result := c.DB.First(&roomType, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Room type not found"})
	}

	var input Models.RoomType
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	c.DB.Model(&roomType).Updates(map[string]interface{}{
		"name":              input.Name,
		"description":       input.Description,
		"base_price_per_day": input.BasePricePerDay,
		"capacity":          input.Capacity,
		"overbooking_limit": input.OverbookingLimit,
	})
	return ctx.JSON(roomType)
}

// DeleteRoomType soft deletes a room type
func (c *RoomController) DeleteRoomType(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid room type ID"})
	}

	var roomType Models.RoomType
	if result := c.DB.First(&roomType, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Room type not found"})
	}

	var roomCount int64
	c.DB.Model(&Models.Room{}).Where("room_type_id = ?", id).Count(&roomCount)
	if roomCount > 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Room type still has rooms"})
	}

	c.DB.Delete(&roomType)
	return ctx.JSON(fiber.Map{"message": "Room type deleted successfully"})
}

// GetRooms retrieves all rooms with their type
func (c *RoomController) GetRooms(ctx *fiber.Ctx) error {
	var rooms []Models.Room
	if result := c.DB.Preload("RoomType").Find(&rooms); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve rooms"})
	}
	return ctx.JSON(rooms)
}

// GetRoom retrieves a single room by ID
func (c *RoomController) GetRoom(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid room ID"})
	}

	var room Models.Room
	if result := c.DB.Preload("RoomType").First(&room, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Room not found"})
	}
	return ctx.JSON(room)
}

// CreateRoom creates a new room
func (c *RoomController) CreateRoom(ctx *fiber.Ctx) error {
	var input Models.Room
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if strings.TrimSpace(input.Number) == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Room number is required"})
	}

	var roomType Models.RoomType
	if result := c.DB.First(&roomType, input.RoomTypeID); result.Error != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Room type not found"})
	}

	room := Models.Room{
		RoomTypeID:  input.RoomTypeID,
		Number:      strings.TrimSpace(input.Number),
		Floor:       input.Floor,
		AllowShared: input.AllowShared,
		Amenities:   input.Amenities,
		Notes:       input.Notes,
	}
	if result := c.DB.Create(&room); result.Error != nil {
		if strings.Contains(result.Error.Error(), "UNIQUE constraint") ||
			strings.Contains(result.Error.Error(), "Duplicate entry") {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A room with this number already exists"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create room"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(room)
}

// UpdateRoom updates an existing room
func (c *RoomController) UpdateRoom(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid room ID"})
	}

	var room Models.Room
	if result := c.DB.First(&room, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Room not found"})
	}

	var input Models.Room
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	c.DB.Model(&room).Updates(map[string]interface{}{
		"number":         input.Number,
		"floor":          input.Floor,
		"allow_shared":   input.AllowShared,
		"amenities":      input.Amenities,
		"out_of_service": input.OutOfService,
		"notes":          input.Notes,
	})
	return ctx.JSON(room)
}

// DeleteRoom soft deletes a room
func (c *RoomController) DeleteRoom(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid room ID"})
	}

	var room Models.Room
	if result := c.DB.First(&room, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Room not found"})
	}

	c.DB.Delete(&room)
	return ctx.JSON(fiber.Map{"message": "Room deleted successfully"})
}
