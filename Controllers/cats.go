package Controllers

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Whiskers/Models"
)

const catPhotoDir = "CatPhotos"

// CatController handles cat-related API endpoints
type CatController struct {
	DB *gorm.DB
}

func NewCatController(db *gorm.DB) *CatController {
	return &CatController{DB: db}
}

// GetCats retrieves all cats, optionally filtered by customer
func (c *CatController) GetCats(ctx *fiber.Ctx) error {
	query := c.DB.Model(&Models.Cat{})
	if customerID := ctx.Query("customer_id"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	var cats []Models.Cat
	if result := query.Find(&cats); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve cats"})
	}
	return ctx.JSON(cats)
}

// GetCat retrieves a single cat by ID
func (c *CatController) GetCat(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid cat ID"})
	}

	var cat Models.Cat
	if result := c.DB.First(&cat, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Cat not found"})
	}
	return ctx.JSON(cat)
}

// CreateCat creates a new cat under an existing customer
func (c *CatController) CreateCat(ctx *fiber.Ctx) error {
	var input Models.Cat
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if strings.TrimSpace(input.Name) == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cat name is required"})
	}

	var customer Models.Customer
	if result := c.DB.First(&customer, input.CustomerID); result.Error != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Customer not found"})
	}

	cat := Models.Cat{
		CustomerID:   input.CustomerID,
		Name:         strings.TrimSpace(input.Name),
		Breed:        input.Breed,
		BirthDate:    input.BirthDate,
		Gender:       input.Gender,
		Neutered:     input.Neutered,
		DietaryInfo:  input.DietaryInfo,
		MedicalNotes: input.MedicalNotes,
	}
	if result := c.DB.Create(&cat); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create cat"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(cat)
}

// UpdateCat updates an existing cat
func (c *CatController) UpdateCat(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid cat ID"})
	}

	var cat Models.Cat
	if result := c.DB.First(&cat, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Cat not found"})
	}

	var input Models.Cat
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	c.DB.Model(&cat).Updates(Models.Cat{
		Name:         input.Name,
		Breed:        input.Breed,
		BirthDate:    input.BirthDate,
		Gender:       input.Gender,
		Neutered:     input.Neutered,
		DietaryInfo:  input.DietaryInfo,
		MedicalNotes: input.MedicalNotes,
	})
	return ctx.JSON(cat)
}

// DeleteCat soft deletes a cat
func (c *CatController) DeleteCat(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid cat ID"})
	}

	var cat Models.Cat
	if result := c.DB.First(&cat, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Cat not found"})
	}

	c.DB.Delete(&cat)
	return ctx.JSON(fiber.Map{"message": "Cat deleted successfully"})
}

// UploadCatPhoto stores the uploaded photo and derives a 320px thumbnail
// for the dashboard list views.
func (c *CatController) UploadCatPhoto(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid cat ID"})
	}

	var cat Models.Cat
	if result := c.DB.First(&cat, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Cat not found"})
	}

	fileHeader, err := ctx.FormFile("photo")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Photo file is required"})
	}

	if err := os.MkdirAll(catPhotoDir, 0755); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to prepare photo storage"})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Photo must be a jpg or png"})
	}

	photoPath := filepath.Join(catPhotoDir, fmt.Sprintf("cat_%d%s", cat.ID, ext))
	if err := ctx.SaveFile(fileHeader, photoPath); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save photo"})
	}

	img, err := imaging.Open(photoPath)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Uploaded file is not a readable image"})
	}

	thumb := imaging.Fit(img, 320, 320, imaging.Lanczos)
	thumbPath := filepath.Join(catPhotoDir, fmt.Sprintf("cat_%d_thumb%s", cat.ID, ext))
	if err := imaging.Save(thumb, thumbPath); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create thumbnail"})
	}

	c.DB.Model(&cat).Updates(map[string]interface{}{
		"photo_path":     photoPath,
		"thumbnail_path": thumbPath,
	})

	return ctx.JSON(fiber.Map{
		"message":   "Photo uploaded successfully",
		"photo":     photoPath,
		"thumbnail": thumbPath,
	})
}
