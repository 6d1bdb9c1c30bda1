package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Kariqs/mealplan-api/models"
	"github.com/Kariqs/mealplan-api/services"
	"github.com/Kariqs/mealplan-api/storage"
	"github.com/gin-gonic/gin"
)

const maxImageSize = 5 << 20

type MenuController struct {
	menu        *services.MenuService
	uploader    storage.ImageUploader
	imagePrefix string
	now         func() time.Time
}

// NewMenuController wires the catalogue handlers. uploader may be nil when no bucket is
// configured; image uploads then answer 503.
func NewMenuController(menu *services.MenuService, uploader storage.ImageUploader, imagePrefix string) *MenuController {
	return &MenuController{menu: menu, uploader: uploader, imagePrefix: imagePrefix, now: time.Now}
}

func (c *MenuController) GetMeals(ctx *gin.Context) {
	meals, err := c.menu.ListMeals(ctx.Request.Context())
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"meals": meals})
}

func (c *MenuController) GetMeal(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	meal, err := c.menu.GetMeal(ctx.Request.Context(), id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"meal": meal})
}

func (c *MenuController) GetAllMeals(ctx *gin.Context) {
	meals, err := c.menu.AllMeals(ctx.Request.Context())
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"meals": meals})
}

func (c *MenuController) CreateMeal(ctx *gin.Context) {
	var mealData models.MealData
	if err := ctx.ShouldBindJSON(&mealData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	meal, err := c.menu.CreateMeal(ctx.Request.Context(), mealData)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": "Meal created successfully", "meal": meal})
}

func (c *MenuController) UpdateMeal(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var mealData models.MealData
	if err := ctx.ShouldBindJSON(&mealData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	meal, err := c.menu.UpdateMeal(ctx.Request.Context(), id, mealData)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"meal": meal})
}

func (c *MenuController) DeleteMeal(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := c.menu.DeleteMeal(ctx.Request.Context(), id); err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgDeleted})
}

// UploadMealImage stores the "image" form file in S3 and points the meal at it.
func (c *MenuController) UploadMealImage(ctx *gin.Context) {
	if c.uploader == nil {
		sendErrorResponse(ctx, http.StatusServiceUnavailable, "Image storage is not configured")
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "No file uploaded", err)
		return
	}
	if file.Size > maxImageSize {
		sendErrorResponse(ctx, http.StatusRequestEntityTooLarge, "Image is larger than 5MB")
		return
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		sendErrorResponse(ctx, http.StatusBadRequest, "Only image files are accepted")
		return
	}

	// Validate meal exists before paying for the upload
	if _, err := c.menu.AdminMeal(ctx.Request.Context(), id); err != nil {
		handleServiceError(ctx, err)
		return
	}

	f, err := file.Open()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid form data", err)
		return
	}
	defer f.Close()

	key := storage.MealImageKey(c.imagePrefix, id, file.Filename, c.now())
	url, err := c.uploader.Upload(ctx.Request.Context(), key, contentType, f)
	if err != nil {
		respondWithError(ctx, http.StatusBadGateway, "Failed to upload image", err)
		return
	}

	meal, err := c.menu.SetMealImage(ctx.Request.Context(), id, url)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Image uploaded", "url": url, "meal": meal})
}

func (c *MenuController) GetWeeks(ctx *gin.Context) {
	weeks, err := c.menu.ListWeeks(ctx.Request.Context())
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"weeks": weeks})
}

func (c *MenuController) GetAllWeeks(ctx *gin.Context) {
	weeks, err := c.menu.AllWeeks(ctx.Request.Context())
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"weeks": weeks})
}

func (c *MenuController) GetWeekMenu(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	week, err := c.menu.WeekMenu(ctx.Request.Context(), id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"week": week})
}

func (c *MenuController) CreateWeek(ctx *gin.Context) {
	var weekData models.WeekData
	if err := ctx.ShouldBindJSON(&weekData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	week, err := c.menu.CreateWeek(ctx.Request.Context(), weekData)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"week": week})
}

func (c *MenuController) UpdateWeek(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var weekData models.WeekData
	if err := ctx.ShouldBindJSON(&weekData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	week, err := c.menu.UpdateWeek(ctx.Request.Context(), id, weekData)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"week": week})
}

func (c *MenuController) SetWeekMenu(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var menuData models.MenuData
	if err := ctx.ShouldBindJSON(&menuData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	week, err := c.menu.SetWeekMenu(ctx.Request.Context(), id, menuData.MealIDs)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"week": week})
}
