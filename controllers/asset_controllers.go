package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/assetflow/asset-movement/models"
	"github.com/assetflow/asset-movement/utils"
)

type AssetController struct {
	DB *gorm.DB
}

func NewAssetController(db *gorm.DB) *AssetController {
	return &AssetController{DB: db}
}

// GetAllAssets -> list with optional status/type/branch filters
func (ac *AssetController) GetAllAssets(c *gin.Context) {
	query := ac.DB.Model(&models.Asset{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if assetType := c.Query("type"); assetType != "" {
		query = query.Where("type = ?", assetType)
	}
	if branch := c.Query("branch_id"); branch != "" {
		query = query.Where("branch_id = ?", branch)
	}

	var assets []models.Asset
	if err := query.Find(&assets).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.MapStoreError(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of assets", assets)
}

// GetAssetByID -> detail of one asset
func (ac *AssetController) GetAssetByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("asset_id"))

	var asset models.Asset
	if err := ac.DB.Preload("Branch").Preload("Department").First(&asset, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.MapStoreError(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Asset detail", asset)
}

// CreateAsset -> inventory entry, admin only (router-enforced)
func (ac *AssetController) CreateAsset(c *gin.Context) {
	type reqBody struct {
		Name           string `json:"name" binding:"required"`
		Type           string `json:"type" binding:"required"`
		Model          string `json:"model"`
		SerialNumber   string `json:"serial_number" binding:"required"`
		TagNumber      string `json:"tag_number" binding:"required"`
		Specifications string `json:"specifications"`
		Condition      string `json:"condition"`
		BranchID       *uint  `json:"branch_id"`
		DepartmentID   *uint  `json:"department_id"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	condition := body.Condition
	if condition == "" {
		condition = "good"
	}

	asset := models.Asset{
		Name:           body.Name,
		Type:           body.Type,
		Model:          body.Model,
		SerialNumber:   body.SerialNumber,
		TagNumber:      body.TagNumber,
		Specifications: body.Specifications,
		Condition:      condition,
		Status:         models.AssetStatusAvailable,
		BranchID:       body.BranchID,
		DepartmentID:   body.DepartmentID,
	}

	if err := ac.DB.Create(&asset).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.MapStoreError(err))
		return
	}

	utils.InfoLogger.Printf("Asset created: %s (tag %s)", asset.Name, asset.TagNumber)
	utils.RespondJSON(c, http.StatusCreated, "Asset created", asset)
}

// UpdateAssetStatus -> maintenance/disposal transitions by inventory staff
func (ac *AssetController) UpdateAssetStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("asset_id"))

	var body struct {
		Status    string `json:"status" binding:"required"`
		Condition string `json:"condition"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var asset models.Asset
	if err := ac.DB.First(&asset, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.MapStoreError(err))
		return
	}

	asset.Status = body.Status
	if body.Condition != "" {
		asset.Condition = body.Condition
	}
	if err := ac.DB.Save(&asset).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.MapStoreError(err))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Asset updated", asset)
}
