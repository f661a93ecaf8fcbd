package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/assetflow/asset-movement/models"
	"github.com/assetflow/asset-movement/utils"
)

type OrgController struct {
	DB *gorm.DB
}

func NewOrgController(db *gorm.DB) *OrgController {
	return &OrgController{DB: db}
}

// GetAllDepartments -> used by the request form's department picker
func (oc *OrgController) GetAllDepartments(c *gin.Context) {
	var departments []models.Department
	if err := oc.DB.Preload("Head").Find(&departments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.MapStoreError(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of departments", departments)
}

// GetAllBranches
func (oc *OrgController) GetAllBranches(c *gin.Context) {
	var branches []models.Branch
	if err := oc.DB.Find(&branches).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.MapStoreError(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of branches", branches)
}

// CreateDepartment -> admin setup
func (oc *OrgController) CreateDepartment(c *gin.Context) {
	var body struct {
		Name   string `json:"name" binding:"required"`
		HeadID *uint  `json:"head_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	department := models.Department{Name: body.Name, HeadID: body.HeadID}
	if err := oc.DB.Create(&department).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.MapStoreError(err))
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Department created", department)
}

// CreateBranch -> admin setup
func (oc *OrgController) CreateBranch(c *gin.Context) {
	var body struct {
		Name     string `json:"name" binding:"required"`
		Location string `json:"location"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	branch := models.Branch{Name: body.Name, Location: body.Location}
	if err := oc.DB.Create(&branch).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.MapStoreError(err))
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Branch created", branch)
}
