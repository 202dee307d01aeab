package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agri-registry-api/internal/application/ports"
	domain "agri-registry-api/internal/domain/farmer"
	"agri-registry-api/internal/interface/api/rest/dto/farmer"
	"agri-registry-api/internal/interface/api/rest/validator"
)

type FarmerController struct {
	farmerService ports.FarmerService
	logger        *zap.Logger
}

func NewFarmerController(
	r gin.IRouter,
	farmerService ports.FarmerService,
	logger *zap.Logger,
) *FarmerController {
	fc := &FarmerController{
		farmerService: farmerService,
		logger:        logger,
	}

	r.GET(RouteFarmers, fc.GetFarmersHandler)
	r.POST(RouteFarmers, fc.CreateFarmerHandler)
	r.GET(RouteFarmer, fc.GetFarmerHandler)
	r.PATCH(RouteFarmer, fc.UpdateFarmerHandler)
	r.DELETE(RouteFarmer, fc.DeleteFarmerHandler)
	r.POST(RouteFarmerActivate, fc.ActivateFarmerHandler)
	r.POST(RouteFarmerDeactivate, fc.DeactivateFarmerHandler)
	r.GET(RouteCPFFarmer, fc.GetFarmerByCPFHandler)
	r.GET(RouteCPFValidation, fc.ValidateCPFHandler)

	return fc
}

func (fc *FarmerController) GetFarmersHandler(c *gin.Context) {
	fs, err := fc.farmerService.FindFarmers(c.Request.Context(), ports.ListFarmersInput{
		Name:   c.Query("name"),
		CPF:    c.Query("cpf"),
		Active: validator.ParseActive(c.Query("active")),
	})
	if err != nil {
		fc.writeError(c, err, "failed to get farmers")
		return
	}

	c.JSON(http.StatusOK, farmer.ResponseData{
		Data: farmer.ToResponseFarmers(fs),
	})
}

func (fc *FarmerController) GetFarmerHandler(c *gin.Context) {
	f, err := fc.farmerService.FindFarmerByID(c.Request.Context(), c.Param("farmer_id"))
	if err != nil {
		fc.writeError(c, err, "failed to get a farmer")
		return
	}

	c.JSON(http.StatusOK, farmer.ToResponseFarmer(*f))
}

func (fc *FarmerController) GetFarmerByCPFHandler(c *gin.Context) {
	f, err := fc.farmerService.FindFarmerByCPF(c.Request.Context(), c.Param("cpf"))
	if err != nil {
		fc.writeError(c, err, "failed to get a farmer")
		return
	}

	c.JSON(http.StatusOK, farmer.ToResponseFarmer(*f))
}

func (fc *FarmerController) CreateFarmerHandler(c *gin.Context) {
	var req farmer.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}
	if errs := validator.ValidateCreate(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	in, err := toCreateInput(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	f, err := fc.farmerService.CreateFarmer(c.Request.Context(), in)
	if err != nil {
		fc.writeError(c, err, "failed to create a farmer")
		return
	}

	c.JSON(http.StatusCreated, farmer.ToResponseFarmer(*f))
}

func (fc *FarmerController) UpdateFarmerHandler(c *gin.Context) {
	var req farmer.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}
	if errs := validator.ValidateUpdate(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	in, err := toUpdateInput(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	f, err := fc.farmerService.UpdateFarmer(c.Request.Context(), c.Param("farmer_id"), in)
	if err != nil {
		fc.writeError(c, err, "failed to update a farmer")
		return
	}

	c.JSON(http.StatusOK, farmer.ToResponseFarmer(*f))
}

func (fc *FarmerController) ActivateFarmerHandler(c *gin.Context) {
	f, err := fc.farmerService.ActivateFarmer(c.Request.Context(), c.Param("farmer_id"))
	if err != nil {
		fc.writeError(c, err, "failed to activate a farmer")
		return
	}

	c.JSON(http.StatusOK, farmer.ToResponseFarmer(*f))
}

func (fc *FarmerController) DeactivateFarmerHandler(c *gin.Context) {
	f, err := fc.farmerService.DeactivateFarmer(c.Request.Context(), c.Param("farmer_id"))
	if err != nil {
		fc.writeError(c, err, "failed to deactivate a farmer")
		return
	}

	c.JSON(http.StatusOK, farmer.ToResponseFarmer(*f))
}

func (fc *FarmerController) DeleteFarmerHandler(c *gin.Context) {
	if err := fc.farmerService.DeleteFarmer(c.Request.Context(), c.Param("farmer_id")); err != nil {
		fc.writeError(c, err, "failed to delete a farmer")
		return
	}

	c.Status(http.StatusNoContent)
}

func (fc *FarmerController) ValidateCPFHandler(c *gin.Context) {
	v := fc.farmerService.ValidateCPF(c.Param("cpf"))

	resp := farmer.CPFValidation{CPF: v.CPF, Valid: v.Valid}
	if cpf, err := domain.RestoreCPF(v.CPF); v.Valid && err == nil {
		resp.Formatted = cpf.Formatted()
	}

	c.JSON(http.StatusOK, resp)
}

// writeError maps domain failures to 4xx; anything else is logged and hidden behind msg.
func (fc *FarmerController) writeError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDuplicateCPF):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidCPF),
		errors.Is(err, domain.ErrDeletionNotAllowed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
		fc.logger.Error(msg, zap.Error(err), zap.String("route", c.FullPath()))
	}
}

func toCreateInput(req farmer.CreateRequest) (ports.CreateFarmerInput, error) {
	birth, err := farmer.ParseOptionalDate(req.BirthDate)
	if err != nil {
		return ports.CreateFarmerInput{}, err
	}

	return ports.CreateFarmerInput{
		FullName:  req.FullName,
		CPF:       req.CPF,
		BirthDate: birth,
		Phone:     req.Phone,
	}, nil
}

func toUpdateInput(req farmer.UpdateRequest) (ports.UpdateFarmerInput, error) {
	birth, err := farmer.ParseOptionalDate(req.BirthDate)
	if err != nil {
		return ports.UpdateFarmerInput{}, err
	}

	return ports.UpdateFarmerInput{
		FullName:  req.FullName,
		BirthDate: birth,
		Phone:     req.Phone.Patch(),
		Active:    req.Active,
	}, nil
}
