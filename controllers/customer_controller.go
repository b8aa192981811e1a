package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ninjapark-backend/middleware"
	"ninjapark-backend/models"
	"ninjapark-backend/services"
	"ninjapark-backend/utils"
)

type CustomerController struct {
	Customers *services.CustomerService
	Audit     *services.AuditService
}

func NewCustomerController(customers *services.CustomerService, audit *services.AuditService) *CustomerController {
	return &CustomerController{Customers: customers, Audit: audit}
}

func (ctrl *CustomerController) ListCustomers(c *gin.Context) {
	p := utils.ParsePage(c)
	customers, total, err := ctrl.Customers.List(c.Query("search"), p)
	if err != nil {
		respondError(c, err)
		return
	}
	paginated(c, customers, p, total)
}

// GetCustomer includes the customer's bookings and waivers.
func (ctrl *CustomerController) GetCustomer(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	customer, err := ctrl.Customers.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, customer)
}

func (ctrl *CustomerController) CreateCustomer(c *gin.Context) {
	var in services.CustomerInput
	if !bindJSON(c, &in) {
		return
	}
	customer, err := ctrl.Customers.Create(in)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditCreate, "Customer", customer.ID,
		&services.AuditDetails{After: customer})
	utils.JSONMessage(c, http.StatusCreated, "Customer created successfully", customer)
}

func (ctrl *CustomerController) UpdateCustomer(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in services.CustomerInput
	if !bindJSON(c, &in) {
		return
	}
	before, after, err := ctrl.Customers.Update(id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditUpdate, "Customer", id,
		&services.AuditDetails{Before: before, After: after})
	utils.JSONMessage(c, http.StatusOK, "Customer updated successfully", after)
}

func (ctrl *CustomerController) DeleteCustomer(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	customer, err := ctrl.Customers.Delete(id)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditDelete, "Customer", id,
		&services.AuditDetails{Before: customer})
	utils.JSONMessage(c, http.StatusOK, "Customer deleted successfully", nil)
}
