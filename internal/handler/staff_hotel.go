package handler // handler package contains staff-facing hotel administration handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/database"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

// StaffHandler bundles the repositories staff use to manage hotels,
// room types, rooms, rates and inventory.
type StaffHandler struct {
	Tx        *database.TxRunner
	Hotels    *repository.HotelRepo
	RoomTypes *repository.RoomTypeRepo
	Rooms     *repository.RoomRepo
	Rates     *repository.RateRepo
	Inventory *repository.InventoryRepo
	Engine    *service.InventoryEngine
}

// NewStaffHandler constructs a StaffHandler and panics if any dependency is nil.
func NewStaffHandler(tx *database.TxRunner, hotels *repository.HotelRepo, roomTypes *repository.RoomTypeRepo,
	rooms *repository.RoomRepo, rates *repository.RateRepo, inventory *repository.InventoryRepo) *StaffHandler {
	if tx == nil || hotels == nil || roomTypes == nil || rooms == nil || rates == nil || inventory == nil {
		panic("nil dependency passed to NewStaffHandler")
	}
	return &StaffHandler{
		Tx:        tx,
		Hotels:    hotels,
		RoomTypes: roomTypes,
		Rooms:     rooms,
		Rates:     rates,
		Inventory: inventory,
		Engine:    service.NewInventoryEngine(inventory, roomTypes),
	}
}

// CreateHotel handles POST /v1/hotels.
func (h *StaffHandler) CreateHotel(c echo.Context) error {
	var body struct {
		Name    string  `json:"name"`
		City    string  `json:"city"`
		Address *string `json:"address"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	hotel := &model.Hotel{
		Name:     name,
		City:     strings.TrimSpace(body.City),
		Address:  body.Address,
		IsActive: true,
	}
	if err := h.Hotels.Create(c.Request().Context(), hotel); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "hotel name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create hotel"})
	}
	return c.JSON(http.StatusCreated, hotel)
}

// ListHotels handles GET /v1/hotels.
func (h *StaffHandler) ListHotels(c echo.Context) error {
	items, err := h.Hotels.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetHotel handles GET /v1/hotels/:id.
func (h *StaffHandler) GetHotel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	hotel, err := h.Hotels.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrHotelNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, hotel)
}

// UpdateHotel handles PUT/PATCH /v1/hotels/:id.
func (h *StaffHandler) UpdateHotel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Name     *string `json:"name"`
		City     *string `json:"city"`
		Address  *string `json:"address"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	hotel, err := h.Hotels.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrHotelNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must not be empty"})
		}
		hotel.Name = name
	}
	if body.City != nil {
		hotel.City = strings.TrimSpace(*body.City)
	}
	if body.Address != nil {
		hotel.Address = body.Address
	}
	if body.IsActive != nil {
		hotel.IsActive = *body.IsActive
	}
	if err := h.Hotels.Update(c.Request().Context(), hotel); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "hotel name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, hotel)
}
