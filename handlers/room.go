package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"roomdesk/database/repository"
	"roomdesk/models"
)

var RoomRepo repository.RoomRepository

// ListRooms returns all rooms.
func ListRooms(c *gin.Context) {
	rooms, err := RoomRepo.FindAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GetRoom returns one room by id.
func GetRoom(c *gin.Context) {
	room, err := RoomRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, room)
}

// ListAvailableRooms returns rooms that seat at least minCapacity, optionally
// narrowed to rooms free in a [start,end) window and matching a location
// fragment.
func ListAvailableRooms(c *gin.Context) {
	min, err := strconv.Atoi(c.DefaultQuery("minCapacity", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "minCapacity must be an integer"})
		return
	}
	start, err1 := parseTime(c.Query("start"))
	end, err2 := parseTime(c.Query("end"))
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end must be RFC3339 timestamps"})
		return
	}
	location := strings.ToLower(strings.TrimSpace(c.Query("location")))

	rooms, err := RoomRepo.FindByMinCapacity(c.Request.Context(), min)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "details": err.Error()})
		return
	}

	out := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		if location != "" && !strings.Contains(strings.ToLower(room.Location), location) {
			continue
		}
		if !start.IsZero() && !end.IsZero() {
			free, _, err := BookingService.Availability(c.Request.Context(), room.ID, start, end)
			if err != nil {
				respondBookingError(c, err)
				return
			}
			if !free {
				continue
			}
		}
		out = append(out, room)
	}
	c.JSON(http.StatusOK, out)
}

// GetRoomEquipment returns the room's installed equipment.
func GetRoomEquipment(c *gin.Context) {
	room, err := RoomRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, room.Equipment)
}

// ListRoomBookings returns a room's bookings, optionally filtered by status.
func ListRoomBookings(c *gin.Context) {
	bookings, err := BookingService.ByRoom(c.Request.Context(), c.Param("id"), c.Query("status"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}
