package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetStoreID extracts the store ID from the Gin context
func GetStoreID(c *gin.Context) *uuid.UUID {
	storeIDVal, exists := c.Get("store_id")
	if !exists {
		return nil
	}
	storeID, ok := storeIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &storeID
}

// GetUserRole extracts the user role from the Gin context
func GetUserRole(c *gin.Context) string {
	role, exists := c.Get("user_role")
	if !exists {
		return ""
	}
	return role.(string)
}
