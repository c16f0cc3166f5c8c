package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthMiddleware - Middleware xác thực JWT token
//
// Token issuance thuộc về auth service bên ngoài; ở đây chỉ verify và
// extract customer identity (id + groups) cho promotion eligibility.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Lấy token từ Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(401, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		// 2. Extract token từ "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(401, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}
		token := parts[1]

		// 3. Verify và parse JWT
		claims := jwt.MapClaims{}
		parsedToken, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})

		if err != nil || !parsedToken.Valid {
			c.JSON(401, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		// 4. Extract customer id từ claims
		customerIDStr, ok := claims["customer_id"].(string)
		if !ok {
			c.JSON(401, gin.H{"error": "invalid customer ID in token"})
			c.Abort()
			return
		}

		customerID, err := uuid.Parse(customerIDStr)
		if err != nil {
			c.JSON(401, gin.H{"error": "invalid UUID format"})
			c.Abort()
			return
		}

		c.Set("customer_id", customerID)

		// Customer groups (optional claim) dùng cho promotion customer scope
		if rawGroups, ok := claims["groups"].([]interface{}); ok {
			c.Set("customer_groups", extractGroups(rawGroups))
		}

		c.Next()
	}
}

// OptionalAuthMiddleware - Như AuthMiddleware nhưng không bắt buộc token.
// Checkout cho phép anonymous customer; identity chỉ cần cho các
// promotion có customer scope.
func OptionalAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		claims := jwt.MapClaims{}
		parsedToken, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !parsedToken.Valid {
			// token hỏng thì coi như anonymous
			c.Next()
			return
		}

		if customerIDStr, ok := claims["customer_id"].(string); ok {
			if customerID, err := uuid.Parse(customerIDStr); err == nil {
				c.Set("customer_id", customerID)
			}
		}
		if rawGroups, ok := claims["groups"].([]interface{}); ok {
			c.Set("customer_groups", extractGroups(rawGroups))
		}

		c.Next()
	}
}

func extractGroups(raw []interface{}) []string {
	groups := make([]string, 0, len(raw))
	for _, g := range raw {
		if s, ok := g.(string); ok {
			groups = append(groups, s)
		}
	}
	return groups
}
