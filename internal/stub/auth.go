package stub

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 8 * time.Hour

type signupRequest struct {
	Email    string `json:"email" binding:"required"`
	FullName string `json:"full_name"`
	Password string `json:"password" binding:"required"`
}

func (s *server) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "email and password are required"})
		return
	}

	u, ok := s.store.createUser(req.Email, req.FullName, req.Password)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "The user with this email already exists in the system"})
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (s *server) login(c *gin.Context) {
	email := c.PostForm("username")
	password := c.PostForm("password")

	u, ok := s.store.authenticate(email, password)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Incorrect email or password"})
		return
	}

	claims := jwt.MapClaims{
		"sub": u.Email,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.opts.JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not sign token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

func (s *server) currentUser(c *gin.Context) {
	u, ok := s.store.findUser(c.GetString("userEmail"))
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// requireBearer validates the Authorization header and stashes the caller's
// identity in the gin context.
func (s *server) requireBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			return []byte(s.opts.JWTSecret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
			return
		}
		email, _ := claims["sub"].(string)
		u, found := s.store.findUser(email)
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
			return
		}

		c.Set("userEmail", u.Email)
		c.Set("userId", u.ID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) int {
	return c.GetInt("userId")
}
