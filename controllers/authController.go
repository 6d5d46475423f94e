package controllers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/festora/festora-api/initializers"
	"github.com/festora/festora-api/middlewares"
	"github.com/festora/festora-api/models"
	"github.com/festora/festora-api/repositories"
	"github.com/festora/festora-api/services"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// Default cost for bcrypt password hashing
	bcryptCost = 10

	// Standard response messages
	msgInvalidInput          = "invalid input"
	msgUserAlreadyExists     = "user with this email already exists"
	msgFailedToHashPassword  = "failed to hash password"
	msgInvalidCredentials    = "invalid email or password"
	msgFailedToGenerateToken = "failed to generate token"
	msgInternalServerError   = "Internal server error"
	msgUserCreated           = "User created successfully."
)

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func generateJWT(user models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"email":    user.Email,
		"fullname": user.Fullname,
		"role":     user.Role,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(time.Hour * 24 * 30).Unix(),
	})

	jwtSecret := os.Getenv("JWT_SECRET")
	return token.SignedString([]byte(jwtSecret))
}

func findUserByEmail(email string) (models.User, error) {
	var user models.User
	result := initializers.DB.Where("email = ?", email).First(&user)
	return user, result.Error
}

type signupInput struct {
	Fullname string `json:"fullname" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
}

// Signup handles user registration
func Signup(ctx *gin.Context) {
	var input signupInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	if _, err := findUserByEmail(input.Email); err == nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgUserAlreadyExists)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("Database error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToHashPassword)
		return
	}

	user := models.User{
		Fullname: input.Fullname,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: hashedPassword,
		Role:     "customer",
	}
	if err := initializers.DB.Create(&user).Error; err != nil {
		log.Println("Create error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": msgUserCreated, "id": user.ID})
}

// Login verifies credentials, issues a JWT and merges any anonymous
// cart carried on the x-cart-token header into the user's cart.
func Login(ctx *gin.Context) {
	var input models.LoginData
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := findUserByEmail(input.Email)
	if err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	if err := comparePasswords(user.Password, input.Password); err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	token, err := generateJWT(user)
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}

	if cartToken := ctx.GetHeader(middlewares.CartTokenHeader); cartToken != "" {
		cartSvc := services.CartService{Repo: repositories.NewCartRepository(initializers.DB)}
		if err := cartSvc.MergeCarts(cartToken, user.ID); err != nil {
			// Login still succeeds; the guest cart stays under its token.
			log.Println("Cart merge failed:", err)
		}
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"fullname": user.Fullname,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}
