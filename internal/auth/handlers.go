package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/AquaIndex/HMPI-Backend/internal/db"
	"github.com/AquaIndex/HMPI-Backend/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var user User

	err := json.NewDecoder(r.Body).Decode(&user)
	if err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}

	if user.Username == "" || user.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	// Check if username is taken
	var existing User
	err = db.DB.First(&existing, "username = ?", user.Username).Error
	if err == nil {
		http.Error(w, "Username already taken", http.StatusConflict)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Server error hashing password", http.StatusInternalServerError)
		return
	}
	user.HashedPassword = string(hashed)
	user.UserID = uuid.NewString()
	// Registration never grants admin; that is a manual DB operation.
	user.Role = "analyst"

	// Clear plaintext before the struct goes anywhere near gorm
	user.Password = ""

	if err := db.DB.Create(&user).Error; err != nil {
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"user_id":  user.UserID,
		"username": user.Username,
	})
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var user User
	var session Session
	var existing Session

	err := json.NewDecoder(r.Body).Decode(&user)
	if err != nil {
		http.Error(w, "Invalid Data", http.StatusBadRequest)
		return
	}

	plaintext := user.Password

	err = db.DB.First(&user, "username = ?", user.Username).Error
	if err != nil {
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(plaintext))
	if err != nil {
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	// Passwords matched, set cookie
	sessionID := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
	})

	// Reuse the user's session row if one exists, otherwise create it
	db.DB.Where("user_id = ?", user.UserID).First(&existing)
	if existing.UserID != "" {
		db.DB.Model(&existing).Updates(Session{
			SessionID: sessionID,
			ExpiresAt: time.Now().Add(6 * time.Hour),
		})
	} else {
		session.SessionID = sessionID
		session.UserID = user.UserID
		session.ExpiresAt = time.Now().Add(6 * time.Hour)
		db.DB.Create(&session)
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Login successful")
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var session Session

	cookie, err := r.Cookie("session_id")
	if err != nil {
		http.Error(w, "Couldn't find cookie", http.StatusUnauthorized)
		return
	}

	err = db.DB.First(&session, "session_id = ?", cookie.Value).Error
	if err != nil {
		http.Error(w, "Couldn't find session", http.StatusUnauthorized)
		return
	}

	db.DB.Delete(&session)

	// Replace the cookie with an expired/empty one
	http.SetCookie(w, &http.Cookie{
		Name:   "session_id",
		Value:  "",
		MaxAge: -1,
		Path:   "/",
	})

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Logout successful")
}

type MeResponse struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	Organization string `json:"organization"`
}

func MeHandler(w http.ResponseWriter, r *http.Request) {
	var user User

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Failed converting ID to string", http.StatusInternalServerError)
		return
	}

	err := db.DB.First(&user, "user_id = ?", userID).Error
	if err != nil {
		http.Error(w, "Couldn't find user", http.StatusNotFound)
		return
	}

	response := MeResponse{
		UserID:       userID,
		Username:     user.Username,
		Role:         user.Role,
		Organization: user.Organization,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func UpdatePasswordHandler(w http.ResponseWriter, r *http.Request) {
	type UpdatePassword struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	var user User
	var updatepass UpdatePassword

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	err := db.DB.First(&user, "user_id = ?", userID).Error
	if err != nil {
		http.Error(w, "Couldn't find user", http.StatusUnauthorized)
		return
	}

	err = json.NewDecoder(r.Body).Decode(&updatepass)
	if err != nil || updatepass.NewPassword == "" {
		http.Error(w, "Current and new password are required", http.StatusBadRequest)
		return
	}

	// Make sure user's current password matches stored hash before updating
	err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(updatepass.CurrentPassword))
	if err != nil {
		http.Error(w, "Invalid current password", http.StatusUnauthorized)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(updatepass.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Server error hashing password", http.StatusInternalServerError)
		return
	}

	db.DB.Model(&user).Update("hashed_password", string(hashed))

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Password updated")
}
