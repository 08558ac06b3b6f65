package repositories

import (
	"errors"
	"fmt"
	"strings"

	"rental-marketplace-backend/db/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateUser(user *models.User) (*models.User, error)
	DeleteUser(id string) error
	GetAllUsers() ([]models.User, error)
	GetFilteredUsers(pageSize int, offset int, filters map[string]string) ([]models.User, int64, error)
	RecordLogin(userID uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func (r *userRepository) CreateUser(user *models.User) (*models.User, error) {
	hashedPassword, err := HashPassword(user.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Check if user exists (including soft-deleted)
	var existing models.User
	err = r.db.Unscoped().Where("email = ?", user.Email).First(&existing).Error
	if err == nil {
		if existing.DeletedAt.Valid {
			// Soft-deleted: restore with the new details
			existing.DeletedAt = gorm.DeletedAt{}
			existing.FirstName = user.FirstName
			existing.LastName = user.LastName
			existing.Password = hashedPassword
			existing.Phone = user.Phone
			existing.Role = user.Role
			existing.Active = user.Active
			existing.CreatedBy = user.CreatedBy

			if err := r.db.Unscoped().Save(&existing).Error; err != nil {
				return nil, fmt.Errorf("failed to restore soft-deleted user: %w", err)
			}
			return &existing, nil
		}
		return nil, fmt.Errorf("a user with that email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}

	user.ID = uuid.New()
	user.Password = hashedPassword

	if err := r.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user in database: %w", err)
	}

	return user, nil
}

func (r *userRepository) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, fmt.Errorf("user account is disabled")
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", email).Error
	return &user, err
}

func (r *userRepository) UpdateUser(user *models.User) (*models.User, error) {
	result := r.db.Save(user)
	if result.Error != nil {
		return nil, result.Error
	}
	return user, nil
}

func (r *userRepository) DeleteUser(id string) error {
	result := r.db.Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) GetAllUsers() ([]models.User, error) {
	var users []models.User
	err := r.db.Find(&users).Error
	return users, err
}

func (r *userRepository) RecordLogin(userID uuid.UUID) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_login_at", gorm.Expr("NOW()")).Error
}

func (r *userRepository) GetFilteredUsers(pageSize int, offset int, filters map[string]string) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	db := r.db.Model(&models.User{})

	for key, value := range filters {
		switch key {
		case "active":
			if strings.ToLower(value) == "true" {
				db = db.Where("active = ?", true)
			} else if strings.ToLower(value) == "false" {
				db = db.Where("active = ?", false)
			}
		case "role":
			db = db.Where("role = ?", strings.ToLower(value))
		case "email":
			db = db.Where("email ILIKE ?", "%"+value+"%")
		case "start_date":
			db = db.Where("created_at >= ?", value)
		case "end_date":
			db = db.Where("created_at <= ?", value)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Limit(pageSize).Offset(offset).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
