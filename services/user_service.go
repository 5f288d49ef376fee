package services

import (
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/mavryk256/hotel-management/errors"
	"github.com/mavryk256/hotel-management/models"
)

// UserDirectory tra cứu thông tin người dùng cho nghiệp vụ đặt phòng
type UserDirectory struct {
	db *gorm.DB
}

func NewUserDirectory(db *gorm.DB) *UserDirectory {
	return &UserDirectory{db: db}
}

// GetUserByEmail tìm user theo email
func (s *UserDirectory) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeUserNotFound, "Không tìm thấy user với email: "+email, err)
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi truy vấn user", err)
	}
	return &user, nil
}

// GetUserByID tìm user theo ID
func (s *UserDirectory) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeUserNotFound, "Không tìm thấy user", err)
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Lỗi truy vấn user", err)
	}
	return &user, nil
}
