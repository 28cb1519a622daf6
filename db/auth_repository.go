package db

import (
	"log"

	"github.com/freelancenest/nest/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type AuthRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	IsEmailExist(email string) error
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id uint) (*models.User, error)
	UpdateUser(user *models.User) error
	EditUserProfile(userID uint, details *models.EditProfileRequest) error
	MarkEmailVerified(email string) error
	UpdatePassword(password string, email string) error
	UpsertUserImage(userID uint, filepath string) error
	UpdateNotifyPermission(userID uint, state string) error
	UpdateDeviceToken(userID uint, token string) error
	AddToBlackList(blacklist *models.Blacklist) error
	IsTokenInBlacklist(token string) bool
	FindRoleByName(name string) (*models.Role, error)
	UpsertFreelancerProfile(profile *models.FreelancerProfile) error
	UpsertClientProfile(profile *models.ClientProfile) error
	CreatePaymentMethod(method *models.PaymentMethod) error
	ListPaymentMethods(userID uint) ([]models.PaymentMethod, error)
	DeletePaymentMethod(userID, methodID uint) error
	SetDefaultPaymentMethod(userID, methodID uint) error
	ReplacePortfolio(userID uint, items []models.PortfolioItem) error
	ListPortfolio(userID uint) ([]models.PortfolioItem, error)
}

type authRepo struct {
	DB *gorm.DB
}

func NewAuthRepo(db *GormDB) AuthRepository {
	return &authRepo{db.DB}
}

func (a *authRepo) CreateUser(user *models.User) (*models.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}

	if user.RoleID == uuid.Nil {
		role, err := a.FindRoleByName("User")
		if err != nil {
			log.Printf("CreateUser error fetching default role: %v", err)
			return nil, err
		}
		user.RoleID = role.ID
	}

	if err := a.DB.Create(user).Error; err != nil {
		log.Printf("CreateUser error: %v", err)
		return nil, err
	}
	return user, nil
}

func (a *authRepo) IsEmailExist(email string) error {
	var count int64
	err := a.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "gorm count error")
	}
	if count > 0 {
		return errors.New("email already in use")
	}
	return nil
}

func (a *authRepo) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := a.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	err := a.DB.Preload("Role").First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) UpdateUser(user *models.User) error {
	return a.DB.Save(user).Error
}

func (a *authRepo) EditUserProfile(userID uint, details *models.EditProfileRequest) error {
	updates := map[string]interface{}{}
	if details.Fullname != "" {
		updates["fullname"] = details.Fullname
	}
	if details.Username != "" {
		updates["username"] = details.Username
	}
	if details.ThumbNailURL != "" {
		updates["thumb_nail_url"] = details.ThumbNailURL
	}
	if len(updates) == 0 {
		return nil
	}
	return a.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
}

func (a *authRepo) MarkEmailVerified(email string) error {
	return a.DB.Model(&models.User{}).Where("email = ?", email).
		Updates(map[string]interface{}{"is_email_active": true, "is_verified": true}).Error
}

func (a *authRepo) UpdatePassword(password string, email string) error {
	return a.DB.Model(&models.User{}).Where("email = ?", email).
		Update("hashed_password", password).Error
}

func (a *authRepo) UpsertUserImage(userID uint, filepath string) error {
	return a.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("thumb_nail_url", filepath).Error
}

func (a *authRepo) UpdateNotifyPermission(userID uint, state string) error {
	return a.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("notify_permission", state).Error
}

func (a *authRepo) UpdateDeviceToken(userID uint, token string) error {
	return a.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("device_token", token).Error
}

func (a *authRepo) AddToBlackList(blacklist *models.Blacklist) error {
	return a.DB.Create(blacklist).Error
}

func (a *authRepo) IsTokenInBlacklist(token string) bool {
	var count int64
	a.DB.Model(&models.Blacklist{}).Where("token = ?", token).Count(&count)
	return count > 0
}

func (a *authRepo) FindRoleByName(name string) (*models.Role, error) {
	var role models.Role
	err := a.DB.Where("name = ?", name).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (a *authRepo) UpsertFreelancerProfile(profile *models.FreelancerProfile) error {
	var existing models.FreelancerProfile
	err := a.DB.Where("user_id = ?", profile.UserID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return a.DB.Create(profile).Error
	}
	if err != nil {
		return err
	}
	profile.ID = existing.ID
	return a.DB.Save(profile).Error
}

func (a *authRepo) UpsertClientProfile(profile *models.ClientProfile) error {
	var existing models.ClientProfile
	err := a.DB.Where("user_id = ?", profile.UserID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return a.DB.Create(profile).Error
	}
	if err != nil {
		return err
	}
	profile.ID = existing.ID
	return a.DB.Save(profile).Error
}

func (a *authRepo) CreatePaymentMethod(method *models.PaymentMethod) error {
	var count int64
	if err := a.DB.Model(&models.PaymentMethod{}).Where("user_id = ?", method.UserID).Count(&count).Error; err != nil {
		return err
	}
	// first saved method becomes the default
	if count == 0 {
		method.IsDefault = true
	}
	return a.DB.Create(method).Error
}

func (a *authRepo) ListPaymentMethods(userID uint) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	err := a.DB.Where("user_id = ?", userID).Order("created_at asc").Find(&methods).Error
	return methods, err
}

func (a *authRepo) DeletePaymentMethod(userID, methodID uint) error {
	return a.DB.Transaction(func(tx *gorm.DB) error {
		var method models.PaymentMethod
		if err := tx.Where("id = ? AND user_id = ?", methodID, userID).First(&method).Error; err != nil {
			return err
		}
		if err := tx.Delete(&method).Error; err != nil {
			return err
		}
		if !method.IsDefault {
			return nil
		}
		// promote the oldest remaining method to default
		var next models.PaymentMethod
		err := tx.Where("user_id = ?", userID).Order("created_at asc").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&next).Update("is_default", true).Error
	})
}

func (a *authRepo) SetDefaultPaymentMethod(userID, methodID uint) error {
	return a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PaymentMethod{}).Where("user_id = ?", userID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		res := tx.Model(&models.PaymentMethod{}).Where("id = ? AND user_id = ?", methodID, userID).
			Update("is_default", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (a *authRepo) ReplacePortfolio(userID uint, items []models.PortfolioItem) error {
	return a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.PortfolioItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].UserID = userID
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

func (a *authRepo) ListPortfolio(userID uint) ([]models.PortfolioItem, error) {
	var items []models.PortfolioItem
	err := a.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&items).Error
	return items, err
}
