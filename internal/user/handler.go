package user

import (
	"strings"

	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type UpdateUserRequest struct {
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

type ChangeRoleRequest struct {
	Role string `json:"role"`
}

type ChangeStatusRequest struct {
	IsActive *bool `json:"is_active"`
}

// GET /api/users?role=waiter&is_active=true (admin ve üstü)
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("created_at DESC")

		if role := c.Query("role"); role != "" {
			q = q.Where("role = ?", role)
		}
		if activeStr := c.Query("is_active"); activeStr != "" {
			q = q.Where("is_active = ?", activeStr == "true")
		}

		var users []models.User
		if err := q.Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcılar listelenemedi")
		}
		return c.JSON(users)
	}
}

// GET /api/users/:id (admin ve üstü)
func GetUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kullanıcı bulunamadı")
		}
		return c.JSON(user)
	}
}

// POST /api/users (admin ve üstü) — admin istediği rolde personel oluşturabilir
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Email == "" || body.Password == "" || body.FirstName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "email, password ve first_name zorunlu")
		}
		if len(body.Password) < 6 {
			return fiber.NewError(fiber.StatusBadRequest, "Şifre en az 6 karakter olmalı")
		}

		role := models.UserRole(body.Role)
		if body.Role == "" {
			role = models.RoleTrainee
		}
		if !role.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz rol")
		}
		// Super admin sadece super admin tarafından oluşturulabilir
		if role == models.RoleSuperAdmin {
			actor, err := auth.CurrentUser(c)
			if err != nil || actor.Role != models.RoleSuperAdmin {
				return fiber.NewError(fiber.StatusForbidden, "Bu rolü atama yetkiniz yok")
			}
		}

		var existing models.User
		if err := database.DB.Where("email = ?", body.Email).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "Bu e-posta adresi zaten kayıtlı")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre oluşturulamadı")
		}

		user := models.User{
			Email:        body.Email,
			PasswordHash: string(hash),
			FirstName:    strings.TrimSpace(body.FirstName),
			LastName:     strings.TrimSpace(body.LastName),
			Role:         role,
			IsActive:     true,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(user)
	}
}

// PUT /api/users/:id (admin ve üstü)
func UpdateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kullanıcı bulunamadı")
		}

		var body UpdateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Email != nil {
			email := strings.TrimSpace(strings.ToLower(*body.Email))
			if email == "" {
				return fiber.NewError(fiber.StatusBadRequest, "E-posta boş olamaz")
			}
			var existing models.User
			if err := database.DB.Where("email = ? AND id <> ?", email, user.ID).First(&existing).Error; err == nil {
				return fiber.NewError(fiber.StatusConflict, "Bu e-posta adresi zaten kayıtlı")
			}
			user.Email = email
		}
		if body.Password != nil {
			if len(*body.Password) < 6 {
				return fiber.NewError(fiber.StatusBadRequest, "Şifre en az 6 karakter olmalı")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.DefaultCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Şifre oluşturulamadı")
			}
			user.PasswordHash = string(hash)
		}
		if body.FirstName != nil {
			user.FirstName = strings.TrimSpace(*body.FirstName)
		}
		if body.LastName != nil {
			user.LastName = strings.TrimSpace(*body.LastName)
		}

		if err := database.DB.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı güncellenemedi")
		}
		return c.JSON(user)
	}
}

// PUT /api/users/:id/role (admin ve üstü)
func ChangeRoleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kullanıcı bulunamadı")
		}

		var body ChangeRoleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		role := models.UserRole(body.Role)
		if !role.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz rol")
		}

		actor, err := auth.CurrentUser(c)
		if err != nil {
			return fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
		}
		// Super admin rolleri sadece super admin yönetebilir
		if (role == models.RoleSuperAdmin || user.Role == models.RoleSuperAdmin) && actor.Role != models.RoleSuperAdmin {
			return fiber.NewError(fiber.StatusForbidden, "Bu rolü değiştirme yetkiniz yok")
		}
		if actor.ID == user.ID {
			return fiber.NewError(fiber.StatusBadRequest, "Kendi rolünüzü değiştiremezsiniz")
		}

		user.Role = role
		if err := database.DB.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rol güncellenemedi")
		}
		return c.JSON(fiber.Map{"message": "Rol güncellendi", "user": user})
	}
}

// PUT /api/users/:id/status (admin ve üstü) — hesabı aktif/pasif yapar
func ChangeStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kullanıcı bulunamadı")
		}

		var body ChangeStatusRequest
		if err := c.BodyParser(&body); err != nil || body.IsActive == nil {
			return fiber.NewError(fiber.StatusBadRequest, "is_active alanı zorunlu")
		}

		actorID, err := auth.CurrentUserID(c)
		if err == nil && actorID == user.ID {
			return fiber.NewError(fiber.StatusBadRequest, "Kendi hesabınızı pasife alamazsınız")
		}

		user.IsActive = *body.IsActive
		if err := database.DB.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Durum güncellenemedi")
		}

		msg := "Hesap aktifleştirildi"
		if !user.IsActive {
			msg = "Hesap pasife alındı"
		}
		return c.JSON(fiber.Map{"message": msg, "user": user})
	}
}

// DELETE /api/users/:id (admin ve üstü)
func DeleteUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kullanıcı bulunamadı")
		}

		actor, err := auth.CurrentUser(c)
		if err != nil {
			return fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
		}
		if actor.ID == user.ID {
			return fiber.NewError(fiber.StatusBadRequest, "Kendi hesabınızı silemezsiniz")
		}
		if user.Role == models.RoleSuperAdmin && actor.Role != models.RoleSuperAdmin {
			return fiber.NewError(fiber.StatusForbidden, "Bu kullanıcıyı silme yetkiniz yok")
		}

		if err := database.DB.Delete(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı silinemedi")
		}
		return c.JSON(fiber.Map{"message": "Kullanıcı silindi"})
	}
}
