package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/cleartrack/internal/app/models"
)

// RegisterCustomValidators adds domain validators to gin's binding engine.
// clearance_decision accepts the two terminal statuses an officer can set.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("clearance_decision", func(fl validator.FieldLevel) bool {
		status := models.ClearanceStatusType(fl.Field().String())
		return status == models.StatusApproved || status == models.StatusRejected
	})
}
