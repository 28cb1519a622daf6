package services

import (
	"net/http"
	"testing"

	"github.com/freelancenest/nest/db"
	"gorm.io/gorm"
)

// stubAuthRepo overrides only the payment-method calls a test exercises.
type stubAuthRepo struct {
	db.AuthRepository
	setDefaultErr error
	deleteErr     error
}

func (r *stubAuthRepo) SetDefaultPaymentMethod(userID, methodID uint) error {
	return r.setDefaultErr
}

func (r *stubAuthRepo) DeletePaymentMethod(userID, methodID uint) error {
	return r.deleteErr
}

func TestSetDefaultPaymentMethodNotFound(t *testing.T) {
	svc := &authService{authRepo: &stubAuthRepo{setDefaultErr: gorm.ErrRecordNotFound}}

	apiErr := svc.SetDefaultPaymentMethod(1, 99)
	if apiErr == nil {
		t.Fatal("expected an error for an unknown payment method")
	}
	if apiErr.Status != http.StatusNotFound {
		t.Errorf("status = %d, want %d", apiErr.Status, http.StatusNotFound)
	}
}

func TestSetDefaultPaymentMethodSuccess(t *testing.T) {
	svc := &authService{authRepo: &stubAuthRepo{}}

	if apiErr := svc.SetDefaultPaymentMethod(1, 2); apiErr != nil {
		t.Fatalf("SetDefaultPaymentMethod: %v", apiErr)
	}
}

func TestDeletePaymentMethodNotFound(t *testing.T) {
	svc := &authService{authRepo: &stubAuthRepo{deleteErr: gorm.ErrRecordNotFound}}

	apiErr := svc.DeletePaymentMethod(1, 99)
	if apiErr == nil {
		t.Fatal("expected an error for an unknown payment method")
	}
	if apiErr.Status != http.StatusNotFound {
		t.Errorf("status = %d, want %d", apiErr.Status, http.StatusNotFound)
	}
}
