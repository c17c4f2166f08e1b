package validator

import (
	"errors"
	"strings"
	"testing"

	"safarivista/pkg/logger"
	"safarivista/pkg/model"
)

func validRequest() *model.BookingRequest {
	return &model.BookingRequest{
		TourID:       "507f1f77bcf86cd799439011",
		StartDate:    "2030-06-01",
		Participants: model.Participants{Adults: 2, Children: 1},
	}
}

func TestValidateRequest(t *testing.T) {
	v := NewBookingValidator(logger.Discard())

	tests := []struct {
		name      string
		mutate    func(r *model.BookingRequest)
		wantField string
	}{
		{"valid", func(r *model.BookingRequest) {}, ""},
		{"zero adults", func(r *model.BookingRequest) { r.Participants.Adults = 0 }, "Adults"},
		{"bad date", func(r *model.BookingRequest) { r.StartDate = "01/06/2030" }, "StartDate"},
		{"bad tour id", func(r *model.BookingRequest) { r.TourID = "tour-1" }, "TourID"},
		{"long requirements", func(r *model.BookingRequest) { r.SpecialRequirements = strings.Repeat("x", 501) }, "SpecialRequirements"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := v.ValidateRequest(req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			found := false
			for _, e := range verrs {
				if strings.HasSuffix(e.Field, tt.wantField) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on %s, got %v", tt.wantField, verrs)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := NewBookingValidator(logger.Discard())

	if err := v.ValidateUpdate(&model.BookingUpdate{}); err == nil {
		t.Error("empty update should fail")
	}
	if err := v.ValidateUpdate(&model.BookingUpdate{Status: "archived"}); err == nil {
		t.Error("unknown status should fail")
	}
	if err := v.ValidateUpdate(&model.BookingUpdate{PaymentStatus: "paid"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
