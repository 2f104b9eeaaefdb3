package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fuelquota/internal/adapter/http/handlers/mocks"
	"fuelquota/internal/domain/entities"
	"fuelquota/internal/usecase"
	"fuelquota/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

const validRegisterBody = `{
	"registration_number": "cab-1234",
	"chassis_number": "CH-9",
	"engine_number": "EN-9",
	"fuel_type": "PETROL"
}`

func newVehicleRouter(uc *mocks.MockIVehicleUseCase) *gin.Engine {
	h := NewVehicleHandler(uc)
	r := gin.New()
	r.POST("/v1/vehicles", h.Register)
	r.GET("/v1/vehicles/:vehicle_id", h.GetByID)
	r.PATCH("/v1/vehicles/:vehicle_id/activate", h.Activate)
	r.PATCH("/v1/vehicles/:vehicle_id/deactivate", h.Deactivate)
	return r
}

func registeredVehicle() entities.Vehicle {
	now := time.Now().UTC()
	return entities.Vehicle{
		ID:                 "veh-1",
		RegistrationNumber: "CAB-1234",
		ChassisNumber:      "CH-9",
		EngineNumber:       "EN-9",
		FuelType:           entities.FuelTypePetrol,
		WeeklyQuotaLiters:  decimal.RequireFromString("20"),
		CurrentWeekUsed:    decimal.Zero,
		WeekStartDate:      entities.WeekStart(now),
		QRToken:            "tok-secret",
		IsActive:           true,
		DMTRecordRef:       "DMT-REF-1",
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func TestVehicleHandler_Register(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		r := newVehicleRouter(mocks.NewMockIVehicleUseCase(ctrl))

		req := httptest.NewRequest(http.MethodPost, "/v1/vehicles", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("registration number is uppercased before the use case", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIVehicleUseCase(ctrl)
		uc.EXPECT().RegisterVehicle(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ interface{}, cmd usecase.RegisterVehicleCommand) (entities.Vehicle, error) {
				if cmd.RegistrationNumber != "CAB-1234" {
					t.Fatalf("expected normalized registration, got %q", cmd.RegistrationNumber)
				}
				return registeredVehicle(), nil
			})
		r := newVehicleRouter(uc)

		req := httptest.NewRequest(http.MethodPost, "/v1/vehicles", bytes.NewBufferString(validRegisterBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		var payload map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
			t.Fatalf("invalid body: %v", err)
		}
		// The one and only response that carries the credential.
		if payload["qr_token"] != "tok-secret" {
			t.Fatalf("expected qr token in register response, got %v", payload["qr_token"])
		}
	})

	t.Run("duplicate yields 409", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIVehicleUseCase(ctrl)
		uc.EXPECT().RegisterVehicle(gomock.Any(), gomock.Any()).Return(entities.Vehicle{}, usecase.ErrVehicleAlreadyRegistered)
		r := newVehicleRouter(uc)

		req := httptest.NewRequest(http.MethodPost, "/v1/vehicles", bytes.NewBufferString(validRegisterBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("registry miss yields 404", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIVehicleUseCase(ctrl)
		uc.EXPECT().RegisterVehicle(gomock.Any(), gomock.Any()).Return(entities.Vehicle{}, interfaces.ErrRegistryRecordNotFound)
		r := newVehicleRouter(uc)

		req := httptest.NewRequest(http.MethodPost, "/v1/vehicles", bytes.NewBufferString(validRegisterBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("registry outage yields 502", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIVehicleUseCase(ctrl)
		uc.EXPECT().RegisterVehicle(gomock.Any(), gomock.Any()).Return(entities.Vehicle{}, interfaces.ErrRegistryUnavailable)
		r := newVehicleRouter(uc)

		req := httptest.NewRequest(http.MethodPost, "/v1/vehicles", bytes.NewBufferString(validRegisterBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
	})
}

func TestVehicleHandler_GetByID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIVehicleUseCase(ctrl)
		uc.EXPECT().GetByID(gomock.Any(), "veh-404").Return(entities.Vehicle{}, usecase.ErrVehicleNotFound)
		r := newVehicleRouter(uc)

		req := httptest.NewRequest(http.MethodGet, "/v1/vehicles/veh-404", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("success hides the qr token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIVehicleUseCase(ctrl)
		uc.EXPECT().GetByID(gomock.Any(), "veh-1").Return(registeredVehicle(), nil)
		r := newVehicleRouter(uc)

		req := httptest.NewRequest(http.MethodGet, "/v1/vehicles/veh-1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if bytes.Contains(w.Body.Bytes(), []byte("tok-secret")) {
			t.Fatalf("qr token leaked: %s", w.Body.String())
		}
		var payload map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
			t.Fatalf("invalid body: %v", err)
		}
		if payload["remaining_liters"] != "20" {
			t.Fatalf("expected 20 remaining, got %v", payload["remaining_liters"])
		}
	})
}

func TestVehicleHandler_SetActive(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("deactivate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		v := registeredVehicle()
		v.IsActive = false
		uc := mocks.NewMockIVehicleUseCase(ctrl)
		uc.EXPECT().Deactivate(gomock.Any(), "veh-1").Return(v, nil)
		r := newVehicleRouter(uc)

		req := httptest.NewRequest(http.MethodPatch, "/v1/vehicles/veh-1/deactivate", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var payload map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
			t.Fatalf("invalid body: %v", err)
		}
		if payload["is_active"] != false {
			t.Fatalf("expected inactive, got %v", payload["is_active"])
		}
	})

	t.Run("activate missing vehicle", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIVehicleUseCase(ctrl)
		uc.EXPECT().Activate(gomock.Any(), "veh-404").Return(entities.Vehicle{}, usecase.ErrVehicleNotFound)
		r := newVehicleRouter(uc)

		req := httptest.NewRequest(http.MethodPatch, "/v1/vehicles/veh-404/activate", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}
