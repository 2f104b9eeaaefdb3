package registry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"fuelquota/internal/domain/entities"
	"fuelquota/internal/usecase/interfaces"
)

var ErrMissingDMTBaseURL = errors.New("missing DMT_REGISTRY_BASE_URL")

const defaultRequestTimeout = 5 * time.Second

// DMTGateway calls the Department of Motor Traffic vehicle registry over HTTP.
//
// The registry is only consulted at onboarding, so availability here never
// affects dispensing. With DMT_REGISTRY_MOCK enabled the gateway fabricates a
// deterministic record from the identity triple, which keeps local runs and
// tests independent of the real service.
type DMTGateway struct {
	baseURL  string
	apiKey   string
	client   *http.Client
	mockMode bool
}

var _ interfaces.IRegistryGateway = (*DMTGateway)(nil)

func NewDMTGateway() (*DMTGateway, error) {
	if isRegistryMockEnabled() {
		log.Printf("[registry][gateway] mock mode enabled")
		return &DMTGateway{mockMode: true}, nil
	}

	baseURL := strings.TrimRight(os.Getenv("DMT_REGISTRY_BASE_URL"), "/")
	if baseURL == "" {
		log.Printf("[registry][gateway] missing DMT_REGISTRY_BASE_URL")
		return nil, ErrMissingDMTBaseURL
	}

	log.Printf("[registry][gateway] DMT registry client initialized base_url=%s", baseURL)
	return &DMTGateway{
		baseURL: baseURL,
		apiKey:  os.Getenv("DMT_REGISTRY_API_KEY"),
		client:  &http.Client{Timeout: defaultRequestTimeout},
	}, nil
}

// dmtRecordPayload is the registry's wire shape for a vehicle record.
type dmtRecordPayload struct {
	Reference          string `json:"reference"`
	OwnerName          string `json:"owner_name"`
	OwnerNIC           string `json:"owner_nic"`
	RegistrationNumber string `json:"registration_number"`
	ChassisNumber      string `json:"chassis_number"`
	EngineNumber       string `json:"engine_number"`
	VehicleClass       string `json:"vehicle_class"`
}

func (g *DMTGateway) ValidateVehicle(ctx context.Context, registrationNumber, chassisNumber, engineNumber string) (entities.OwnerRecord, error) {
	if g != nil && g.mockMode {
		return g.mockRecord(registrationNumber, chassisNumber, engineNumber), nil
	}
	if g == nil || g.client == nil {
		return entities.OwnerRecord{}, interfaces.ErrRegistryUnavailable
	}

	query := url.Values{}
	query.Set("registration_number", registrationNumber)
	query.Set("chassis_number", chassisNumber)
	query.Set("engine_number", engineNumber)
	endpoint := fmt.Sprintf("%s/v1/vehicles/lookup?%s", g.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return entities.OwnerRecord{}, err
	}
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	log.Printf("[registry][gateway] lookup start registration_number=%s", registrationNumber)
	resp, err := g.client.Do(req)
	if err != nil {
		log.Printf("[registry][gateway] lookup request failed err=%v", err)
		return entities.OwnerRecord{}, interfaces.ErrRegistryUnavailable
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		log.Printf("[registry][gateway] lookup not found registration_number=%s", registrationNumber)
		return entities.OwnerRecord{}, interfaces.ErrRegistryRecordNotFound
	case resp.StatusCode >= 500:
		log.Printf("[registry][gateway] lookup server error status=%d", resp.StatusCode)
		return entities.OwnerRecord{}, interfaces.ErrRegistryUnavailable
	case resp.StatusCode != http.StatusOK:
		log.Printf("[registry][gateway] lookup unexpected status=%d", resp.StatusCode)
		return entities.OwnerRecord{}, interfaces.ErrRegistryUnavailable
	}

	var payload dmtRecordPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("[registry][gateway] lookup decode failed err=%v", err)
		return entities.OwnerRecord{}, interfaces.ErrRegistryUnavailable
	}

	record := entities.OwnerRecord(payload)

	// A record that does not match the identity triple exactly is treated as
	// absent rather than trusted partially.
	if !strings.EqualFold(record.RegistrationNumber, registrationNumber) ||
		!strings.EqualFold(record.ChassisNumber, chassisNumber) ||
		!strings.EqualFold(record.EngineNumber, engineNumber) {
		log.Printf("[registry][gateway] lookup identity mismatch registration_number=%s", registrationNumber)
		return entities.OwnerRecord{}, interfaces.ErrRegistryRecordNotFound
	}

	log.Printf("[registry][gateway] lookup success reference=%s", record.Reference)
	return record, nil
}

func (g *DMTGateway) mockRecord(registrationNumber, chassisNumber, engineNumber string) entities.OwnerRecord {
	sum := sha256.Sum256([]byte(registrationNumber + "|" + chassisNumber + "|" + engineNumber))
	ref := "DMT-" + strings.ToUpper(hex.EncodeToString(sum[:6]))
	log.Printf("[registry][gateway] mock lookup registration_number=%s reference=%s", registrationNumber, ref)
	return entities.OwnerRecord{
		Reference:          ref,
		OwnerName:          "Mock Owner",
		OwnerNIC:           "900000000V",
		RegistrationNumber: registrationNumber,
		ChassisNumber:      chassisNumber,
		EngineNumber:       engineNumber,
		VehicleClass:       "MOTOR_CAR",
	}
}

func isRegistryMockEnabled() bool {
	for _, key := range []string{"DMT_REGISTRY_MOCK", "REGISTRY_GATEWAY_MOCK"} {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		switch v {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}
