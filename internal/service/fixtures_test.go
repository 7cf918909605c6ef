package service_test

import (
	"testing"
	"time"
	"vendor-upload-portal/config"
	"vendor-upload-portal/internal/model"
	"vendor-upload-portal/internal/security"
	"vendor-upload-portal/internal/service"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

const (
	testOrgID       = "0b6f6f4e-7a8a-4d7e-9a0b-000000000001"
	testWorkOrderID = "0b6f6f4e-7a8a-4d7e-9a0b-000000000002"
	testVendorID    = "0b6f6f4e-7a8a-4d7e-9a0b-000000000003"
	testRequestID   = "0b6f6f4e-7a8a-4d7e-9a0b-000000000004"
	testFileID      = "0b6f6f4e-7a8a-4d7e-9a0b-000000000005"
	testActorID     = "0b6f6f4e-7a8a-4d7e-9a0b-000000000006"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func testClient() model.ClientInfo {
	return model.ClientInfo{SourceIP: "198.51.100.7", UserAgent: "test-agent"}
}

func testPortalConfig() *config.PortalConfig {
	return &config.PortalConfig{
		BaseURL: "https://vendors.example.com/",
		Defaults: config.PortalDefaults{
			ExpiresInHours:  168,
			MaxFiles:        10,
			MaxTotalBytes:   100 << 20,
			AllowedDocTypes: []string{"invoice", "quote", "compliance", "other"},
		},
		Limits: config.PortalLimits{
			MaxExpiresInHours: 720,
			MaxFiles:          100,
			MaxTotalBytes:     2 << 30,
		},
	}
}

func testFilePolicy() *service.FilePolicy {
	return service.NewFilePolicy(&config.UploadPolicyConfig{
		MaxFileBytes:     25 << 20,
		AllowedMimeTypes: []string{"application/pdf", "image/png"},
		SignedURLTTL:     10 * time.Minute,
	})
}

// activeRequest : запрос active на 72 часа с токеном, выпущенным codec
func activeRequest(t *testing.T, codec *security.TokenCodec) (*model.UploadRequest, string) {
	t.Helper()
	secret, hash, err := codec.Issue()
	require.NoError(t, err)

	return &model.UploadRequest{
		ID:              testRequestID,
		OrgID:           testOrgID,
		WorkOrderID:     testWorkOrderID,
		VendorID:        testVendorID,
		TokenHash:       hash,
		ExpiresAt:       testNow.Add(72 * time.Hour),
		Status:          model.RequestStatusActive,
		AllowedDocTypes: pq.StringArray{"invoice"},
		MaxFiles:        3,
		MaxTotalBytes:   100 << 20,
		RequestEmail:    "billing@vendor.example",
		Message:         "Загрузите счёт",
		CreatedBy:       testActorID,
		CreatedAt:       testNow,
	}, secret
}
