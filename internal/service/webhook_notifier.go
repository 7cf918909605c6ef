package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"vendor-upload-portal/config"
	"vendor-upload-portal/internal/model"
	"vendor-upload-portal/internal/util"
)

// WebhookNotifier : передаёт письмо в сервис рассылки POST-запросом с JSON
type WebhookNotifier struct {
	url    string
	client *http.Client
}

func NewWebhookNotifier(cfg *config.NotifierConfig) *WebhookNotifier {
	return &WebhookNotifier{
		url:    cfg.URL,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// NotifyUploadRequested : без адреса webhook письмо только логируется
func (n *WebhookNotifier) NotifyUploadRequested(ctx context.Context, notification *model.UploadRequestNotification) error {
	if n.url == "" {
		log.Printf("[WebhookNotifier] webhook не настроен, письмо для запроса %s не отправлено", notification.RequestID)
		return nil
	}

	body, err := json.Marshal(notification)
	if err != nil {
		return util.LogError("[WebhookNotifier] ошибка сериализации письма", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return util.LogError("[WebhookNotifier] ошибка создания запроса", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return util.LogError("[WebhookNotifier] ошибка отправки письма", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return util.LogError("[WebhookNotifier] сервис рассылки ответил ошибкой", fmt.Errorf("статус %d", resp.StatusCode))
	}

	return nil
}
