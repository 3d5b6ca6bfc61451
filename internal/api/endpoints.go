package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nhle/mail-organizer/internal/model"
)

// ListQuery selects one page of the message list.
type ListQuery struct {
	UserID   int64
	Offset   int
	Limit    int
	Source   model.SourceFilter
	Category string
}

func userQuery(userID int64) url.Values {
	q := url.Values{}
	q.Set("user_id", strconv.FormatInt(userID, 10))
	return q
}

// Health returns the backend's self-reported status.
func (c *Client) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// Me resolves the signed-in user and their linked providers.
func (c *Client) Me(ctx context.Context, userID int64) (*model.UserInfo, error) {
	var info model.UserInfo
	if err := c.get(ctx, "/auth/me", userQuery(userID), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// LoginURL requests the external authorization URL.
func (c *Client) LoginURL(ctx context.Context) (string, error) {
	var resp struct {
		AuthURL string `json:"auth_url"`
	}
	if err := c.get(ctx, "/auth/login", nil, &resp); err != nil {
		return "", err
	}
	if resp.AuthURL == "" {
		return "", fmt.Errorf("GET /auth/login: empty auth_url")
	}
	return resp.AuthURL, nil
}

// Categories returns the classification vocabulary.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var resp struct {
		Categories []string `json:"categories"`
	}
	if err := c.get(ctx, "/api/classify/categories", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// ListMessages fetches one page of mail summaries.
func (c *Client) ListMessages(ctx context.Context, lq ListQuery) (*model.MailListResponse, error) {
	q := userQuery(lq.UserID)
	q.Set("offset", strconv.Itoa(lq.Offset))
	q.Set("limit", strconv.Itoa(lq.Limit))
	if src := lq.Source.QueryValue(); src != "" {
		q.Set("source", src)
	}
	if lq.Category != "" {
		q.Set("category", lq.Category)
	}

	var resp model.MailListResponse
	if err := c.get(ctx, "/api/inbox/messages", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MessageDetail fetches the full message, routed by provider.
func (c *Client) MessageDetail(ctx context.Context, userID int64, source model.Source, mailID int64) (*model.MailDetail, error) {
	var path string
	switch source {
	case model.SourceGmail:
		path = "/api/gmail/messages/"
	case model.SourceNaver:
		path = "/api/naver/messages/"
	default:
		return nil, fmt.Errorf("message detail: unknown source %q", source)
	}

	var detail model.MailDetail
	if err := c.get(ctx, path+strconv.FormatInt(mailID, 10), userQuery(userID), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Sync pulls new mail from one provider and returns how many were stored.
func (c *Client) Sync(ctx context.Context, userID int64, source model.Source, maxResults int) (int, error) {
	q := userQuery(userID)
	q.Set("max_results", strconv.Itoa(maxResults))

	var resp struct {
		Synced int `json:"synced"`
	}
	if err := c.post(ctx, "/api/"+string(source)+"/sync", q, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Synced, nil
}

// ClassifyRequest scopes an AI classification run. Empty fields are omitted.
type ClassifyRequest struct {
	Source  model.SourceFilter
	MailIDs []int64
}

// Classify runs AI classification.
func (c *Client) Classify(ctx context.Context, userID int64, req ClassifyRequest) (*model.ClassifyResponse, error) {
	q := userQuery(userID)
	if src := req.Source.QueryValue(); src != "" {
		q.Set("source", src)
	}
	for _, id := range req.MailIDs {
		q.Add("mail_ids", strconv.FormatInt(id, 10))
	}

	var resp model.ClassifyResponse
	if err := c.post(ctx, "/api/classify/mails", q, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ApplyLabels mirrors classifications as Gmail labels.
func (c *Client) ApplyLabels(ctx context.Context, userID int64, mailIDs []int64) (int, error) {
	body := struct {
		MailIDs []int64 `json:"mail_ids"`
	}{MailIDs: mailIDs}

	var resp struct {
		Applied int `json:"applied"`
	}
	if err := c.post(ctx, "/api/gmail/apply-labels", userQuery(userID), body, &resp); err != nil {
		return 0, err
	}
	return resp.Applied, nil
}

// UpdateClassification records a human correction.
func (c *Client) UpdateClassification(ctx context.Context, userID, classificationID int64, newCategory string) error {
	body := struct {
		ClassificationID int64  `json:"classification_id"`
		NewCategory      string `json:"new_category"`
	}{ClassificationID: classificationID, NewCategory: newCategory}

	return c.put(ctx, "/api/classify/update", userQuery(userID), body, nil)
}

// CategoryCounts returns per-category totals for the source scope.
func (c *Client) CategoryCounts(ctx context.Context, userID int64, source model.SourceFilter) (*model.CategoryCounts, error) {
	q := userQuery(userID)
	if src := source.QueryValue(); src != "" {
		q.Set("source", src)
	}

	var counts model.CategoryCounts
	if err := c.get(ctx, "/api/inbox/category-counts", q, &counts); err != nil {
		return nil, err
	}
	return &counts, nil
}

// FeedbackStats returns the correction summary.
func (c *Client) FeedbackStats(ctx context.Context, userID int64) (*model.FeedbackStats, error) {
	var stats model.FeedbackStats
	if err := c.get(ctx, "/api/classify/feedback-stats", userQuery(userID), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ConnectNaver links a Naver mailbox using an app password.
func (c *Client) ConnectNaver(ctx context.Context, userID int64, email, appPassword string) error {
	body := struct {
		NaverEmail       string `json:"naver_email"`
		NaverAppPassword string `json:"naver_app_password"`
	}{NaverEmail: email, NaverAppPassword: appPassword}

	return c.post(ctx, "/api/naver/connect", userQuery(userID), body, nil)
}
