package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"mathwave_backend/internal/config"
	"mathwave_backend/internal/model"
	"mathwave_backend/internal/repository"
	"mathwave_backend/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ZoomService 封装 Zoom OAuth 授权与会议创建 API
type ZoomService struct {
	Config    *config.ZoomConfig
	ClassRepo *repository.ClassRepository
	Client    *http.Client
	Logger    *zap.Logger
}

func NewZoomService(cfg *config.ZoomConfig, classRepo *repository.ClassRepository, logger *zap.Logger) *ZoomService {
	return &ZoomService{
		Config:    cfg,
		ClassRepo: classRepo,
		Client:    &http.Client{Timeout: 15 * time.Second},
		Logger:    logger,
	}
}

// AuthURL 生成 Zoom OAuth 授权跳转地址，state 携带发起授权的用户 ID
func (s *ZoomService) AuthURL(userID uint) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", s.Config.ClientID)
	q.Set("redirect_uri", s.Config.RedirectURI)
	q.Set("state", strconv.FormatUint(uint64(userID), 10))
	return s.Config.AuthBaseURL + "/oauth/authorize?" + q.Encode()
}

type zoomTokenResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

func (s *ZoomService) basicAuth() string {
	return base64.StdEncoding.EncodeToString([]byte(s.Config.ClientID + ":" + s.Config.ClientSecret))
}

func (s *ZoomService) requestToken(form url.Values) (*zoomTokenResp, error) {
	req, err := http.NewRequest("POST", s.Config.AuthBaseURL+"/oauth/token", bytes.NewBufferString(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+s.basicAuth())

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("zoom token endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var token zoomTokenResp
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, err
	}
	return &token, nil
}

// HandleCallback 用授权码换取令牌并保存到教师的凭据记录
func (s *ZoomService) HandleCallback(userID uint, code string) error {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", s.Config.RedirectURI)

	token, err := s.requestToken(form)
	if err != nil {
		return err
	}

	cred := &model.ZoomCredential{
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(token.ExpiresIn) * time.Second),
	}
	return s.ClassRepo.UpsertCredential(cred)
}

// ensureToken 返回可用的访问令牌，过期则先刷新。
// 提前一分钟视为过期，避免请求途中令牌失效。
func (s *ZoomService) ensureToken(userID uint) (string, error) {
	cred, err := s.ClassRepo.FindCredential(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", util.ErrZoomNotConnected
		}
		return "", err
	}

	if time.Now().Before(cred.ExpiresAt.Add(-time.Minute)) {
		return cred.AccessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", cred.RefreshToken)

	token, err := s.requestToken(form)
	if err != nil {
		s.Logger.Error("刷新 Zoom 令牌失败", zap.Uint("user_id", userID), zap.Error(err))
		return "", util.ErrZoomNotConnected
	}

	cred.AccessToken = token.AccessToken
	cred.RefreshToken = token.RefreshToken
	cred.ExpiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	if err := s.ClassRepo.SaveCredential(cred); err != nil {
		return "", err
	}
	return cred.AccessToken, nil
}

// ZoomMeeting Zoom 创建会议接口返回的关键字段
type ZoomMeeting struct {
	ID       int64  `json:"id"`
	JoinURL  string `json:"join_url"`
	StartURL string `json:"start_url"`
}

// 每门课默认排 10 次周课
const recurringSessions = 10

// CreateMeeting 以教师身份创建每周重复的系列会议
func (s *ZoomService) CreateMeeting(ctx context.Context, userID uint, topic string, startTime time.Time, durationMinutes int) (*ZoomMeeting, error) {
	accessToken, err := s.ensureToken(userID)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"topic":      topic,
		"type":       8, // 固定时间的重复会议
		"start_time": startTime.UTC().Format(time.RFC3339),
		"duration":   durationMinutes,
		"recurrence": map[string]interface{}{
			"type":            2, // 按周
			"repeat_interval": 1,
			"end_times":       recurringSessions,
		},
		"settings": map[string]interface{}{
			"join_before_host": false,
			"waiting_room":     true,
		},
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.Config.APIBaseURL+"/users/me/meetings", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("zoom create meeting returned status %d: %s", resp.StatusCode, string(body))
	}

	var meeting ZoomMeeting
	if err := json.NewDecoder(resp.Body).Decode(&meeting); err != nil {
		return nil, err
	}
	return &meeting, nil
}
