package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	lru "github.com/hashicorp/golang-lru"
	"github.com/usagipet/usagibot/usagibot/database/models"
	"github.com/usagipet/usagibot/usagibot/game"
)

const memberCardCacheSize = 256

// MemberCardService renders the 月うさぎ会員証 (member card) to a PNG via a
// headless browser. Rendered cards are cached on their visible fields, so a
// user who has not changed since the last render costs nothing.
type MemberCardService struct {
	images *ImageService
	cache  *lru.Cache
	logger *slog.Logger
}

type MemberCardData struct {
	Username   string
	ImageURL   string
	LookLabel  string
	Carrots    int64
	Streak     int
	DollStatus string
}

func NewMemberCardService(images *ImageService) *MemberCardService {
	cache, _ := lru.New(memberCardCacheSize)
	service := &MemberCardService{
		images: images,
		cache:  cache,
		logger: slog.With(slog.String("service", "member_card")),
	}

	service.testChromedpAvailability()
	return service
}

func (s *MemberCardService) testChromedpAvailability() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	chromedpCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	if err := chromedp.Run(chromedpCtx, chromedp.Navigate("data:text/html,<html><body>test</body></html>")); err != nil {
		s.logger.Error("chromedp not available - member card rendering will fail",
			slog.String("error", err.Error()))
	}
}

// CardData assembles the render model for a profile.
func (s *MemberCardService) CardData(username string, profile *models.Profile) MemberCardData {
	lookLabel := "ノーマル"
	switch profile.CurrentLook {
	case models.LookSunglasses:
		lookLabel = "サングラス装着中 😎"
	case models.LookPink:
		lookLabel = "ピンクに変身中 🎀"
	}

	dollStatus := "なし"
	if profile.HasItem(string(game.ItemSubstituteDoll)) {
		dollStatus = "あり 🧸"
	}

	return MemberCardData{
		Username:   username,
		ImageURL:   s.images.LookImageURL(profile.CurrentLook),
		LookLabel:  lookLabel,
		Carrots:    profile.CarrotCount,
		Streak:     profile.Streak,
		DollStatus: dollStatus,
	}
}

// Render returns the card PNG, reusing a cached render when every visible
// field matches.
func (s *MemberCardService) Render(ctx context.Context, data MemberCardData) ([]byte, error) {
	key := fmt.Sprintf("%s|%s|%d|%d|%s|%s",
		data.Username, data.ImageURL, data.Carrots, data.Streak, data.DollStatus, data.LookLabel)

	if cached, ok := s.cache.Get(key); ok {
		return cached.([]byte), nil
	}

	start := time.Now()

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	chromedpCtx, cancel := chromedp.NewContext(ctx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()

	chromedpCtx, cancel = context.WithTimeout(chromedpCtx, 15*time.Second)
	defer cancel()

	var imageBytes []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.Navigate("data:text/html,"+htmlContent),
		chromedp.WaitVisible("#member-card", chromedp.ByID),
		chromedp.Sleep(200*time.Millisecond),
		chromedp.Screenshot("#member-card", &imageBytes, chromedp.ByID),
	)
	if err != nil {
		s.logger.Error("Failed to render member card",
			slog.String("username", data.Username),
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("failed to render member card: %w", err)
	}

	s.cache.Add(key, imageBytes)

	s.logger.Info("Member card rendered",
		slog.String("username", data.Username),
		slog.Int("image_size", len(imageBytes)),
		slog.Duration("elapsed", time.Since(start)))
	return imageBytes, nil
}

var memberCardTemplate = template.Must(template.New("member_card").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { margin: 0; font-family: 'Hiragino Sans', 'Noto Sans JP', sans-serif; }
  #member-card {
    width: 420px;
    border-radius: 16px;
    overflow: hidden;
    background: linear-gradient(180deg, #1a1a2e 0%, #28284e 100%);
    color: #f5f5f5;
  }
  #member-card img { width: 100%; display: block; }
  .body { padding: 20px; }
  .title { font-size: 22px; font-weight: bold; }
  .divider { border-top: 1px solid #44446a; margin: 12px 0; }
  .row { font-size: 15px; color: #ccccdd; margin: 6px 0; }
  .look { font-size: 14px; color: #9999aa; margin-top: 10px; }
  .footer { padding: 12px 20px; font-size: 12px; color: #777788; }
</style>
</head>
<body>
<div id="member-card">
  <img src="{{.ImageURL}}" alt="">
  <div class="body">
    <div class="title">月うさぎ会員証 🌕</div>
    <div class="divider"></div>
    <div class="row">🥕 所持人参: {{.Carrots}} 本</div>
    <div class="row">🔥 連続記録: {{.Streak}} 日</div>
    <div class="row">🧸 身代わり人形: {{.DollStatus}}</div>
    <div class="look">状態: {{.LookLabel}}</div>
  </div>
  <div class="footer">{{.Username}}</div>
</div>
</body>
</html>`))

// generateHTML renders the template and percent-encodes every "#" so the
// result survives a data: URL intact. An unescaped "#" would start the URL
// fragment and truncate the document mid-stylesheet.
func (s *MemberCardService) generateHTML(data MemberCardData) (string, error) {
	var buf bytes.Buffer
	if err := memberCardTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	htmlContent := strings.ReplaceAll(buf.String(), "#", "%23")
	return htmlContent, nil
}
