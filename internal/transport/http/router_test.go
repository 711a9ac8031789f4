package http

// Сквозные тесты HTTP API: chi-роутер + настоящий service поверх memory-хранилища.
// Генератор — gomock-мок из /mocks.

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-iso-board/internal/config"
	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/internal/service"
	"github.com/pribylovaa/go-iso-board/internal/storage/memory"
	"github.com/pribylovaa/go-iso-board/internal/transport/http/dto"
	"github.com/pribylovaa/go-iso-board/internal/transport/http/middleware"
	"github.com/pribylovaa/go-iso-board/mocks"
)

func testConfig() *config.Config {
	return &config.Config{
		Images: config.ImagesConfig{
			MaxSizeBytes:        1 << 20,
			AllowedContentTypes: []string{"image/jpeg", "image/png"},
			Placeholder:         "https://placehold.co/600x400?text=No+Image",
		},
		Auth: config.AuthConfig{
			JWTSecret:      "router-secret",
			AccessTokenTTL: time.Hour,
			Issuer:         "iso-board",
			Audience:       []string{"iso-board"},
		},
		AI: config.AIConfig{
			Timeout:         time.Second,
			InsightsTTL:     time.Hour,
			DefaultCategory: "Collectibles",
		},
		Listings: config.ListingsConfig{
			DefaultDuration:    30,
			PinTrustAbove:      85,
			VerifiedTrustAbove: 80,
			DefaultTrust:       50,
		},
	}
}

type testAPI struct {
	h   http.Handler
	svc *service.Service
	gen *mocks.MockGenerator
}

func newTestAPI(t *testing.T, opts Options) *testAPI {
	t.Helper()

	cfg := testConfig()
	st := memory.New(cfg.Images)
	svc := service.New(service.Stores{
		Listings: st,
		Users:    st,
		Threads:  st,
		Images:   st,
		Sessions: st,
		Drafts:   st,
	}, cfg)

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	gen := mocks.NewMockGenerator(ctrl)
	svc.SetGenerator(gen)

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.MaxBody == 0 {
		opts.MaxBody = 1 << 20
	}

	return &testAPI{h: NewRouter(svc, opts), svc: svc, gen: gen}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	a.h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func errCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code      string `json:"code"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	require.NotEmpty(t, env.Error.RequestID)
	return env.Error.Code
}

func (a *testAPI) signUp(t *testing.T, name string) dto.Session {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/auth/signup", "", dto.SignUpRequest{
		Email:    name + "@example.com",
		Password: "hunter2hunter2",
		Username: name,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[dto.Session](t, rr)
}

func (a *testAPI) createListing(t *testing.T, token, name string, topOffer int64) dto.Listing {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/listings", token, dto.CreateListingRequest{
		Name:     name,
		Category: "Sneakers",
		Details:  "DS, size 10",
		TopOffer: topOffer,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[dto.Listing](t, rr)
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t, Options{})

	sess := api.signUp(t, "collector")
	require.Equal(t, "Bearer", sess.TokenType)
	require.NotEmpty(t, sess.AccessToken)
	require.Equal(t, 20, sess.User.TrustScore)

	rr := api.do(t, http.MethodGet, "/me", sess.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "collector", decode[dto.User](t, rr).Name)

	rr = api.do(t, http.MethodPost, "/auth/signin", "", dto.SignInRequest{Email: "collector@example.com", Password: "wrong-pass1"})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "invalid_credentials", errCode(t, rr))

	rr = api.do(t, http.MethodPost, "/auth/signout", sess.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	// Отозванный токен больше не принимается.
	rr = api.do(t, http.MethodGet, "/me", sess.AccessToken, nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "invalid_token", errCode(t, rr))
}

func TestProtectedRoutes_RequireUser(t *testing.T) {
	api := newTestAPI(t, Options{})

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/me"},
		{http.MethodPost, "/listings"},
		{http.MethodGet, "/dashboard"},
		{http.MethodGet, "/threads"},
		{http.MethodPost, "/assistant/chat"},
		{http.MethodGet, "/threads/events"},
	} {
		rr := api.do(t, tc.method, tc.path, "", nil)
		require.Equal(t, http.StatusUnauthorized, rr.Code, tc.path)
		require.Equal(t, "unauthenticated", errCode(t, rr))
	}
}

func TestProfileAndOnboarding(t *testing.T) {
	api := newTestAPI(t, Options{})
	sess := api.signUp(t, "hunter")

	rr := api.do(t, http.MethodPatch, "/me", sess.AccessToken, map[string]any{
		"socials": map[string]any{"Instagram": map[string]any{"handle": "@hunter", "verified": true}},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	u := decode[dto.User](t, rr)
	require.Equal(t, 40, u.TrustScore)
	require.Contains(t, u.Socials, "instagram")

	onboard := dto.OnboardingRequest{
		Passport: dto.Passport{DOB: "1990-01-01", Origin: "US", Sex: "F"},
		Role:     "Collector",
	}
	rr = api.do(t, http.MethodPost, "/me/onboarding", sess.AccessToken, onboard)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.True(t, decode[dto.User](t, rr).Onboarded)

	rr = api.do(t, http.MethodPost, "/me/onboarding", sess.AccessToken, onboard)
	require.Equal(t, http.StatusConflict, rr.Code)
}

func TestListings_CRUDAndFeed(t *testing.T) {
	api := newTestAPI(t, Options{})
	owner := api.signUp(t, "owner")
	other := api.signUp(t, "other")

	l := api.createListing(t, owner.AccessToken, "Jordan 1 Chicago", 1500)
	require.Equal(t, 30, l.DaysLeft)
	require.Equal(t, "https://placehold.co/600x400?text=No+Image", l.ImageURL)
	api.createListing(t, owner.AccessToken, "Rolex Daytona", 30000)

	rr := api.do(t, http.MethodGet, "/listings?sort=price_low&min_budget=abc", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	f := decode[dto.Feed](t, rr)
	require.Equal(t, 2, f.Total)
	require.Equal(t, "Jordan 1 Chicago", f.Items[0].Name)
	require.Equal(t, "Price: Low", f.Query.Sort)
	require.Nil(t, f.Query.MinBudget)

	rr = api.do(t, http.MethodGet, "/listings?search=nothing-matches", "", nil)
	require.True(t, decode[dto.Feed](t, rr).Empty)

	rr = api.do(t, http.MethodPost, "/listings/"+l.ID+"/cosign", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.EqualValues(t, 1, decode[dto.CoSignResponse](t, rr).Upvotes)

	rr = api.do(t, http.MethodPost, "/listings/"+l.ID+"/comments", other.AccessToken, dto.CommentRequest{Text: "Saw a pair on Grailed"})
	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, 1, decode[dto.CommentResponse](t, rr).Comments)

	rr = api.do(t, http.MethodPatch, "/listings/"+l.ID+"/top-offer", other.AccessToken, dto.TopOfferRequest{Value: "2000"})
	require.Equal(t, http.StatusForbidden, rr.Code)
	require.Equal(t, "permission_denied", errCode(t, rr))

	rr = api.do(t, http.MethodPatch, "/listings/"+l.ID+"/top-offer", owner.AccessToken, dto.TopOfferRequest{Value: "lots"})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = api.do(t, http.MethodPatch, "/listings/"+l.ID+"/top-offer", owner.AccessToken, dto.TopOfferRequest{Value: "$1800"})
	require.Equal(t, http.StatusOK, rr.Code)
	require.EqualValues(t, 1800, decode[dto.TopOfferResponse](t, rr).TopOffer)

	rr = api.do(t, http.MethodDelete, "/listings/"+l.ID, owner.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = api.do(t, http.MethodGet, "/listings/"+l.ID, "", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "not_found", errCode(t, rr))

	// Отсутствующее объявление: co-sign без побочных эффектов.
	rr = api.do(t, http.MethodPost, "/listings/"+l.ID+"/cosign", "", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProposal_ThreadsBidsDashboard(t *testing.T) {
	api := newTestAPI(t, Options{})
	owner := api.signUp(t, "owner")
	seller := api.signUp(t, "seller")
	l := api.createListing(t, owner.AccessToken, "Submariner 5513", 9000)

	proposal := dto.ProposalRequest{
		OfferPrice: 8500,
		Message:    "Full set, serviced 2023",
		Compliance: dto.Compliance{Possession: true, OffPlatform: true, Identity: true},
		Condition:  "Excellent",
	}

	rr := api.do(t, http.MethodPost, "/listings/"+l.ID+"/proposals", owner.AccessToken, proposal)
	require.Equal(t, http.StatusForbidden, rr.Code)

	bad := proposal
	bad.Compliance.Identity = false
	rr = api.do(t, http.MethodPost, "/listings/"+l.ID+"/proposals", seller.AccessToken, bad)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = api.do(t, http.MethodPost, "/listings/"+l.ID+"/proposals", seller.AccessToken, proposal)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	ref := decode[dto.ThreadRef](t, rr)

	rr = api.do(t, http.MethodGet, "/threads/"+ref.ThreadID, seller.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	th := decode[dto.Thread](t, rr)
	require.Len(t, th.Messages, 1)
	require.True(t, strings.HasPrefix(th.Messages[0].Text, "OFFICIAL PROPOSAL: $8500"))

	rr = api.do(t, http.MethodGet, "/threads", owner.AccessToken, nil)
	inbox := decode[dto.Folder](t, rr)
	require.Equal(t, "active", inbox.Folder)
	require.Len(t, inbox.Threads, 1)
	require.Equal(t, 1, inbox.Threads[0].Unread)

	rr = api.do(t, http.MethodGet, "/listings/"+l.ID+"/bids", seller.AccessToken, nil)
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = api.do(t, http.MethodGet, "/listings/"+l.ID+"/bids", owner.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	bids := decode[[]dto.Bid](t, rr)
	require.Len(t, bids, 1)
	require.EqualValues(t, 8500, bids[0].Price)

	// Ставки в карточке видит только владелец.
	rr = api.do(t, http.MethodGet, "/listings/"+l.ID, seller.AccessToken, nil)
	require.Empty(t, decode[dto.Listing](t, rr).Bids)

	rr = api.do(t, http.MethodGet, "/dashboard", owner.AccessToken, nil)
	d := decode[dto.Dashboard](t, rr)
	require.Len(t, d.MyHunts, 1)
	require.Len(t, d.ActionItems, 1)
	require.Empty(t, d.Collection)

	rr = api.do(t, http.MethodPost, "/listings/"+l.ID+"/finder", owner.AccessToken, dto.FinderRequest{FinderID: bids[0].Bidder.ID})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = api.do(t, http.MethodPost, "/listings/"+l.ID+"/acquired", owner.AccessToken, dto.AcquiredRequest{Price: 8500, HasBuyback: true})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = api.do(t, http.MethodGet, "/dashboard", owner.AccessToken, nil)
	d = decode[dto.Dashboard](t, rr)
	require.Empty(t, d.MyHunts)
	require.Len(t, d.Collection, 1)
	require.True(t, d.Collection[0].Acquired.HasBuyback)
}

func TestThreads_StatusLifecycle(t *testing.T) {
	api := newTestAPI(t, Options{})
	owner := api.signUp(t, "owner")
	buyer := api.signUp(t, "buyer")
	l := api.createListing(t, owner.AccessToken, "Birkin 30", 20000)

	rr := api.do(t, http.MethodPost, "/listings/"+l.ID+"/messages", buyer.AccessToken, dto.MessageRequest{Text: "Still looking?"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	id := decode[dto.ThreadRef](t, rr).ThreadID

	rr = api.do(t, http.MethodPost, "/threads/"+id+"/status", buyer.AccessToken, dto.StatusRequest{Status: "delete"})
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = api.do(t, http.MethodPost, "/threads/"+id+"/messages", buyer.AccessToken, dto.MessageRequest{Text: "hello?"})
	require.Equal(t, http.StatusConflict, rr.Code)
	require.Equal(t, "thread_deleted", errCode(t, rr))

	rr = api.do(t, http.MethodGet, "/threads?folder=deleted", buyer.AccessToken, nil)
	require.Len(t, decode[dto.Folder](t, rr).Threads, 1)

	rr = api.do(t, http.MethodPost, "/threads/"+id+"/status", buyer.AccessToken, dto.StatusRequest{Status: "restore"})
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = api.do(t, http.MethodPost, "/threads/"+id+"/status", buyer.AccessToken, dto.StatusRequest{Status: "shred"})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = api.do(t, http.MethodPost, "/threads/"+id+"/status", buyer.AccessToken, dto.StatusRequest{Status: "destroy"})
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = api.do(t, http.MethodGet, "/threads/"+id, buyer.AccessToken, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)

	// Повторное удаление отсутствующей переписки — no-op.
	rr = api.do(t, http.MethodPost, "/threads/"+id+"/status", buyer.AccessToken, dto.StatusRequest{Status: "destroy"})
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = api.do(t, http.MethodGet, "/threads/not-a-uuid", buyer.AccessToken, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDecode_RejectsUnknownFieldsAndLargeBodies(t *testing.T) {
	api := newTestAPI(t, Options{MaxBody: 256})

	rr := api.do(t, http.MethodPost, "/auth/signup", "", `{"email":"a@b.c","password":"x","username":"abc","admin":true}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "bad_request", errCode(t, rr))

	rr = api.do(t, http.MethodPost, "/auth/signup", "", `{"email":"a@b.c"} {"x":1}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = api.do(t, http.MethodPost, "/auth/signup", "", `{"email":"`+strings.Repeat("a", 512)+`"}`)
	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	require.Equal(t, "payload_too_large", errCode(t, rr))
}

func TestDrafts_FinalizeAndCreateListing(t *testing.T) {
	api := newTestAPI(t, Options{})
	sess := api.signUp(t, "drafter")

	rr := api.do(t, http.MethodPost, "/drafts", sess.AccessToken, nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	d := decode[dto.Draft](t, rr)
	require.Equal(t, "collecting", d.State)

	api.gen.EXPECT().
		ExtractDraft(gomock.Any(), gomock.Any(), "need a 1998 Pokemon Charizard PSA 10", nil).
		Return(&models.DraftReply{Draft: &models.ListingDraft{
			Name:           "1998 Pokemon Charizard PSA 10",
			Category:       models.CategoryCollectibles,
			EstimatedValue: 12000,
		}}, nil)

	rr = api.do(t, http.MethodPost, "/drafts/"+d.ID+"/turns", sess.AccessToken, dto.DraftTurnRequest{Text: "need a 1998 Pokemon Charizard PSA 10"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	d = decode[dto.Draft](t, rr)
	require.Equal(t, "finalized", d.State)
	require.NotNil(t, d.Draft)
	require.Equal(t, "No details provided", d.Draft.Details)

	rr = api.do(t, http.MethodPost, "/drafts/"+d.ID+"/turns", sess.AccessToken, dto.DraftTurnRequest{Text: "more"})
	require.Equal(t, http.StatusConflict, rr.Code)
	require.Equal(t, "draft_finalized", errCode(t, rr))

	rr = api.do(t, http.MethodPost, "/drafts/"+d.ID+"/reopen", sess.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "collecting", decode[dto.Draft](t, rr).State)

	rr = api.do(t, http.MethodDelete, "/drafts/"+d.ID, sess.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = api.do(t, http.MethodGet, "/drafts/"+d.ID, sess.AccessToken, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAssistant_RateLimited(t *testing.T) {
	api := newTestAPI(t, Options{AILimiter: middleware.NewLimiter(1, 2)})
	sess := api.signUp(t, "chatty")

	api.gen.EXPECT().Chat(gomock.Any(), gomock.Len(1), "what is a grail?").Return("The one you want most.", nil).Times(2)

	body := dto.ChatRequest{
		History: []dto.ChatTurn{{Role: "user", Text: "hi"}, {Role: "system", Text: "ignored"}},
		Text:    "what is a grail?",
	}

	for range 2 {
		rr := api.do(t, http.MethodPost, "/assistant/chat", sess.AccessToken, body)
		require.Equal(t, http.StatusOK, rr.Code)
		require.Equal(t, "The one you want most.", decode[dto.ChatResponse](t, rr).Text)
	}

	rr := api.do(t, http.MethodPost, "/assistant/chat", sess.AccessToken, body)
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	require.Equal(t, "resource_exhausted", errCode(t, rr))
}

func TestInsights_Public(t *testing.T) {
	api := newTestAPI(t, Options{})

	api.gen.EXPECT().MarketInsight(gomock.Any(), "Nike Dunk Panda").Return(&models.MarketInsight{
		Text:    "Retail $110, resale ~$150.",
		Sources: []models.Source{{Title: "StockX", URI: "https://stockx.com"}},
	}, nil)

	rr := api.do(t, http.MethodGet, "/insights?item=Nike+Dunk+Panda", "", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	in := decode[dto.Insight](t, rr)
	require.False(t, in.Unavailable)
	require.Len(t, in.Sources, 1)
}

func TestBasePath(t *testing.T) {
	api := newTestAPI(t, Options{BasePath: "/api"})

	rr := api.do(t, http.MethodGet, "/api/listings", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = api.do(t, http.MethodGet, "/listings", "", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

// Владелец получает SSE-событие о входящем сообщении.
func TestThreadEvents_SSE(t *testing.T) {
	api := newTestAPI(t, Options{})
	owner := api.signUp(t, "owner")
	buyer := api.signUp(t, "buyer")
	l := api.createListing(t, owner.AccessToken, "Patek 5711", 100000)

	srv := httptest.NewServer(api.h)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/threads/events", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+owner.AccessToken)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	rr := api.do(t, http.MethodPost, "/listings/"+l.ID+"/messages", buyer.AccessToken, dto.MessageRequest{Text: "I have one"})
	require.Equal(t, http.StatusCreated, rr.Code)

	sc := bufio.NewScanner(resp.Body)
	var data string
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "data: ") {
			data = strings.TrimPrefix(line, "data: ")
			break
		}
	}
	require.NotEmpty(t, data)

	var ev dto.ThreadEvent
	require.NoError(t, json.Unmarshal([]byte(data), &ev))
	require.Equal(t, "active", ev.Status)
	require.NotNil(t, ev.Message)
	require.Equal(t, "them", ev.Message.Sender)
	require.Equal(t, "I have one", ev.Message.Text)
}
