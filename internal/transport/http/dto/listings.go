// dto — JSON-представления HTTP API и конвертеры из доменных моделей.
// Время передаётся в RFC 3339 (UTC), деньги — целыми долларами.
package dto

import (
	"time"

	"github.com/pribylovaa/go-iso-board/internal/feed"
	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/internal/service"
)

// UserRef — публичная карточка пользователя.
type UserRef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
	TrustScore int    `json:"trust_score"`
}

type Comment struct {
	ID        string    `json:"id"`
	Author    UserRef   `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type Bid struct {
	ID          string    `json:"id"`
	Bidder      UserRef   `json:"bidder"`
	Price       int64     `json:"price"`
	Condition   string    `json:"condition,omitempty"`
	FindersNote string    `json:"finders_note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Acquisition struct {
	Price      int64     `json:"price"`
	HasBuyback bool      `json:"has_buyback"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// Listing — карточка объявления. DaysLeft считается на момент ответа.
type Listing struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Category      string       `json:"category"`
	Details       string       `json:"details"`
	TopOffer      int64        `json:"top_offer"`
	Upvotes       int64        `json:"upvotes"`
	Comments      int          `json:"comments"`
	CommentsList  []Comment    `json:"comments_list"`
	ImageURL      string       `json:"image_url"`
	Owner         UserRef      `json:"owner"`
	FundsVerified bool         `json:"funds_verified"`
	CreatedAt     time.Time    `json:"created_at"`
	Duration      int          `json:"duration"`
	DaysLeft      int          `json:"days_left"`
	ExpiresAt     time.Time    `json:"expires_at"`
	Finder        *UserRef     `json:"finder,omitempty"`
	Acquired      *Acquisition `json:"acquired,omitempty"`
	Bids          []Bid        `json:"bids,omitempty"`
}

// FeedQuery — эхо применённых фильтров.
type FeedQuery struct {
	Category       string `json:"category"`
	Search         string `json:"search,omitempty"`
	MinBudget      *int64 `json:"min_budget,omitempty"`
	MaxBudget      *int64 `json:"max_budget,omitempty"`
	FundsVerified  bool   `json:"funds_verified"`
	FinderAssigned bool   `json:"finder_assigned"`
	Sort           string `json:"sort"`
}

// Feed — лента. Empty — отдельное состояние «ничего не найдено».
type Feed struct {
	Items []Listing `json:"items"`
	Total int       `json:"total"`
	Empty bool      `json:"empty"`
	Query FeedQuery `json:"query"`
}

type Dashboard struct {
	MyHunts     []Listing `json:"my_hunts"`
	Collection  []Listing `json:"collection"`
	ActionItems []Listing `json:"action_items"`
}

// ImageInput — изображение в теле запроса; Data — base64 в JSON.
type ImageInput struct {
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

func (in *ImageInput) ToService() *service.ImageUpload {
	if in == nil || len(in.Data) == 0 {
		return nil
	}
	return &service.ImageUpload{ContentType: in.ContentType, Data: in.Data}
}

type CreateListingRequest struct {
	Name     string      `json:"name"`
	Category string      `json:"category"`
	Details  string      `json:"details"`
	TopOffer int64       `json:"top_offer"`
	Duration int         `json:"duration,omitempty"`
	ImageURL string      `json:"image_url,omitempty"`
	Image    *ImageInput `json:"image,omitempty"`
}

func (r CreateListingRequest) ToService() service.CreateListingInput {
	return service.CreateListingInput{
		Name:     r.Name,
		Category: r.Category,
		Details:  r.Details,
		TopOffer: r.TopOffer,
		Duration: r.Duration,
		ImageURL: r.ImageURL,
		Image:    r.Image.ToService(),
	}
}

// TopOfferRequest — значение как его ввёл пользователь ("$1200", "1200").
type TopOfferRequest struct {
	Value string `json:"value"`
}

type TopOfferResponse struct {
	TopOffer int64 `json:"top_offer"`
}

type CoSignResponse struct {
	Upvotes int64 `json:"upvotes"`
}

type CommentRequest struct {
	Text string `json:"text"`
}

type CommentResponse struct {
	Comment  Comment `json:"comment"`
	Comments int     `json:"comments"`
}

type Compliance struct {
	Possession  bool `json:"possession"`
	OffPlatform bool `json:"off_platform"`
	Identity    bool `json:"identity"`
}

type ProposalRequest struct {
	OfferPrice  int64      `json:"offer_price"`
	Message     string     `json:"message"`
	Compliance  Compliance `json:"compliance"`
	Condition   string     `json:"condition,omitempty"`
	FindersNote string     `json:"finders_note,omitempty"`
}

func (r ProposalRequest) ToService() service.ProposalInput {
	return service.ProposalInput{
		OfferPrice: r.OfferPrice,
		Message:    r.Message,
		Compliance: service.Compliance{
			Possession:  r.Compliance.Possession,
			OffPlatform: r.Compliance.OffPlatform,
			Identity:    r.Compliance.Identity,
		},
		Condition:   r.Condition,
		FindersNote: r.FindersNote,
	}
}

// ThreadRef — ответ операций, открывающих переписку.
type ThreadRef struct {
	ThreadID string `json:"thread_id"`
}

type FinderRequest struct {
	FinderID string `json:"finder_id"`
}

type AcquiredRequest struct {
	Price      int64 `json:"price"`
	HasBuyback bool  `json:"has_buyback"`
}

func RefFromModel(r models.UserRef) UserRef {
	return UserRef{
		ID:         r.ID.String(),
		Name:       r.Name,
		Avatar:     r.Avatar,
		TrustScore: r.TrustScore,
	}
}

func CommentFromModel(c models.Comment) Comment {
	return Comment{
		ID:        c.ID.String(),
		Author:    RefFromModel(c.Author),
		Text:      c.Text,
		Timestamp: c.Timestamp,
	}
}

func BidsFromModel(in []models.Bid) []Bid {
	out := make([]Bid, 0, len(in))
	for _, b := range in {
		out = append(out, Bid{
			ID:          b.ID.String(),
			Bidder:      RefFromModel(b.Bidder),
			Price:       b.Price,
			Condition:   b.Condition,
			FindersNote: b.FindersNote,
			CreatedAt:   b.CreatedAt,
		})
	}
	return out
}

func AcquisitionFromModel(a *models.Acquisition) *Acquisition {
	if a == nil {
		return nil
	}
	return &Acquisition{Price: a.Price, HasBuyback: a.HasBuyback, AcquiredAt: a.AcquiredAt}
}

// ListingFromModel — now нужен для days_left.
func ListingFromModel(l *models.Listing, now time.Time) Listing {
	comments := make([]Comment, 0, len(l.CommentsList))
	for _, c := range l.CommentsList {
		comments = append(comments, CommentFromModel(c))
	}

	out := Listing{
		ID:            l.ID,
		Name:          l.Name,
		Category:      string(l.Category),
		Details:       l.Details,
		TopOffer:      l.TopOffer,
		Upvotes:       l.Upvotes,
		Comments:      l.Comments,
		CommentsList:  comments,
		ImageURL:      l.ImageURL,
		Owner:         RefFromModel(l.Owner),
		FundsVerified: l.FundsVerified,
		CreatedAt:     l.CreatedAt,
		Duration:      l.Duration,
		DaysLeft:      l.DaysLeft(now),
		ExpiresAt:     l.ExpiresAt(),
		Acquired:      AcquisitionFromModel(l.Acquired),
	}

	if l.Finder != nil {
		f := RefFromModel(*l.Finder)
		out.Finder = &f
	}

	if len(l.Bids) > 0 {
		out.Bids = BidsFromModel(l.Bids)
	}

	return out
}

func ListingsFromModel(in []models.Listing, now time.Time) []Listing {
	out := make([]Listing, 0, len(in))
	for i := range in {
		out = append(out, ListingFromModel(&in[i], now))
	}
	return out
}

func FeedFromResult(res feed.Result, now time.Time) Feed {
	return Feed{
		Items: ListingsFromModel(res.Items, now),
		Total: res.Total,
		Empty: res.Empty,
		Query: FeedQuery{
			Category:       res.Query.Category,
			Search:         res.Query.Search,
			MinBudget:      res.Query.MinBudget,
			MaxBudget:      res.Query.MaxBudget,
			FundsVerified:  res.Query.FundsVerified,
			FinderAssigned: res.Query.FinderAssigned,
			Sort:           string(res.Query.Sort),
		},
	}
}

func DashboardFromService(d *service.Dashboard, now time.Time) Dashboard {
	return Dashboard{
		MyHunts:     ListingsFromModel(d.MyHunts, now),
		Collection:  ListingsFromModel(d.Collection, now),
		ActionItems: ListingsFromModel(d.ActionItems, now),
	}
}
