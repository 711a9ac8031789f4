package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/internal/storage"
)

type messageDoc struct {
	ID     string    `bson:"id"`
	Sender string    `bson:"sender"`
	Text   string    `bson:"text"`
	Time   time.Time `bson:"time"`
}

type participantDoc struct {
	ID         string `bson:"id"`
	Name       string `bson:"name"`
	Avatar     string `bson:"avatar"`
	Status     string `bson:"status"`
	Role       string `bson:"role"`
	TrustScore int    `bson:"trust_score"`
	Verified   bool   `bson:"verified"`
}

// threadDoc — документ коллекции threads.
// order_key задаёт порядок в ящике: больше = выше.
type threadDoc struct {
	ID             string         `bson:"_id"`
	OwnerID        string         `bson:"owner_id"`
	ListingID      string         `bson:"listing_id"`
	CounterpartyID string         `bson:"counterparty_id"`
	Item           string         `bson:"item"`
	Participant    participantDoc `bson:"participant"`
	LastMessage    string         `bson:"last_message"`
	LastTimestamp  time.Time      `bson:"last_timestamp"`
	Unread         int            `bson:"unread"`
	Status         string         `bson:"status"`
	Messages       []messageDoc   `bson:"messages"`
	OrderKey       int64          `bson:"order_key"`
}

func toDoc(t *models.Thread, orderKey int64) threadDoc {
	msgs := make([]messageDoc, 0, len(t.Messages))
	for _, m := range t.Messages {
		msgs = append(msgs, messageDoc{
			ID:     m.ID.String(),
			Sender: string(m.Sender),
			Text:   m.Text,
			Time:   m.Time.UTC(),
		})
	}

	p := t.Participant

	return threadDoc{
		ID:             t.ID.String(),
		OwnerID:        t.OwnerID.String(),
		ListingID:      t.ListingID,
		CounterpartyID: p.ID.String(),
		Item:           t.Item,
		Participant: participantDoc{
			ID:         p.ID.String(),
			Name:       p.Name,
			Avatar:     p.Avatar,
			Status:     p.Status,
			Role:       string(p.Role),
			TrustScore: p.TrustScore,
			Verified:   p.Verified,
		},
		LastMessage:   t.LastMessage,
		LastTimestamp: t.LastTimestamp.UTC(),
		Unread:        t.Unread,
		Status:        string(t.Status),
		Messages:      msgs,
		OrderKey:      orderKey,
	}
}

func fromDoc(d threadDoc) (*models.Thread, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("thread id: %w", err)
	}

	owner, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("owner id: %w", err)
	}

	pid, err := uuid.Parse(d.Participant.ID)
	if err != nil {
		return nil, fmt.Errorf("participant id: %w", err)
	}

	msgs := make([]models.Message, 0, len(d.Messages))
	for _, m := range d.Messages {
		mid, err := uuid.Parse(m.ID)
		if err != nil {
			return nil, fmt.Errorf("message id: %w", err)
		}

		msgs = append(msgs, models.Message{
			ID:     mid,
			Sender: models.Sender(m.Sender),
			Text:   m.Text,
			Time:   m.Time,
		})
	}

	return &models.Thread{
		ID:        id,
		OwnerID:   owner,
		ListingID: d.ListingID,
		Item:      d.Item,
		Participant: models.Participant{
			ID:         pid,
			Name:       d.Participant.Name,
			Avatar:     d.Participant.Avatar,
			Status:     d.Participant.Status,
			Role:       models.Role(d.Participant.Role),
			TrustScore: d.Participant.TrustScore,
			Verified:   d.Participant.Verified,
		},
		LastMessage:   d.LastMessage,
		LastTimestamp: d.LastTimestamp,
		Unread:        d.Unread,
		Status:        models.ThreadStatus(d.Status),
		Messages:      msgs,
	}, nil
}

var (
	orderMu   sync.Mutex
	lastOrder int64
)

// nextOrderKey — строго возрастающий ключ порядка в пределах процесса.
func nextOrderKey() int64 {
	orderMu.Lock()
	defer orderMu.Unlock()

	k := time.Now().UnixNano()
	if k <= lastOrder {
		k = lastOrder + 1
	}
	lastOrder = k

	return k
}

func byOwnerAndID(ownerID, id uuid.UUID) bson.D {
	return bson.D{{Key: "_id", Value: id.String()}, {Key: "owner_id", Value: ownerID.String()}}
}

func (m *Mongo) findOne(ctx context.Context, filter bson.D) (*models.Thread, error) {
	var d threadDoc
	if err := m.threads.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}

		return nil, err
	}

	return fromDoc(d)
}

func (m *Mongo) ThreadByKey(ctx context.Context, key models.ThreadKey) (*models.Thread, error) {
	const op = "storage/mongo/ThreadByKey"

	t, err := m.findOne(ctx, bson.D{
		{Key: "owner_id", Value: key.OwnerID.String()},
		{Key: "listing_id", Value: key.ListingID},
		{Key: "counterparty_id", Value: key.CounterpartyID.String()},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

func (m *Mongo) ThreadByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Thread, error) {
	const op = "storage/mongo/ThreadByID"

	t, err := m.findOne(ctx, byOwnerAndID(ownerID, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

// SaveThread — upsert документа целиком; переписка поднимается в начало ящика.
func (m *Mongo) SaveThread(ctx context.Context, t *models.Thread) error {
	const op = "storage/mongo/SaveThread"

	if t.Status == models.ThreadDestroyed {
		return fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	doc := toDoc(t, nextOrderKey())

	_, err := m.threads.ReplaceOne(ctx, byOwnerAndID(t.OwnerID, t.ID), doc, options.Replace().SetUpsert(true))
	if err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (m *Mongo) UpdateThreadStatus(ctx context.Context, ownerID, id uuid.UUID, status models.ThreadStatus) error {
	const op = "storage/mongo/UpdateThreadStatus"

	if status == models.ThreadDestroyed {
		return fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	return m.updateOne(ctx, op, ownerID, id, bson.D{{Key: "status", Value: string(status)}})
}

func (m *Mongo) MarkThreadRead(ctx context.Context, ownerID, id uuid.UUID) error {
	const op = "storage/mongo/MarkThreadRead"

	return m.updateOne(ctx, op, ownerID, id, bson.D{{Key: "unread", Value: 0}})
}

func (m *Mongo) updateOne(ctx context.Context, op string, ownerID, id uuid.UUID, set bson.D) error {
	res, err := m.threads.UpdateOne(ctx, byOwnerAndID(ownerID, id), bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

func (m *Mongo) DeleteThread(ctx context.Context, ownerID, id uuid.UUID) error {
	const op = "storage/mongo/DeleteThread"

	res, err := m.threads.DeleteOne(ctx, byOwnerAndID(ownerID, id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

func (m *Mongo) ListThreads(ctx context.Context, ownerID uuid.UUID) ([]models.Thread, error) {
	const op = "storage/mongo/ListThreads"

	cur, err := m.threads.Find(ctx,
		bson.D{{Key: "owner_id", Value: ownerID.String()}},
		options.Find().SetSort(bson.D{{Key: "order_key", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	out := make([]models.Thread, 0)
	for cur.Next(ctx) {
		var d threadDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		t, err := fromDoc(d)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, *t)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}
