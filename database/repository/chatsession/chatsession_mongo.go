package chatsessionRepo

import (
	"context"
	"fmt"
	"time"

	"mindwell/database"
	"mindwell/models"
	"mindwell/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoChatSessionRepo implements ChatSessionRepository using MongoDB.
type MongoChatSessionRepo struct {
	sessionColl *mongo.Collection
	messageColl *mongo.Collection
}

// NewMongoChatSessionRepo constructs a new instance of MongoChatSessionRepo.
func NewMongoChatSessionRepo() ChatSessionRepository {
	db := database.MongoClient.Database("mindwell")
	return &MongoChatSessionRepo{
		sessionColl: db.Collection("chat_sessions"),
		messageColl: db.Collection("chat_messages"),
	}
}

func (repo *MongoChatSessionRepo) Create(session *models.ChatSession) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := repo.sessionColl.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("error creating chat session: %w", err)
	}
	return nil
}

func (repo *MongoChatSessionRepo) GetByID(sessionID string) (*models.ChatSession, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var session models.ChatSession
	filter := bson.M{"id": sessionID}
	if err := repo.sessionColl.FindOne(ctx, filter).Decode(&session); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("chat session", fmt.Sprintf("id %s", sessionID))
		}
		return nil, fmt.Errorf("error fetching chat session with id %s: %w", sessionID, err)
	}
	return &session, nil
}

func (repo *MongoChatSessionRepo) GetByBookingID(bookingID string) (*models.ChatSession, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var session models.ChatSession
	filter := bson.M{"bookingId": bookingID}
	if err := repo.sessionColl.FindOne(ctx, filter).Decode(&session); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("chat session", fmt.Sprintf("booking %s", bookingID))
		}
		return nil, fmt.Errorf("error fetching chat session for booking %s: %w", bookingID, err)
	}
	return &session, nil
}

// MarkActive only matches a still-pending session, which makes concurrent
// activation attempts (job, lazy activation, sweep) collapse to one winner.
func (repo *MongoChatSessionRepo) MarkActive(sessionID string, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": sessionID, "status": models.ChatStatusPending}
	update := bson.M{"$set": bson.M{
		"status":    models.ChatStatusActive,
		"isActive":  true,
		"startedAt": at,
		"updatedAt": at,
	}}
	res, err := repo.sessionColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("error activating chat session %s: %w", sessionID, err)
	}
	return res.ModifiedCount > 0, nil
}

// MarkEnded only matches a still-active session; a manual end racing the
// auto-end job leaves the loser a no-op.
func (repo *MongoChatSessionRepo) MarkEnded(sessionID string, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": sessionID, "status": models.ChatStatusActive}
	update := bson.M{"$set": bson.M{
		"status":    models.ChatStatusCompleted,
		"isActive":  false,
		"endedAt":   at,
		"updatedAt": at,
	}}
	res, err := repo.sessionColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("error ending chat session %s: %w", sessionID, err)
	}
	return res.ModifiedCount > 0, nil
}

// MarkCancelled retires a pending or active session, e.g. when its booking is
// cancelled. A cancelled session never matches FindOverdue again, which keeps
// the sweep from resurrecting a torn-down booking.
func (repo *MongoChatSessionRepo) MarkCancelled(sessionID string, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":     sessionID,
		"status": bson.M{"$in": bson.A{models.ChatStatusPending, models.ChatStatusActive}},
	}
	update := bson.M{"$set": bson.M{
		"status":    models.ChatStatusCancelled,
		"isActive":  false,
		"endedAt":   at,
		"updatedAt": at,
	}}
	res, err := repo.sessionColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("error cancelling chat session %s: %w", sessionID, err)
	}
	return res.ModifiedCount > 0, nil
}

func (repo *MongoChatSessionRepo) Reschedule(sessionID string, scheduledAt time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": sessionID}
	update := bson.M{"$set": bson.M{
		"status":      models.ChatStatusPending,
		"isActive":    false,
		"scheduledAt": scheduledAt,
		"startedAt":   nil,
		"endedAt":     nil,
		"updatedAt":   time.Now().UTC(),
	}}
	res, err := repo.sessionColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error rescheduling chat session %s: %w", sessionID, err)
	}
	if res.MatchedCount == 0 {
		return utils.NewNotFoundError("chat session", fmt.Sprintf("id %s", sessionID))
	}
	return nil
}

func (repo *MongoChatSessionRepo) FindOverdue(now time.Time) ([]models.ChatSession, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status":      models.ChatStatusPending,
		"isActive":    false,
		"scheduledAt": bson.M{"$lte": now},
	}
	cursor, err := repo.sessionColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error finding overdue chat sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.ChatSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("error decoding overdue chat sessions: %w", err)
	}
	return sessions, nil
}

func (repo *MongoChatSessionRepo) InsertMessage(message *models.ChatMessage) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := repo.messageColl.InsertOne(ctx, message); err != nil {
		return fmt.Errorf("error inserting chat message: %w", err)
	}
	return nil
}
