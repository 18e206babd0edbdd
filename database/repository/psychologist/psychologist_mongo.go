package psychologistRepo

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

// MongoPsychologistRepo implements PsychologistRepository using MongoDB.
type MongoPsychologistRepo struct {
	coll *mongo.Collection
}

// NewMongoPsychologistRepo constructs a new instance of MongoPsychologistRepo.
func NewMongoPsychologistRepo() PsychologistRepository {
	db := database.MongoClient.Database("mindwell")
	return &MongoPsychologistRepo{
		coll: db.Collection("psychologists"),
	}
}

func (repo *MongoPsychologistRepo) GetByID(psychologistID string) (*models.Psychologist, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var psychologist models.Psychologist
	filter := bson.M{"id": psychologistID}
	if err := repo.coll.FindOne(ctx, filter).Decode(&psychologist); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("psychologist", fmt.Sprintf("id %s", psychologistID))
		}
		return nil, fmt.Errorf("error fetching psychologist with id %s: %w", psychologistID, err)
	}
	return &psychologist, nil
}

func (repo *MongoPsychologistRepo) ListByIDs(psychologistIDs []string) ([]models.Psychologist, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": bson.M{"$in": psychologistIDs}}
	cursor, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching psychologists: %w", err)
	}
	defer cursor.Close(ctx)

	var psychologists []models.Psychologist
	if err := cursor.All(ctx, &psychologists); err != nil {
		return nil, fmt.Errorf("error decoding psychologists: %w", err)
	}
	return psychologists, nil
}

// FindCoveringSlot relies on zero-padded "HH:MM:SS" strings, which compare
// correctly under Mongo's lexicographic $lte/$gte.
func (repo *MongoPsychologistRepo) FindCoveringSlot(dayOfWeek int, start, end string) ([]models.Psychologist, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"weeklyAvailability": bson.M{
			"$elemMatch": bson.M{
				"dayOfWeek": dayOfWeek,
				"startTime": bson.M{"$lte": start},
				"endTime":   bson.M{"$gte": end},
			},
		},
	}
	cursor, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error finding psychologists covering slot: %w", err)
	}
	defer cursor.Close(ctx)

	var psychologists []models.Psychologist
	if err := cursor.All(ctx, &psychologists); err != nil {
		return nil, fmt.Errorf("error decoding psychologists: %w", err)
	}
	return psychologists, nil
}
