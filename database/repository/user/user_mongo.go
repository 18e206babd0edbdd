package userRepo

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

// UserRepository is the user-directory surface the core depends on: name,
// timezone and push token lookups. Profile management owns the rest.
type UserRepository interface {
	GetByID(userID string) (*models.User, error)
}

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo constructs a new instance of MongoUserRepo.
func NewMongoUserRepo() UserRepository {
	db := database.MongoClient.Database("mindwell")
	return &MongoUserRepo{
		coll: db.Collection("users"),
	}
}

func (repo *MongoUserRepo) GetByID(userID string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	filter := bson.M{"id": userID}
	if err := repo.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("user", fmt.Sprintf("id %s", userID))
		}
		return nil, fmt.Errorf("error fetching user with id %s: %w", userID, err)
	}
	return &user, nil
}
