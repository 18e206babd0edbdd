package schedulerRepo

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

// MongoSchedulerRepo implements SchedulerRepository using MongoDB.
type MongoSchedulerRepo struct {
	bookingColl  *mongo.Collection
	scheduleColl *mongo.Collection
	quotaColl    *mongo.Collection
}

// NewMongoSchedulerRepo constructs a new instance of MongoSchedulerRepo.
func NewMongoSchedulerRepo() SchedulerRepository {
	db := database.MongoClient.Database("mindwell")
	return &MongoSchedulerRepo{
		bookingColl:  db.Collection("bookings"),
		scheduleColl: db.Collection("schedules"),
		quotaColl:    db.Collection("org_quotas"),
	}
}

// countedStatuses are the booking states that hold a seat against capacity.
var countedStatuses = bson.A{models.BookingStatusScheduled, models.BookingStatusRescheduled}

// CountOverlappingBookings counts bookings overlapping [start, end) for one
// psychologist: booking.start < end AND start < booking.end.
func (repo *MongoSchedulerRepo) CountOverlappingBookings(psychologistID string, start, end time.Time) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"psychologistId": psychologistID,
		"status":         bson.M{"$in": countedStatuses},
		"startTime":      bson.M{"$lt": end},
		"endTime":        bson.M{"$gt": start},
	}
	count, err := repo.bookingColl.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("error counting overlapping bookings: %w", err)
	}
	return int(count), nil
}

// CountOverlappingBookingsBulk groups overlap counts by psychologist in a
// single aggregation so the batch availability check stays at two queries.
func (repo *MongoSchedulerRepo) CountOverlappingBookingsBulk(psychologistIDs []string, start, end time.Time) (map[string]int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"psychologistId": bson.M{"$in": psychologistIDs},
			"status":         bson.M{"$in": countedStatuses},
			"startTime":      bson.M{"$lt": end},
			"endTime":        bson.M{"$gt": start},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$psychologistId",
			"total": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := repo.bookingColl.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregation error: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		ID    string `bson:"_id"`
		Total int    `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("error decoding aggregation result: %w", err)
	}

	counts := make(map[string]int, len(results))
	for _, r := range results {
		counts[r.ID] = r.Total
	}
	return counts, nil
}

func (repo *MongoSchedulerRepo) GetBookingByID(bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var booking models.Booking
	filter := bson.M{"id": bookingID}
	if err := repo.bookingColl.FindOne(ctx, filter).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("booking", fmt.Sprintf("id %s", bookingID))
		}
		return nil, fmt.Errorf("error fetching booking with id %s: %w", bookingID, err)
	}
	return &booking, nil
}

func (repo *MongoSchedulerRepo) UpdateBookingStatus(bookingID, status string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": bookingID}
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	res, err := repo.bookingColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error updating booking %s status: %w", bookingID, err)
	}
	if res.MatchedCount == 0 {
		return utils.NewNotFoundError("booking", fmt.Sprintf("id %s", bookingID))
	}
	return nil
}

func (repo *MongoSchedulerRepo) UpdateBookingTimes(bookingID string, start, end time.Time, timezone string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": bookingID}
	update := bson.M{"$set": bson.M{
		"startTime": start,
		"endTime":   end,
		"timezone":  timezone,
		"status":    models.BookingStatusRescheduled,
		"updatedAt": time.Now().UTC(),
	}}
	res, err := repo.bookingColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error rescheduling booking %s: %w", bookingID, err)
	}
	if res.MatchedCount == 0 {
		return utils.NewNotFoundError("booking", fmt.Sprintf("id %s", bookingID))
	}
	return nil
}
